package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(srv.URL+"/api/", opts...)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dev@example.com", body["email"])
		assert.Equal(t, "hunter2hunter2", body["password"])

		w.Write([]byte(`{"access_token":"tok-123","message":"ok"}`))
	})

	resp, err := c.Login(context.Background(), LoginRequest{Email: "dev@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.AccessToken)
}

func TestLoginValidation(t *testing.T) {
	c := New("http://unused")

	_, err := c.Login(context.Background(), LoginRequest{Email: "", Password: "short"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"email is required",
		"password must have at least 8 characters",
	}, verr.Problems)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"backend message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"non JSON body", http.StatusInternalServerError, `<html>boom</html>`, "login failed, check your credentials"},
		{"ok without token", http.StatusOK, `{}`, "login failed, check your credentials: no access token in response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "12345678"})
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/register", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, body["password"], body["password_confirmation"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Account created","access_token":"new-tok"}`))
	})

	resp, err := c.Register(context.Background(), RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "s3cretpass", PasswordConfirmation: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-tok", resp.AccessToken)
	assert.Equal(t, "Account created", resp.Message)
}

func TestRegisterErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":{"email":["The email has already been taken."],"name":["The name is too long."]}}`))
	})

	_, err := c.Register(context.Background(), RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "s3cretpass", PasswordConfirmation: "s3cretpass",
	})
	require.Error(t, err)
	assert.Equal(t, "The email has already been taken.\nThe name is too long.", err.Error())

	_, err = c.Register(context.Background(), RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "s3cretpass", PasswordConfirmation: "different",
	})
	assert.EqualError(t, err, "password_confirmation does not match")
}

func TestProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/freelancer/dados", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"usuario":{"user_id":17,"name":"Ana","email":"ana@example.com"}}`))
	}, WithToken("tok"))

	u, err := c.Profile(context.Background(), Freelancer)
	require.NoError(t, err)
	assert.Equal(t, "17", u.ID)
	assert.Equal(t, int64(17), u.NumericID())
	assert.Equal(t, "Ana", u.Name)
}

func TestProfileErrors(t *testing.T) {
	_, err := New("http://unused").Profile(context.Background(), Company)
	assert.ErrorIs(t, err, ErrUnauthorized)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`Unauthenticated.`))
	}, WithToken("old"))
	_, err = c.Profile(context.Background(), Company)
	assert.ErrorIs(t, err, ErrUnauthorized)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html>`))
	}, WithToken("tok"))
	_, err = c.Profile(context.Background(), Company)
	assert.ErrorIs(t, err, ErrBadResponse)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Profile not found"}`))
	}, WithToken("tok"))
	_, err = c.Profile(context.Background(), Company)
	assert.EqualError(t, err, "Profile not found")
}

func TestSubmitFreelancer(t *testing.T) {
	photo := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(photo, []byte("png-bytes"), 0644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/freelancer/cadastrar", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		form := r.MultipartForm.Value
		assert.Equal(t, []string{"9"}, form["id_usuario"])
		assert.Equal(t, []string{"ana"}, form["apelido"])
		assert.Equal(t, []string{"12345678901"}, form["cpf_cnpj"])
		assert.Equal(t, []string{"11987654321"}, form["telefone"])
		assert.Equal(t, []string{"01001000"}, form["cep"])
		assert.Equal(t, []string{"Go"}, form["habilidade_principal"])
		assert.Equal(t, []string{`["Go","SQL"]`}, form["habilidades"])
		assert.Equal(t, []string{"2008-05-22"}, form["data_nascimento"])
		assert.Equal(t, []string{"0"}, form["saldo"])
		assert.Equal(t, []string{"ativo"}, form["status"])
		assert.Equal(t, []string{"freelancer"}, form["user_type"])

		files := r.MultipartForm.File["foto"]
		require.Len(t, files, 1)
		assert.Equal(t, "me.png", files[0].Filename)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))
		f, err := files[0].Open()
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "png-bytes", string(data))

		w.Write([]byte(`{"success":true}`))
	}, WithToken("tok"))

	msg, err := c.SubmitFreelancer(context.Background(), FreelancerForm{
		UserID:    9,
		Nickname:  "ana",
		Document:  "123.456.789-01",
		Phone:     "(11) 98765-4321",
		Address:   Address{CEP: "01001-000", State: "SP", City: "São Paulo"},
		Seniority: "senior",
		Skills:    []string{"Go", "SQL"},
		BirthDate: "22/05/2008",
		Photo:     photo,
	})
	require.NoError(t, err)
	assert.Equal(t, "registration completed", msg)
}

func TestSubmitFreelancerValidation(t *testing.T) {
	c := New("http://unused", WithToken("tok"))

	_, err := c.SubmitFreelancer(context.Background(), FreelancerForm{
		Skills:  []string{"a", "b", "c", "d"},
		Address: Address{CEP: "123"},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{
		"apelido is required",
		"senioridade is required",
		"habilidades must have at most 3 items",
		"cep must have exactly 8 characters",
	}, verr.Problems)
}

func TestSubmitCompany(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/empresa/cadastrar", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form := r.MultipartForm.Value
		assert.Equal(t, []string{"5000"}, form["saldo"])
		assert.Equal(t, []string{"12345678000190"}, form["cpf_cnpj"])
		assert.NotContains(t, form, "user_type")
		w.Write([]byte(`{"success":false,"message":"CNPJ already registered"}`))
	}, WithToken("tok"))

	_, err := c.SubmitCompany(context.Background(), CompanyForm{
		Document: "12.345.678/0001-90",
		Balance:  DefaultCompanyBalance,
	})
	assert.EqualError(t, err, "CNPJ already registered")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "01001000", DigitsOnly("01001-000"))
	assert.Equal(t, "2008-05-22", ISODate("22/5/2008"))
	assert.Equal(t, "2008-05-22", ISODate("22052008"))
	assert.Equal(t, "2008-05-22", ISODate("2008-05-22"))
	assert.Equal(t, "", ISODate(" "))
	assert.Equal(t, "image/jpeg", photoContentType("avatar"))
	assert.Equal(t, "image/webp", photoContentType("a.WEBP"))

	role, err := ParseRole("company")
	require.NoError(t, err)
	assert.Equal(t, Company, role)
	_, err = ParseRole("astronaut")
	assert.Error(t, err)
}
