package cep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01001-000", "01001000", false},
		{"01.001-000", "01001000", false},
		{" 01001000 ", "01001000", false},
		{"0100100", "", true},
		{"010010000", "", true},
		{"0100a000", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidCEP, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ws/01001000/json/":
			w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json/":
			w.Write([]byte(`{"erro":true}`))
		case "/ws/88888888/json/":
			w.Write([]byte(`{"erro":"true"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/ws/", 0)

	addr, err := c.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)
	assert.Equal(t, Address{
		CEP:      "01001-000",
		Street:   "Praça da Sé",
		District: "Sé",
		City:     "São Paulo",
		State:    "SP",
	}, *addr)
	assert.Equal(t, "Praça da Sé, Sé, São Paulo, SP", addr.String())

	_, err = c.Lookup(context.Background(), "99999-999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup(context.Background(), "88888888")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup(context.Background(), "12345678")
	assert.ErrorIs(t, err, ErrInvalidCEP)

	_, err = c.Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrInvalidCEP)
}

func TestLookupTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 20*time.Millisecond)
	_, err := c.Lookup(context.Background(), "01001000")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
