package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Role is the kind of account a profile belongs to. Its value is the
// backend path segment.
type Role string

const (
	Freelancer Role = "freelancer"
	Company    Role = "empresa"
)

// ParseRole accepts the role names used on the command line
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "freelancer", "dev", "developer":
		return Freelancer, nil
	case "company", "empresa", "business":
		return Company, nil
	}
	return "", fmt.Errorf("unknown account category %q (use freelancer or company)", s)
}

// Category describes an account category offered at sign-up
type Category struct {
	Role        Role
	Title       string
	Description string
}

// Categories lists the account categories in display order
var Categories = []Category{
	{
		Role:        Company,
		Title:       "Company / Business owner",
		Description: "For people hiring services. Pick this if you need a website, system, app or other digital solution.",
	},
	{
		Role:        Freelancer,
		Title:       "Developer / Freelancer",
		Description: "For people offering development services. Pick this if you build websites, systems or apps.",
	},
}

// Profile loads the account data behind the stored token
func (c *Client) Profile(ctx context.Context, role Role) (*User, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/"+string(role)+"/dados", nil)
	if err != nil {
		return nil, err
	}

	env, status, err := c.do(req, true, false)
	if err != nil {
		return nil, err
	}

	if !env.Success || env.Usuario == nil {
		msg := env.errorMessage()
		if msg == "" {
			msg = "could not load profile data"
		}
		return nil, &Error{Status: status, Message: msg}
	}
	return env.Usuario, nil
}

// SubmitFreelancer completes a developer profile and returns the backend message
func (c *Client) SubmitFreelancer(ctx context.Context, f FreelancerForm) (string, error) {
	f = f.Normalize()
	if err := Validate(f); err != nil {
		return "", err
	}

	skills, err := json.Marshal(f.Skills)
	if err != nil {
		return "", err
	}

	var fields []formField
	if f.UserID != 0 {
		fields = append(fields, formField{"id_usuario", strconv.FormatInt(f.UserID, 10)})
	}
	fields = append(fields,
		formField{"apelido", f.Nickname},
		formField{"cpf_cnpj", f.Document},
		formField{"telefone", f.Phone},
	)
	fields = append(fields, addressFields(f.Address)...)
	fields = append(fields,
		formField{"area_de_atuacao", f.Area},
		formField{"biografia", f.Bio},
		formField{"senioridade", f.Seniority},
		formField{"habilidade_principal", f.Skills[0]},
		formField{"habilidades", string(skills)},
		formField{"data_nascimento", f.BirthDate},
		formField{"saldo", "0"},
		formField{"status", "ativo"},
		formField{"user_type", "freelancer"},
	)

	return c.submit(ctx, Freelancer, fields, f.Photo)
}

// SubmitCompany completes a company profile and returns the backend message
func (c *Client) SubmitCompany(ctx context.Context, f CompanyForm) (string, error) {
	f = f.Normalize()
	if err := Validate(f); err != nil {
		return "", err
	}

	fields := []formField{
		{"cpf_cnpj", f.Document},
		{"telefone", f.Phone},
	}
	fields = append(fields, addressFields(f.Address)...)
	fields = append(fields,
		formField{"area_de_atuacao", f.Area},
		formField{"biografia", f.Bio},
		formField{"saldo", strconv.Itoa(f.Balance)},
		formField{"status", "ativo"},
	)

	return c.submit(ctx, Company, fields, f.Photo)
}

type formField struct {
	name, value string
}

func addressFields(a Address) []formField {
	return []formField{
		{"cep", a.CEP},
		{"estado", a.State},
		{"cidade", a.City},
		{"bairro", a.District},
		{"rua", a.Street},
	}
}

func (c *Client) submit(ctx context.Context, role Role, fields []formField, photo string) (string, error) {
	body, contentType, err := encodeMultipart(fields, photo)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+string(role)+"/cadastrar", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	env, status, err := c.do(req, true, false)
	if err != nil {
		return "", err
	}

	if !env.Success {
		msg := env.errorMessage()
		if msg == "" {
			msg = "could not complete the registration"
		}
		return "", &Error{Status: status, Message: msg}
	}

	if env.Message == "" {
		return "registration completed", nil
	}
	return env.Message, nil
}

func encodeMultipart(fields []formField, photo string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if photo != "" {
		if err := attachPhoto(mw, photo); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func attachPhoto(mw *multipart.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer file.Close()

	filename := filepath.Base(path)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="foto"; filename="%s"`, filename))
	h.Set("Content-Type", photoContentType(filename))

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

// photoContentType derives image/<ext> from the file name, defaulting to JPEG
func photoContentType(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "image/jpeg"
	}
	return "image/" + ext
}
