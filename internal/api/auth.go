package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// AuthResponse is what login and registration hand back
type AuthResponse struct {
	AccessToken string
	Message     string
}

// User is the account record returned by the profile data endpoints
type User struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts the id under any of the keys the backend uses
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Email     string          `json:"email"`
		ID        json.RawMessage `json:"id"`
		UserID    json.RawMessage `json:"user_id"`
		IDUsuario json.RawMessage `json:"id_usuario"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.Name = raw.Name
	u.Email = raw.Email
	for _, candidate := range []json.RawMessage{raw.ID, raw.UserID, raw.IDUsuario} {
		if id := rawID(candidate); id != "" {
			u.ID = id
			break
		}
	}
	return nil
}

func rawID(m json.RawMessage) string {
	if len(m) == 0 || string(m) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(m, &n); err == nil {
		return n.String()
	}
	return ""
}

// NumericID returns the user id as a number, or 0 when it is not numeric
func (u *User) NumericID() int64 {
	n, err := strconv.ParseInt(u.ID, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/login", in, "login failed, check your credentials")
}

// Register creates an account. The backend may or may not log the new
// account in; AccessToken is empty when it does not.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/register", in, "registration failed")
}

func (c *Client) authenticate(ctx context.Context, path string, body any, fallback string) (*AuthResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	env, status, err := c.do(req, false, true)
	if err != nil {
		return nil, err
	}

	if !isOK(status) {
		msg := env.errorMessage()
		if msg == "" {
			msg = fallback
		}
		return nil, &Error{Status: status, Message: msg}
	}

	// login only counts when a token came back
	if path == "/login" && env.AccessToken == "" {
		return nil, &Error{Status: status, Message: fmt.Sprintf("%s: no access token in response", fallback)}
	}

	return &AuthResponse{AccessToken: env.AccessToken, Message: env.Message}, nil
}
