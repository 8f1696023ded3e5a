// Package cep looks up Brazilian postal codes on ViaCEP.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCEP is returned for codes that are not exactly 8 digits
	ErrInvalidCEP = errors.New("CEP must have 8 digits")
	// ErrNotFound is returned when ViaCEP does not know the code
	ErrNotFound = errors.New("CEP not found")
)

// DefaultTimeout bounds a lookup so a slow service never blocks form entry
const DefaultTimeout = time.Second

// Address is the location ViaCEP resolves a code to
type Address struct {
	CEP      string `json:"cep"`
	Street   string `json:"logradouro"`
	District string `json:"bairro"`
	City     string `json:"localidade"`
	State    string `json:"uf"`
}

func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.District, a.City, a.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the service at baseURL (e.g. https://viacep.com.br/ws).
// A zero timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Normalize strips the mask from a code, returning ErrInvalidCEP unless
// exactly 8 digits remain
func Normalize(code string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		if r == '-' || r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return 'x'
	}, code)
	if len(digits) != 8 || strings.ContainsRune(digits, 'x') {
		return "", ErrInvalidCEP
	}
	return digits, nil
}

// Lookup resolves code to an address
func (c *Client) Lookup(ctx context.Context, code string) (*Address, error) {
	digits, err := Normalize(code)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", c.baseURL, digits), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warnf("CEP lookup for %s failed", digits)
		return nil, fmt.Errorf("CEP lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// ViaCEP answers 400 for malformed codes
		if resp.StatusCode == http.StatusBadRequest {
			return nil, ErrInvalidCEP
		}
		return nil, fmt.Errorf("CEP lookup failed with status %d", resp.StatusCode)
	}

	var body struct {
		Address
		Erro any `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("error decoding CEP response: %w", err)
	}

	// erro is true, or "true" on some deployments
	if body.Erro != nil && fmt.Sprint(body.Erro) == "true" {
		return nil, ErrNotFound
	}

	log.WithField("cep", digits).Debugf("resolved to %s", body.Address)
	return &body.Address, nil
}
