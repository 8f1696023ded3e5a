package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession = errors.New("no session found, log in first")
	ErrExpired   = errors.New("session expired, log in again")
)

// FileName is the session file inside the state directory
const FileName = "session.toml"

// tokenKey is the storage key the access token is kept under
const tokenKey = "jwt"

// Store persists the backend access token as a key/value TOML file.
// Values are JSON encoded strings.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store keeping its file in dir
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName), now: time.Now}
}

// Path returns the session file path
func (s *Store) Path() string {
	return s.path
}

// Save stores token, replacing any previous one
func (s *Store) Save(token string) error {
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	encoded, err := json.Marshal(token)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("error creating session directory: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error opening session file: %w", err)
	}
	defer file.Close()

	values := map[string]string{tokenKey: string(encoded)}
	if err := toml.NewEncoder(file).Encode(values); err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}
	return nil
}

// Load returns the stored token without checking its expiry
func (s *Store) Load() (string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return "", ErrNoSession
	}

	var values map[string]string
	if _, err := toml.DecodeFile(s.path, &values); err != nil {
		return "", fmt.Errorf("error decoding session file: %w", err)
	}

	raw := values[tokenKey]
	if raw == "" {
		return "", ErrNoSession
	}

	var token string
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return "", fmt.Errorf("corrupt session token: %w", err)
	}
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// Token returns the stored token, failing with ErrExpired when the token
// is a JWT whose exp claim has passed
func (s *Store) Token() (string, error) {
	token, err := s.Load()
	if err != nil {
		return "", err
	}
	info := Inspect(token)
	if info.Expired(s.now()) {
		return "", ErrExpired
	}
	return token, nil
}

// Clear removes the stored token
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Info describes what can be read from a token without verifying it
type Info struct {
	IsJWT     bool
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an exp claim before now
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect decodes the claims of a JWT access token. The signature is not
// checked; the backend remains the authority. Opaque tokens yield an Info
// with IsJWT false.
func Inspect(token string) Info {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}
	}

	info := Info{IsJWT: true}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if v, ok := claims["sub"]; ok {
		info.Subject = fmt.Sprint(v)
	}
	return info
}
