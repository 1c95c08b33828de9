package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigUnavailable  = errors.New("credentials file missing or malformed")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrUsernameTooShort   = errors.New("username too short")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	MinUsernameLen = 3
	MinPasswordLen = 8
)

// Store persists the username -> bcrypt-hash mapping as a single YAML file.
// Every Add rewrites the whole file; there is no in-place mutation and no
// coordination between concurrent writers (last writer wins).
type Store struct {
	path string
}

// New returns a Store over the given credentials file. The file is created
// lazily on first Add; Load on a missing file fails with ErrConfigUnavailable.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the full username -> hash mapping.
func (s *Store) Load() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	creds := map[string]string{}
	if err := yaml.Unmarshal(b, &creds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	return creds, nil
}

// Verify reports whether username exists and password matches its stored
// hash. Unknown usernames and bad passwords are indistinguishable to the
// caller.
func (s *Store) Verify(username, password string) bool {
	creds, err := s.Load()
	if err != nil {
		return false
	}
	hash, ok := creds[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidateNewUsername checks character count and uniqueness for a sign-up
// username.
// A missing credentials file counts as an empty collection here so the very
// first account can be created.
func (s *Store) ValidateNewUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLen {
		return ErrUsernameTooShort
	}
	creds, err := s.Load()
	if err != nil {
		if errors.Is(err, ErrConfigUnavailable) {
			return nil
		}
		return err
	}
	if _, exists := creds[username]; exists {
		return ErrDuplicateUsername
	}
	return nil
}

// ValidateNewPassword checks character count for a sign-up password.
func (s *Store) ValidateNewPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Add validates, hashes and inserts a new credential, then rewrites the
// whole mapping to the store's own file. Only the active-mode file is
// written.
func (s *Store) Add(username, password string) error {
	if err := s.ValidateNewUsername(username); err != nil {
		return err
	}
	if err := s.ValidateNewPassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	creds, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrConfigUnavailable) {
			return err
		}
		creds = map[string]string{}
	}
	creds[username] = string(hash)

	return s.save(creds)
}

func (s *Store) save(creds map[string]string) error {
	b, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create credentials dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
