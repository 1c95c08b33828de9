package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidName     = errors.New("invalid document name")
	ErrUnsupportedType = errors.New("unsupported document type")
)

// DefaultContent seeds newly created documents.
const DefaultContent = "New document\n"

// Kind classifies a document by its file extension.
type Kind int

const (
	KindText Kind = iota
	KindMarkdown
)

// Document is a named file read from the store directory.
type Document struct {
	Name    string
	Kind    Kind
	Content []byte
}

// Store reads and writes documents as flat files under a single root
// directory. The root is chosen by the caller (normal vs test mode);
// the store itself never consults the environment.
type Store struct {
	root string
}

// New returns a Store over the given directory. The directory is created
// if it does not exist yet.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &Store{root: root}, nil
}

// List returns the names of all documents in the store, sorted
// alphabetically. Directory entries that are not regular files are skipped.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a regular file named name is present in the store.
func (s *Store) Exists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	info, err := os.Stat(s.path(name))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the document and its content classification.
// Names with an extension other than .txt or .md fail with
// ErrUnsupportedType; absent documents fail with ErrNotFound.
func (s *Store) Read(name string) (*Document, error) {
	if err := validateName(name); err != nil {
		return nil, ErrNotFound
	}
	kind, err := classify(name)
	if err != nil {
		// only report the type problem for documents that exist
		if !s.Exists(name) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	content, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &Document{Name: name, Kind: kind, Content: content}, nil
}

// Write creates or replaces the named document with content in full.
// Authorization is the caller's responsibility.
func (s *Store) Write(name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(name), content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Delete removes the named document permanently.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return ErrNotFound
	}
	if !s.Exists(name) {
		return ErrNotFound
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Create writes a new document seeded with DefaultContent.
func (s *Store) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.Write(name, []byte(DefaultContent))
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, name)
}

// validateName rejects empty names and names that would escape the store
// root when joined (path separators, parent references).
func validateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

func classify(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText, nil
	case ".md":
		return KindMarkdown, nil
	}
	return 0, ErrUnsupportedType
}
