// Package jsonfile persists the whole hackathon Document as a single JSON
// file. All mutation goes through Update, a serialized read-modify-write
// with an atomic replace, so concurrent handlers cannot lose each other's
// writes within one process.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hackathon-portal/internal/domain"
)

// Store owns the backing file. A missing file reads as a fresh Document with
// the default admin hash; a file that exists but does not parse is left in
// place and surfaced as domain.ErrCorruptDocument.
type Store struct {
	path             string
	defaultAdminHash string
	mu               sync.Mutex
}

func New(path, defaultAdminHash string) *Store {
	return &Store{path: path, defaultAdminHash: defaultAdminHash}
}

// Load returns a snapshot of the Document.
func (s *Store) Load(_ context.Context) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save overwrites the entire backing file atomically.
func (s *Store) Save(_ context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(doc)
}

// Update runs fn against the current Document and persists the result.
// Updates are serialized; fn returning an error leaves the file untouched.
func (s *Store) Update(_ context.Context, fn func(*domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.writeLocked(doc)
}

func (s *Store) loadLocked() (domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.NewDocument(s.defaultAdminHash), nil
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("read document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}
	if doc.Users == nil {
		doc.Users = make(map[string]*domain.UserRecord)
	}
	if doc.AdminPasswordHash == "" {
		doc.AdminPasswordHash = s.defaultAdminHash
	}
	return doc, nil
}

func (s *Store) writeLocked(doc domain.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".document-*.json")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
