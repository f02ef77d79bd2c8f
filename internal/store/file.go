package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hearth/api/internal/content"
)

// FileStore keeps the document as one JSON file on disk, human-readable with
// two-space indentation.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read(ctx context.Context) (content.Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	var doc content.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}
	return doc, nil
}

// Write serializes to a temp file in the same directory and renames it over
// the original, so a crash mid-write leaves the previous document intact.
func (s *FileStore) Write(ctx context.Context, doc content.Document) error {
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	encoded = append(encoded, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".content-*.json")
	if err != nil {
		return fmt.Errorf("create temp content file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp content file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp content file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace content file: %w", err)
	}
	return nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("content file unavailable: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
