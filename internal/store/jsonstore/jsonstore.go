package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/postboard/internal/model"
)

// JSON-backed storage for the dev server. Single file, human-readable,
// same layout json-server uses: {"posts": [...]}.
// No file locking; one server process owns the file.

type document struct {
	Posts []model.Post `json:"posts"`
}

// Store reads and writes posts at Path.
type Store struct {
	Path string
}

func New(path string) *Store { return &Store{Path: path} }

// Load returns the stored posts. A missing file is an empty collection.
func (s *Store) Load() ([]model.Post, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Post{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.Posts == nil {
		doc.Posts = []model.Post{}
	}
	return doc.Posts, nil
}

// Save replaces the file contents. Writes go through a temp file and rename.
func (s *Store) Save(posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	b, err := json.MarshalIndent(document{Posts: posts}, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
