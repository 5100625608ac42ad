package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileRepository persists the document as a single pretty-printed JSON
// file. The file doubles as the audit trail, so it stays human-readable.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(_ context.Context) (*Document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("store: read %s: %v (starting fresh)", r.path, err)
		}
		return NewDocument(), nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("store: parse %s: %v (starting fresh)", r.path, err)
		return NewDocument(), nil
	}
	return Normalize(&doc), nil
}

func (r *FileRepository) Save(_ context.Context, doc *Document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	payload = append(payload, '\n')

	// Write-then-rename so a crash mid-write never leaves a truncated file.
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".tracker-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
