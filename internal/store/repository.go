package store

import "context"

// Repository loads and saves the whole tracker document. Load never fails
// on absent or corrupt state; it returns a fresh empty document instead,
// so the bot always starts. Save replaces the persisted state entirely.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}
