package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres via the pgx stdlib driver. The bot reads and
// writes one document row, so the pool stays small.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// PostgresRepository keeps the document as a single JSONB row. The table
// holds exactly one row; saves upsert it, matching the whole-document
// rewrite discipline of the other backends.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) DB() *sql.DB {
	return r.db
}

// EnsureSchema creates the document table if it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS tracker_document (
			id smallint PRIMARY KEY CHECK (id = 1),
			body jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tracker_document table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) (*Document, error) {
	const query = `SELECT body FROM tracker_document WHERE id = 1`
	var body []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		log.Printf("store: parse postgres document: %v (starting fresh)", err)
		return NewDocument(), nil
	}
	return Normalize(&doc), nil
}

func (r *PostgresRepository) Save(ctx context.Context, doc *Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	const upsert = `
		INSERT INTO tracker_document (id, body, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, upsert, payload); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
