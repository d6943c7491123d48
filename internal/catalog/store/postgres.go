package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"product-catalog/internal/catalog"
)

const healthCheckTimeout = 2 * time.Second

// PostgresStore keeps the catalog document in one row of catalog_documents.
type PostgresStore struct {
	db      *sql.DB
	name    string
	decoder decoder
}

func NewPostgres(db *sql.DB, name string, strict bool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		name:    name,
		decoder: decoder{strict: strict, logger: logger, source: "catalog_documents/" + name},
	}
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]catalog.Product, error) {
	query := `SELECT document FROM catalog_documents WHERE name = $1`

	var data []byte
	if err := s.db.QueryRowContext(ctx, query, s.name).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []catalog.Product{}, nil
		}
		return nil, fmt.Errorf("select catalog document %q: %w", s.name, err)
	}

	return s.decoder.decode(data)
}

func (s *PostgresStore) SaveAll(ctx context.Context, items []catalog.Product) error {
	data, err := encode(items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO catalog_documents (name, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name)
		DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, s.name, string(data)); err != nil {
		return fmt.Errorf("upsert catalog document %q: %w", s.name, err)
	}
	return nil
}

func (s *PostgresStore) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}
