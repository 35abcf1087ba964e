package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/sqlitedb"
)

// SQLiteRepository keeps the cart record in a local SQLite file, one row per storage name.
type SQLiteRepository struct {
	db   *sql.DB
	name string
}

func NewSQLiteRepository(dbPath, name string) (*SQLiteRepository, error) {
	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db, name: name}, nil
}

func (r *SQLiteRepository) RunMigrations(migrationsPath string) error {
	return sqlitedb.RunMigrations(r.db, migrationsPath)
}

func (r *SQLiteRepository) Load(ctx context.Context) (*domain.CartRecord, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM cart_records WHERE name = ?`, r.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart record: %w", err)
	}

	var rec domain.CartRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal cart record failed: %w", err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, record *domain.CartRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cart record failed: %w", err)
	}

	query := `INSERT INTO cart_records (name, body, updated_at) VALUES (?, ?, ?)
	          ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, r.name, string(body), record.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save cart record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
