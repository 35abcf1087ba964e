package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/sqlitedb"
	"github.com/google/uuid"
)

// Repository is the storefront's adapter over the catalog store.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	return sqlitedb.RunMigrations(r.db, migrationsPath)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// ListProducts returns active products, oldest first.
func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, description, price_cents, active, created_at
		FROM products
		WHERE active = 1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

// GetProduct returns the product whether or not it is archived.
func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price_cents, active, created_at
		FROM products
		WHERE id = ?
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	created := *p
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.Active = true
	created.CreatedAt = r.now().UTC()

	query := `
		INSERT INTO products (id, name, description, price_cents, active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)
	`
	_, err := r.db.ExecContext(ctx, query, created.ID, created.Name, created.Description, created.PriceCents, created.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: product %s already exists", domain.ErrValidation, created.ID)
		}
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &created, nil
}

// UpdateProduct overwrites name, description and price. Archived products stay archived.
func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrValidation)
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	query := `UPDATE products SET name = ?, description = ?, price_cents = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.PriceCents, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := expectOneRow(res, p.ID); err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, p.ID)
}

// ArchiveProduct hides the product from listings and from new cart lines.
func (r *Repository) ArchiveProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}
	return expectOneRow(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return nil
}

func validate(p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}
