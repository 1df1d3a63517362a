package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/danuprasetya/furnistore/internal/catalog/app"
	"github.com/danuprasetya/furnistore/internal/catalog/domain"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, name, description, price_amount, currency, image_url, category, stock, created_at, updated_at`

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO products (name, description, price_amount, currency, image_url, category, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+productColumns,
		p.Name, p.Description, p.Price.Amount, p.Price.Currency, p.ImageURL, p.Category, p.Stock)

	return scanProduct(row)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, prodID)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) List(ctx context.Context, query, category string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur any
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = uid
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+productColumns+` FROM products
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
  AND ($2 = '' OR category = $2)
  AND ($3::uuid IS NULL OR id > $3)
ORDER BY id ASC
LIMIT $4`,
		strings.TrimSpace(query), category, cur, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := make([]domain.Product, 0, limit)
	var nextCursor string

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
		nextCursor = p.ID
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.Product, error) {
	var (
		id uuid.UUID
		p  domain.Product
	)

	err := s.Scan(
		&id, &p.Name, &p.Description, &p.Price.Amount, &p.Price.Currency,
		&p.ImageURL, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.ID = id.String()
	return p, nil
}
