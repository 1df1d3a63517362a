package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/danuprasetya/furnistore/internal/favorites/domain"
)

type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

func (r *FavoriteRepo) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT f.product_id, f.created_at, p.name, p.price_amount, p.currency, p.image_url
FROM favorites f
JOIN products p ON p.id = f.product_id
WHERE f.user_id = $1
ORDER BY f.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []domain.Favorite
	for rows.Next() {
		var (
			productUUID uuid.UUID
			fav         domain.Favorite
		)
		err := rows.Scan(&productUUID, &fav.AddedAt, &fav.Name, &fav.PriceAmount, &fav.Currency, &fav.ImageURL)
		if err != nil {
			return nil, err
		}
		fav.ProductID = productUUID.String()
		out = append(out, fav)
	}
	return out, rows.Err()
}

func (r *FavoriteRepo) Add(ctx context.Context, userID string, fav domain.Favorite) error {
	productUUID, err := uuid.Parse(fav.ProductID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO favorites (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productUUID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) Remove(ctx context.Context, userID, productID string) error {
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		userID, productUUID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
