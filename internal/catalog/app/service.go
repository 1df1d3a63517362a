package app

import (
	"context"
	"errors"
	"strings"

	"github.com/danuprasetya/furnistore/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

type CreateProductInput struct {
	Name        string
	Description string
	Currency    string
	Amount      int64
	ImageURL    string
	Category    string
	Stock       int32
}

func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = strings.TrimSpace(in.Currency)
	in.Category = strings.TrimSpace(in.Category)

	if in.Name == "" || in.Currency == "" || in.Amount <= 0 || in.Stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price: domain.Money{
			Currency: in.Currency,
			Amount:   in.Amount,
		},
		ImageURL: in.ImageURL,
		Category: in.Category,
		Stock:    in.Stock,
	}

	product, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query, category string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, strings.TrimSpace(category), limit, cursor)
}
