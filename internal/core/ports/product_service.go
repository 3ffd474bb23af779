package ports

import (
	"context"

	"github.com/finapp/storefront/internal/core/domain"
)

// ListProductsInput carries all parameters for the catalog list endpoint.
type ListProductsInput struct {
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

// ListProductsResult is returned by ListProducts.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UpsertProductInput carries all data for creating or updating a product.
type UpsertProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
	Stock       int
}

// ProductService defines use-case operations for the catalog.
type ProductService interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsResult, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input UpsertProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input UpsertProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
