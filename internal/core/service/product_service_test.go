package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
)

type stubProductRepo struct {
	products   map[string]*domain.Product
	nextID     int
	lastFilter ports.ListProductsFilter
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	stored := cloneProduct(p)
	stored.ID = "prod-" + strconv.Itoa(r.nextID)
	r.products[stored.ID] = stored
	return cloneProduct(stored), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) List(_ context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	r.lastFilter = filter
	items := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		items = append(items, cloneProduct(p))
	}
	return items, int64(len(items)), nil
}

func TestProductService_ListProducts_Defaults(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if result.Page != 1 || result.Limit != 20 {
		t.Fatalf("expected page=1 limit=20, got page=%d limit=%d", result.Page, result.Limit)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.Limit != 20 {
		t.Fatalf("defaults must reach the repository, got %+v", repo.lastFilter)
	}
}

func TestProductService_ListProducts_CapsPageSize(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{Limit: 5000})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if result.Limit != maxProductPageSize {
		t.Fatalf("expected limit capped at %d, got %d", maxProductPageSize, result.Limit)
	}
}

func TestProductService_ListProducts_TotalPages(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	for i := 0; i < 7; i++ {
		_, _ = svc.CreateProduct(context.Background(), ports.UpsertProductInput{Name: "p", Price: 1})
	}

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{Limit: 3})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if result.Total != 7 || result.TotalPages != 3 {
		t.Fatalf("expected total=7 pages=3, got total=%d pages=%d", result.Total, result.TotalPages)
	}
}

func TestProductService_CreateAndGet(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	created, err := svc.CreateProduct(context.Background(), ports.UpsertProductInput{
		Name: "Widget", Description: "a widget", Price: 9.5, Category: "tools", Stock: 12,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps set")
	}

	got, err := svc.GetProduct(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Name != "Widget" || got.Stock != 12 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestProductService_Update(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	created, _ := svc.CreateProduct(context.Background(), ports.UpsertProductInput{Name: "Widget", Price: 9.5})

	updated, err := svc.UpdateProduct(context.Background(), created.ID, ports.UpsertProductInput{Name: "Widget v2", Price: 11})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Name != "Widget v2" || updated.Price != 11 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected UpdatedAt refreshed")
	}
}

func TestProductService_Update_NotFound(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())
	if _, err := svc.UpdateProduct(context.Background(), "missing", ports.UpsertProductInput{Name: "x"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Delete(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	created, _ := svc.CreateProduct(context.Background(), ports.UpsertProductInput{Name: "Widget", Price: 1})

	if err := svc.DeleteProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := svc.GetProduct(context.Background(), created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}
