package orm

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/repository"
)

const (
	WaiterResource        = "waiter"
	ClientResource        = "client"
	EstablishmentResource = "establishment"
	ProductResource       = "product"
	CategoryResource      = "category"
)

// CatalogRepository provides access to the reference entities orders point at
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository instance
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListWaiters(ctx context.Context) ([]domain.Waiter, error) {
	return list(ctx, r.db, WaiterResource, "id", toDomainWaiter)
}

func (r *CatalogRepository) GetWaiter(ctx context.Context, id int64) (*domain.Waiter, error) {
	return get(ctx, r.db, WaiterResource, "id", id, toDomainWaiter)
}

func (r *CatalogRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	return list(ctx, r.db, ClientResource, "id", toDomainClient)
}

func (r *CatalogRepository) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return get(ctx, r.db, ClientResource, "id", id, toDomainClient)
}

func (r *CatalogRepository) ListEstablishments(ctx context.Context) ([]domain.Establishment, error) {
	return list(ctx, r.db, EstablishmentResource, "code", toDomainEstablishment)
}

func (r *CatalogRepository) GetEstablishment(ctx context.Context, code int64) (*domain.Establishment, error) {
	return get(ctx, r.db, EstablishmentResource, "code", code, toDomainEstablishment)
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return list(ctx, r.db, CategoryResource, "id", toDomainCategory)
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return get(ctx, r.db, CategoryResource, "id", id, toDomainCategory)
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return list(ctx, r.db.Preload("Category"), ProductResource, "code", productValue)
}

func (r *CatalogRepository) GetProduct(ctx context.Context, code int64) (*domain.Product, error) {
	return get(ctx, r.db.Preload("Category"), ProductResource, "code", code, productValue)
}

// SaveCatalog upserts the given reference entities in a single transaction
func (r *CatalogRepository) SaveCatalog(ctx context.Context, c *domain.Catalog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, c.Categories, toCategoryModel); err != nil {
			return fmt.Errorf("save categories: %w", err)
		}
		if err := upsert(tx, c.Products, toProductModel); err != nil {
			return fmt.Errorf("save products: %w", err)
		}
		if err := upsert(tx, c.Waiters, toWaiterModel); err != nil {
			return fmt.Errorf("save waiters: %w", err)
		}
		if err := upsert(tx, c.Clients, toClientModel); err != nil {
			return fmt.Errorf("save clients: %w", err)
		}
		if err := upsert(tx, c.Establishments, toEstablishmentModel); err != nil {
			return fmt.Errorf("save establishments: %w", err)
		}
		return nil
	})
}

func productValue(m *ProductModel) domain.Product {
	return *toDomainProduct(m)
}

func list[M any, D any](ctx context.Context, db *gorm.DB, resource, orderBy string, conv func(*M) D) ([]D, error) {
	var models []M
	if err := db.WithContext(ctx).Order(orderBy).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", resource, err)
	}

	out := make([]D, 0, len(models))
	for i := range models {
		out = append(out, conv(&models[i]))
	}
	return out, nil
}

func get[M any, D any](ctx context.Context, db *gorm.DB, resource, key string, id int64, conv func(*M) D) (*D, error) {
	var m M
	if err := db.WithContext(ctx).Where(key+" = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &repository.NotFoundError{
				Resource: resource,
				Key:      key,
				Value:    strconv.FormatInt(id, 10),
			}
		}
		return nil, fmt.Errorf("failed to retrieve %s with %s %d: %w", resource, key, id, err)
	}

	d := conv(&m)
	return &d, nil
}

func upsert[D any, M any](tx *gorm.DB, items []D, conv func(*D) M) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]M, 0, len(items))
	for i := range items {
		models = append(models, conv(&items[i]))
	}

	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&models).Error
}
