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
	OrderResource = "order"
)

// OrderRepository provides database operations for orders
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// CreateOrder inserts the order and its lines and returns the id issued by the store.
// Any id already set on the order is ignored.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (int64, error) {
	m := toOrderModel(order)
	m.ID = 0

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return 0, wrapWriteError("failed to create order", err)
	}

	return m.ID, nil
}

// GetOrderByID retrieves an order with its references and lines
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m OrderModel

	err := preloadOrder(r.db.WithContext(ctx)).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, fmt.Errorf("failed to retrieve order with id %d: %w", id, err)
	}

	return toDomainOrder(&m), nil
}

// ListOrders returns every order ordered by id
func (r *OrderRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	var models []OrderModel

	if err := preloadOrder(r.db.WithContext(ctx)).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toDomainOrder(&models[i]))
	}

	return orders, nil
}

// UpdateOrder replaces the stored order identified by order.ID, lines included.
// It returns a NotFoundError and writes nothing when no such order exists.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == nil {
		return errors.New("failed to update order: id is required")
	}
	id := *order.ID

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id); err != nil {
			return err
		}
		return replaceOrder(tx, id, order)
	})
}

// MutateOrder loads the order, lets fn modify it and writes the result back, all in one
// transaction. An error from fn rolls the transaction back and is returned unchanged.
func (r *OrderRepository) MutateOrder(ctx context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error) {
	var updated *domain.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, id); err != nil {
			return err
		}

		var m OrderModel
		if err := preloadOrder(tx).First(&m, id).Error; err != nil {
			return fmt.Errorf("failed to retrieve order with id %d: %w", id, err)
		}

		order := toDomainOrder(&m)
		if err := fn(order); err != nil {
			return err
		}

		if err := replaceOrder(tx, id, order); err != nil {
			return err
		}

		order.ID = &id
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("Waiter").
		Preload("Establishment").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Lines.Product.Category")
}

// lockOrder checks the order exists and, where the dialect supports it, locks its row.
func lockOrder(tx *gorm.DB, id int64) error {
	q := tx.Select("id")
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m OrderModel
	if err := q.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orderNotFound(id)
		}
		return fmt.Errorf("failed to lock order with id %d: %w", id, err)
	}

	return nil
}

func replaceOrder(tx *gorm.DB, id int64, order *domain.Order) error {
	m := toOrderModel(order)
	m.ID = id
	lines := m.Lines
	m.Lines = nil

	err := tx.Model(&OrderModel{ID: id}).
		Select("Date", "ClientID", "WaiterID", "EstablishmentCode", "Status").
		Updates(m).Error
	if err != nil {
		return wrapWriteError(fmt.Sprintf("failed to update order %d", id), err)
	}

	if err := tx.Where("order_id = ?", id).Delete(&OrderLineModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete lines of order %d: %w", id, err)
	}

	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return wrapWriteError(fmt.Sprintf("failed to write lines of order %d", id), err)
		}
	}

	return nil
}

func orderNotFound(id int64) error {
	return &repository.NotFoundError{
		Resource: OrderResource,
		Key:      "id",
		Value:    strconv.FormatInt(id, 10),
	}
}

func wrapWriteError(msg string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%s: %w: %w", msg, repository.ErrInvalidReference, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
