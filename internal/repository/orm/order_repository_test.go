package orm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/repository"
)

func TestOrderRepository_CreateOrder(t *testing.T) {
	testCases := map[string]struct {
		order        func(c *domain.Catalog) *domain.Order
		setupContext func() context.Context
		expectedErr  string
	}{
		"should create order with lines": {
			order:        testOrder,
			setupContext: context.Background,
		},
		"should create order without lines nor waiter": {
			order: func(c *domain.Catalog) *domain.Order {
				return &domain.Order{
					Date:          time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC),
					Establishment: &c.Establishments[0],
				}
			},
			setupContext: context.Background,
		},
		"should create order with client": {
			order: func(c *domain.Catalog) *domain.Order {
				o := testOrder(c)
				o.Client = &c.Clients[0]
				return o
			},
			setupContext: context.Background,
		},
		"should return error when context is cancelled": {
			order: testOrder,
			setupContext: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			expectedErr: "context canceled",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			db := setupTestDB(t)
			catalog := seedTestCatalog(t, db)
			repo := NewOrderRepository(db)
			order := tc.order(catalog)

			id, err := repo.CreateOrder(tc.setupContext(), order)

			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, id)

			retrieved, err := repo.GetOrderByID(context.Background(), id)
			require.NoError(t, err)

			expected := *order
			expected.ID = &id
			assert.Equal(t, &expected, retrieved)
		})
	}
}

func TestOrderRepository_CreateOrder_IssuesDistinctIDs(t *testing.T) {
	db := setupTestDB(t)
	catalog := seedTestCatalog(t, db)
	repo := NewOrderRepository(db)

	seen := make(map[int64]struct{})
	for i := 0; i < 5; i++ {
		id, err := repo.CreateOrder(context.Background(), testOrder(catalog))
		require.NoError(t, err)
		_, dup := seen[id]
		assert.False(t, dup, "id %d issued twice", id)
		seen[id] = struct{}{}
	}
}

func TestOrderRepository_CreateOrder_IgnoresPresetID(t *testing.T) {
	db := setupTestDB(t)
	catalog := seedTestCatalog(t, db)
	repo := NewOrderRepository(db)

	order := testOrder(catalog)
	preset := int64(999999)
	order.ID = &preset

	id, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.NotEqual(t, preset, id)
}

func TestOrderRepository_CreateOrder_UnknownReference(t *testing.T) {
	db := setupTestDB(t)
	catalog := seedTestCatalog(t, db)
	repo := NewOrderRepository(db)

	order := testOrder(catalog)
	order.Waiter = &domain.Waiter{ID: 4242}

	_, err := repo.CreateOrder(context.Background(), order)
	require.Error(t, err)

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_GetOrderByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)

	result, err := repo.GetOrderByID(context.Background(), 100)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "order with id 100 not found", err.Error())

	var notFoundErr *repository.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, OrderResource, notFoundErr.Resource)
	assert.Equal(t, "id", notFoundErr.Key)
	assert.Equal(t, "100", notFoundErr.Value)
}

func TestOrderRepository_ListOrders(t *testing.T) {
	db := setupTestDB(t)
	catalog := seedTestCatalog(t, db)
	repo := NewOrderRepository(db)

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	first, err := repo.CreateOrder(context.Background(), testOrder(catalog))
	require.NoError(t, err)
	second, err := repo.CreateOrder(context.Background(), &domain.Order{
		Date:   time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC),
		Waiter: &catalog.Waiters[0],
	})
	require.NoError(t, err)

	orders, err = repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first, *orders[0].ID)
	assert.Equal(t, second, *orders[1].ID)
	assert.Len(t, orders[0].Lines, 2)
	assert.Equal(t, "Ana", orders[1].Waiter.Name)
}

func TestOrderRepository_UpdateOrder(t *testing.T) {
	db := setupTestDB(t)
	catalog := seedTestCatalog(t, db)
	repo := NewOrderRepository(db)

	id, err := repo.CreateOrder(context.Background(), testOrder(catalog))
	require.NoError(t, err)

	testCases := map[string]struct {
		order       func() *domain.Order
		expectedErr string
		notFound    bool
	}{
		"should replace order wholesale": {
			order: func() *domain.Order {
				return &domain.Order{
					ID:            &id,
					Date:          time.Date(2024, time.June, 2, 9, 0, 0, 0, time.UTC),
					Client:        &catalog.Clients[0],
					Waiter:        &catalog.Waiters[0],
					Establishment: &catalog.Establishments[0],
					Status:        domain.StatusServed,
					Lines: []domain.OrderLine{
						{Product: &catalog.Products[0], Quantity: 3},
					},
				}
			},
		},
		"should return NotFoundError when order does not exist": {
			order: func() *domain.Order {
				missing := id + 100
				o := testOrder(catalog)
				o.ID = &missing
				return o
			},
			expectedErr: "not found",
			notFound:    true,
		},
		"should return error when id is nil": {
			order:       func() *domain.Order { return testOrder(catalog) },
			expectedErr: "id is required",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			order := tc.order()
			before, err := repo.ListOrders(context.Background())
			require.NoError(t, err)

			err = repo.UpdateOrder(context.Background(), order)

			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				assert.Equal(t, tc.notFound, repository.IsNotFound(err))

				after, err := repo.ListOrders(context.Background())
				require.NoError(t, err)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			retrieved, err := repo.GetOrderByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, order, retrieved)
		})
	}
}

func TestOrderRepository_MutateOrder(t *testing.T) {
	db := setupTestDB(t)
	catalog := seedTestCatalog(t, db)
	repo := NewOrderRepository(db)

	id, err := repo.CreateOrder(context.Background(), testOrder(catalog))
	require.NoError(t, err)

	t.Run("should persist changes made by fn", func(t *testing.T) {
		updated, err := repo.MutateOrder(context.Background(), id, func(o *domain.Order) error {
			o.Status = domain.StatusInProgress
			o.Lines = o.Lines[:1]
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)

		retrieved, err := repo.GetOrderByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, retrieved.Status)
		require.Len(t, retrieved.Lines, 1)
		assert.Equal(t, int64(1012), retrieved.Lines[0].Product.Code)
	})

	t.Run("should roll back when fn fails", func(t *testing.T) {
		fnErr := errors.New("illegal transition")
		_, err := repo.MutateOrder(context.Background(), id, func(o *domain.Order) error {
			o.Status = domain.StatusCancelled
			return fnErr
		})
		require.ErrorIs(t, err, fnErr)

		retrieved, err := repo.GetOrderByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, retrieved.Status)
	})

	t.Run("should return NotFoundError for unknown order", func(t *testing.T) {
		called := false
		_, err := repo.MutateOrder(context.Background(), id+1, func(*domain.Order) error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.True(t, repository.IsNotFound(err))
		assert.False(t, called)
	})
}
