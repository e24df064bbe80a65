package orm

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/restaurantchain/order-backend/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := sqliteDSN(filepath.Join(t.TempDir(), "orders.db"))
	db, err := Open(sqlite.Open(dsn), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func seedTestCatalog(t *testing.T, db *gorm.DB) *domain.Catalog {
	t.Helper()

	c := testCatalog()
	require.NoError(t, NewCatalogRepository(db).SaveCatalog(context.Background(), c))
	return c
}

func testCatalog() *domain.Catalog {
	opened1 := time.Date(2005, time.April, 14, 0, 0, 0, 0, time.UTC)
	opened2 := time.Date(1999, time.November, 24, 0, 0, 0, 0, time.UTC)

	tapas := domain.Category{ID: 100, Name: "TAPAS"}
	drinks := domain.Category{ID: 101, Name: "REFRESCOS"}

	return &domain.Catalog{
		Categories: []domain.Category{tapas, drinks},
		Products: []domain.Product{
			{
				Code:             1000,
				Name:             "Tortilla Vegana",
				Description:      "En vez de huevos hay garbanzos.",
				Price:            10,
				Category:         &tapas,
				RegistrationDate: opened1,
			},
			{
				Code:             1012,
				Name:             "El Gaitero",
				Description:      "Sidra achampanada",
				Price:            8,
				Category:         &drinks,
				RegistrationDate: opened2,
			},
		},
		Waiters: []domain.Waiter{
			{
				ID:       101,
				DNI:      "30092123H",
				Name:     "Ana",
				Surname1: "Badosa",
				Surname2: "Domingo",
				Address: domain.Address{
					Street:     "Avda. Pintor Garriño, 230-232",
					City:       "Móstoles",
					PostalCode: "91002",
					Province:   "Madrid",
					Country:    "España",
				},
				Contact:            domain.Contact{Phone: "912293444", Email: "annabado@gmail.com"},
				FoodHandlerLicence: "LMA9000238712F",
			},
			{
				ID:       102,
				DNI:      "45099812W",
				Name:     "Francisco Javier",
				Surname1: "Ort",
				Surname2: "Montcunill",
				Address: domain.Address{
					Street:     "c/ Pez Volador, 2 4º 2ª",
					City:       "Madrid",
					PostalCode: "91240",
					Province:   "Madrid",
					Country:    "España",
				},
				Contact:            domain.Contact{Phone: "912547821", Email: "pacoort@gmail.com"},
				FoodHandlerLicence: "LMA9033289712G",
			},
		},
		Clients: []domain.Client{
			{
				ID:       500,
				DNI:      "11111111H",
				Name:     "Lucía",
				Surname1: "Prats",
				Contact:  domain.Contact{Email: "lucia@example.com"},
			},
		},
		Establishments: []domain.Establishment{
			{
				Code:        100,
				TradeName:   "Pollos Felices - La Vaguada",
				OpeningDate: opened1,
				Address:     domain.Address{Street: "c/ Padilla, 230 ático 2", City: "Barcelona", PostalCode: "80934", Province: "Barcelona", Country: "España"},
				Contact:     domain.Contact{Phone: "932218772", Email: "pablofer334@hotmail.com"},
			},
			{
				Code:        101,
				TradeName:   "Pollos Felices - Granvia 2",
				OpeningDate: opened2,
				Address:     domain.Address{Street: "Avda. Pintor Garriño, 230-232", City: "Móstoles", PostalCode: "91002", Province: "Madrid", Country: "España"},
				Contact:     domain.Contact{Phone: "912293444", Email: "annabado@gmail.com"},
			},
		},
	}
}

// testOrder builds an order that only references entities present in testCatalog.
func testOrder(c *domain.Catalog) *domain.Order {
	return &domain.Order{
		Date:          time.Date(1999, time.November, 24, 13, 30, 0, 0, time.UTC),
		Waiter:        &c.Waiters[1],
		Establishment: &c.Establishments[1],
		Status:        domain.StatusCreated,
		Lines: []domain.OrderLine{
			{Product: &c.Products[1], Quantity: 2},
			{Product: &c.Products[0], Quantity: 1},
		},
	}
}
