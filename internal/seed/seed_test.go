package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/restaurantchain/order-backend/internal/domain"
)

type recordingStore struct {
	catalog    *domain.Catalog
	users      []domain.User
	catalogErr error
}

func (s *recordingStore) SaveCatalog(_ context.Context, c *domain.Catalog) error {
	s.catalog = c
	return s.catalogErr
}

func (s *recordingStore) SaveUsers(_ context.Context, users []domain.User) error {
	s.users = users
	return nil
}

func TestLoad(t *testing.T) {
	f, err := Load("testdata/seed.yaml")
	require.NoError(t, err)

	require.Len(t, f.Categories, 1)
	assert.Equal(t, domain.Category{ID: 100, Name: "Bebidas"}, f.Categories[0])

	require.Len(t, f.Products, 1)
	assert.Equal(t, int64(1000), f.Products[0].Code)
	assert.InDelta(t, 2.5, f.Products[0].Price, 0.0001)
	assert.Equal(t, int64(100), f.Products[0].Category.ID)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), f.Products[0].RegistrationDate.UTC())

	require.Len(t, f.Waiters, 1)
	assert.Equal(t, "28013", f.Waiters[0].Address.PostalCode)
	assert.Equal(t, "MAN-2020-01", f.Waiters[0].FoodHandlerLicence)

	require.Len(t, f.Establishments, 1)
	assert.Equal(t, "Bar Central", f.Establishments[0].TradeName)

	require.Len(t, f.Users, 2)
	assert.Equal(t, "admin", f.Users[0].Role)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("products: [{code: nope}]"), 0o600))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("products: [\n"), 0o600))

	cases := map[string]struct {
		path    string
		wantErr string
	}{
		"missing file":     {path: filepath.Join(dir, "missing.yaml"), wantErr: "read_seed_file:"},
		"invalid yaml":     {path: broken, wantErr: "parse_seed_file:"},
		"wrong field type": {path: bad, wantErr: "decode_seed_file:"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(tc.path)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	f, err := Load("testdata/seed.yaml")
	require.NoError(t, err)

	store := &recordingStore{}
	require.NoError(t, Apply(context.Background(), f, store, store))

	assert.Same(t, &f.Catalog, store.catalog)
	require.Len(t, store.users, 2)

	admin := store.users[0]
	assert.Equal(t, "admin@example.com", admin.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")))

	assert.Equal(t, f.Users[1].PasswordHash, store.users[1].PasswordHash)
	assert.Equal(t, "camarero", store.users[1].Role)
}

func TestApply_Errors(t *testing.T) {
	t.Run("catalog failure", func(t *testing.T) {
		store := &recordingStore{catalogErr: errors.New("locked")}
		err := Apply(context.Background(), &File{}, store, store)
		assert.EqualError(t, err, "seed_catalog: locked")
	})

	t.Run("user without password", func(t *testing.T) {
		store := &recordingStore{}
		err := Apply(context.Background(), &File{Users: []User{{Username: "x", Role: "cliente"}}}, store, store)
		assert.EqualError(t, err, "seed_users: user x has no password")
		assert.Nil(t, store.users)
	})
}
