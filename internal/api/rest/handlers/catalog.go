package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/restaurantchain/order-backend/internal/api/rest/response"
	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/repository"
)

const (
	invalidCatalogIDMessage = "El identificador debe ser numérico"
	catalogInternalMessage  = "Se ha producido un error interno al consultar el catálogo"
)

// CatalogRepository defines the read operations over reference data
type CatalogRepository interface {
	ListWaiters(ctx context.Context) ([]domain.Waiter, error)
	GetWaiter(ctx context.Context, id int64) (*domain.Waiter, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	ListEstablishments(ctx context.Context) ([]domain.Establishment, error)
	GetEstablishment(ctx context.Context, code int64) (*domain.Establishment, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, code int64) (*domain.Product, error)
}

// CatalogHandler serves waiters, clients, establishments, categories and products
type CatalogHandler struct {
	repo   CatalogRepository
	logger *slog.Logger
}

func NewCatalogHandler(repo CatalogRepository, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *CatalogHandler) ListWaiters() http.HandlerFunc {
	return listHandler(h.logger, "waiters", h.repo.ListWaiters)
}

func (h *CatalogHandler) GetWaiter() http.HandlerFunc {
	return getHandler(h.logger, "No existe el camarero %d", h.repo.GetWaiter)
}

func (h *CatalogHandler) ListClients() http.HandlerFunc {
	return listHandler(h.logger, "clients", h.repo.ListClients)
}

func (h *CatalogHandler) GetClient() http.HandlerFunc {
	return getHandler(h.logger, "No existe el cliente %d", h.repo.GetClient)
}

func (h *CatalogHandler) ListEstablishments() http.HandlerFunc {
	return listHandler(h.logger, "establishments", h.repo.ListEstablishments)
}

func (h *CatalogHandler) GetEstablishment() http.HandlerFunc {
	return getHandler(h.logger, "No existe el establecimiento %d", h.repo.GetEstablishment)
}

func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return listHandler(h.logger, "categories", h.repo.ListCategories)
}

func (h *CatalogHandler) GetCategory() http.HandlerFunc {
	return getHandler(h.logger, "No existe la categoría %d", h.repo.GetCategory)
}

func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return listHandler(h.logger, "products", h.repo.ListProducts)
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return getHandler(h.logger, "No existe el producto %d", h.repo.GetProduct)
}

func listHandler[T any](logger *slog.Logger, resource string, list func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			logger.ErrorContext(r.Context(), "Failed to list "+resource, "error", err)
			response.JSONErrorResponse(w, http.StatusInternalServerError, catalogInternalMessage)
			return
		}

		if items == nil {
			items = []T{}
		}

		response.JSONResponse(w, http.StatusOK, items)
	}
}

func getHandler[T any](logger *slog.Logger, notFoundFormat string, get func(context.Context, int64) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			response.JSONErrorResponse(w, http.StatusBadRequest, invalidCatalogIDMessage)
			return
		}

		item, err := get(r.Context(), id)
		if err != nil {
			if repository.IsNotFound(err) {
				response.JSONErrorResponse(w, http.StatusNotFound, fmt.Sprintf(notFoundFormat, id))
				return
			}

			logger.ErrorContext(r.Context(), "Failed to retrieve catalog entry", "id", id, "error", err)
			response.JSONErrorResponse(w, http.StatusInternalServerError, catalogInternalMessage)
			return
		}

		response.JSONResponse(w, http.StatusOK, item)
	}
}
