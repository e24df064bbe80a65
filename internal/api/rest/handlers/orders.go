package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/restaurantchain/order-backend/internal/api/rest/response"
	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/repository"
	"github.com/restaurantchain/order-backend/internal/service/order"
)

const (
	orderNotFoundMessage     = "No existe el pedido %d"
	invalidOrderIDMessage    = "El número de pedido debe ser numérico"
	invalidOrderBodyMessage  = "El cuerpo de la petición no es un pedido válido"
	unknownTransitionMessage = "Operación desconocida: %s"
	orderInternalMessage     = "Se ha producido un error interno al procesar el pedido"
)

// OrderService defines the order operations exposed over HTTP
type OrderService interface {
	Create(ctx context.Context, o *domain.Order) (int64, error)
	Read(ctx context.Context, id int64) (*domain.Order, bool, error)
	GetAll(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	Patch(ctx context.Context, id int64, patch domain.Patch) error
	Transition(ctx context.Context, id int64, t domain.Transition) error
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	service OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(service OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// ListOrders handles GET /pedidos
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list orders", "error", err)
		response.JSONErrorResponse(w, http.StatusInternalServerError, orderInternalMessage)
		return
	}

	if orders == nil {
		orders = []*domain.Order{}
	}

	response.JSONResponse(w, http.StatusOK, orders)
}

// GetOrder handles GET /pedidos/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, found, err := h.service.Read(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to retrieve order", "order_id", id, "error", err)
		response.JSONErrorResponse(w, http.StatusInternalServerError, orderInternalMessage)
		return
	}

	if !found {
		h.logger.WarnContext(r.Context(), "Order not found", "order_id", id)
		response.JSONErrorResponse(w, http.StatusNotFound, fmt.Sprintf(orderNotFoundMessage, id))
		return
	}

	response.JSONResponse(w, http.StatusOK, o)
}

// CreateOrder handles POST /pedidos. The new order is addressed by the Location header.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	o := new(domain.Order)
	if err := json.NewDecoder(r.Body).Decode(o); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidOrderBodyMessage)
		return
	}

	id, err := h.service.Create(r.Context(), o)
	if err != nil {
		var argErr *order.InvalidArgumentError
		if errors.As(err, &argErr) {
			h.logger.WarnContext(r.Context(), "Order rejected", "error", err)
			response.JSONErrorResponse(w, http.StatusBadRequest, argErr.Message)
			return
		}

		h.logger.ErrorContext(r.Context(), "Failed to create order", "error", err)
		response.JSONErrorResponse(w, http.StatusInternalServerError, orderInternalMessage)
		return
	}

	h.logger.InfoContext(r.Context(), "Order created", "order_id", id)
	response.Created(w, strings.TrimSuffix(r.URL.Path, "/")+"/"+strconv.FormatInt(id, 10))
}

// UpdateOrder handles PUT /pedidos/{id}. The decoded body is handed to the service as is;
// the order it carries identifies what gets replaced.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := orderID(w, r); !ok {
		return
	}

	o := new(domain.Order)
	if err := json.NewDecoder(r.Body).Decode(o); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidOrderBodyMessage)
		return
	}

	err := h.service.Update(r.Context(), o)
	if err != nil {
		var argErr *order.InvalidArgumentError
		var stateErr *order.InvalidStateError
		switch {
		case errors.As(err, &argErr):
			h.logger.WarnContext(r.Context(), "Order update rejected", "error", err)
			response.JSONErrorResponse(w, http.StatusNotFound, argErr.Message)
		case errors.As(err, &stateErr):
			h.logger.WarnContext(r.Context(), "Order update rejected", "error", err)
			response.JSONErrorResponse(w, http.StatusNotFound, stateErr.Message)
		default:
			h.logger.ErrorContext(r.Context(), "Failed to update order", "error", err)
			response.JSONErrorResponse(w, http.StatusInternalServerError, orderInternalMessage)
		}
		return
	}

	response.NoContent(w)
}

// PatchOrder handles PATCH /pedidos/{id}
func (h *OrderHandler) PatchOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var patch domain.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidOrderBodyMessage)
		return
	}

	if err := h.service.Patch(r.Context(), id, patch); err != nil {
		h.writeServiceError(w, r, id, "Failed to patch order", err)
		return
	}

	response.NoContent(w)
}

// TransitionOrder handles POST /pedidos/{id}/{transition}
func (h *OrderHandler) TransitionOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	name := mux.Vars(r)["transition"]
	t, ok := domain.ParseTransition(name)
	if !ok {
		response.JSONErrorResponse(w, http.StatusNotFound, fmt.Sprintf(unknownTransitionMessage, name))
		return
	}

	if err := h.service.Transition(r.Context(), id, t); err != nil {
		h.writeServiceError(w, r, id, "Failed to "+name+" order", err)
		return
	}

	h.logger.InfoContext(r.Context(), "Order transitioned", "order_id", id, "transition", name)
	response.NoContent(w)
}

// writeServiceError answers 404 for absent orders, 400 for rejected requests and 500 otherwise
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, r *http.Request, id int64, msg string, err error) {
	var argErr *order.InvalidArgumentError
	var stateErr *order.InvalidStateError

	switch {
	case errors.As(err, &stateErr) && repository.IsNotFound(err):
		h.logger.WarnContext(r.Context(), "Order not found", "order_id", id)
		response.JSONErrorResponse(w, http.StatusNotFound, stateErr.Message)
	case errors.As(err, &stateErr):
		h.logger.WarnContext(r.Context(), "Order in invalid state", "order_id", id, "error", err)
		response.JSONErrorResponse(w, http.StatusBadRequest, stateErr.Message)
	case errors.As(err, &argErr):
		response.JSONErrorResponse(w, http.StatusBadRequest, argErr.Message)
	default:
		h.logger.ErrorContext(r.Context(), msg, "order_id", id, "error", err)
		response.JSONErrorResponse(w, http.StatusInternalServerError, orderInternalMessage)
	}
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidOrderIDMessage)
		return 0, false
	}

	return id, true
}
