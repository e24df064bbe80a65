package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/restaurantchain/order-backend/internal/api/rest/handlers"
	"github.com/restaurantchain/order-backend/internal/api/rest/middlewares"
	"github.com/restaurantchain/order-backend/internal/api/rest/response"
)

// OrderPrefixes are the path prefixes orders are served under
var OrderPrefixes = []string{"/pedidos", "/orders"}

type RouterConfig struct {
	OrderHandler   *handlers.OrderHandler
	CatalogHandler *handlers.CatalogHandler
	SignInHandler  http.Handler
	MetricsHandler http.Handler
	// AuthorisationMiddleware guards the order and catalog routes. Nil leaves them open.
	AuthorisationMiddleware middlewares.Middleware
	// Middlewares wrap every matched route, outermost first
	Middlewares []middlewares.Middleware
}

// NewRouterWithHandlers initializes a new router with routes defined by the given RouterConfig.
func NewRouterWithHandlers(cfg *RouterConfig) *mux.Router {
	router := mux.NewRouter()
	for _, m := range cfg.Middlewares {
		router.Use(m.Handle)
	}

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}
	if cfg.SignInHandler != nil {
		router.Handle("/auth/signin", cfg.SignInHandler).Methods(http.MethodPost)
	}

	api := router.NewRoute().Subrouter()
	if cfg.AuthorisationMiddleware != nil {
		api.Use(cfg.AuthorisationMiddleware.Handle)
	}

	for _, prefix := range OrderPrefixes {
		o := cfg.OrderHandler
		api.HandleFunc(prefix, o.ListOrders).Methods(http.MethodGet)
		api.HandleFunc(prefix, o.CreateOrder).Methods(http.MethodPost)
		api.HandleFunc(prefix+"/{id}", o.GetOrder).Methods(http.MethodGet)
		api.HandleFunc(prefix+"/{id}", o.UpdateOrder).Methods(http.MethodPut)
		api.HandleFunc(prefix+"/{id}", o.PatchOrder).Methods(http.MethodPatch)
		api.HandleFunc(prefix+"/{id}/{transition}", o.TransitionOrder).Methods(http.MethodPost)
	}

	c := cfg.CatalogHandler
	api.HandleFunc("/camareros", c.ListWaiters()).Methods(http.MethodGet)
	api.HandleFunc("/camareros/{id}", c.GetWaiter()).Methods(http.MethodGet)
	api.HandleFunc("/clientes", c.ListClients()).Methods(http.MethodGet)
	api.HandleFunc("/clientes/{id}", c.GetClient()).Methods(http.MethodGet)
	api.HandleFunc("/establecimientos", c.ListEstablishments()).Methods(http.MethodGet)
	api.HandleFunc("/establecimientos/{id}", c.GetEstablishment()).Methods(http.MethodGet)
	api.HandleFunc("/categorias", c.ListCategories()).Methods(http.MethodGet)
	api.HandleFunc("/categorias/{id}", c.GetCategory()).Methods(http.MethodGet)
	api.HandleFunc("/productos", c.ListProducts()).Methods(http.MethodGet)
	api.HandleFunc("/productos/{id}", c.GetProduct()).Methods(http.MethodGet)

	// mux only runs router middlewares on matched routes, so the fallbacks are wrapped here
	router.NotFoundHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.JSONErrorResponse(w, http.StatusNotFound, "Recurso no encontrado")
	}), cfg.Middlewares)
	router.MethodNotAllowedHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.JSONErrorResponse(w, http.StatusMethodNotAllowed, "Método no permitido")
	}), cfg.Middlewares)

	return router
}

// chain wraps h so that the first middleware is the outermost, as router.Use does
func chain(h http.Handler, mws []middlewares.Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i].Handle(h)
	}
	return h
}
