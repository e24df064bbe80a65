package handlers

import (
	"net/http"

	"github.com/restaurantchain/order-backend/internal/api/rest/response"
)

// Health reports that the process is serving requests
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}
