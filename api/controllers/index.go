package controllers

import (
	"net/http"

	"github.com/angelmondragon/utmart-backend/api/responses"
)

var apiEndpoints = map[string]string{
	"products":   "/api/products",
	"categories": "/api/categories",
	"auth":       "/api/auth",
	"data":       "/api/data",
	"export":     "/api/products/export",
	"health":     "/health/ready",
}

// Index describes the API entry points.
func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"message":   "UT Mart API is running",
			"endpoints": apiEndpoints,
		})
	}
}
