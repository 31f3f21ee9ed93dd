// Package controllers adapts the inventory service to HTTP handlers and
// maps the domain error taxonomy onto status codes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/response"
)

// respondError maps a domain error onto the HTTP surface:
// insufficient stock 409, validation 422, not found 404, store down 503.
func respondError(w http.ResponseWriter, err error) {
	var (
		ve  *models.ValidationError
		ise *models.InsufficientStockError
		nfe *models.NotFoundError
		sue *models.StoreUnavailableError
	)
	switch {
	case errors.As(err, &ve):
		response.ValidationError(w, ve.Errors)
	case errors.As(err, &ise):
		response.Conflict(w, ise.Error())
	case errors.As(err, &nfe):
		response.NotFound(w)
	case errors.As(err, &sue):
		logger.Error("controller: store unavailable", "op", sue.Op, "error", sue.Err)
		response.Unavailable(w)
	default:
		logger.Error("controller: unexpected error", "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
