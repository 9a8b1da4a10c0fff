package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/livingwaters/fundraiser-backend/api/responses"
	"github.com/livingwaters/fundraiser-backend/api/validators"
	ordersvc "github.com/livingwaters/fundraiser-backend/internal/orders"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// ListOrders returns the full order snapshot.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

// CreateOrder accepts a storefront checkout submission.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload ordersvc.Submission
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// PatchOrder applies an admin edit to an existing order.
func PatchOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id := chi.URLParam(r, "orderID")
		var patch model.OrderPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Patch(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
