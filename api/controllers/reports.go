package controllers

import (
	"net/http"

	"github.com/livingwaters/fundraiser-backend/api/responses"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	"github.com/livingwaters/fundraiser-backend/internal/views"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

// ProductionReport lists the units to produce for unfulfilled orders.
func ProductionReport(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, views.ProductionSummary(st.Orders()))
	}
}

// ShoppingListReport lists aggregate ingredient demand.
func ShoppingListReport(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, views.ShoppingList(st.Orders(), st.Products()))
	}
}

// SalesReport rolls up sales per volunteer group.
func SalesReport(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, views.SalesByGroup(st.Orders()))
	}
}

// DeliveryRouteReport lists home-delivery orders in route order.
func DeliveryRouteReport(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store unavailable"))
			return
		}
		responses.WriteSuccess(w, views.DeliveryRoute(st.Orders()))
	}
}
