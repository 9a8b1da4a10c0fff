package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/livingwaters/fundraiser-backend/api/responses"
	"github.com/livingwaters/fundraiser-backend/api/validators"
	productsvc "github.com/livingwaters/fundraiser-backend/internal/products"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
)

// ListProducts returns the catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

// PatchProduct applies an admin edit to one catalog entry.
func PatchProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id := chi.URLParam(r, "productID")
		var patch model.ProductPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Patch(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type syncResult struct {
	Products []model.Product `json:"products"`
	Seeded   bool            `json:"seeded"`
}

// SyncProducts seeds the catalog when the store is empty. Storefronts
// post their bundled catalog here; the array is decoded and shape-checked
// but the server-held catalog stays authoritative, so a tampered client
// cannot rewrite prices or products.
func SyncProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var submitted []model.Product
		err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&submitted)
		if err != nil && !errors.Is(err, io.EOF) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "body must be a JSON array of products"))
			return
		}

		products, seeded := svc.Sync(r.Context())
		responses.WriteSuccess(w, syncResult{Products: products, Seeded: seeded})
	}
}
