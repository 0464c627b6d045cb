package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/inventory/sellers/{seller}/products/{id}", func(r chi.Router) {
		r.Patch("/stock", h.adjustStock)
		r.Post("/purchases", h.purchase)
	})
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req AdjustStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.AdjustStock(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	receipt, err := h.service.Purchase(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, receipt)
}
