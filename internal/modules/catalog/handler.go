package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Post("/products", h.createProduct)
		r.Get("/sellers/{seller}/products", h.listProducts)
		r.Get("/sellers/{seller}/products/{id}", h.getProduct)
		r.Put("/sellers/{seller}/products/{id}/price", h.updatePrice)
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	products, err := h.service.ListProducts(r.Context(), seller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetProduct(r.Context(), seller, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req UpdatePriceRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.UpdatePrice(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}
