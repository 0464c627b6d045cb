package auction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
)

// Handler exposes auction HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/auctions/sellers/{seller}/products/{id}", func(r chi.Router) {
		r.Post("/", h.createAuction)
		r.Get("/", h.getAuction)
		r.Post("/bids", h.placeBid)
		r.Post("/resolve", h.resolveAuction)
	})
}

func (h *Handler) createAuction(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req CreateAuctionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	snap, err := h.service.CreateAuction(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, snap)
}

func (h *Handler) getAuction(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	snap, err := h.service.GetAuction(r.Context(), seller, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, snap)
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req BidRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	snap, err := h.service.PlaceBid(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, snap)
}

func (h *Handler) resolveAuction(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req ResolveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	out, err := h.service.ResolveAuction(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, out)
}
