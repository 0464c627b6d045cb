package dispute

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Handler exposes dispute HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/disputes", func(r chi.Router) {
		r.Post("/", h.openDispute)
		r.Get("/{buyer}/sellers/{seller}/products/{id}", h.getDispute)
		r.Post("/{buyer}/sellers/{seller}/products/{id}/resolve", h.resolveDispute)
	})
}

func (h *Handler) openDispute(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	d, err := h.service.OpenDispute(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, d)
}

func (h *Handler) getDispute(w http.ResponseWriter, r *http.Request) {
	buyer, seller, id, ok := disputeParams(w, r)
	if !ok {
		return
	}
	d, err := h.service.GetDispute(r.Context(), buyer, seller, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, d)
}

func (h *Handler) resolveDispute(w http.ResponseWriter, r *http.Request) {
	buyer, seller, id, ok := disputeParams(w, r)
	if !ok {
		return
	}
	var req ResolveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	d, err := h.service.ResolveDispute(r.Context(), buyer, seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, d)
}

func disputeParams(w http.ResponseWriter, r *http.Request) (ledger.Address, ledger.Address, uint64, bool) {
	buyer, err := httpx.Address(chi.URLParam(r, "buyer"))
	if err != nil {
		httpx.BadRequest(w, err)
		return "", "", 0, false
	}
	seller, id, ok := httpx.SellerProduct(w, r)
	return buyer, seller, id, ok
}
