package returns

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
)

// Handler exposes return policy and return request endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/returns", func(r chi.Router) {
		r.Post("/", h.requestReturn)
		r.Put("/sellers/{seller}/policy", h.setPolicy)
		r.Get("/sellers/{seller}/policy", h.getPolicy)
		r.Get("/sellers/{seller}/products/{id}", h.getRequest)
		r.Post("/sellers/{seller}/products/{id}/resolve", h.resolveReturn)
	})
}

func (h *Handler) requestReturn(w http.ResponseWriter, r *http.Request) {
	var req ReturnRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	rr, err := h.service.RequestReturn(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, rr)
}

func (h *Handler) setPolicy(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req PolicyRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.SetReturnPolicy(r.Context(), seller, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) getPolicy(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	p, err := h.service.GetReturnPolicy(r.Context(), seller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	rr, err := h.service.GetReturnRequest(r.Context(), seller, id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rr)
}

func (h *Handler) resolveReturn(w http.ResponseWriter, r *http.Request) {
	seller, id, ok := httpx.SellerProduct(w, r)
	if !ok {
		return
	}
	var req ResolveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	rr, err := h.service.ResolveReturn(r.Context(), seller, id, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, rr)
}
