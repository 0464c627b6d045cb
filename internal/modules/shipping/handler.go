package shipping

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
)

// Handler exposes shipping HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/shipping/sellers/{seller}/shipments", func(r chi.Router) {
		r.Post("/", h.quoteShipment)
		r.Get("/", h.listShipments)
		r.Get("/{shipment}", h.getShipment)
		r.Patch("/{shipment}/status", h.updateStatus)
	})
}

func (h *Handler) quoteShipment(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req QuoteRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sh, err := h.service.QuoteShipment(r.Context(), seller, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, sh)
}

func (h *Handler) listShipments(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	shipments, err := h.service.ListShipments(r.Context(), seller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, shipments)
}

func (h *Handler) getShipment(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sh, err := h.service.GetShipment(r.Context(), seller, chi.URLParam(r, "shipment"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sh)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req StatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	sh, err := h.service.UpdateStatus(r.Context(), seller, chi.URLParam(r, "shipment"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, sh)
}
