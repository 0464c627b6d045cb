package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
)

// Handler exposes administrator and seller verification endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/registry", func(r chi.Router) {
		r.Get("/admin", h.getAdmin)
		r.Put("/admin", h.setAdmin)

		r.Post("/verifications/{seller}", h.requestVerification)
		r.Get("/verifications/{seller}", h.getVerification)
		r.Post("/verifications/{seller}/decision", h.decideVerification)
	})
}

func (h *Handler) getAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.service.GetAdmin(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"admin": admin.String()})
}

func (h *Handler) setAdmin(w http.ResponseWriter, r *http.Request) {
	var req SetAdminRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if err := h.service.SetAdmin(r.Context(), req); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"admin": req.NewAdmin.String()})
}

func (h *Handler) requestVerification(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.RequestVerification(r.Context(), seller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, v)
}

func (h *Handler) getVerification(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.GetVerification(r.Context(), seller)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, v)
}

func (h *Handler) decideVerification(w http.ResponseWriter, r *http.Request) {
	seller, err := httpx.Address(chi.URLParam(r, "seller"))
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req DecisionRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	v, err := h.service.DecideVerification(r.Context(), seller, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, v)
}
