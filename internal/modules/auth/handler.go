package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// Handler exposes the authentication middleware and the whoami endpoint.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/auth/whoami", h.whoami)
}

// Middleware attaches the principal named by a valid bearer token to the
// request context. Requests without a token pass through anonymously; a token
// that fails verification is rejected outright.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			httpx.Respond(w, http.StatusUnauthorized, httpx.ErrorBody{Error: "authorization header must be a bearer token"})
			return
		}
		principal, err := h.service.Authenticate(strings.TrimSpace(token))
		if err != nil {
			httpx.Respond(w, http.StatusUnauthorized, httpx.ErrorBody{Error: err.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(ledger.WithInvoker(r.Context(), principal)))
	})
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	principal, ok := ledger.InvokerFrom(r.Context())
	if !ok {
		httpx.Respond(w, http.StatusUnauthorized, httpx.ErrorBody{Error: "no bearer token presented"})
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"principal": principal.String()})
}
