package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// BadRequest reports malformed input.
func BadRequest(w http.ResponseWriter, err error) {
	Respond(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
}

// Error reports err, mapping typed ledger errors to their HTTP status.
func Error(w http.ResponseWriter, err error) {
	le, ok := ledger.AsError(err)
	if !ok {
		Respond(w, http.StatusInternalServerError, ErrorBody{Error: err.Error()})
		return
	}
	Respond(w, StatusFor(le.Category), ErrorBody{Error: le.Code, Category: le.Category.String()})
}

// StatusFor maps an error category to an HTTP status code.
func StatusFor(c ledger.Category) int {
	switch c {
	case ledger.CategoryAuthorization:
		return http.StatusForbidden
	case ledger.CategoryNotFound:
		return http.StatusNotFound
	case ledger.CategoryConflict, ledger.CategoryTemporal:
		return http.StatusConflict
	case ledger.CategoryValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// Address parses a principal from a path or query parameter.
func Address(raw string) (ledger.Address, error) {
	return ledger.ParseAddress(raw)
}

// Uint parses an unsigned id from a path or query parameter.
func Uint(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// SellerProduct parses the {seller} and {id} path parameters, writing a 400
// when either is malformed.
func SellerProduct(w http.ResponseWriter, r *http.Request) (ledger.Address, uint64, bool) {
	seller, err := Address(chi.URLParam(r, "seller"))
	if err != nil {
		BadRequest(w, err)
		return "", 0, false
	}
	id, err := Uint(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, err)
		return "", 0, false
	}
	return seller, id, true
}
