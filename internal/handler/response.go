package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/wire"
)

// maxBodyBytes caps request bodies. A full team ledger is a few KB.
const maxBodyBytes = 1 << 20

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse is the standard error body. Violation is only set when a
// trade is rejected at execution.
type errorResponse struct {
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Violation *wire.Violation `json:"violation,omitempty"`
}

// WriteError writes a standard error response.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// WriteRejection writes the 422 for a trade that no longer validates.
func WriteRejection(w http.ResponseWriter, v domain.Violation) {
	violation := wire.FromViolation(v)
	WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:     "trade_not_valid",
		Message:   v.Reason,
		Violation: &violation,
	})
}

// ParseJSON decodes a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected. Every failure is a
// *domain.ValidationError.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return &domain.ValidationError{Message: "Content-Type must be application/json"}
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.ValidationError{Message: "request body is empty"}
		}
		return &domain.ValidationError{Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	if dec.More() {
		return &domain.ValidationError{Message: "request body must hold a single JSON object"}
	}
	return nil
}
