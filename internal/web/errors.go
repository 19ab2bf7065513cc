package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/eligibility/internal/core"
	"github.com/JonMunkholm/eligibility/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Partner string `json:"partner,omitempty"`
}

// respondError logs err with full detail and returns its mapped user
// message. The status is derived from the error kind.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	status := statusFor(err)
	partner := core.PartnerOf(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"status", status,
		"code", msg.Code,
		"partner", partner,
		"error", err,
	)

	// middleware.Timeout writes the 504 itself once the request deadline passes.
	if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, r, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Partner: partner,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrMalformedSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondUnknownPartner answers a partner filter that names no configured partner.
func respondUnknownPartner(w http.ResponseWriter, r *http.Request, name string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	writeJSON(w, r, ErrorResponse{
		Error:   "Unknown partner",
		Message: "Unknown partner",
		Action:  "Use a partner name from /api/partners",
		Code:    "API001",
		Partner: name,
	})
}
