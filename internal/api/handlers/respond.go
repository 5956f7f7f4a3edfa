package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ps-vitor/fasteignir-search/internal/api/models"
	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError never lets a failure be cached.
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, statusFor(err), models.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrTransport):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProtocol):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
