package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ps-vitor/fasteignir-search/internal/api/models"
)

type APIHandler struct {
	searchRoute string
}

func NewAPIHandler(searchRoute string) *APIHandler {
	return &APIHandler{searchRoute: searchRoute}
}

func (h *APIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/properties", h.handleProperties).Methods(http.MethodGet)
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) handleProperties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.IndexResponse{
		Results: []models.IndexEntry{{
			Info:      "This is an api for searching Icelandic properties",
			Endpoints: map[string]string{"mbl": h.searchRoute},
		}},
	})
}
