// internal/api/models/listing.go

package models

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IndexResponse describes the available search endpoints.
type IndexResponse struct {
	Results []IndexEntry `json:"results"`
}

type IndexEntry struct {
	Info      string            `json:"info"`
	Endpoints map[string]string `json:"endpoints"`
}
