// internal/api/handlers/scraping.go

package handlers

import (
	"net/http"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
	"github.com/ps-vitor/fasteignir-search/pkg/logger"
)

type ScrapingHandler struct {
	searcher domain.PropertySearcher
}

func NewScrapingHandler(searcher domain.PropertySearcher) *ScrapingHandler {
	return &ScrapingHandler{searcher: searcher}
}

// HandleSearch serves the normalized property search. See parseSearchQuery
// for the accepted parameters.
func (h *ScrapingHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := parseSearchQuery(r.URL.Query())
	result, err := h.searcher.Search(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Error("Property search failed", err, logger.Fields{"cursor": query.Cursor != nil})
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
