// internal/services/scraper_service.go
package services

import (
	"context"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
	"github.com/ps-vitor/fasteignir-search/internal/scrapers/mbl"
	"github.com/ps-vitor/fasteignir-search/pkg/logger"
)

// PageFetcher retrieves raw results pages from the listing site.
type PageFetcher interface {
	Search(ctx context.Context, form mbl.SearchForm) ([]byte, error)
	Page(ctx context.Context, cursor domain.Cursor) ([]byte, error)
}

// ScraperService answers property searches by scraping mbl.is: translate,
// fetch, extract and paginate, in that order, once per request.
type ScraperService struct {
	fetcher   PageFetcher
	collector *mbl.Collector
	route     string
}

var _ domain.PropertySearcher = (*ScraperService)(nil)

// NewScraperService builds the pipeline. route is the path of this service's
// own search endpoint; next-page links point back at it.
func NewScraperService(fetcher PageFetcher, collector *mbl.Collector, route string) *ScraperService {
	return &ScraperService{fetcher: fetcher, collector: collector, route: route}
}

func (s *ScraperService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	log := logger.FromContext(ctx).WithFields(logger.Fields{"component": "ScraperService"})

	body, err := s.fetch(ctx, query, log)
	if err != nil {
		return nil, err
	}

	doc, err := mbl.ParseDocument(body)
	if err != nil {
		log.Error("Results page could not be parsed", err, logger.Fields{"body_bytes": len(body)})
		return nil, err
	}

	properties, dropped := s.collector.Extract(doc)
	for _, card := range dropped {
		log.Warn("Dropped listing card", logger.Fields{
			"card_index": card.Index,
			"card_id":    card.ID,
			"reason":     card.Err.Error(),
		})
	}

	result := &domain.SearchResult{Results: properties}
	if next, ok := mbl.FindNext(doc); ok {
		result.Paging = &domain.Paging{Next: s.route + "?" + next}
	}

	log.Info("Search finished", logger.Fields{
		"results":  len(properties),
		"dropped":  len(dropped),
		"has_next": result.Paging != nil,
	})
	return result, nil
}

func (s *ScraperService) fetch(ctx context.Context, query domain.SearchQuery, log logger.Logger) ([]byte, error) {
	if query.Cursor != nil {
		log.Debug("Fetching page from cursor", logger.Fields{"q": query.Cursor.Q, "page": query.Cursor.Page})
		return s.fetcher.Page(ctx, *query.Cursor)
	}

	form := mbl.Translate(query)
	log.Debug("Submitting search form", logger.Fields{"form": form.Encode()})
	return s.fetcher.Search(ctx, form)
}
