package handlers

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

// parseSearchQuery reads the public query parameters:
//
//	postal_code     comma separated postal codes, e.g. 101,103
//	street_name     street to filter by
//	floor_size_min  square meters
//	floor_size_max  square meters
//	price_min       ISK
//	price_max       ISK
//	bedrooms_min
//	bedrooms_max
//	recent          today or week
//	filter          free text
//	category        comma separated: fjolbyli, einbyli, haed, radhus, hesthus,
//	                jord, sumarhus, nybygging, atvinnuhus, annad
//	extra_feature   comma separated: elevator, garage
//	sort_by         date, price_asc, price_desc, size_asc, size_desc,
//	                postal_code, category
//	q, page         cursor from paging.next; both are needed
//
// Numbers that do not parse are ignored.
func parseSearchQuery(values url.Values) domain.SearchQuery {
	if q, page := values.Get("q"), values.Get("page"); q != "" && page != "" {
		return domain.SearchQuery{Cursor: &domain.Cursor{Q: q, Page: page}}
	}

	query := domain.SearchQuery{
		PostalCodes:   splitList(values.Get("postal_code")),
		StreetName:    strings.TrimSpace(values.Get("street_name")),
		Filter:        strings.TrimSpace(values.Get("filter")),
		FloorSizeMin:  parseFloat(values.Get("floor_size_min")),
		FloorSizeMax:  parseFloat(values.Get("floor_size_max")),
		PriceMin:      parseFloat(values.Get("price_min")),
		PriceMax:      parseFloat(values.Get("price_max")),
		BedroomsMin:   parseInt(values.Get("bedrooms_min")),
		BedroomsMax:   parseInt(values.Get("bedrooms_max")),
		Categories:    splitList(values.Get("category")),
		ExtraFeatures: splitList(values.Get("extra_feature")),
		SortBy:        strings.TrimSpace(values.Get("sort_by")),
	}

	switch recent := values.Get("recent"); recent {
	case domain.RecencyToday, domain.RecencyWeek:
		query.Recency = recent
	}

	return query
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseFloat(value string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseInt(value string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &n
}
