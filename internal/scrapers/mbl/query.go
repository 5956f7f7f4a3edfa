// internal/scrapers/mbl/query.go
package mbl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

// The search form takes prices in millions of ISK.
const priceDivisor = 1_000_000

// SearchForm is the body of a POST to {base}/query. Empty fields are left out
// of the encoded form: the site treats "key=" differently from a missing key.
type SearchForm struct {
	PostalCodes  string
	Street       string
	SqmFrom      string
	SqmTo        string
	BedroomsFrom string
	BedroomsTo   string
	PriceFrom    string
	PriceTo      string
	Text         string
	Types        []string
	SortBy       string
	NewToday     bool
	NewWeek      bool
}

// Translate builds the search form for a normalized query. Unknown category,
// feature and sort keys are dropped, never rejected.
func Translate(q domain.SearchQuery) SearchForm {
	form := SearchForm{
		PostalCodes:  strings.Join(q.PostalCodes, ","),
		Street:       strings.TrimSpace(q.StreetName),
		SqmFrom:      formatFloat(q.FloorSizeMin),
		SqmTo:        formatFloat(q.FloorSizeMax),
		BedroomsFrom: formatInt(q.BedroomsMin),
		BedroomsTo:   formatInt(q.BedroomsMax),
		PriceFrom:    formatPrice(q.PriceMin),
		PriceTo:      formatPrice(q.PriceMax),
		Text:         strings.TrimSpace(q.Filter),
		SortBy:       sortCodes[DefaultSort],
	}

	for _, key := range q.Categories {
		if code, ok := CategoryCode(key); ok {
			form.Types = append(form.Types, code)
		}
	}
	// Property type and amenity share the "tegund" axis on the site.
	for _, key := range q.ExtraFeatures {
		if code, ok := FeatureCode(key); ok {
			form.Types = append(form.Types, code)
		}
	}

	if code, ok := SortCode(q.SortBy); ok {
		form.SortBy = code
	}

	switch q.Recency {
	case domain.RecencyToday:
		form.NewToday = true
	case domain.RecencyWeek:
		form.NewWeek = true
	}

	return form
}

// Values returns the form with the site's bracketed array keys.
func (f SearchForm) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	set("searchpnr", f.PostalCodes)
	set("streetsearch", f.Street)
	set("sqm-from", f.SqmFrom)
	set("sqm-to", f.SqmTo)
	set("nbd-from", f.BedroomsFrom)
	set("nbd-to", f.BedroomsTo)
	set("pri-from", f.PriceFrom)
	set("pri-to", f.PriceTo)
	set("textsearch", f.Text)
	set("sortby", f.SortBy)
	for _, t := range f.Types {
		values.Add("tegund[]", t)
	}
	if f.NewToday {
		values.Set("newtoday", "true")
	} else if f.NewWeek {
		values.Set("newweek", "true")
	}

	return values
}

// Encode returns the urlencoded request body.
func (f SearchForm) Encode() string {
	return f.Values().Encode()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Non-positive prices are sent as no bound at all.
func formatPrice(v *float64) string {
	if v == nil || *v <= 0 {
		return ""
	}
	return strconv.FormatFloat(*v/priceDivisor, 'f', -1, 64)
}
