// internal/domain/property.go
package domain

// Property is one listing card from a results page.
type Property struct {
	ID         string `json:"id"`
	SourceLink string `json:"source_link"`
	StreetName string `json:"street_name"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`

	// Price is nil when the listing is "on offer" or the price text did not parse.
	Price     *int64   `json:"price"`
	FloorSize float64  `json:"floor_size"`
	Category  *string  `json:"category"`
	Bedrooms  *int     `json:"bedrooms"`
	Photos    []string `json:"photos"`
	OpenHouse string   `json:"open_house,omitempty"`
}

// Paging points at the next results page, relative to this service's own route.
type Paging struct {
	Next string `json:"next"`
}

// SearchResult is the envelope returned for one search or cursor request.
type SearchResult struct {
	Results []Property `json:"results"`
	Paging  *Paging    `json:"paging,omitempty"`
}

// Recency values accepted for SearchQuery.Recency.
const (
	RecencyToday = "today"
	RecencyWeek  = "week"
)

// Cursor is the source site's own pagination key, forwarded untouched.
type Cursor struct {
	Q    string
	Page string
}

// SearchQuery is the normalized public request shape.
//
// When Cursor is set every other field is ignored.
type SearchQuery struct {
	PostalCodes []string
	StreetName  string
	Filter      string

	FloorSizeMin *float64
	FloorSizeMax *float64
	PriceMin     *float64
	PriceMax     *float64
	BedroomsMin  *int
	BedroomsMax  *int

	Recency       string
	Categories    []string
	ExtraFeatures []string
	SortBy        string

	Cursor *Cursor
}
