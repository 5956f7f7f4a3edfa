// cmd/mbl/main.go

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
	"github.com/ps-vitor/fasteignir-search/internal/scrapers/mbl"
	"github.com/ps-vitor/fasteignir-search/internal/services"
	"github.com/ps-vitor/fasteignir-search/pkg/logger"
)

// Runs one search against mbl.is and prints the results as JSON. Flags take
// the same values as the query parameters of GET /properties/mbl.
func main() {
	var (
		baseURL  = flag.String("base-url", mbl.DefaultBaseURL, "listing site base url")
		postal   = flag.String("postal-code", "", "comma separated postal codes")
		street   = flag.String("street", "", "street name")
		category = flag.String("category", "", "comma separated categories")
		features = flag.String("extra-feature", "", "comma separated extra features")
		sortBy   = flag.String("sort-by", "", "sort key")
		recent   = flag.String("recent", "", "today or week")
		filter   = flag.String("filter", "", "free text filter")
		pages    = flag.Int("pages", 1, "number of result pages to follow")
		debug    = flag.Bool("debug", false, "log to stderr at debug level")
	)
	flag.Parse()

	client, err := mbl.NewClient(*baseURL)
	if err != nil {
		log.Fatalf("Error creating client: %v", err)
	}
	collector, err := mbl.NewCollector(*baseURL)
	if err != nil {
		log.Fatalf("Error creating collector: %v", err)
	}
	svc := services.NewScraperService(client, collector, "")

	ctx := context.Background()
	if *debug {
		ctx = logger.ToContext(ctx, logger.New(logger.Config{Writer: os.Stderr, Level: logger.ParseLevel("debug"), Color: true}))
	}

	query := domain.SearchQuery{
		PostalCodes:   splitFlag(*postal),
		StreetName:    *street,
		Filter:        *filter,
		Recency:       *recent,
		Categories:    splitFlag(*category),
		ExtraFeatures: splitFlag(*features),
		SortBy:        *sortBy,
	}

	all := domain.SearchResult{Results: []domain.Property{}}
	for page := 0; page < *pages; page++ {
		result, err := svc.Search(ctx, query)
		if err != nil {
			log.Fatalf("Error running search: %v", err)
		}
		all.Results = append(all.Results, result.Results...)
		all.Paging = result.Paging

		if result.Paging == nil {
			break
		}
		cursor, ok := mbl.ParseCursor(strings.TrimPrefix(result.Paging.Next, "?"))
		if !ok {
			break
		}
		query = domain.SearchQuery{Cursor: &cursor}
	}

	jsonData, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling to JSON: %v", err)
	}
	fmt.Println(string(jsonData))
}

func splitFlag(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
