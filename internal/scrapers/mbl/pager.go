// internal/scrapers/mbl/pager.go
package mbl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

// FindNext returns the query string of the page's "next" link, exactly as the
// site wrote it. It is the cursor for the following page.
func FindNext(doc *goquery.Document) (string, bool) {
	href, ok := doc.Find(".next a").First().Attr("href")
	if !ok {
		return "", false
	}
	_, rawQuery, found := strings.Cut(href, "?")
	if !found || rawQuery == "" {
		return "", false
	}
	return rawQuery, true
}

// ParseCursor reads q and page back out of a cursor returned by FindNext.
func ParseCursor(rawQuery string) (domain.Cursor, bool) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return domain.Cursor{}, false
	}
	cursor := domain.Cursor{Q: values.Get("q"), Page: values.Get("page")}
	if cursor.Q == "" || cursor.Page == "" {
		return domain.Cursor{}, false
	}
	return cursor, true
}
