package mbl

import (
	"testing"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

func TestFindNext(t *testing.T) {
	next, ok := FindNext(loadFixture(t, "results.html"))
	if !ok {
		t.Fatal("FindNext found no next link")
	}
	if next != "q=8f3a2c&page=2" {
		t.Errorf("FindNext = %q; want q=8f3a2c&page=2", next)
	}
}

func TestFindNextOnLastPage(t *testing.T) {
	if next, ok := FindNext(loadFixture(t, "last_page.html")); ok {
		t.Errorf("FindNext on last page = %q; want none", next)
	}
}

func TestFindNextWithoutQuery(t *testing.T) {
	doc, err := ParseDocument([]byte(`<html><body><li class="next"><a href="/fasteignir/leit">Næsta</a></li></body></html>`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if next, ok := FindNext(doc); ok {
		t.Errorf("FindNext = %q; want none", next)
	}
}

func TestParseCursor(t *testing.T) {
	tests := []struct {
		raw    string
		want   domain.Cursor
		wantOK bool
	}{
		{"q=8f3a2c&page=2", domain.Cursor{Q: "8f3a2c", Page: "2"}, true},
		{"page=3&q=abc%2Fdef", domain.Cursor{Q: "abc/def", Page: "3"}, true},
		{"q=8f3a2c", domain.Cursor{}, false},
		{"", domain.Cursor{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseCursor(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCursor(%q) = %+v, %v; want %+v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
