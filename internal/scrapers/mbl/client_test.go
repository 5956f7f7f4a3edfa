package mbl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

// fakeSite mimics the search protocol: POST /fasteignir/query redirects to
// /fasteignir/leit, which serves a results page.
type fakeSite struct {
	mu        sync.Mutex
	form      url.Values
	userAgent string
	leitQuery string
	location  string
	status    int
	page      []byte
}

func newFakeSite(t *testing.T) (*fakeSite, *httptest.Server) {
	t.Helper()

	page, err := os.ReadFile("testdata/results.html")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	site := &fakeSite{
		location: "/fasteignir/leit?q=8f3a2c&page=1",
		status:   http.StatusFound,
		page:     page,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/fasteignir/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		site.mu.Lock()
		site.form = r.PostForm
		site.userAgent = r.UserAgent()
		location, status := site.location, site.status
		site.mu.Unlock()

		if location != "" {
			w.Header().Set("Location", location)
		}
		w.WriteHeader(status)
	})
	mux.HandleFunc("/fasteignir/leit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		site.mu.Lock()
		site.leitQuery = r.URL.RawQuery
		site.mu.Unlock()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(site.page)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return site, srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()

	c, err := NewClient(srv.URL+"/fasteignir", opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClientSearchFollowsRedirect(t *testing.T) {
	site, srv := newFakeSite(t)
	c := newTestClient(t, srv, WithUserAgent("fasteignir-test/1.0"))

	form := Translate(domain.SearchQuery{
		PostalCodes: []string{"101", "103"},
		Categories:  []string{"fjolbyli", "radhus"},
	})
	body, err := c.Search(context.Background(), form)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if string(body) != string(site.page) {
		t.Errorf("Search returned %d bytes; want the results page", len(body))
	}
	if got := site.form.Get("searchpnr"); got != "101,103" {
		t.Errorf("searchpnr = %q; want 101,103", got)
	}
	if got := site.form["tegund[]"]; len(got) != 2 || got[0] != "fjolb" || got[1] != "radpar" {
		t.Errorf("tegund[] = %v; want [fjolb radpar]", got)
	}
	if site.userAgent != "fasteignir-test/1.0" {
		t.Errorf("User-Agent = %q", site.userAgent)
	}
	if site.leitQuery != "q=8f3a2c&page=1" {
		t.Errorf("redirect target query = %q; want q=8f3a2c&page=1", site.leitQuery)
	}
}

func TestClientSearchAbsoluteLocation(t *testing.T) {
	site, srv := newFakeSite(t)
	site.location = srv.URL + "/fasteignir/leit?q=abc&page=1"
	site.status = http.StatusSeeOther

	if _, err := newTestClient(t, srv).Search(context.Background(), SearchForm{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if site.leitQuery != "q=abc&page=1" {
		t.Errorf("redirect target query = %q", site.leitQuery)
	}
}

func TestClientSearchErrors(t *testing.T) {
	tests := []struct {
		name     string
		location string
		status   int
		want     error
	}{
		{"redirect without location", "", http.StatusFound, domain.ErrProtocol},
		{"ok without location", "", http.StatusOK, domain.ErrProtocol},
		{"server error", "", http.StatusInternalServerError, domain.ErrTransport},
		{"not found", "/fasteignir/leit?q=1&page=1", http.StatusNotFound, domain.ErrTransport},
		{"redirect to missing page", "/fasteignir/nowhere", http.StatusFound, domain.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, srv := newFakeSite(t)
			site.location = tt.location
			site.status = tt.status

			body, err := newTestClient(t, srv).Search(context.Background(), SearchForm{})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v; want %v", err, tt.want)
			}
			if body != nil {
				t.Errorf("got %d bytes of body on failure", len(body))
			}
		})
	}
}

func TestClientPage(t *testing.T) {
	site, srv := newFakeSite(t)

	body, err := newTestClient(t, srv).Page(context.Background(), domain.Cursor{Q: "8f3a2c", Page: "2"})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(body) == 0 {
		t.Error("Page returned an empty body")
	}
	if site.leitQuery != "q=8f3a2c&page=2" {
		t.Errorf("leit query = %q; want q=8f3a2c&page=2", site.leitQuery)
	}
	if site.form != nil {
		t.Error("cursor mode must not submit the search form")
	}
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, WithTimeout(50*time.Millisecond))
	_, err := c.Page(context.Background(), domain.Cursor{Q: "a", Page: "1"})
	if !errors.Is(err, domain.ErrTimeout) {
		t.Errorf("err = %v; want ErrTimeout", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base + "/fasteignir")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.Search(context.Background(), SearchForm{}); !errors.Is(err, domain.ErrTransport) {
		t.Errorf("err = %v; want ErrTransport", err)
	}
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	if _, err := NewClient("not a url"); err == nil {
		t.Error("NewClient accepted a base url without scheme and host")
	}
}
