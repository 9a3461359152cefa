package serpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchCapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "best restaurants in Kyoto" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		var hits []string
		for i := 0; i < 8; i++ {
			hits = append(hits, fmt.Sprintf(`{"title":"Hit %d","snippet":"s","link":"https://example.com/%d"}`, i, i))
		}
		_, _ = w.Write([]byte(`{"organic_results":[` + strings.Join(hits, ",") + `]}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	results, err := c.Search(context.Background(), "best restaurants in Kyoto")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	if results[0].Title != "Hit 0" {
		t.Fatalf("first result = %+v", results[0])
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Search succeeded on 429")
	}
}
