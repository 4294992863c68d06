package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"sleuth/internal/testutil"
)

func TestSearchReplayed(t *testing.T) {
	if _, err := os.Stat(filepath.Join("testdata", "fixtures", "search.yaml")); err != nil && os.Getenv("VCR_MODE") != "record" {
		t.Skip("no cassette recorded")
	}
	if os.Getenv("VCR_MODE") == "record" && os.Getenv("TAVILY_API_KEY") == "" {
		t.Skip("TAVILY_API_KEY not set")
	}

	r := testutil.NewRecorder(t, "search")

	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		apiKey = "test-key"
	}
	c := NewClient(apiKey, WithHTTPClient(testutil.HTTPClient(r)))

	results, err := c.Search(context.Background(), "Latest developments in artificial intelligence 2024", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("Search returned no results")
	}
	for i, res := range results {
		if res.Title == "" || res.URL == "" {
			t.Errorf("result %d missing title or url: %+v", i, res)
		}
		if res.Content == "" {
			t.Errorf("result %d missing content snippet", i)
		}
		if res.Score <= 0 {
			t.Errorf("result %d score = %v, want positive", i, res.Score)
		}
	}
}

func TestSearchRequestShape(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-unit", WithBaseURL(srv.URL))

	if _, err := c.Search(context.Background(), "quantum computing", 5); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got.APIKey != "tvly-unit" {
		t.Errorf("api_key = %q", got.APIKey)
	}
	if got.Query != "quantum computing" {
		t.Errorf("query = %q", got.Query)
	}
	if got.SearchDepth != "advanced" {
		t.Errorf("search_depth = %q, want advanced", got.SearchDepth)
	}
	if got.MaxResults != 5 {
		t.Errorf("max_results = %d, want 5", got.MaxResults)
	}
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":{"error":"Invalid API key"}}`))
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))

	if _, err := c.Search(context.Background(), "anything", 1); err == nil {
		t.Fatal("Search succeeded with 403 response")
	}
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))

	results, err := c.Search(context.Background(), "obscure", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}
