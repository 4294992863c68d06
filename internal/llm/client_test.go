package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sleuth/internal/testutil"
)

func TestGenerateReplayed(t *testing.T) {
	if _, err := os.Stat(filepath.Join("testdata", "fixtures", "generate.yaml")); err != nil && os.Getenv("VCR_MODE") != "record" {
		t.Skip("no cassette recorded")
	}
	if os.Getenv("VCR_MODE") == "record" && os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	r := testutil.NewRecorder(t, "generate")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = "test-key"
	}
	c := NewClient(apiKey, WithHTTPClient(testutil.HTTPClient(r)))

	got, err := c.Generate(context.Background(),
		"You are an expert SQL developer.",
		"What is the average salary by department?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(strings.ToUpper(got), "SELECT") {
		t.Errorf("Generate = %q, want a SELECT statement", got)
	}
}

func TestGenerateSendsPromptsAndAuth(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-unit", WithBaseURL(srv.URL), WithModel("gpt-4o"), WithTemperature(0.3), WithMaxTokens(64))

	got, err := c.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hi" {
		t.Errorf("Generate = %q, want %q", got, "hi")
	}
	if gotAuth != "Bearer sk-unit" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", gotReq.Model)
	}
	if gotReq.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotReq.Temperature)
	}
	if gotReq.MaxTokens != 64 {
		t.Errorf("max_tokens = %d, want 64", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v, want system then user", gotReq.Messages)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))

	_, err := c.Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("Generate succeeded with 401 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error = %v, want status code included", err)
	}
	if !strings.Contains(err.Error(), "Incorrect API key") {
		t.Errorf("error = %v, want API message included", err)
	}
}

func TestGenerateEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))

	if _, err := c.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("Generate succeeded with no choices")
	}
}

func TestWithBaseURLTrimsTrailingSlash(t *testing.T) {
	c := NewClient("k", WithBaseURL("http://example.com/v1/"))
	if c.baseURL != "http://example.com/v1" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}
}
