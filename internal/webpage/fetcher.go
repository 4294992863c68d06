// Package webpage fetches article pages and reduces them to readable
// text for summarization. Extraction is deliberately rough: tags are
// dropped, script and style bodies are skipped, entities are
// unescaped, and whitespace is collapsed. Pages that yield no text are
// reported as errors so the caller can fall back to the search
// snippet.
package webpage

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"sleuth/internal/safehttp"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 2 << 20

	// Some sites refuse requests without a browser user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Page is a fetched document reduced to text.
type Page struct {
	Title string
	Text  string
}

// FetcherOption configures the fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = httpClient
	}
}

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher with a 10 second timeout. The default
// transport refuses loopback and private destinations, since fetched
// URLs come from search results rather than the operator. Callers that
// need to reach such addresses supply their own client.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{httpClient: &http.Client{
		Timeout:   defaultTimeout,
		Transport: safehttp.NewTransport(),
	}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url and extracts its title and visible text. Bodies
// are capped at 2 MiB.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "text") {
		return nil, fmt.Errorf("unsupported content type %q at %s", ct, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	title, text := extract(string(body))
	if text == "" {
		return nil, fmt.Errorf("no readable text at %s", url)
	}

	return &Page{Title: title, Text: text}, nil
}

// extract reduces an HTML document to its title and visible text in a
// single pass. Summarization input does not need a DOM.
func extract(markup string) (title, text string) {
	var titleB, textB strings.Builder
	inTitle := false

	i := 0
	for i < len(markup) {
		if markup[i] != '<' {
			j := strings.IndexByte(markup[i:], '<')
			if j < 0 {
				j = len(markup) - i
			}
			chunk := markup[i : i+j]
			if inTitle {
				titleB.WriteString(chunk)
			} else {
				textB.WriteString(chunk)
			}
			i += j
			continue
		}

		if strings.HasPrefix(markup[i:], "<!--") {
			end := strings.Index(markup[i:], "-->")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}

		gt := strings.IndexByte(markup[i:], '>')
		if gt < 0 {
			break
		}
		raw := markup[i+1 : i+gt]
		i += gt + 1

		name, closing := tagName(raw)
		switch name {
		case "script", "style", "noscript":
			if closing || strings.HasSuffix(strings.TrimSpace(raw), "/") {
				break
			}
			end := indexFold(markup[i:], "</"+name)
			if end < 0 {
				i = len(markup)
				break
			}
			i += end
		case "title":
			// Only the first title element counts.
			inTitle = !closing && titleB.Len() == 0
		}
		// Tags separate words even when the source has no whitespace.
		textB.WriteByte(' ')
	}

	title = strings.TrimSpace(html.UnescapeString(titleB.String()))
	text = strings.Join(strings.Fields(html.UnescapeString(textB.String())), " ")
	return title, text
}

// tagName pulls the element name out of raw tag content like
// `a href="..."` or `/div`.
func tagName(raw string) (name string, closing bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/") {
		closing = true
		raw = strings.TrimSpace(raw[1:])
	}
	end := len(raw)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			end = i
			break
		}
	}
	return strings.ToLower(raw[:end]), closing
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
