// Package client is the programmatic interface to a running sleuth
// daemon. The CLI is its only in-tree consumer.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sleuth/internal/pipeline"
	"sleuth/internal/research"
	"sleuth/internal/sqlquery"
)

// Client talks to the sleuth HTTP API. Timeouts come from the caller's
// context; the underlying http.Client carries none so that event
// streams can run as long as the server needs.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the transport, primarily for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for the daemon at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Event is one progress record from a streaming run. Data is left raw
// so callers can decode the terminal payload into the right outcome
// type.
type Event struct {
	Kind     pipeline.EventKind `json:"type"`
	Step     string             `json:"step"`
	Message  string             `json:"message"`
	Progress int                `json:"progress"`
	Data     json.RawMessage    `json:"data,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	return e.Kind == pipeline.KindResult || e.Kind == pipeline.KindError
}

// StreamEvent wraps an event or a transport error.
type StreamEvent struct {
	Event Event
	Err   error
}

// Session mirrors the server's session view.
type Session struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	Request         string          `json:"request"`
	CreatedAt       time.Time       `json:"created_at"`
	DurationSeconds float64         `json:"duration_seconds"`
	Outcome         json.RawMessage `json:"outcome,omitempty"`
}

// Samples are the canned example inputs for both pipelines.
type Samples struct {
	Questions []string `json:"questions"`
	Queries   []string `json:"queries"`
}

// Health is the daemon's liveness report.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

type queryRequest struct {
	Question string `json:"question"`
}

type researchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// Ask runs the query pipeline synchronously. Pipeline failures arrive
// encoded in the outcome, not as an error.
func (c *Client) Ask(ctx context.Context, question string) (*sqlquery.Outcome, error) {
	var out sqlquery.Outcome
	if err := c.do(ctx, http.MethodPost, "/v1/query", queryRequest{Question: question}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AskStream runs the query pipeline and returns its event stream.
func (c *Client) AskStream(ctx context.Context, question string) (<-chan StreamEvent, error) {
	return c.stream(ctx, "/v1/query/stream", queryRequest{Question: question})
}

// Research runs the research pipeline synchronously. maxResults of
// zero uses the server's default.
func (c *Client) Research(ctx context.Context, query string, maxResults int) (*research.Outcome, error) {
	var out research.Outcome
	if err := c.do(ctx, http.MethodPost, "/v1/research", researchRequest{Query: query, MaxResults: maxResults}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResearchStream runs the research pipeline and returns its event
// stream.
func (c *Client) ResearchStream(ctx context.Context, query string, maxResults int) (<-chan StreamEvent, error) {
	return c.stream(ctx, "/v1/research/stream", researchRequest{Query: query, MaxResults: maxResults})
}

// Sessions lists recorded runs, newest first.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	var out struct {
		Sessions []Session `json:"sessions"`
		Total    int       `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// Session fetches one recorded run including its outcome payload.
func (c *Client) Session(ctx context.Context, id string) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearSessions wipes the run history and reports how many records
// were removed.
func (c *Client) ClearSessions(ctx context.Context) (int, error) {
	var out struct {
		Cleared int `json:"cleared"`
	}
	if err := c.do(ctx, http.MethodDelete, "/v1/sessions", nil, &out); err != nil {
		return 0, err
	}
	return out.Cleared, nil
}

// Samples fetches the example inputs for both pipelines.
func (c *Client) Samples(ctx context.Context) (*Samples, error) {
	var out Samples
	if err := c.do(ctx, http.MethodGet, "/v1/samples", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Schema fetches the dataset schema description.
func (c *Client) Schema(ctx context.Context) (string, error) {
	var out struct {
		Schema string `json:"schema"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/schema", nil, &out); err != nil {
		return "", err
	}
	return out.Schema, nil
}

// Health checks daemon liveness.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) stream(ctx context.Context, path string, payload any) (<-chan StreamEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	out := make(chan StreamEvent)
	go streamReader(resp.Body, out)
	return out, nil
}

// streamReader decodes SSE records until the terminal event. The label
// line duplicates the payload's type field, so only data lines are
// decoded.
func streamReader(body io.ReadCloser, out chan<- StreamEvent) {
	defer close(out)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	// A full research report arrives as a single data line.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			out <- StreamEvent{Err: fmt.Errorf("malformed event: %w", err)}
			return
		}
		out <- StreamEvent{Event: ev}
		if ev.Terminal() {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		out <- StreamEvent{Err: fmt.Errorf("stream read error: %w", err)}
	}
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
