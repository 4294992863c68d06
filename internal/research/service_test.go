package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"sleuth/internal/fault"
	"sleuth/internal/pipeline"
	"sleuth/internal/session/memory"
	"sleuth/internal/tavily"
	"sleuth/internal/webpage"
)

type scriptedReply struct {
	text string
	err  error
}

type generateCall struct {
	system string
	user   string
}

type scriptedGenerator struct {
	replies []scriptedReply
	calls   []generateCall
}

func (g *scriptedGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	i := len(g.calls)
	g.calls = append(g.calls, generateCall{system: system, user: user})
	if i >= len(g.replies) {
		return "", errors.New("unscripted generate call")
	}
	return g.replies[i].text, g.replies[i].err
}

func (g *scriptedGenerator) Model() string { return "gpt-4o-mini" }

type fakeSearcher struct {
	results []tavily.Result
	err     error
	calls   int
	gotMax  int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]tavily.Result, error) {
	f.calls++
	f.gotMax = maxResults
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeFetcher struct {
	pages map[string]*webpage.Page
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*webpage.Page, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if p, ok := f.pages[url]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no fixture for %s", url)
}

func threeResults() []tavily.Result {
	return []tavily.Result{
		{Title: "AI in 2024", URL: "https://example.com/ai", Content: "snippet one", Score: 0.97},
		{Title: "Machine Learning Advances", URL: "https://example.com/ml", Content: "snippet two", Score: 0.91},
		{Title: "Neural Networks Explained", URL: "https://example.com/nn", Content: "snippet three", Score: 0.88},
	}
}

func fetcherFor(results []tavily.Result) *fakeFetcher {
	pages := make(map[string]*webpage.Page, len(results))
	for i, r := range results {
		pages[r.URL] = &webpage.Page{Title: r.Title, Text: fmt.Sprintf("full article text %d", i+1)}
	}
	return &fakeFetcher{pages: pages}
}

func newTestService(gen Generator, searcher Searcher, fetcher Fetcher, cfg Config) (*Service, *memory.Store) {
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gen, searcher, fetcher, store, cfg, logger), store
}

func TestResearchHappyPath(t *testing.T) {
	gen := &scriptedGenerator{replies: []scriptedReply{
		{text: "Summary of source one."},
		{text: "Summary of source two."},
		{text: "Summary of source three."},
		{text: "# Research Report\n\nFindings [1][2][3]."},
	}}
	searcher := &fakeSearcher{results: threeResults()}
	fetcher := fetcherFor(threeResults())
	svc, store := newTestService(gen, searcher, fetcher, Config{})

	out := svc.Research(context.Background(), "AI progress", 0)

	if !out.Success {
		t.Fatalf("Success = false, error = %s", out.Error)
	}
	if out.SourcesFound != 3 || out.PagesProcessed != 3 || out.SummariesGenerated != 3 {
		t.Errorf("counts = %d/%d/%d, want 3/3/3",
			out.SourcesFound, out.PagesProcessed, out.SummariesGenerated)
	}
	if out.Report != "# Research Report\n\nFindings [1][2][3]." {
		t.Errorf("Report = %q", out.Report)
	}
	if out.ReportLength != len(out.Report) {
		t.Errorf("ReportLength = %d, want %d", out.ReportLength, len(out.Report))
	}
	if len(out.Citations) != 3 {
		t.Fatalf("citations = %d, want 3", len(out.Citations))
	}
	date := time.Now().Format("2006-01-02")
	first := out.Citations[0]
	if first.Seq != 1 || first.RelevanceScore != 0.97 {
		t.Errorf("first citation = %+v", first)
	}
	wantFormatted := fmt.Sprintf("[1] AI in 2024. Retrieved %s. https://example.com/ai", date)
	if first.Formatted != wantFormatted {
		t.Errorf("Formatted = %q\nwant %q", first.Formatted, wantFormatted)
	}
	if out.RunID == "" || out.GeneratedAt.IsZero() {
		t.Error("run metadata missing")
	}

	if len(fetcher.calls) != 3 {
		t.Errorf("fetches = %d, want 3", len(fetcher.calls))
	}
	if len(gen.calls) != 4 {
		t.Fatalf("generator calls = %d, want 3 summaries + 1 report", len(gen.calls))
	}
	if !strings.Contains(gen.calls[0].user, "Web Page Title: AI in 2024") {
		t.Errorf("first summary prompt = %q", gen.calls[0].user)
	}
	if !strings.Contains(gen.calls[3].user, "--- Source 3 ---") {
		t.Errorf("report prompt missing source blocks: %q", gen.calls[3].user)
	}

	recs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].Kind != "research" || recs[0].Request != "AI progress" {
		t.Errorf("session records = %+v", recs)
	}
}

func TestResearchMaxResultsOverride(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("stop here")}
	svc, _ := newTestService(&scriptedGenerator{}, searcher, &fakeFetcher{}, Config{})

	svc.Research(context.Background(), "q", 7)
	if searcher.gotMax != 7 {
		t.Errorf("maxResults = %d, want explicit 7", searcher.gotMax)
	}

	svc.Research(context.Background(), "q", 0)
	if searcher.gotMax != defaultMaxResults {
		t.Errorf("maxResults = %d, want default %d", searcher.gotMax, defaultMaxResults)
	}
}

func TestResearchSearchFailure(t *testing.T) {
	gen := &scriptedGenerator{}
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	fetcher := &fakeFetcher{}
	svc, _ := newTestService(gen, searcher, fetcher, Config{})

	out := svc.Research(context.Background(), "anything", 0)

	if out.Success {
		t.Fatal("Success = true after search failure")
	}
	if out.ErrorKind != string(fault.KindRetrieval) {
		t.Errorf("ErrorKind = %q, want retrieval", out.ErrorKind)
	}
	if out.Error != "Search failed: connection refused" {
		t.Errorf("Error = %q", out.Error)
	}
	want := "I encountered an error: Search failed: connection refused. Please try again with a different question."
	if out.Answer != want {
		t.Errorf("Answer = %q\nwant %q", out.Answer, want)
	}
	if len(fetcher.calls) != 0 || len(gen.calls) != 0 {
		t.Errorf("downstream work after search failure: fetches=%d generates=%d",
			len(fetcher.calls), len(gen.calls))
	}
	if out.SourcesFound != 0 || out.Report != "" || out.Citations != nil {
		t.Error("derived fields set despite short-circuit")
	}
}

func TestResearchEmptySearchResults(t *testing.T) {
	searcher := &fakeSearcher{results: []tavily.Result{}}
	svc, _ := newTestService(&scriptedGenerator{}, searcher, &fakeFetcher{}, Config{})

	out := svc.Research(context.Background(), "obscure topic", 0)

	if out.Success {
		t.Fatal("Success = true with zero sources")
	}
	if out.Error != "Search failed: no results found" {
		t.Errorf("Error = %q", out.Error)
	}
}

func TestResearchReportFailure(t *testing.T) {
	gen := &scriptedGenerator{replies: []scriptedReply{
		{text: "Summary one."},
		{text: "Summary two."},
		{text: "Summary three."},
		{err: errors.New("model overloaded")},
	}}
	searcher := &fakeSearcher{results: threeResults()}
	svc, _ := newTestService(gen, searcher, fetcherFor(threeResults()), Config{})

	out := svc.Research(context.Background(), "AI progress", 0)

	if out.Success {
		t.Fatal("Success = true after report failure")
	}
	if out.ErrorKind != string(fault.KindGeneration) {
		t.Errorf("ErrorKind = %q, want generation", out.ErrorKind)
	}
	if out.Error != "Report writing failed: model overloaded" {
		t.Errorf("Error = %q", out.Error)
	}
	if out.SummariesGenerated != 3 {
		t.Errorf("SummariesGenerated = %d, want work done before the fault reported", out.SummariesGenerated)
	}
	if out.Citations != nil {
		t.Error("citations built after the fault")
	}
}

func TestExtractFallsBackPerURL(t *testing.T) {
	results := threeResults()
	fetcher := fetcherFor(results)
	fetcher.errs = map[string]error{"https://example.com/ml": errors.New("503")}
	svc, _ := newTestService(&scriptedGenerator{}, &fakeSearcher{}, fetcher, Config{})

	st := State{RunID: "r", Query: "q", Results: pipeline.FieldOf(results)}
	got := svc.extract(context.Background(), st)

	pages := got.Pages.Value()
	if len(pages) != len(results) {
		t.Fatalf("pages = %d, want one per result (%d)", len(pages), len(results))
	}
	if pages[0].Source != SourcePrimary || pages[0].Content != "full article text 1" {
		t.Errorf("first page = %+v, want primary fetch", pages[0])
	}
	if pages[1].Source != SourceFallback {
		t.Errorf("failed fetch tagged %q, want fallback", pages[1].Source)
	}
	if pages[1].Content != "snippet two" {
		t.Errorf("fallback content = %q, want the search snippet", pages[1].Content)
	}
	if pages[2].Source != SourcePrimary {
		t.Errorf("third page tagged %q, want primary", pages[2].Source)
	}
	if got.Fault != nil {
		t.Errorf("Fault = %v, fetch failures must not fault the run", got.Fault)
	}
}

func TestExtractLengthAlwaysMatchesInput(t *testing.T) {
	tests := []struct {
		name    string
		results []tavily.Result
		failAll bool
	}{
		{"zero", nil, false},
		{"one failing", threeResults()[:1], true},
		{"all failing", threeResults(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{errs: map[string]error{}}
			if tt.failAll {
				for _, r := range tt.results {
					fetcher.errs[r.URL] = errors.New("unreachable")
				}
			}
			svc, _ := newTestService(&scriptedGenerator{}, &fakeSearcher{}, fetcher, Config{})

			st := State{Results: pipeline.FieldOf(tt.results)}
			got := svc.extract(context.Background(), st)

			pages := got.Pages.Value()
			if !got.Pages.Present() {
				t.Fatal("Pages absent after extract")
			}
			if len(pages) != len(tt.results) {
				t.Fatalf("pages = %d, want %d", len(pages), len(tt.results))
			}
			for i, p := range pages {
				if tt.failAll && p.Source != SourceFallback {
					t.Errorf("page %d tagged %q, want fallback", i, p.Source)
				}
			}
		})
	}
}

func TestExtractDelaysBetweenFetches(t *testing.T) {
	results := threeResults()
	fetcher := fetcherFor(results)
	svc, _ := newTestService(&scriptedGenerator{}, &fakeSearcher{}, fetcher, Config{FetchDelay: 50 * time.Millisecond})

	st := State{Results: pipeline.FieldOf(results)}

	started := time.Now()
	svc.extract(context.Background(), st)
	elapsed := time.Since(started)

	// Two gaps separate three fetches; there is no pause before the
	// first or after the last.
	if elapsed < 100*time.Millisecond {
		t.Errorf("elapsed = %v, want at least two 50ms gaps", elapsed)
	}

	single := State{Results: pipeline.FieldOf(results[:1])}
	started = time.Now()
	svc.extract(context.Background(), single)
	if elapsed := time.Since(started); elapsed >= 50*time.Millisecond {
		t.Errorf("single fetch took %v, want no throttle pause", elapsed)
	}
}

func TestExtractTruncatesPageContent(t *testing.T) {
	long := strings.Repeat("database systems and storage engines ", 200)
	results := threeResults()[:1]
	fetcher := &fakeFetcher{pages: map[string]*webpage.Page{
		results[0].URL: {Title: "Long read", Text: long},
	}}
	svc, _ := newTestService(&scriptedGenerator{}, &fakeSearcher{}, fetcher, Config{PageTokenLimit: 10})

	st := State{Results: pipeline.FieldOf(results)}
	got := svc.extract(context.Background(), st)

	content := got.Pages.Value()[0].Content
	if len(content) >= len(long) {
		t.Fatalf("content not truncated: %d bytes", len(content))
	}
	if !strings.HasSuffix(content, "...") {
		t.Errorf("truncated content = %q, want ellipsis suffix", content)
	}
}

func TestSummarizeFallsBackToExcerpt(t *testing.T) {
	gen := &scriptedGenerator{replies: []scriptedReply{
		{err: errors.New("timeout")},
		{text: "  A proper summary.  "},
	}}
	svc, _ := newTestService(gen, &fakeSearcher{}, &fakeFetcher{}, Config{})

	pages := []Page{
		{Title: "One", URL: "https://example.com/1", Content: "short page content", Source: SourcePrimary},
		{Title: "Two", URL: "https://example.com/2", Content: "other page content", Source: SourceFallback},
	}
	st := State{Query: "q", Pages: pipeline.FieldOf(pages)}
	got := svc.summarize(context.Background(), st)

	sums := got.Summaries.Value()
	if len(sums) != 2 {
		t.Fatalf("summaries = %d, want one per page", len(sums))
	}
	if sums[0].Text != "short page content" {
		t.Errorf("failed summary text = %q, want the content excerpt", sums[0].Text)
	}
	if sums[1].Text != "A proper summary." {
		t.Errorf("summary text = %q, want trimmed model reply", sums[1].Text)
	}
	if sums[0].Source != SourcePrimary || sums[1].Source != SourceFallback {
		t.Error("source tags not carried into summaries")
	}
	if got.Fault != nil {
		t.Errorf("Fault = %v, summary failures must not fault the run", got.Fault)
	}
}

func TestCiteNumbersSummariesInOrder(t *testing.T) {
	svc, _ := newTestService(&scriptedGenerator{}, &fakeSearcher{}, &fakeFetcher{}, Config{})

	results := threeResults()[:2]
	summaries := []Summary{
		{Title: "AI in 2024", URL: "https://example.com/ai", Text: "s1"},
		{Title: "Machine Learning Advances", URL: "https://example.com/ml", Text: "s2"},
	}
	st := State{
		Results:   pipeline.FieldOf(results),
		Summaries: pipeline.FieldOf(summaries),
	}
	got := svc.cite(context.Background(), st)

	cites := got.Citations.Value()
	if len(cites) != 2 {
		t.Fatalf("citations = %d, want 2", len(cites))
	}
	date := time.Now().Format("2006-01-02")
	for i, c := range cites {
		if c.Seq != i+1 {
			t.Errorf("citation %d Seq = %d", i, c.Seq)
		}
		if c.AccessDate != date {
			t.Errorf("AccessDate = %q, want %q", c.AccessDate, date)
		}
	}
	if cites[0].RelevanceScore != 0.97 || cites[1].RelevanceScore != 0.91 {
		t.Errorf("relevance scores = %v/%v, want carried from search", cites[0].RelevanceScore, cites[1].RelevanceScore)
	}
	want := fmt.Sprintf("[2] Machine Learning Advances. Retrieved %s. https://example.com/ml", date)
	if cites[1].Formatted != want {
		t.Errorf("Formatted = %q\nwant %q", cites[1].Formatted, want)
	}
}

func collectEvents(t *testing.T, ch <-chan pipeline.Event) []pipeline.Event {
	t.Helper()
	var events []pipeline.Event
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			t.Fatalf("stream did not close; got %d events", len(events))
		}
	}
}

func TestStreamEventSequence(t *testing.T) {
	gen := &scriptedGenerator{replies: []scriptedReply{
		{text: "Summary one."},
		{text: "Summary two."},
		{text: "Summary three."},
		{text: "Report."},
	}}
	searcher := &fakeSearcher{results: threeResults()}
	svc, store := newTestService(gen, searcher, fetcherFor(threeResults()), Config{})

	events := collectEvents(t, svc.Stream(context.Background(), "AI progress", 0))

	wantSteps := []string{"search", "extract", "summarize", "report", "cite", "finalize", "completed"}
	wantProgress := []int{20, 40, 60, 80, 90, 95, 100}
	if len(events) != len(wantSteps) {
		t.Fatalf("events = %d, want %d", len(events), len(wantSteps))
	}
	for i, ev := range events {
		if ev.Step != wantSteps[i] || ev.Progress != wantProgress[i] {
			t.Errorf("event %d = %s/%d, want %s/%d", i, ev.Step, ev.Progress, wantSteps[i], wantProgress[i])
		}
	}

	final := events[len(events)-1]
	if final.Kind != pipeline.KindResult {
		t.Fatalf("terminal kind = %q, want result", final.Kind)
	}
	if final.Message != "Research completed successfully" {
		t.Errorf("terminal message = %q", final.Message)
	}
	out, ok := final.Data.(Outcome)
	if !ok {
		t.Fatalf("terminal data = %T, want Outcome", final.Data)
	}
	if !out.Success {
		t.Errorf("outcome not successful: %s", out.Error)
	}

	recs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("session records = %d, want 1", len(recs))
	}
}
