// Package research runs the web research pipeline: search for sources,
// load each page (falling back to the search snippet when a fetch
// fails), summarize every source against the query, synthesize a
// report, and number the citations. A single sticky fault short-circuits
// the run; the terminal finalize stage converts it into the outcome.
package research

import (
	"time"

	"sleuth/internal/fault"
	"sleuth/internal/pipeline"
	"sleuth/internal/tavily"
)

// Source values for a Page, recording which path produced its content.
const (
	SourcePrimary  = "primary"
	SourceFallback = "fallback"
)

// Page is one loaded source document.
type Page struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Summary is the per-page digest handed to the report writer.
type Summary struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Text   string `json:"summary"`
	Source string `json:"source"`
}

// Citation points a numbered report reference back at its source. Seq
// is the 1-based position in generation order and never changes.
type Citation struct {
	Seq            int     `json:"id"`
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	AccessDate     string  `json:"access_date"`
	RelevanceScore float64 `json:"relevance_score"`
	Formatted      string  `json:"citation_format"`
}

// State is the record threaded through the research stages. Query and
// MaxResults are inputs; every other field is produced by exactly one
// stage.
type State struct {
	RunID      string
	Query      string
	MaxResults int

	Results   pipeline.Field[[]tavily.Result]
	Pages     pipeline.Field[[]Page]
	Summaries pipeline.Field[[]Summary]
	Report    pipeline.Field[string]
	Citations pipeline.Field[[]Citation]
	Answer    pipeline.Field[Outcome]

	Fault *fault.Fault
}

// Outcome is the terminal payload of a research run.
type Outcome struct {
	Success            bool       `json:"success"`
	RunID              string     `json:"run_id"`
	Query              string     `json:"query"`
	SourcesFound       int        `json:"sources_found"`
	PagesProcessed     int        `json:"pages_processed"`
	SummariesGenerated int        `json:"summaries_generated"`
	Report             string     `json:"report,omitempty"`
	Citations          []Citation `json:"citations,omitempty"`
	ReportLength       int        `json:"report_length"`
	Answer             string     `json:"answer,omitempty"`
	Error              string     `json:"error,omitempty"`
	ErrorKind          string     `json:"error_kind,omitempty"`
	GeneratedAt        time.Time  `json:"generated_at"`
}

func outcome(s State) Outcome {
	out := Outcome{
		RunID:              s.RunID,
		Query:              s.Query,
		SourcesFound:       len(s.Results.Value()),
		PagesProcessed:     len(s.Pages.Value()),
		SummariesGenerated: len(s.Summaries.Value()),
		GeneratedAt:        time.Now().UTC(),
	}
	if s.Fault != nil {
		out.Error = s.Fault.Detail
		out.ErrorKind = string(s.Fault.Kind)
		out.Answer = fault.ClosingMessage(s.Fault)
		return out
	}
	out.Success = true
	out.Report = s.Report.Value()
	out.ReportLength = len(out.Report)
	out.Citations = s.Citations.Value()
	return out
}
