package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sleuth/internal/fault"
	"sleuth/internal/pipeline"
)

// excerptTokenLimit bounds the raw-content excerpt used in place of a
// summary when the per-page model call fails; sized to the 200-300
// word target of a real summary.
const excerptTokenLimit = 300

func (s *Service) stages() []pipeline.Stage[State] {
	return []pipeline.Stage[State]{
		{Name: "search", Message: "Searching the web...", Percent: 20, Run: s.search},
		{Name: "extract", Message: "Loading page content...", Percent: 40, Run: s.extract},
		{Name: "summarize", Message: "Summarizing sources...", Percent: 60, Run: s.summarize},
		{Name: "report", Message: "Writing research report...", Percent: 80, Run: s.report},
		{Name: "cite", Message: "Collecting citations...", Percent: 90, Run: s.cite},
		{Name: "finalize", Message: "Finalizing research...", Percent: 95, Run: s.finalize},
	}
}

// search seeds the source list every later stage works from. A failed
// or empty search leaves nothing to research, so it faults the run.
func (s *Service) search(ctx context.Context, st State) State {
	if st.Fault != nil {
		return st
	}

	results, err := s.searcher.Search(ctx, st.Query, st.MaxResults)
	if err != nil {
		s.logger.Warn("web search failed", slog.String("run_id", st.RunID), slog.String("error", err.Error()))
		st.Fault = fault.Retrieval("Search failed: %v", err)
		return st
	}
	if len(results) == 0 {
		st.Fault = fault.Retrieval("Search failed: no results found")
		return st
	}

	st.Results = pipeline.FieldOf(results)
	s.logger.Debug("search finished", slog.String("run_id", st.RunID), slog.Int("results", len(results)))
	return st
}

// extract loads each source URL, substituting the search snippet when
// the live fetch fails. One page comes out per result in, always; a
// short pause separates successive fetches.
func (s *Service) extract(ctx context.Context, st State) State {
	if st.Fault != nil {
		return st
	}

	results := st.Results.Value()
	pages := make([]Page, 0, len(results))
	for i, r := range results {
		if i > 0 && s.fetchDelay > 0 {
			select {
			case <-time.After(s.fetchDelay):
			case <-ctx.Done():
			}
		}

		page := Page{Title: r.Title, URL: r.URL, Source: SourcePrimary}
		fetched, err := s.fetcher.Fetch(ctx, r.URL)
		if err != nil {
			s.logger.Warn("page fetch failed, using search snippet",
				slog.String("run_id", st.RunID),
				slog.String("url", r.URL),
				slog.String("error", err.Error()))
			page.Content = r.Content
			page.Source = SourceFallback
		} else {
			page.Content = fetched.Text
			if page.Title == "" {
				page.Title = fetched.Title
			}
		}
		if page.Title == "" {
			page.Title = "No title"
		}
		page.Content = s.counter.Truncate(s.generator.Model(), page.Content, s.pageTokens)
		pages = append(pages, page)
	}

	st.Pages = pipeline.FieldOf(pages)
	return st
}

// summarize digests each page against the query. A failed model call
// downgrades that entry to a content excerpt rather than faulting the
// run, so the report stage always sees one summary per page.
func (s *Service) summarize(ctx context.Context, st State) State {
	if st.Fault != nil {
		return st
	}

	pages := st.Pages.Value()
	summaries := make([]Summary, 0, len(pages))
	for _, p := range pages {
		sum := Summary{Title: p.Title, URL: p.URL, Source: p.Source}
		text, err := s.generator.Generate(ctx, summarizeSystem, summarizePrompt(st.Query, p))
		if err != nil {
			s.logger.Warn("summary failed, using content excerpt",
				slog.String("run_id", st.RunID),
				slog.String("url", p.URL),
				slog.String("error", err.Error()))
			sum.Text = s.counter.Truncate(s.generator.Model(), p.Content, excerptTokenLimit)
		} else {
			sum.Text = strings.TrimSpace(text)
		}
		summaries = append(summaries, sum)
	}

	st.Summaries = pipeline.FieldOf(summaries)
	return st
}

// report synthesizes the summaries into the final document.
func (s *Service) report(ctx context.Context, st State) State {
	if st.Fault != nil {
		return st
	}

	text, err := s.generator.Generate(ctx, reportSystem, reportPrompt(st.Query, st.Summaries.Value()))
	if err != nil {
		s.logger.Warn("report generation failed", slog.String("run_id", st.RunID), slog.String("error", err.Error()))
		st.Fault = fault.Generation("Report writing failed: %v", err)
		return st
	}

	st.Report = pipeline.FieldOf(strings.TrimSpace(text))
	return st
}

// cite numbers one reference per summary. Relevance carries over from
// the search ranking; the access date is the run date.
func (s *Service) cite(ctx context.Context, st State) State {
	if st.Fault != nil {
		return st
	}

	results := st.Results.Value()
	summaries := st.Summaries.Value()
	date := time.Now().Format("2006-01-02")

	citations := make([]Citation, 0, len(summaries))
	for i, sum := range summaries {
		c := Citation{
			Seq:        i + 1,
			Title:      sum.Title,
			URL:        sum.URL,
			AccessDate: date,
		}
		if i < len(results) {
			c.RelevanceScore = results[i].Score
		}
		c.Formatted = fmt.Sprintf("[%d] %s. Retrieved %s. %s", c.Seq, c.Title, c.AccessDate, c.URL)
		citations = append(citations, c)
	}

	st.Citations = pipeline.FieldOf(citations)
	return st
}

// finalize is the terminal stage: it always runs and shapes the
// outcome, consuming any sticky fault into a user-facing message.
func (s *Service) finalize(ctx context.Context, st State) State {
	st.Answer = pipeline.FieldOf(outcome(st))
	return st
}
