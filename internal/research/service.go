package research

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sleuth/internal/pipeline"
	"sleuth/internal/session"
	"sleuth/internal/tavily"
	"sleuth/internal/tokens"
	"sleuth/internal/webpage"
)

// Searcher finds candidate sources for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]tavily.Result, error)
}

// Fetcher loads one page of source material.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*webpage.Page, error)
}

// Generator produces text from a system and user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Model() string
}

// SampleQueries are research topics that show the pipeline off.
var SampleQueries = []string{
	"Latest developments in artificial intelligence 2024",
	"Climate change impacts on global agriculture",
	"Quantum computing breakthroughs and applications",
	"Sustainable transportation innovations",
	"Cybersecurity trends and threats 2024",
	"Renewable energy technologies advancement",
	"Space exploration missions and discoveries",
	"Medical breakthroughs in cancer treatment",
	"Future of remote work and digital nomadism",
	"Blockchain technology real-world applications",
}

// defaultMaxResults bounds a run that asks for no particular source
// count.
const defaultMaxResults = 5

// Config bounds the per-run source work. Zero values mean five
// sources, no pause between fetches, and no page truncation.
type Config struct {
	MaxResults     int
	FetchDelay     time.Duration
	PageTokenLimit int
}

// Service runs the research pipeline and records finished runs.
type Service struct {
	generator Generator
	searcher  Searcher
	fetcher   Fetcher
	counter   *tokens.Counter
	sessions  session.Store
	logger    *slog.Logger

	maxResults int
	fetchDelay time.Duration
	pageTokens int
}

// NewService wires the pipeline's dependencies together.
func NewService(generator Generator, searcher Searcher, fetcher Fetcher, sessions session.Store, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &Service{
		generator:  generator,
		searcher:   searcher,
		fetcher:    fetcher,
		counter:    tokens.NewCounter(),
		sessions:   sessions,
		logger:     logger,
		maxResults: cfg.MaxResults,
		fetchDelay: cfg.FetchDelay,
		pageTokens: cfg.PageTokenLimit,
	}
}

func (s *Service) newState(query string, maxResults int) State {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	return State{
		RunID:      uuid.New().String(),
		Query:      query,
		MaxResults: maxResults,
	}
}

// Research runs the pipeline synchronously and returns the terminal
// payload. maxResults overrides the configured source count when
// positive. The pipeline itself never fails; failures arrive encoded
// in the outcome.
func (s *Service) Research(ctx context.Context, query string, maxResults int) Outcome {
	st := s.newState(query, maxResults)
	started := time.Now()
	s.logger.Info("research run started", slog.String("run_id", st.RunID), slog.String("query", query))

	final := pipeline.New("research", "Research completed successfully", nil, s.stages()...).Run(ctx, st)

	out := final.Answer.Value()
	s.record(out, started)
	return out
}

// Stream runs the pipeline in the background and returns its progress
// channel. The terminal result event carries the same payload Research
// returns, and the run is recorded before that event is delivered.
func (s *Service) Stream(ctx context.Context, query string, maxResults int) <-chan pipeline.Event {
	st := s.newState(query, maxResults)
	started := time.Now()
	s.logger.Info("research run started", slog.String("run_id", st.RunID), slog.String("query", query))

	finish := func(final State) any {
		out := final.Answer.Value()
		s.record(out, started)
		return out
	}
	return pipeline.New("research", "Research completed successfully", finish, s.stages()...).RunStream(ctx, st)
}

func (s *Service) record(out Outcome, started time.Time) {
	rec := session.Record{
		ID:        out.RunID,
		Kind:      session.KindResearch,
		Request:   out.Query,
		Outcome:   out,
		CreatedAt: started.UTC(),
		Duration:  time.Since(started),
	}
	if err := s.sessions.Put(context.Background(), rec); err != nil {
		s.logger.Error("failed to record session",
			slog.String("run_id", out.RunID),
			slog.String("error", err.Error()))
	}
	s.logger.Info("research run finished",
		slog.String("run_id", out.RunID),
		slog.Bool("success", out.Success),
		slog.Int("sources", out.SourcesFound),
		slog.Duration("duration", rec.Duration))
}
