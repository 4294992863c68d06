package sqlquery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sleuth/internal/dataset"
	"sleuth/internal/pipeline"
	"sleuth/internal/session"
	"sleuth/internal/tokens"
)

// Generator produces text from a system and user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Database is the dataset surface the pipeline needs.
type Database interface {
	Plan(ctx context.Context, query string) error
	Execute(ctx context.Context, query string) (*dataset.ResultSet, error)
	SchemaDescription() string
}

// SampleQuestions are example questions the sample dataset can answer.
var SampleQuestions = []string{
	"What are the top selling products?",
	"Which employees have the highest sales?",
	"Show me sales by department",
	"What's the average salary by department?",
	"Which customers bought the most expensive items?",
}

// Service runs the query pipeline and records finished runs.
type Service struct {
	generator Generator
	db        Database
	validator *Validator
	counter   *tokens.Counter
	sessions  session.Store
	logger    *slog.Logger
}

// NewService wires the pipeline's dependencies together.
func NewService(generator Generator, db Database, sessions session.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: generator,
		db:        db,
		validator: NewValidator(db),
		counter:   tokens.NewCounter(),
		sessions:  sessions,
		logger:    logger,
	}
}

func (s *Service) newState(question string) State {
	return State{
		RunID:    uuid.New().String(),
		Question: question,
		Schema:   s.db.SchemaDescription(),
	}
}

// Ask runs the pipeline synchronously and returns the terminal
// payload. The pipeline itself never fails; failures arrive encoded in
// the outcome.
func (s *Service) Ask(ctx context.Context, question string) Outcome {
	st := s.newState(question)
	started := time.Now()
	s.logger.Info("query run started", slog.String("run_id", st.RunID), slog.String("question", question))

	final := pipeline.New("query", "Query completed successfully", nil, s.stages()...).Run(ctx, st)

	out := outcome(final)
	s.record(out, started)
	return out
}

// Stream runs the pipeline in the background and returns its progress
// channel. The terminal result event carries the same payload Ask
// returns, and the run is recorded before that event is delivered.
func (s *Service) Stream(ctx context.Context, question string) <-chan pipeline.Event {
	st := s.newState(question)
	started := time.Now()
	s.logger.Info("query run started", slog.String("run_id", st.RunID), slog.String("question", question))

	finish := func(final State) any {
		out := outcome(final)
		s.record(out, started)
		return out
	}
	return pipeline.New("query", "Query completed successfully", finish, s.stages()...).RunStream(ctx, st)
}

func (s *Service) record(out Outcome, started time.Time) {
	rec := session.Record{
		ID:        out.RunID,
		Kind:      session.KindQuery,
		Request:   out.Question,
		Outcome:   out,
		CreatedAt: started.UTC(),
		Duration:  time.Since(started),
	}
	if err := s.sessions.Put(context.Background(), rec); err != nil {
		s.logger.Error("failed to record session",
			slog.String("run_id", out.RunID),
			slog.String("error", err.Error()))
	}
	s.logger.Info("query run finished",
		slog.String("run_id", out.RunID),
		slog.Bool("success", out.Success),
		slog.Duration("duration", rec.Duration))
}
