package sqlquery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sleuth/internal/fault"
	"sleuth/internal/pipeline"
)

// rowsTokenLimit bounds the results excerpt handed to the explain
// prompt; ten wide rows can still be a lot of text.
const rowsTokenLimit = 1000

func (s *Service) stages() []pipeline.Stage[State] {
	return []pipeline.Stage[State]{
		{Name: "generate", Message: "Generating SQL...", Percent: 25, Run: s.generate},
		{Name: "validate", Message: "Validating SQL...", Percent: 45, Run: s.validate},
		{Name: "execute", Message: "Running query...", Percent: 70, Run: s.execute},
		{Name: "explain", Message: "Explaining results...", Percent: 95, Run: s.explain},
	}
}

// generate asks the model for a single SQL statement answering the
// question against the schema.
func (s *Service) generate(ctx context.Context, st State) State {
	if st.Failed() != nil {
		return st
	}

	raw, err := s.generator.Generate(ctx, generatePrompt(st.Schema), st.Question)
	if err != nil {
		s.logger.Warn("sql generation failed", slog.String("run_id", st.RunID), slog.String("error", err.Error()))
		st.RunFault = fault.Generation("Error generating SQL: %v", err)
		return st
	}

	st.SQL = pipeline.FieldOf(cleanSQL(raw))
	s.logger.Debug("sql generated", slog.String("run_id", st.RunID), slog.String("sql", st.SQL.Value()))
	return st
}

// validate runs the safety gate over the generated SQL. The validator
// result is assigned as-is: a pass resets any stale rejection to nil,
// which is why only run faults short-circuit this stage.
func (s *Service) validate(ctx context.Context, st State) State {
	if st.RunFault != nil {
		return st
	}

	st.ValidationFault = s.validator.Validate(ctx, st.SQL.Value())
	if st.ValidationFault != nil {
		s.logger.Info("query rejected",
			slog.String("run_id", st.RunID),
			slog.String("kind", string(st.ValidationFault.Kind)),
			slog.String("detail", st.ValidationFault.Detail))
	}
	return st
}

// execute runs the validated query against the dataset.
func (s *Service) execute(ctx context.Context, st State) State {
	if st.Failed() != nil {
		return st
	}

	rs, err := s.db.Execute(ctx, st.SQL.Value())
	if err != nil {
		s.logger.Warn("query execution failed", slog.String("run_id", st.RunID), slog.String("error", err.Error()))
		st.RunFault = fault.Execution(err)
		return st
	}

	st.Rows = pipeline.FieldOf(*rs)
	return st
}

// explain is the terminal stage: it always produces an answer. With a
// sticky fault it phrases the failure for the caller; otherwise it
// asks the model to narrate the results, falling back to a row count
// when that call fails.
func (s *Service) explain(ctx context.Context, st State) State {
	if f := st.Failed(); f != nil {
		st.Answer = pipeline.FieldOf(fault.ClosingMessage(f))
		return st
	}

	rows := st.Rows.Value()
	excerpt := s.counter.Truncate(s.generator.Model(), resultsText(rows), rowsTokenLimit)

	answer, err := s.generator.Generate(ctx, explainSystem, explainPrompt(st.Question, st.SQL.Value(), excerpt))
	if err != nil {
		st.Answer = pipeline.FieldOf(fmt.Sprintf(
			"I found %d results for your question, but couldn't generate a detailed explanation. Error: %v",
			len(rows.Rows), err))
		return st
	}

	st.Answer = pipeline.FieldOf(strings.TrimSpace(answer))
	return st
}

// cleanSQL strips a markdown code fence from a model reply.
func cleanSQL(raw string) string {
	sql := strings.TrimSpace(raw)
	if strings.HasPrefix(sql, "```") {
		parts := strings.Split(sql, "```")
		if len(parts) > 1 {
			sql = parts[1]
		}
		sql = strings.TrimPrefix(sql, "sql")
	}
	return strings.TrimSpace(sql)
}
