// Package sqlquery turns natural language questions into validated,
// executed, and explained SQL over the sample dataset. The pipeline is
// generate, validate, execute, explain; a fault recorded by any stage
// short-circuits the ones between it and explain, which always
// produces a user-facing answer.
package sqlquery

import (
	"time"

	"sleuth/internal/dataset"
	"sleuth/internal/fault"
	"sleuth/internal/pipeline"
)

// State is the record threaded through the query pipeline. Inputs are
// plain fields; everything derived is either a Field (absent until its
// stage ran) or a fault slot (nil until something went wrong).
type State struct {
	RunID    string
	Question string
	Schema   string

	SQL    pipeline.Field[string]
	Rows   pipeline.Field[dataset.ResultSet]
	Answer pipeline.Field[string]

	// ValidationFault is owned by the validate stage: set on
	// rejection, reset to nil on a pass. RunFault holds generation and
	// execution failures and is never reset.
	ValidationFault *fault.Fault
	RunFault        *fault.Fault
}

// Failed returns the fault that should drive messaging, or nil.
// Validation rejections take precedence over run failures.
func (s State) Failed() *fault.Fault {
	if s.ValidationFault != nil {
		return s.ValidationFault
	}
	return s.RunFault
}

// Outcome is the terminal payload of a query run.
type Outcome struct {
	Success     bool          `json:"success"`
	RunID       string        `json:"run_id"`
	Question    string        `json:"question"`
	SQL         string        `json:"sql,omitempty"`
	Columns     []string      `json:"columns,omitempty"`
	Rows        []dataset.Row `json:"rows,omitempty"`
	RowCount    int           `json:"row_count"`
	Answer      string        `json:"answer"`
	Error       string        `json:"error,omitempty"`
	ErrorKind   string        `json:"error_kind,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// outcome assembles the terminal payload from a finished state.
func outcome(s State) Outcome {
	out := Outcome{
		RunID:       s.RunID,
		Question:    s.Question,
		Answer:      s.Answer.Value(),
		GeneratedAt: time.Now().UTC(),
	}
	if sql, ok := s.SQL.Get(); ok {
		out.SQL = sql
	}
	if rows, ok := s.Rows.Get(); ok {
		out.Columns = rows.Columns
		out.Rows = rows.Rows
		out.RowCount = len(rows.Rows)
	}
	if f := s.Failed(); f != nil {
		out.Error = f.Detail
		out.ErrorKind = string(f.Kind)
		return out
	}
	out.Success = true
	return out
}
