package sqlquery

import (
	"context"
	"strings"

	"sleuth/internal/fault"
)

// destructive lists the statement keywords the gate refuses outright.
// Matching is whole-token: a column named created_date must not trip
// CREATE.
var destructive = map[string]bool{
	"DROP":     true,
	"DELETE":   true,
	"UPDATE":   true,
	"INSERT":   true,
	"ALTER":    true,
	"CREATE":   true,
	"TRUNCATE": true,
	"REPLACE":  true,
	"PRAGMA":   true,
	"ATTACH":   true,
	"DETACH":   true,
}

// Planner asks the database to plan a query without running it.
type Planner interface {
	Plan(ctx context.Context, query string) error
}

// Validator is the safety gate in front of execution: a lexical
// denylist scan, then a dry-run plan.
type Validator struct {
	planner Planner
}

// NewValidator creates a validator that plans against db.
func NewValidator(db Planner) *Validator {
	return &Validator{planner: db}
}

// Validate returns nil when the query is safe to execute. The lexical
// scan runs first, so denylisted queries are rejected without touching
// the database; only lexically clean ones reach the planner.
func (v *Validator) Validate(ctx context.Context, query string) *fault.Fault {
	if kw := deniedKeyword(query); kw != "" {
		return fault.Unsafe(kw)
	}
	if err := v.planner.Plan(ctx, query); err != nil {
		return fault.Syntax(err)
	}
	return nil
}

// deniedKeyword returns the first denylisted token in query order, or
// "" when the query is lexically clean.
func deniedKeyword(query string) string {
	start := -1
	for i := 0; i <= len(query); i++ {
		if i < len(query) && isWordByte(query[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			token := strings.ToUpper(query[start:i])
			if destructive[token] {
				return token
			}
			start = -1
		}
	}
	return ""
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}
