// Package fault defines the error taxonomy shared by the pipeline
// services. A Fault classifies what went wrong so later stages and API
// handlers can decide between "rephrase your question" and "try again"
// without inspecting message text.
package fault

import "fmt"

// Kind labels the category of a pipeline fault.
type Kind string

const (
	// KindUnsafe marks a query rejected by the safety gate before
	// reaching the database.
	KindUnsafe Kind = "unsafe_operation"
	// KindSyntax marks a query the database refused to plan.
	KindSyntax Kind = "syntax"
	// KindExecution marks a failure while running an accepted query.
	KindExecution Kind = "execution"
	// KindGeneration marks a model call that failed or returned
	// unusable output.
	KindGeneration Kind = "generation"
	// KindRetrieval marks a search or fetch failure.
	KindRetrieval Kind = "retrieval"
)

// Fault is a classified pipeline error. A nil *Fault means no fault.
type Fault struct {
	Kind   Kind
	Detail string
}

func (f *Fault) Error() string { return f.Detail }

// Rejected reports whether the fault represents input the system
// refused (unsafe or malformed) rather than an internal failure. The
// distinction drives the closing message shown to the caller.
func (f *Fault) Rejected() bool {
	if f == nil {
		return false
	}
	return f.Kind == KindUnsafe || f.Kind == KindSyntax
}

// Unsafe reports a query blocked by the keyword denylist.
func Unsafe(keyword string) *Fault {
	return &Fault{
		Kind:   KindUnsafe,
		Detail: fmt.Sprintf("Query contains potentially destructive operation: %s", keyword),
	}
}

// Syntax reports a query the database could not plan.
func Syntax(err error) *Fault {
	return &Fault{Kind: KindSyntax, Detail: fmt.Sprintf("SQL syntax error: %v", err)}
}

// Execution reports a failure while executing a validated query.
func Execution(err error) *Fault {
	return &Fault{Kind: KindExecution, Detail: fmt.Sprintf("Database execution error: %v", err)}
}

// Generation reports a model call that failed or returned unusable
// output. The format string names the operation that failed.
func Generation(format string, args ...any) *Fault {
	return &Fault{Kind: KindGeneration, Detail: fmt.Sprintf(format, args...)}
}

// Retrieval reports a failed search or page fetch.
func Retrieval(format string, args ...any) *Fault {
	return &Fault{Kind: KindRetrieval, Detail: fmt.Sprintf(format, args...)}
}

// ClosingMessage phrases a terminal fault for the caller. Rejected
// input asks for a rephrase; internal failures ask for a retry.
func ClosingMessage(f *Fault) string {
	if f.Rejected() {
		return fmt.Sprintf("I couldn't execute your query because: %s. Please rephrase your question.", f.Detail)
	}
	return fmt.Sprintf("I encountered an error: %s. Please try again with a different question.", f.Detail)
}
