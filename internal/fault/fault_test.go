package fault

import (
	"errors"
	"strings"
	"testing"
)

func TestConstructorsSetKind(t *testing.T) {
	tests := []struct {
		name string
		f    *Fault
		kind Kind
	}{
		{"unsafe", Unsafe("DROP"), KindUnsafe},
		{"syntax", Syntax(errors.New("near \"SELEC\"")), KindSyntax},
		{"execution", Execution(errors.New("no such table")), KindExecution},
		{"generation", Generation("Error generating SQL: %v", errors.New("model overloaded")), KindGeneration},
		{"retrieval", Retrieval("Search failed: no results found"), KindRetrieval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.f.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", tt.f.Kind, tt.kind)
			}
			if tt.f.Detail == "" {
				t.Error("detail is empty")
			}
		})
	}
}

func TestUnsafeMessageNamesKeyword(t *testing.T) {
	f := Unsafe("TRUNCATE")
	if !strings.Contains(f.Detail, "destructive operation") {
		t.Errorf("detail %q does not mention destructive operation", f.Detail)
	}
	if !strings.Contains(f.Detail, "TRUNCATE") {
		t.Errorf("detail %q does not name the keyword", f.Detail)
	}
}

func TestRejected(t *testing.T) {
	if !Unsafe("DELETE").Rejected() {
		t.Error("unsafe fault should be rejected")
	}
	if !Syntax(errors.New("x")).Rejected() {
		t.Error("syntax fault should be rejected")
	}
	if Execution(errors.New("x")).Rejected() {
		t.Error("execution fault should not be rejected")
	}
	if Generation("x").Rejected() {
		t.Error("generation fault should not be rejected")
	}
	if Retrieval("x").Rejected() {
		t.Error("retrieval fault should not be rejected")
	}
	var none *Fault
	if none.Rejected() {
		t.Error("nil fault should not be rejected")
	}
}

func TestClosingMessage(t *testing.T) {
	rejected := ClosingMessage(Unsafe("DROP"))
	want := "I couldn't execute your query because: Query contains potentially destructive operation: DROP. Please rephrase your question."
	if rejected != want {
		t.Errorf("rejected message = %q\nwant %q", rejected, want)
	}

	internal := ClosingMessage(Retrieval("Search failed: %v", errors.New("timeout")))
	want = "I encountered an error: Search failed: timeout. Please try again with a different question."
	if internal != want {
		t.Errorf("internal message = %q\nwant %q", internal, want)
	}
}

func TestFaultIsError(t *testing.T) {
	var err error = Execution(errors.New("locked"))
	if !strings.Contains(err.Error(), "locked") {
		t.Errorf("Error() = %q, want the cause preserved", err.Error())
	}
}
