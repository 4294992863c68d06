package sqlquery

import (
	"context"
	"errors"
	"testing"

	"sleuth/internal/fault"
)

type fakePlanner struct {
	err   error
	calls int
}

func (p *fakePlanner) Plan(ctx context.Context, query string) error {
	p.calls++
	return p.err
}

func TestDeniedKeyword(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"drop", "DROP TABLE customers", "DROP"},
		{"delete", "DELETE FROM sales", "DELETE"},
		{"update", "UPDATE employees SET salary = 0", "UPDATE"},
		{"insert", "INSERT INTO products VALUES (1)", "INSERT"},
		{"pragma", "PRAGMA table_info(employees)", "PRAGMA"},
		{"lowercase", "drop table customers", "DROP"},
		{"mixed case", "DrOp TaBlE customers", "DROP"},
		{"first in query order wins", "SELECT 1; DELETE FROM t; DROP TABLE t", "DELETE"},
		{"keyword inside identifier is clean", "SELECT created_date, replacement_cost FROM products", ""},
		{"updated_at is clean", "SELECT updated_at FROM sales", ""},
		{"plain select is clean", "SELECT * FROM employees", ""},
		{"keyword in string literal still trips", "SELECT * FROM notes WHERE body = 'DROP'", "DROP"},
		{"empty query", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deniedKeyword(tt.query); got != tt.want {
				t.Errorf("deniedKeyword(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestValidateRejectsBeforePlanning(t *testing.T) {
	p := &fakePlanner{}
	v := NewValidator(p)

	f := v.Validate(context.Background(), "DROP TABLE customers")

	if f == nil {
		t.Fatal("Validate passed a destructive query")
	}
	if f.Kind != fault.KindUnsafe {
		t.Errorf("kind = %q, want unsafe_operation", f.Kind)
	}
	if p.calls != 0 {
		t.Errorf("planner called %d times for a denylisted query, want 0", p.calls)
	}
}

func TestValidateSyntaxFault(t *testing.T) {
	p := &fakePlanner{err: errors.New(`near "SELEC": syntax error`)}
	v := NewValidator(p)

	f := v.Validate(context.Background(), "SELEC * FORM employees")

	if f == nil {
		t.Fatal("Validate passed an unplannable query")
	}
	if f.Kind != fault.KindSyntax {
		t.Errorf("kind = %q, want syntax", f.Kind)
	}
	if p.calls != 1 {
		t.Errorf("planner calls = %d, want 1", p.calls)
	}
}

func TestValidatePassReturnsNil(t *testing.T) {
	p := &fakePlanner{}
	v := NewValidator(p)

	if f := v.Validate(context.Background(), "SELECT * FROM employees"); f != nil {
		t.Errorf("Validate = %v, want nil", f)
	}
	if p.calls != 1 {
		t.Errorf("planner calls = %d, want 1", p.calls)
	}
}
