package dataset

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenSeedsSampleData(t *testing.T) {
	d := openTestDB(t)

	counts := []struct {
		table string
		want  int64
	}{
		{"employees", 8},
		{"products", 8},
		{"customers", 8},
		{"sales", 15},
	}
	for _, tt := range counts {
		rs, err := d.Execute(context.Background(), "SELECT COUNT(*) AS n FROM "+tt.table)
		if err != nil {
			t.Fatalf("count %s: %v", tt.table, err)
		}
		if got := rs.Rows[0]["n"]; got != tt.want {
			t.Errorf("%s rows = %v, want %d", tt.table, got, tt.want)
		}
	}
}

func TestExecuteReturnsColumnsAndValues(t *testing.T) {
	d := openTestDB(t)

	rs, err := d.Execute(context.Background(),
		"SELECT first_name, salary FROM employees WHERE employee_id = 1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(rs.Columns) != 2 || rs.Columns[0] != "first_name" || rs.Columns[1] != "salary" {
		t.Errorf("Columns = %v", rs.Columns)
	}
	if len(rs.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rs.Rows))
	}
	if got := rs.Rows[0]["first_name"]; got != "John" {
		t.Errorf("first_name = %v (%T), want John as string", got, got)
	}
}

func TestExecuteEmptyResultSet(t *testing.T) {
	d := openTestDB(t)

	rs, err := d.Execute(context.Background(),
		"SELECT * FROM employees WHERE department = 'Astrophysics'")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rs.Rows == nil {
		t.Error("Rows is nil, want empty non-nil slice")
	}
	if len(rs.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rs.Rows))
	}
}

func TestExecuteUnknownTableFails(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.Execute(context.Background(), "SELECT * FROM warehouses"); err == nil {
		t.Fatal("Execute succeeded against a missing table")
	}
}

func TestPlanAcceptsValidQuery(t *testing.T) {
	d := openTestDB(t)

	if err := d.Plan(context.Background(), "SELECT department, AVG(salary) FROM employees GROUP BY department"); err != nil {
		t.Errorf("Plan: %v", err)
	}
}

func TestPlanRejectsMalformedQuery(t *testing.T) {
	d := openTestDB(t)

	if err := d.Plan(context.Background(), "SELEC * FORM employees"); err == nil {
		t.Error("Plan accepted malformed SQL")
	}
}

func TestSeedSkippedWhenDataPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer second.Close()

	rs, err := second.Execute(context.Background(), "SELECT COUNT(*) AS n FROM employees")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := rs.Rows[0]["n"]; got != int64(8) {
		t.Errorf("employees after reopen = %v, want 8", got)
	}
}

func TestSchemaDescriptionCoversTables(t *testing.T) {
	d := openTestDB(t)

	desc := d.SchemaDescription()
	for _, table := range []string{"employees", "products", "customers", "sales"} {
		if !strings.Contains(desc, "Table: "+table) {
			t.Errorf("description missing table %s", table)
		}
	}
	if !strings.Contains(desc, "PRIMARY KEY") {
		t.Error("description missing key markers")
	}
}
