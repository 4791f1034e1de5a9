package sqlgen

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func collectStatements(t *testing.T, plan *InsertPlan) ([]string, []int) {
	t.Helper()
	var sqls []string
	var remainings []int
	it := plan.Statements()
	for it.Next() {
		sqls = append(sqls, it.SQL())
		remainings = append(remainings, it.Remaining())
	}
	return sqls, remainings
}

func TestInsertPlanSingleStatement(t *testing.T) {
	rows := [][]string{
		{"1", "'x'"},
		{"2", "'y'"},
	}
	plan, err := NewInsertPlan("public", "t", []string{"a", "b"}, rows)
	if err != nil {
		t.Fatalf("NewInsertPlan error: %v", err)
	}

	sqls, remainings := collectStatements(t, plan)
	if len(sqls) != 1 {
		t.Fatalf("statements = %d, want 1", len(sqls))
	}
	want := `INSERT INTO "public"."t" ("a","b") VALUES (1,'x'),(2,'y');`
	if sqls[0] != want {
		t.Errorf("sql = %s, want %s", sqls[0], want)
	}
	if remainings[0] != 0 {
		t.Errorf("remaining = %d, want 0", remainings[0])
	}
}

func TestInsertPlanEmpty(t *testing.T) {
	plan, err := NewInsertPlan("public", "t", []string{"a"}, nil)
	if err != nil {
		t.Fatalf("NewInsertPlan error: %v", err)
	}
	if plan.Total() != 0 {
		t.Errorf("Total = %d, want 0", plan.Total())
	}
	if it := plan.Statements(); it.Next() {
		t.Error("iterator over empty plan yielded a statement")
	}
}

func TestInsertPlanNoColumns(t *testing.T) {
	if _, err := NewInsertPlan("public", "t", nil, nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("error = %v, want ErrNoColumns", err)
	}
}

func TestInsertPlanRowWidth(t *testing.T) {
	rows := [][]string{{"1", "2"}}
	if _, err := NewInsertPlan("public", "t", []string{"a"}, rows); err == nil {
		t.Error("ragged row expected error")
	}
}

func TestInsertPlanRowTooLarge(t *testing.T) {
	huge := "'" + strings.Repeat("x", MaxStatementSize) + "'"
	rows := [][]string{
		{"1"},
		{huge},
	}
	_, err := NewInsertPlan("public", "t", []string{"a"}, rows)
	var sizeErr *RowSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("error type %T, want *RowSizeError", err)
	}
	if sizeErr.Row != 1 {
		t.Errorf("Row = %d, want 1", sizeErr.Row)
	}
	if want := "Row[1] is beyond size limitation"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestInsertPlanSplitting(t *testing.T) {
	// Each tuple is more than half of the ceiling, so no two rows
	// share a statement.
	wide := "'" + strings.Repeat("v", 60000) + "'"
	rows := [][]string{{wide}, {wide}, {wide}}
	plan, err := NewInsertPlan("public", "t", []string{"payload"}, rows)
	if err != nil {
		t.Fatalf("NewInsertPlan error: %v", err)
	}

	sqls, remainings := collectStatements(t, plan)
	if len(sqls) != 3 {
		t.Fatalf("statements = %d, want 3", len(sqls))
	}
	wantRemaining := []int{2, 1, 0}
	for i, sql := range sqls {
		if !strings.HasPrefix(sql, plan.Prefix()) {
			t.Errorf("statement %d does not start with the shared prefix", i)
		}
		if !strings.HasSuffix(sql, ";") {
			t.Errorf("statement %d does not end with ';'", i)
		}
		if len(sql)-1 >= MaxStatementSize {
			t.Errorf("statement %d is %d bytes, above the ceiling", i, len(sql)-1)
		}
		if remainings[i] != wantRemaining[i] {
			t.Errorf("remaining[%d] = %d, want %d", i, remainings[i], wantRemaining[i])
		}
	}
}

func TestInsertPlanNoRowSplitting(t *testing.T) {
	// 50000 rows cannot fit into two statements with tuples this wide.
	rows := make([][]string, 50000)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(100000 + i)}
	}
	plan, err := NewInsertPlan("public", "numbers", []string{"n"}, rows)
	if err != nil {
		t.Fatalf("NewInsertPlan error: %v", err)
	}

	sqls, remainings := collectStatements(t, plan)
	if len(sqls) < 3 {
		t.Fatalf("statements = %d, want at least 3", len(sqls))
	}

	total := 0
	for i, sql := range sqls {
		if len(sql)-1 >= MaxStatementSize {
			t.Errorf("statement %d is %d bytes, above the ceiling", i, len(sql)-1)
		}
		body := strings.TrimSuffix(strings.TrimPrefix(sql, plan.Prefix()), ";")
		tuples := strings.Split(body, "),(")
		for _, tuple := range tuples {
			tuple = strings.Trim(tuple, "()")
			wantValue := strconv.Itoa(100000 + total)
			if tuple != wantValue {
				t.Fatalf("row %d encoded as %q, want %q", total, tuple, wantValue)
			}
			total++
		}
		if remainings[i] != len(rows)-total {
			t.Errorf("remaining[%d] = %d, want %d", i, remainings[i], len(rows)-total)
		}
	}
	if total != len(rows) {
		t.Errorf("rows covered = %d, want %d", total, len(rows))
	}
	if last := remainings[len(remainings)-1]; last != 0 {
		t.Errorf("final remaining = %d, want 0", last)
	}
}

func TestInsertPlanRestartable(t *testing.T) {
	rows := make([][]string, 1000)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i), "'" + strings.Repeat("s", 200) + "'"}
	}
	plan, err := NewInsertPlan("public", "t", []string{"id", "payload"}, rows)
	if err != nil {
		t.Fatalf("NewInsertPlan error: %v", err)
	}

	first, _ := collectStatements(t, plan)
	second, _ := collectStatements(t, plan)
	if len(first) < 2 {
		t.Fatalf("statements = %d, want at least 2", len(first))
	}
	if len(first) != len(second) {
		t.Fatalf("restart yielded %d statements, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("statement %d differs between passes", i)
		}
	}
}
