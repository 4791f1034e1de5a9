package frame

import (
	"reflect"
	"testing"
)

func TestNewValidation(t *testing.T) {
	_, err := New(
		Column{Name: "a", Values: []any{1, 2}},
		Column{Name: "b", Values: []any{"x", "y"}},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Mismatched lengths
	_, err = New(
		Column{Name: "a", Values: []any{1, 2}},
		Column{Name: "b", Values: []any{"x"}},
	)
	if err == nil {
		t.Error("expected error for mismatched column lengths")
	}

	// Duplicate names
	_, err = New(
		Column{Name: "a", Values: []any{1}},
		Column{Name: "a", Values: []any{2}},
	)
	if err == nil {
		t.Error("expected error for duplicate column name")
	}

	// Empty name
	_, err = New(Column{Name: "", Values: []any{1}})
	if err == nil {
		t.Error("expected error for empty column name")
	}
}

func TestRowAccess(t *testing.T) {
	f, err := FromRows([]string{"id", "name"}, [][]any{
		{1, "one"},
		{2, nil},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	if f.Len() != 2 || f.Width() != 2 {
		t.Errorf("got %dx%d, want 2x2", f.Len(), f.Width())
	}
	if !reflect.DeepEqual(f.Names(), []string{"id", "name"}) {
		t.Errorf("Names() = %v", f.Names())
	}
	if !reflect.DeepEqual(f.Row(1), []any{2, nil}) {
		t.Errorf("Row(1) = %#v", f.Row(1))
	}

	col, ok := f.Column("name")
	if !ok || !reflect.DeepEqual(col.Values, []any{"one", nil}) {
		t.Errorf("Column(name) = %#v, %v", col, ok)
	}
	if _, ok = f.Column("missing"); ok {
		t.Error("Column(missing) should report absence")
	}
}

func TestAppendRow(t *testing.T) {
	f, _ := New(
		Column{Name: "a", Values: []any{}},
		Column{Name: "b", Values: []any{}},
	)

	if err := f.AppendRow(1, "x"); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}
	if err := f.AppendRow(2); err == nil {
		t.Error("expected error for short row")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestFromRowsShape(t *testing.T) {
	_, err := FromRows([]string{"a", "b"}, [][]any{{1}})
	if err == nil {
		t.Error("expected error for ragged rows")
	}

	// Zero rows are fine
	f, err := FromRows([]string{"a"}, nil)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}
}
