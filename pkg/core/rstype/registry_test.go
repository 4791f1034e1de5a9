package rstype

import (
	"errors"
	"testing"
)

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"SMALLINT", "SMALLINT"},
		{"int2", "SMALLINT"},
		{"INTEGER", "INTEGER"},
		{"INT", "INTEGER"},
		{"int4", "INTEGER"},
		{"BIGINT", "BIGINT"},
		{"INT8", "BIGINT"},
		{"DECIMAL", "NUMERIC"},
		{"NUMERIC", "NUMERIC"},
		{"REAL", "REAL"},
		{"FLOAT4", "REAL"},
		{"DOUBLE PRECISION", "DOUBLE PRECISION"},
		{"FLOAT8", "DOUBLE PRECISION"},
		{"FLOAT", "DOUBLE PRECISION"},
		{"BOOLEAN", "BOOLEAN"},
		{"bool", "BOOLEAN"},
		{"CHAR", "CHAR"},
		{"CHARACTER", "CHAR"},
		{"NCHAR", "CHAR"},
		{"BPCHAR", "BPCHAR"},
		{"VARCHAR", "VARCHAR"},
		{"CHARACTER VARYING", "VARCHAR"},
		{"NVARCHAR", "VARCHAR"},
		{"TEXT", "TEXT"},
		{"DATE", "DATE"},
		{"TIMESTAMP", "TIMESTAMP"},
		{"timestamp without time zone", "TIMESTAMP"},
		{"TIMESTAMPTZ", "TIMESTAMPTZ"},
		{"TIMESTAMP WITH TIME ZONE", "TIMESTAMPTZ"},
		{"TIME", "TIME"},
		{"TIME WITHOUT TIME ZONE", "TIME"},
		{"TIMETZ", "TIMETZ"},
		{"TIME WITH TIME ZONE", "TIMETZ"},
		{"GEOMETRY", "GEOMETRY"},
		{"SUPER", "SUPER"},
	}

	for _, tt := range tests {
		typ, err := Resolve(tt.spec)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tt.spec, err)
		}
		if typ.String() != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.spec, typ, tt.want)
		}
	}
}

func TestResolveWithArguments(t *testing.T) {
	typ, err := Resolve("NUMERIC(10,2)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	num, ok := typ.(Numeric)
	if !ok {
		t.Fatalf("expected Numeric, got %T", typ)
	}
	if num.Precision != 10 || num.Scale != 2 {
		t.Errorf("got NUMERIC(%d,%d), want NUMERIC(10,2)", num.Precision, num.Scale)
	}
	if num.String() != "NUMERIC(10,2)" {
		t.Errorf("String() = %s, want NUMERIC(10,2)", num)
	}

	// Single argument sets precision only
	typ, err = Resolve("DECIMAL(10)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	num = typ.(Numeric)
	if num.Precision != 10 || num.Scale != 0 {
		t.Errorf("got NUMERIC(%d,%d), want NUMERIC(10,0)", num.Precision, num.Scale)
	}

	// Spaces inside the argument list are allowed
	typ, err = Resolve("numeric(10, 2)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if typ.(Numeric).Scale != 2 {
		t.Errorf("got scale %d, want 2", typ.(Numeric).Scale)
	}

	typ, err = Resolve("VARCHAR(300)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if typ.(VarChar).Length != 300 {
		t.Errorf("got length %d, want 300", typ.(VarChar).Length)
	}
	if typ.String() != "VARCHAR(300)" {
		t.Errorf("String() = %s, want VARCHAR(300)", typ)
	}

	typ, err = Resolve("CHAR(16)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if typ.(Char).Length != 16 {
		t.Errorf("got length %d, want 16", typ.(Char).Length)
	}
}

func TestResolveDefaults(t *testing.T) {
	typ, _ := Resolve("NUMERIC")
	if typ.String() != "NUMERIC" {
		t.Errorf("default NUMERIC renders as %s", typ)
	}
	num := typ.(Numeric)
	if num.Precision != 18 || num.Scale != 0 {
		t.Errorf("default NUMERIC = (%d,%d), want (18,0)", num.Precision, num.Scale)
	}

	typ, _ = Resolve("CHAR")
	if typ.(Char).Length != 1 {
		t.Errorf("default CHAR length = %d, want 1", typ.(Char).Length)
	}

	typ, _ = Resolve("VARCHAR")
	if typ.(VarChar).Length != 256 {
		t.Errorf("default VARCHAR length = %d, want 256", typ.(VarChar).Length)
	}

	// Empty parens mean no arguments
	typ, err := Resolve("VARCHAR()")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if typ.(VarChar).Length != 256 {
		t.Errorf("VARCHAR() length = %d, want 256", typ.(VarChar).Length)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	specs := []string{
		"SMALLINT", "INTEGER", "BIGINT", "NUMERIC", "NUMERIC(10,2)",
		"REAL", "DOUBLE PRECISION", "BOOLEAN", "CHAR", "CHAR(16)",
		"BPCHAR", "VARCHAR", "VARCHAR(300)", "TEXT", "DATE",
		"TIMESTAMP", "TIMESTAMPTZ", "TIME", "TIMETZ", "GEOMETRY", "SUPER",
	}
	for _, spec := range specs {
		typ, err := Resolve(spec)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", spec, err)
		}
		again, err := Resolve(typ.String())
		if err != nil {
			t.Fatalf("Resolve(%q) failed on round trip: %v", typ.String(), err)
		}
		if again != typ {
			t.Errorf("round trip changed descriptor: %v -> %v", typ, again)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	unknown := []string{
		"JSONB",
		"VARCHAR(10",
		"INT-4",
		"varchar(1,2)x",
		"",
	}
	for _, spec := range unknown {
		_, err := Resolve(spec)
		var ute *UnknownTypeError
		if !errors.As(err, &ute) {
			t.Errorf("Resolve(%q) = %v, want UnknownTypeError", spec, err)
		}
	}

	badArgs := []string{
		"INTEGER(4)",
		"SUPER(1)",
		"BPCHAR(10)",
		"TEXT(10)",
		"CHAR(5000)",
		"VARCHAR(70000)",
		"NUMERIC(1,2,3)",
		"CHAR( , )",
	}
	for _, spec := range badArgs {
		_, err := Resolve(spec)
		var ae *ArgumentError
		if !errors.As(err, &ae) {
			t.Errorf("Resolve(%q) = %v, want ArgumentError", spec, err)
		}
	}
}

func TestResolveLengthMessage(t *testing.T) {
	_, err := Resolve("CHAR(5000)")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "The length '5000' is too long for 'CHAR'"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDictionary(t *testing.T) {
	cols := []string{"id", "name"}

	// Scalar spec applies to all columns
	dict, err := Dictionary(cols, "VARCHAR(64)")
	if err != nil {
		t.Fatalf("Dictionary failed: %v", err)
	}
	for _, c := range cols {
		if dict[c].String() != "VARCHAR(64)" {
			t.Errorf("column %s: got %s", c, dict[c])
		}
	}

	// Per-column map with mixed specs and descriptors
	dict, err = Dictionary(cols, map[string]any{
		"id":   "BIGINT",
		"name": VarChar{Length: 300},
	})
	if err != nil {
		t.Fatalf("Dictionary failed: %v", err)
	}
	if dict["id"].String() != "BIGINT" || dict["name"].String() != "VARCHAR(300)" {
		t.Errorf("got %s, %s", dict["id"], dict["name"])
	}

	// Missing column entry
	_, err = Dictionary(cols, map[string]string{"id": "BIGINT"})
	if err == nil {
		t.Error("expected error for missing column type")
	}

	// Unknown type inside the map
	_, err = Dictionary(cols, map[string]string{"id": "BIGINT", "name": "WIBBLE"})
	if err == nil {
		t.Error("expected error for unknown type")
	}
}
