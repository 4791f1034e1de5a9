package rstype

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecodeIntegerWidths(t *testing.T) {
	cells := []Cell{LongCell(1), LongCell(2), LongCell(3)}

	got, err := (SmallInt{}).DecodeColumn(cells)
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if !reflect.DeepEqual(got, []any{int16(1), int16(2), int16(3)}) {
		t.Errorf("SMALLINT column = %#v, want int16 elements", got)
	}

	got, _ = (Integer{}).DecodeColumn(cells)
	if !reflect.DeepEqual(got, []any{int32(1), int32(2), int32(3)}) {
		t.Errorf("INTEGER column = %#v, want int32 elements", got)
	}

	got, _ = (BigInt{}).DecodeColumn(cells)
	if !reflect.DeepEqual(got, []any{int64(1), int64(2), int64(3)}) {
		t.Errorf("BIGINT column = %#v, want int64 elements", got)
	}
}

func TestDecodeIntegerNullablePolicy(t *testing.T) {
	// One null switches the whole column to the nullable representation
	cells := []Cell{LongCell(1), NullCell(), LongCell(3)}
	got, err := (Integer{}).DecodeColumn(cells)
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if !reflect.DeepEqual(got, []any{int64(1), nil, int64(3)}) {
		t.Errorf("nullable INTEGER column = %#v, want [1 <nil> 3] as int64", got)
	}

	// String cells are parsed
	got, err = (Integer{}).DecodeColumn([]Cell{StringCell("42")})
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if got[0] != int32(42) {
		t.Errorf("got %#v, want int32(42)", got[0])
	}

	// Garbage is a decode error for integers
	if _, err = (Integer{}).DecodeColumn([]Cell{StringCell("abc")}); err == nil {
		t.Error("expected decode error")
	}
}

func TestDecodeBoolean(t *testing.T) {
	cells := []Cell{BoolCell(true), StringCell("true"), StringCell("false"), NullCell()}
	got, err := (Boolean{}).DecodeColumn(cells)
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if !reflect.DeepEqual(got, []any{true, true, false, nil}) {
		t.Errorf("BOOLEAN column = %#v", got)
	}
}

func TestDecodeFloat(t *testing.T) {
	cells := []Cell{DoubleCell(1.5), StringCell("2.25"), LongCell(3), NullCell()}
	got, err := (DoublePrecision{}).DecodeColumn(cells)
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if got[0] != 1.5 || got[1] != 2.25 || got[2] != 3.0 {
		t.Errorf("float column = %#v", got)
	}
	// NULL becomes NaN for float columns
	if !math.IsNaN(got[3].(float64)) {
		t.Errorf("null float = %#v, want NaN", got[3])
	}
}

func TestDecodeNumeric(t *testing.T) {
	got, err := (Numeric{Precision: 10, Scale: 2}).DecodeColumn([]Cell{
		StringCell("12.34"), NullCell(),
	})
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if got[0].(decimal.Decimal).String() != "12.34" {
		t.Errorf("decimal = %v, want 12.34", got[0])
	}
	if got[1] != nil {
		t.Errorf("null decimal = %#v, want nil", got[1])
	}

	if _, err = (Numeric{}).DecodeColumn([]Cell{StringCell("abc")}); err == nil {
		t.Error("expected decode error")
	}
}

func TestDecodeText(t *testing.T) {
	got, err := (VarChar{Length: 256}).DecodeColumn([]Cell{
		StringCell("hello"), NullCell(),
	})
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	if !reflect.DeepEqual(got, []any{"hello", nil}) {
		t.Errorf("text column = %#v", got)
	}

	// GEOMETRY passes raw text through untouched
	geo, _ := (Geometry{}).DecodeColumn([]Cell{StringCell("0103000020E61000000100")})
	if geo[0] != "0103000020E61000000100" {
		t.Errorf("geometry = %#v", geo[0])
	}
}

func TestDecodeTemporal(t *testing.T) {
	got, err := (TimeStamp{}).DecodeColumn([]Cell{
		StringCell("2021-03-04 05:06:07"),
		StringCell("garbage"),
		NullCell(),
	})
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	want := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	if !got[0].(time.Time).Equal(want) {
		t.Errorf("timestamp = %v, want %v", got[0], want)
	}
	// Unparseable text decodes to nil, not an error
	if got[1] != nil || got[2] != nil {
		t.Errorf("lenient decode gave %#v, %#v, want nils", got[1], got[2])
	}

	tz, _ := (TimeStampTz{}).DecodeColumn([]Cell{StringCell("2021-03-04 05:06:07+02")})
	wantTz := time.Date(2021, 3, 4, 3, 6, 7, 0, time.UTC)
	if !tz[0].(time.Time).Equal(wantTz) {
		t.Errorf("timestamptz = %v, want %v", tz[0], wantTz)
	}

	d, _ := (Date{}).DecodeColumn([]Cell{StringCell("2021-03-04")})
	if d[0].(time.Time) != time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC) {
		t.Errorf("date = %v", d[0])
	}

	// TIME keeps only the clock part
	tm, _ := (Time{}).DecodeColumn([]Cell{StringCell("2021-03-04 05:06:07")})
	if h := tm[0].(time.Time).Hour(); h != 5 {
		t.Errorf("time hour = %d, want 5", h)
	}
	if y := tm[0].(time.Time).Year(); y != 0 {
		t.Errorf("time year = %d, want 0", y)
	}
}

func TestDecodeSuper(t *testing.T) {
	got, err := (Super{}).DecodeColumn([]Cell{
		StringCell(`{"a": 1, "b": [true, null]}`),
		StringCell(`"plain"`),
		StringCell("42"),
		NullCell(),
	})
	if err != nil {
		t.Fatalf("DecodeColumn failed: %v", err)
	}
	obj := got[0].(map[string]any)
	if obj["a"].(float64) != 1 {
		t.Errorf("super object = %#v", obj)
	}
	if got[1] != "plain" || got[2] != float64(42) || got[3] != nil {
		t.Errorf("super column = %#v", got)
	}

	if _, err = (Super{}).DecodeColumn([]Cell{StringCell("{broken")}); err == nil {
		t.Error("expected decode error for invalid json")
	}
}
