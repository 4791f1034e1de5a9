package rstype

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DecodeColumn для SMALLINT: int16 без NULL, иначе int64 и nil.
func (t SmallInt) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeIntColumn(cells, t, 16)
}

// DecodeColumn для INTEGER: int32 без NULL, иначе int64 и nil.
func (t Integer) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeIntColumn(cells, t, 32)
}

// DecodeColumn для BIGINT: всегда int64, nil при NULL.
func (t BigInt) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeIntColumn(cells, t, 64)
}

// DecodeColumn для REAL.
func (t Real) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeFloatColumn(cells, t)
}

// DecodeColumn для DOUBLE PRECISION.
func (t DoublePrecision) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeFloatColumn(cells, t)
}

// DecodeColumn для NUMERIC: точные десятичные значения.
func (t Numeric) DecodeColumn(cells []Cell) ([]any, error) {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			continue
		}
		d, err := decimal.NewFromString(cellText(c))
		if err != nil {
			return nil, decodeError(c, t)
		}
		out[i] = d
	}
	return out, nil
}

// DecodeColumn для BOOLEAN: булева ячейка либо строка "true".
func (t Boolean) DecodeColumn(cells []Cell) ([]any, error) {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			continue
		}
		if c.Bool != nil {
			out[i] = *c.Bool
			continue
		}
		out[i] = cellText(c) == "true"
	}
	return out, nil
}

// DecodeColumn для CHAR.
func (t Char) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTextColumn(cells), nil
}

// DecodeColumn для BPCHAR.
func (t BPChar) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTextColumn(cells), nil
}

// DecodeColumn для VARCHAR.
func (t VarChar) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTextColumn(cells), nil
}

// DecodeColumn для TEXT.
func (t Text) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTextColumn(cells), nil
}

// DecodeColumn для GEOMETRY: текст передается без интерпретации.
func (t Geometry) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTextColumn(cells), nil
}

// DecodeColumn для DATE: время усекается до полуночи.
func (t Date) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTemporalColumn(cells, false, func(tm time.Time) time.Time {
		y, m, d := tm.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, tm.Location())
	}), nil
}

// DecodeColumn для TIMESTAMP.
func (t TimeStamp) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTemporalColumn(cells, false, nil), nil
}

// DecodeColumn для TIMESTAMPTZ: значения приводятся к UTC.
func (t TimeStampTz) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTemporalColumn(cells, true, nil), nil
}

// DecodeColumn для TIME: дата обнуляется.
func (t Time) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTemporalColumn(cells, false, stripDate), nil
}

// DecodeColumn для TIMETZ: значения приводятся к UTC, дата обнуляется.
func (t TimeTz) DecodeColumn(cells []Cell) ([]any, error) {
	return decodeTemporalColumn(cells, true, stripDate), nil
}

// DecodeColumn для SUPER: JSON-десериализация текста ячейки.
func (t Super) DecodeColumn(cells []Cell) ([]any, error) {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(cellText(c)), &v); err != nil {
			return nil, decodeError(c, t)
		}
		out[i] = v
	}
	return out, nil
}

// decodeIntColumn применяет политику ширины: без NULL элементы имеют
// ширину width, при наличии NULL все значения int64, пропуски nil.
func decodeIntColumn(cells []Cell, t Type, width int) ([]any, error) {
	hasNull := false
	for _, c := range cells {
		if c.IsNull {
			hasNull = true
			break
		}
	}

	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			continue
		}
		n, err := cellLong(c, t)
		if err != nil {
			return nil, err
		}
		if hasNull {
			out[i] = n
			continue
		}
		switch width {
		case 16:
			out[i] = int16(n)
		case 32:
			out[i] = int32(n)
		default:
			out[i] = n
		}
	}
	return out, nil
}

// decodeFloatColumn дает float64, NULL представляется как NaN.
func decodeFloatColumn(cells []Cell, t Type) ([]any, error) {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			out[i] = math.NaN()
			continue
		}
		switch {
		case c.Double != nil:
			out[i] = *c.Double
		case c.Long != nil:
			out[i] = float64(*c.Long)
		case c.String != nil:
			f, err := strconv.ParseFloat(*c.String, 64)
			if err != nil {
				return nil, decodeError(c, t)
			}
			out[i] = f
		default:
			return nil, decodeError(c, t)
		}
	}
	return out, nil
}

func decodeTextColumn(cells []Cell) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			continue
		}
		out[i] = cellText(c)
	}
	return out
}

// decodeTemporalColumn разбирает текст лояльно: неразобранное значение
// становится nil, а не ошибкой.
func decodeTemporalColumn(cells []Cell, utc bool, normalize func(time.Time) time.Time) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		if c.IsNull {
			continue
		}
		tm, ok := parseDateTime(cellText(c))
		if !ok {
			continue
		}
		if utc {
			tm = tm.UTC()
		}
		if normalize != nil {
			tm = normalize(tm)
		}
		out[i] = tm
	}
	return out
}

func stripDate(tm time.Time) time.Time {
	return time.Date(0, time.January, 1, tm.Hour(), tm.Minute(), tm.Second(), tm.Nanosecond(), tm.Location())
}

// cellLong извлекает целое значение ячейки.
func cellLong(c Cell, t Type) (int64, error) {
	switch {
	case c.Long != nil:
		return *c.Long, nil
	case c.String != nil:
		n, err := strconv.ParseInt(*c.String, 10, 64)
		if err != nil {
			return 0, decodeError(c, t)
		}
		return n, nil
	case c.Double != nil:
		n, ok := floatToInt64(*c.Double)
		if !ok {
			return 0, decodeError(c, t)
		}
		return n, nil
	}
	return 0, decodeError(c, t)
}

// cellText дает текстовое представление ячейки.
func cellText(c Cell) string {
	switch {
	case c.String != nil:
		return *c.String
	case c.Long != nil:
		return strconv.FormatInt(*c.Long, 10)
	case c.Double != nil:
		return formatFloat(*c.Double)
	case c.Bool != nil:
		return strconv.FormatBool(*c.Bool)
	case c.Blob != nil:
		return string(c.Blob)
	}
	return ""
}

func decodeError(c Cell, t Type) error {
	return fmt.Errorf("cannot decode '%s' for type '%s'", cellText(c), t)
}
