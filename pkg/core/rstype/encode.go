package rstype

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var errMultibyte = errors.New("multibyte characters must not be included")

// Порядок применения замен фиксирован: сначала удваивается обратный
// слэш, затем экранируются кавычка и управляющие символы.
var literalEscapes = [][2]string{
	{`\`, `\\`},
	{`'`, `\'`},
	{"\n", `\n`},
	{"\t", `\t`},
	{"\b", `\b`},
	{"\f", `\f`},
}

// Encode для SMALLINT: целое в диапазоне [-32768, 32767].
func (t SmallInt) Encode(v any) (string, error) {
	return encodeInteger(v, t, MinSmallInt, MaxSmallInt)
}

// Encode для INTEGER: целое в диапазоне [-2147483648, 2147483647].
func (t Integer) Encode(v any) (string, error) {
	return encodeInteger(v, t, MinInteger, MaxInteger)
}

// Encode для BIGINT: диапазон не проверяется.
func (t BigInt) Encode(v any) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return "", notValidError(v, t)
	}
	return strconv.FormatInt(n, 10), nil
}

// Encode для REAL.
func (t Real) Encode(v any) (string, error) {
	return encodeFloat(v, t, MinRealAbs, MaxRealAbs)
}

// Encode для DOUBLE PRECISION.
func (t DoublePrecision) Encode(v any) (string, error) {
	return encodeFloat(v, t, MinDoubleAbs, MaxDoubleAbs)
}

// Encode для NUMERIC: значение приводится к точному десятичному виду,
// округляется до Scale знаков (половина от нуля) и проверяется на
// переполнение относительно 10^(Precision-Scale).
func (t Numeric) Encode(v any) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}
	d, ok := toDecimal(v)
	if !ok {
		return "", notValidError(v, t)
	}

	rounded := d.Round(int32(t.Scale))

	limit := decimal.New(1, int32(t.Precision-t.Scale))
	if rounded.Abs().GreaterThanOrEqual(limit) {
		return "", fmt.Errorf("'%s' is out of range for type '%s'",
			rounded.StringFixed(int32(t.Scale)), t)
	}
	return rounded.StringFixed(int32(t.Scale)), nil
}

// Encode для BOOLEAN: ключевые слова TRUE/FALSE.
func (t Boolean) Encode(v any) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}
	switch b := v.(type) {
	case bool:
		return boolLiteral(b), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1":
			return boolLiteral(true), nil
		case "false", "0":
			return boolLiteral(false), nil
		}
	case int:
		if b == 0 || b == 1 {
			return boolLiteral(b == 1), nil
		}
	case int64:
		if b == 0 || b == 1 {
			return boolLiteral(b == 1), nil
		}
	}
	return "", notValidError(v, t)
}

// Encode для CHAR: многобайтовые символы запрещены, длина в байтах
// не больше Length.
func (t Char) Encode(v any) (string, error) {
	return encodeTextValue(v, t, charCheck(t.Length, false))
}

// Encode для BPCHAR: как CHAR с длиной 256.
func (t BPChar) Encode(v any) (string, error) {
	return encodeTextValue(v, t, charCheck(FixedTextLength, false))
}

// Encode для VARCHAR: длина в байтах не больше Length, многобайтовые
// символы допустимы.
func (t VarChar) Encode(v any) (string, error) {
	return encodeTextValue(v, t, charCheck(t.Length, true))
}

// Encode для TEXT: как VARCHAR с длиной 256.
func (t Text) Encode(v any) (string, error) {
	return encodeTextValue(v, t, charCheck(FixedTextLength, true))
}

// Encode для GEOMETRY: текстовое представление без проверок длины.
func (t Geometry) Encode(v any) (string, error) {
	return encodeTextValue(v, t, nil)
}

// Encode для DATE.
func (t Date) Encode(v any) (string, error) {
	return encodeTemporal(v, t, "2006-01-02", false)
}

// Encode для TIMESTAMP.
func (t TimeStamp) Encode(v any) (string, error) {
	return encodeTemporal(v, t, "2006-01-02 15:04:05", false)
}

// Encode для TIMESTAMPTZ: значение нормализуется к UTC.
func (t TimeStampTz) Encode(v any) (string, error) {
	return encodeTemporal(v, t, "2006-01-02 15:04:05-0700", true)
}

// Encode для TIME.
func (t Time) Encode(v any) (string, error) {
	return encodeTemporal(v, t, "15:04:05", false)
}

// Encode для TIMETZ: значение нормализуется к UTC.
func (t TimeTz) Encode(v any) (string, error) {
	return encodeTemporal(v, t, "15:04:05-0700", true)
}

// Encode для SUPER. Числа кодируются без кавычек, строки как текст,
// map и slice сериализуются в JSON и оборачиваются в JSON_PARSE(...).
func (t Super) Encode(v any) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}

	switch obj := v.(type) {
	case bool:
		if obj {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, _ := toInt64(v)
		return strconv.FormatInt(n, 10), nil
	case float32:
		return encodeSuperFloat(float64(obj))
	case float64:
		return encodeSuperFloat(obj)
	case string:
		return encodeText(obj, nil)
	case []byte:
		return "", fmt.Errorf("unsupported datatype %T for SUPER type", v)
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("cannot serialize value for SUPER type: %w", err)
		}
		encoded, err := encodeText(string(raw), nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("JSON_PARSE(%s)", encoded), nil
	default:
		return "", fmt.Errorf("unsupported datatype %T for SUPER type", v)
	}
}

func encodeSuperFloat(f float64) (string, error) {
	if math.IsNaN(f) {
		return nullLiteral, nil
	}
	return formatFloat(f), nil
}

const nullLiteral = "NULL"

func boolLiteral(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func notValidError(v any, t Type) error {
	return fmt.Errorf("'%v' is not valid for type '%s'", v, t)
}

// encodeInteger приводит значение к int64 и проверяет диапазон.
func encodeInteger(v any, t Type, min, max int64) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return "", notValidError(v, t)
	}
	if n < min || n > max {
		return "", fmt.Errorf("'%d' is out of range for type '%s'", n, t)
	}
	return strconv.FormatInt(n, 10), nil
}

// encodeFloat приводит значение к float64 и проверяет допустимый
// диапазон модуля. Ноль и NULL проверке не подлежат, NaN дает NULL.
func encodeFloat(v any, t Type, minAbs, maxAbs float64) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}
	f, ok := toFloat64(v)
	if !ok {
		return "", notValidError(v, t)
	}
	if math.IsNaN(f) {
		return nullLiteral, nil
	}
	if f != 0 {
		abs := math.Abs(f)
		if abs < minAbs || abs > maxAbs {
			return "", fmt.Errorf("'%s' is out of range for type '%s'", formatFloat(f), t)
		}
	}
	return formatFloat(f), nil
}

// encodeTextValue приводит значение к строке и кодирует как текстовый
// литерал с проверкой check.
func encodeTextValue(v any, t Type, check func(text string) error) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}
	s, ok := stringifyText(v)
	if !ok {
		return "", notValidError(v, t)
	}
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("value is not valid utf-8 for type '%s'", t)
	}
	return encodeText(s, check)
}

// encodeText выполняет общий текстовый конвейер: проверка, нормализация
// границ строк, экранирование, кавычки.
func encodeText(s string, check func(text string) error) (string, error) {
	if check != nil {
		if err := check(s); err != nil {
			return "", err
		}
	}

	s = normalizeLines(s)
	for _, esc := range literalEscapes {
		s = strings.ReplaceAll(s, esc[0], esc[1])
	}
	return "'" + s + "'", nil
}

// charCheck возвращает проверку символьного типа: длина считается
// в байтах, для однобайтовых типов запрещены многобайтовые символы.
func charCheck(length int, multibyte bool) func(string) error {
	return func(text string) error {
		if !multibyte && utf8.RuneCountInString(text) != len(text) {
			return errMultibyte
		}
		if len(text) > length {
			return fmt.Errorf("'%s' exceeds length (%d)", text, length)
		}
		return nil
	}
}

// Границы строк, приводимые к \n перед экранированием: перевод строки,
// возврат каретки, вертикальная табуляция, разделители файлов, NEL и
// юникодные разделители строк и абзацев.
func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// normalizeLines приводит все границы строк к \n. Завершающая граница
// отбрасывается, последовательность \r\n считается одной границей.
func normalizeLines(s string) string {
	if !strings.ContainsFunc(s, isLineBoundary) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	lineStart := 0
	first := true

	emit := func(end int) {
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(s[lineStart:end])
		first = false
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBoundary(r) {
			i += size
			continue
		}
		emit(i)
		if r == '\r' && i+size < len(s) && s[i+size] == '\n' {
			size++
		}
		i += size
		lineStart = i
	}
	if lineStart < len(s) {
		emit(len(s))
	}
	return b.String()
}

// stringifyText приводит значение текстового типа к строке.
func stringifyText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, _ := toInt64(v)
		return strconv.FormatInt(n, 10), true
	case float32:
		return formatFloat(float64(s)), true
	case float64:
		return formatFloat(s), true
	}
	return "", false
}

// toInt64 приводит целочисленные значения, целые float и числовые
// строки к int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// toFloat64 приводит числовые значения и строки к float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// toDecimal приводит значение к точному десятичному виду.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(n), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, ok := toInt64(v)
		if !ok {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromInt(i), true
	}
	return decimal.Decimal{}, false
}

// formatFloat дает кратчайшую десятичную запись с обратимым разбором.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// encodeTemporal кодирует значение даты либо времени: time.Time
// форматируется напрямую, строки предварительно разбираются.
func encodeTemporal(v any, t Type, layout string, utc bool) (string, error) {
	if v == nil {
		return nullLiteral, nil
	}

	var tm time.Time
	switch val := v.(type) {
	case time.Time:
		tm = val
	case string:
		parsed, ok := parseDateTime(val)
		if !ok {
			return "", fmt.Errorf("cannot parse to datetime '%s'", val)
		}
		tm = parsed
	default:
		return "", notValidError(v, t)
	}

	if utc {
		tm = tm.UTC()
	}
	return "'" + tm.Format(layout) + "'", nil
}

// Наборы раскладок для лояльного разбора дат и времени: сначала полные
// формы с зоной, затем без зоны, затем имена и усечения.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999-07:00",
	"15:04:05.999999999-0700",
	"15:04:05.999999999-07",
	"15:04:05.999999999",
}

// parseDateTime пытается разобрать строку по известным раскладкам.
func parseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, true
		}
	}
	return time.Time{}, false
}
