package rstype

import (
	"fmt"
)

// Type описывает тип колонки Redshift: знает свое SQL-имя для DDL,
// умеет кодировать значения в SQL-литералы для INSERT и декодировать
// сырые ячейки ответа Data API в Go-значения.
type Type interface {
	fmt.Stringer

	// Encode кодирует одно значение в SQL-литерал.
	// nil всегда кодируется как NULL.
	Encode(v any) (string, error)

	// DecodeColumn декодирует колонку целиком. Представление выбирается
	// один раз на колонку: без NULL элементы имеют минимальную ширину
	// (int16/int32/int64), при наличии NULL используется int64 и nil.
	DecodeColumn(cells []Cell) ([]any, error)
}

// Cell представляет сырое значение одной ячейки ответа Redshift Data API.
// Заполнено либо IsNull, либо ровно одно из типизированных полей.
type Cell struct {
	IsNull bool
	String *string
	Long   *int64
	Double *float64
	Bool   *bool
	Blob   []byte
}

// NullCell возвращает ячейку-NULL.
func NullCell() Cell { return Cell{IsNull: true} }

// StringCell возвращает ячейку со строковым значением.
func StringCell(s string) Cell { return Cell{String: &s} }

// LongCell возвращает ячейку с целочисленным значением.
func LongCell(v int64) Cell { return Cell{Long: &v} }

// DoubleCell возвращает ячейку со значением с плавающей точкой.
func DoubleCell(v float64) Cell { return Cell{Double: &v} }

// BoolCell возвращает ячейку с булевым значением.
func BoolCell(v bool) Cell { return Cell{Bool: &v} }

// UnknownTypeError возвращается, когда спецификация типа не распознана
// реестром: имя неизвестно или строка не соответствует грамматике.
type UnknownTypeError struct {
	Spec string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("Redshift type not found for '%s'", e.Spec)
}

// ArgumentError возвращается при недопустимых аргументах дескриптора:
// лишние аргументы, нечисловые аргументы, слишком большая длина.
type ArgumentError struct {
	Type    string
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

// SmallInt соответствует типу SMALLINT (INT2), диапазон [-32768, 32767].
type SmallInt struct{}

func (SmallInt) String() string { return "SMALLINT" }

// Integer соответствует типу INTEGER (INT4), диапазон
// [-2147483648, 2147483647].
type Integer struct{}

func (Integer) String() string { return "INTEGER" }

// BigInt соответствует типу BIGINT (INT8). Диапазон не проверяется:
// любое значение int64 допустимо.
type BigInt struct{}

func (BigInt) String() string { return "BIGINT" }

// Real соответствует типу REAL (FLOAT4).
type Real struct{}

func (Real) String() string { return "REAL" }

// DoublePrecision соответствует типу DOUBLE PRECISION (FLOAT8).
type DoublePrecision struct{}

func (DoublePrecision) String() string { return "DOUBLE PRECISION" }

// Numeric соответствует типу NUMERIC (DECIMAL) с точностью и масштабом.
// Значения округляются до Scale знаков (половина от нуля) и проверяются
// на переполнение: |v| >= 10^(Precision-Scale) недопустимо.
type Numeric struct {
	Precision int
	Scale     int
}

func (t Numeric) String() string {
	if t.Precision == DefaultNumericPrecision && t.Scale == DefaultNumericScale {
		return "NUMERIC"
	}
	return fmt.Sprintf("NUMERIC(%d,%d)", t.Precision, t.Scale)
}

// Boolean соответствует типу BOOLEAN.
type Boolean struct{}

func (Boolean) String() string { return "BOOLEAN" }

// Char соответствует типу CHAR(n). Многобайтовые символы запрещены,
// длина проверяется в байтах.
type Char struct {
	Length int
}

func (t Char) String() string {
	if t.Length == DefaultCharLength {
		return "CHAR"
	}
	return fmt.Sprintf("CHAR(%d)", t.Length)
}

// BPChar это алиас CHAR с фиксированной длиной 256.
type BPChar struct{}

func (BPChar) String() string { return "BPCHAR" }

// VarChar соответствует типу VARCHAR(n). Многобайтовые символы
// допустимы, длина проверяется в байтах.
type VarChar struct {
	Length int
}

func (t VarChar) String() string {
	if t.Length == DefaultVarCharLength {
		return "VARCHAR"
	}
	return fmt.Sprintf("VARCHAR(%d)", t.Length)
}

// Text это алиас VARCHAR с фиксированной длиной 256.
type Text struct{}

func (Text) String() string { return "TEXT" }

// Date соответствует типу DATE, формат '2006-01-02'.
type Date struct{}

func (Date) String() string { return "DATE" }

// TimeStamp соответствует типу TIMESTAMP, формат '2006-01-02 15:04:05'.
type TimeStamp struct{}

func (TimeStamp) String() string { return "TIMESTAMP" }

// TimeStampTz соответствует типу TIMESTAMPTZ. Значения нормализуются
// к UTC перед форматированием.
type TimeStampTz struct{}

func (TimeStampTz) String() string { return "TIMESTAMPTZ" }

// Time соответствует типу TIME, формат '15:04:05'.
type Time struct{}

func (Time) String() string { return "TIME" }

// TimeTz соответствует типу TIMETZ. Значения нормализуются к UTC.
type TimeTz struct{}

func (TimeTz) String() string { return "TIMETZ" }

// Geometry соответствует типу GEOMETRY. Значения передаются как текст
// в обе стороны, без интерпретации.
type Geometry struct{}

func (Geometry) String() string { return "GEOMETRY" }

// Super соответствует типу SUPER: скаляры кодируются как есть, строки
// как текст, map и slice сериализуются в JSON и оборачиваются в
// JSON_PARSE(...).
type Super struct{}

func (Super) String() string { return "SUPER" }

// Ограничения длин и значения по умолчанию.
const (
	DefaultCharLength    = 1
	MaxCharLength        = 4096
	DefaultVarCharLength = 256
	MaxVarCharLength     = 65535
	FixedTextLength      = 256

	DefaultNumericPrecision = 18
	DefaultNumericScale     = 0
)

// Границы числовых типов.
const (
	MinSmallInt = -32768
	MaxSmallInt = 32767
	MinInteger  = -2147483648
	MaxInteger  = 2147483647

	MinRealAbs   = 1.1755e-38
	MaxRealAbs   = 3.40282e38
	MinDoubleAbs = 2.22507385850721e-308
	MaxDoubleAbs = 1.79769313486231e308
)
