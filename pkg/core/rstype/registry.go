package rstype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Грамматика спецификации типа: имя из букв, цифр и пробелов, затем
// необязательный список целочисленных аргументов в скобках.
var typeSpecRe = regexp.MustCompile(`^([a-zA-Z0-9 ]*)(\(([0-9, ]*?)\))?$`)

// Resolve разбирает спецификацию типа ("VARCHAR(300)", "numeric(10,2)",
// "int4") и возвращает дескриптор. Имя регистронезависимо. Неизвестное
// имя или нарушение грамматики дает UnknownTypeError, недопустимые
// аргументы дают ArgumentError.
func Resolve(spec string) (Type, error) {
	m := typeSpecRe.FindStringSubmatch(spec)
	if m == nil {
		return nil, &UnknownTypeError{Spec: spec}
	}

	name := strings.ToUpper(strings.TrimSpace(m[1]))
	args, err := parseTypeArgs(name, m[3])
	if err != nil {
		return nil, err
	}

	switch name {
	case "SMALLINT", "INT2":
		return noArgType(name, SmallInt{}, args)
	case "INTEGER", "INT", "INT4":
		return noArgType(name, Integer{}, args)
	case "BIGINT", "INT8":
		return noArgType(name, BigInt{}, args)
	case "DECIMAL", "NUMERIC":
		return newNumeric(args)
	case "REAL", "FLOAT4":
		return noArgType(name, Real{}, args)
	case "DOUBLE PRECISION", "FLOAT8", "FLOAT":
		return noArgType(name, DoublePrecision{}, args)
	case "BOOLEAN", "BOOL":
		return noArgType(name, Boolean{}, args)
	case "CHAR", "CHARACTER", "NCHAR":
		return newChar(args)
	case "BPCHAR":
		return noArgType(name, BPChar{}, args)
	case "VARCHAR", "CHARACTER VARYING", "NVARCHAR":
		return newVarChar(args)
	case "TEXT":
		return noArgType(name, Text{}, args)
	case "DATE":
		return noArgType(name, Date{}, args)
	case "TIMESTAMP", "TIMESTAMP WITHOUT TIME ZONE":
		return noArgType(name, TimeStamp{}, args)
	case "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE":
		return noArgType(name, TimeStampTz{}, args)
	case "TIME", "TIME WITHOUT TIME ZONE":
		return noArgType(name, Time{}, args)
	case "TIMETZ", "TIME WITH TIME ZONE":
		return noArgType(name, TimeTz{}, args)
	case "GEOMETRY":
		return noArgType(name, Geometry{}, args)
	case "SUPER":
		return noArgType(name, Super{}, args)
	default:
		return nil, &UnknownTypeError{Spec: spec}
	}
}

// parseTypeArgs разбирает содержимое скобок в список целых.
func parseTypeArgs(name, raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	args := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &ArgumentError{
				Type:    name,
				Message: fmt.Sprintf("invalid argument '%s' for type '%s'", strings.TrimSpace(p), name),
			}
		}
		args = append(args, n)
	}
	return args, nil
}

func noArgType(name string, t Type, args []int) (Type, error) {
	if len(args) > 0 {
		return nil, &ArgumentError{
			Type:    name,
			Message: fmt.Sprintf("type '%s' does not accept arguments", name),
		}
	}
	return t, nil
}

func newNumeric(args []int) (Type, error) {
	t := Numeric{Precision: DefaultNumericPrecision, Scale: DefaultNumericScale}
	switch len(args) {
	case 0:
	case 1:
		t.Precision, t.Scale = args[0], 0
	case 2:
		t.Precision, t.Scale = args[0], args[1]
	default:
		return nil, &ArgumentError{
			Type:    "NUMERIC",
			Message: "type 'NUMERIC' accepts at most two arguments",
		}
	}
	return t, nil
}

func newChar(args []int) (Type, error) {
	length, err := charLength(args, "CHAR", DefaultCharLength, MaxCharLength)
	if err != nil {
		return nil, err
	}
	return Char{Length: length}, nil
}

func newVarChar(args []int) (Type, error) {
	length, err := charLength(args, "VARCHAR", DefaultVarCharLength, MaxVarCharLength)
	if err != nil {
		return nil, err
	}
	return VarChar{Length: length}, nil
}

// charLength применяет правила длины символьных типов: ноль или
// отсутствие аргумента дает длину по умолчанию, превышение максимума
// недопустимо.
func charLength(args []int, name string, def, max int) (int, error) {
	switch len(args) {
	case 0:
		return def, nil
	case 1:
	default:
		return 0, &ArgumentError{
			Type:    name,
			Message: fmt.Sprintf("type '%s' accepts at most one argument", name),
		}
	}

	length := args[0]
	if length == 0 {
		return def, nil
	}
	if length != def && length > max {
		return 0, &ArgumentError{
			Type:    name,
			Message: fmt.Sprintf("The length '%d' is too long for '%s'", length, name),
		}
	}
	return length, nil
}

// Dictionary связывает колонки с типами. Аргумент dtype принимает
// одиночный тип (Type или строка спецификации), применяемый ко всем
// колонкам, либо карту по именам колонок со значениями Type или строками.
func Dictionary(columns []string, dtype any) (map[string]Type, error) {
	dict := make(map[string]Type, len(columns))

	switch d := dtype.(type) {
	case Type:
		for _, c := range columns {
			dict[c] = d
		}
	case string:
		t, err := Resolve(d)
		if err != nil {
			return nil, err
		}
		for _, c := range columns {
			dict[c] = t
		}
	case map[string]Type:
		for _, c := range columns {
			t, ok := d[c]
			if !ok {
				return nil, fmt.Errorf("no type specified for column '%s'", c)
			}
			dict[c] = t
		}
	case map[string]string:
		for _, c := range columns {
			spec, ok := d[c]
			if !ok {
				return nil, fmt.Errorf("no type specified for column '%s'", c)
			}
			t, err := Resolve(spec)
			if err != nil {
				return nil, err
			}
			dict[c] = t
		}
	case map[string]any:
		for _, c := range columns {
			v, ok := d[c]
			if !ok {
				return nil, fmt.Errorf("no type specified for column '%s'", c)
			}
			switch tv := v.(type) {
			case Type:
				dict[c] = tv
			case string:
				t, err := Resolve(tv)
				if err != nil {
					return nil, err
				}
				dict[c] = t
			default:
				return nil, fmt.Errorf("unsupported dtype value for column '%s'", c)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported dtype argument: %T", dtype)
	}

	return dict, nil
}
