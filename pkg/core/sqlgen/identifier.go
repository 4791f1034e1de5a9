package sqlgen

import (
	"strings"
	"unicode/utf8"
)

// IdentifierError возвращается при недопустимом имени таблицы, схемы
// или колонки.
type IdentifierError struct {
	Name    string
	Message string
}

func (e *IdentifierError) Error() string { return e.Message }

// EncodeIdent кодирует идентификатор для SQL: проверяет кодировку,
// запрещает пустые имена и NUL, удваивает кавычки и оборачивает имя
// в двойные кавычки.
func EncodeIdent(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", &IdentifierError{Name: name, Message: "Identifier is not valid utf-8"}
	}
	if len(name) == 0 {
		return "", &IdentifierError{Name: name, Message: "Empty table or column name specified"}
	}
	if strings.IndexByte(name, 0) >= 0 {
		return "", &IdentifierError{Name: name, Message: "Identifier cannot contain NULs"}
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`, nil
}

// QualifyTable собирает квалифицированное имя таблицы со схемой.
func QualifyTable(schema, table string) (string, error) {
	s, err := EncodeIdent(schema)
	if err != nil {
		return "", err
	}
	t, err := EncodeIdent(table)
	if err != nil {
		return "", err
	}
	return s + "." + t, nil
}
