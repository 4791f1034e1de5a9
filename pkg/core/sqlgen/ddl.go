package sqlgen

import (
	"fmt"
	"strings"

	"github.com/ruslano69/redbridge/pkg/core/rstype"
)

// CreateTableSQL строит выражение CREATE TABLE для таблицы со схемой.
// Порядок колонок задаётся срезом columns, типы берутся из dtype.
func CreateTableSQL(schema, table string, columns []string, dtype map[string]rstype.Type) (string, error) {
	if len(columns) == 0 {
		return "", ErrNoColumns
	}
	qualified, err := QualifyTable(schema, table)
	if err != nil {
		return "", err
	}
	defs := make([]string, 0, len(columns))
	for _, name := range columns {
		ident, err := EncodeIdent(name)
		if err != nil {
			return "", err
		}
		t, ok := dtype[name]
		if !ok {
			return "", fmt.Errorf("no type specified for column '%s'", name)
		}
		defs = append(defs, ident+" "+t.String())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", qualified, strings.Join(defs, ",")), nil
}

// DropTableSQL строит выражение DROP TABLE для таблицы со схемой.
func DropTableSQL(schema, table string) (string, error) {
	qualified, err := QualifyTable(schema, table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DROP TABLE %s;", qualified), nil
}
