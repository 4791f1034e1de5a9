package sqlgen

import (
	"errors"
	"fmt"
	"strings"
)

// MaxStatementSize задаёт потолок размера SQL-выражения в байтах UTF-8.
// Выражение закрывается до того, как его длина без завершающей точки
// с запятой достигнет этого значения.
const MaxStatementSize = 100000

// ErrNoColumns возвращается для таблицы без единой колонки.
var ErrNoColumns = errors.New("Table must have at least one column")

// RowSizeError возвращается, когда одна строка вместе с префиксом
// INSERT не помещается в лимит размера выражения.
type RowSizeError struct {
	Row int
}

func (e *RowSizeError) Error() string {
	return fmt.Sprintf("Row[%d] is beyond size limitation", e.Row)
}

// InsertPlan — план пакетной вставки. Строки уже закодированы в SQL-
// литералы; план жадно укладывает их в выражения INSERT, не разрывая
// строку между выражениями.
type InsertPlan struct {
	prefix string
	tuples []string
}

// NewInsertPlan валидирует идентификаторы и форму данных, собирает
// кортежи значений и заранее проверяет, что каждая строка по отдельности
// помещается в лимит. Ни одно выражение не будет выдано, если хотя бы
// одна строка лимит превышает.
func NewInsertPlan(schema, table string, columns []string, rows [][]string) (*InsertPlan, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	qualified, err := QualifyTable(schema, table)
	if err != nil {
		return nil, err
	}
	idents := make([]string, 0, len(columns))
	for _, name := range columns {
		ident, err := EncodeIdent(name)
		if err != nil {
			return nil, err
		}
		idents = append(idents, ident)
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", qualified, strings.Join(idents, ","))

	tuples := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
		tuple := "(" + strings.Join(row, ",") + ")"
		if len(prefix)+len(tuple) >= MaxStatementSize {
			return nil, &RowSizeError{Row: i}
		}
		tuples = append(tuples, tuple)
	}
	return &InsertPlan{prefix: prefix, tuples: tuples}, nil
}

// Total возвращает число строк в плане.
func (p *InsertPlan) Total() int { return len(p.tuples) }

// Prefix возвращает общий префикс INSERT всех выражений плана.
func (p *InsertPlan) Prefix() string { return p.prefix }

// Statements возвращает свежий итератор по выражениям плана. Выражения
// строятся лениво при каждом вызове Next; повторный вызов Statements
// начинает обход заново.
func (p *InsertPlan) Statements() *StatementIter {
	return &StatementIter{plan: p}
}

// StatementIter последовательно выдаёт выражения INSERT. После Next
// доступны SQL текущего выражения и число строк, остающихся после него.
type StatementIter struct {
	plan      *InsertPlan
	next      int
	sql       string
	remaining int
}

// Next строит следующее выражение. Возвращает false, когда строк
// больше нет.
func (it *StatementIter) Next() bool {
	p := it.plan
	if it.next >= len(p.tuples) {
		return false
	}
	var b strings.Builder
	b.WriteString(p.prefix)
	b.WriteString(p.tuples[it.next])
	size := len(p.prefix) + len(p.tuples[it.next])
	i := it.next + 1
	for ; i < len(p.tuples); i++ {
		add := 1 + len(p.tuples[i])
		if size+add >= MaxStatementSize {
			break
		}
		b.WriteByte(',')
		b.WriteString(p.tuples[i])
		size += add
	}
	b.WriteByte(';')
	it.sql = b.String()
	it.remaining = len(p.tuples) - i
	it.next = i
	return true
}

// SQL возвращает текст текущего выражения.
func (it *StatementIter) SQL() string { return it.sql }

// Remaining возвращает число строк, остающихся после текущего
// выражения. Для последнего выражения плана оно равно нулю.
func (it *StatementIter) Remaining() int { return it.remaining }
