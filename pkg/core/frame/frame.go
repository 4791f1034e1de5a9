package frame

import (
	"fmt"
)

// Column представляет именованную колонку таблицы. Значения хранятся
// как any, nil обозначает NULL. Декодированные колонки следуют политике
// ширины из pkg/core/rstype.
type Column struct {
	Name   string
	Values []any
}

// Frame представляет таблицу в колоночном виде: упорядоченный набор
// колонок одинаковой длины с уникальными именами.
type Frame struct {
	cols  []Column
	index map[string]int
}

// New создает фрейм из колонок. Все колонки должны иметь одинаковую
// длину и непустые уникальные имена.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		if err := f.addColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// FromRows создает фрейм из строкового представления: имена колонок
// плюс строки значений.
func FromRows(names []string, rows [][]any) (*Frame, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Values: make([]any, len(rows))}
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", r, len(row), len(names))
		}
		for c, v := range row {
			cols[c].Values[r] = v
		}
	}
	return New(cols...)
}

func (f *Frame) addColumn(c Column) error {
	if c.Name == "" {
		return fmt.Errorf("column name must not be empty")
	}
	if _, dup := f.index[c.Name]; dup {
		return fmt.Errorf("duplicate column '%s'", c.Name)
	}
	if len(f.cols) > 0 && len(c.Values) != f.Len() {
		return fmt.Errorf("column '%s' has %d values, expected %d", c.Name, len(c.Values), f.Len())
	}
	f.index[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// AddColumn добавляет колонку к фрейму.
func (f *Frame) AddColumn(c Column) error {
	return f.addColumn(c)
}

// Len возвращает количество строк.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// Width возвращает количество колонок.
func (f *Frame) Width() int { return len(f.cols) }

// Names возвращает имена колонок в исходном порядке.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns возвращает колонки фрейма. Срез принадлежит фрейму и не
// должен изменяться.
func (f *Frame) Columns() []Column { return f.cols }

// Column возвращает колонку по имени.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.cols[i], true
}

// Row собирает значения одной строки в порядке колонок.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.cols))
	for c := range f.cols {
		row[c] = f.cols[c].Values[i]
	}
	return row
}

// AppendRow добавляет строку значений в порядке колонок.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.cols) {
		return fmt.Errorf("row has %d values, expected %d", len(values), len(f.cols))
	}
	for c := range f.cols {
		f.cols[c].Values = append(f.cols[c].Values, values[c])
	}
	return nil
}
