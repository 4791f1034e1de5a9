// Package source читает табличные файлы в фреймы. Все значения
// остаются строками: приведение к типам Redshift выполняет кодировщик
// по словарю dtype.
package source

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ruslano69/redbridge/pkg/core/frame"
)

// ReadCSV читает CSV-файл в фрейм. При header=true имена колонок
// берутся из первой строки, иначе генерируются col_1..col_n. Пустая
// ячейка превращается в NULL.
func ReadCSV(path string, header bool) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	var names []string
	var rows [][]string
	if header {
		names = records[0]
		rows = records[1:]
	} else {
		names = generateNames(len(records[0]))
		rows = records
	}
	return buildFrame(names, rows)
}

// buildFrame собирает строковый фрейм, выравнивая рваные строки по
// ширине заголовка.
func buildFrame(names []string, rows [][]string) (*frame.Frame, error) {
	cols := make([]frame.Column, len(names))
	for i, name := range names {
		cols[i] = frame.Column{Name: name, Values: make([]any, len(rows))}
	}
	for r, row := range rows {
		for c := range names {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			if cell == "" {
				cols[c].Values[r] = nil
			} else {
				cols[c].Values[r] = cell
			}
		}
	}
	return frame.New(cols...)
}

func generateNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("col_%d", i+1)
	}
	return names
}
