package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/redbridge/pkg/core/frame"
)

// ReadXLSX читает лист Excel-файла в фрейм. Пустое имя листа означает
// первый лист книги. Семантика заголовка и пустых ячеек совпадает с
// ReadCSV.
func ReadXLSX(path, sheet string, header bool) (*frame.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet '%s' is empty", sheet)
	}

	var names []string
	var data [][]string
	if header {
		names = rows[0]
		data = rows[1:]
	} else {
		names = generateNames(widest(rows))
		data = rows
	}
	return buildFrame(names, data)
}

// widest возвращает максимальную ширину строки: GetRows обрезает
// хвостовые пустые ячейки, поэтому строки могут быть рваными.
func widest(rows [][]string) int {
	n := 0
	for _, row := range rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}
