package redshift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ruslano69/redbridge/pkg/core/frame"
	"github.com/ruslano69/redbridge/pkg/core/rstype"
	"github.com/ruslano69/redbridge/pkg/core/sqlgen"
	"github.com/ruslano69/redbridge/pkg/retry"
)

// IfExists задаёт поведение загрузки при существующей таблице.
type IfExists string

const (
	// IfExistsFail - ошибка, если таблица уже существует
	IfExistsFail IfExists = "fail"
	// IfExistsReplace - удалить существующую таблицу и создать заново
	IfExistsReplace IfExists = "replace"
	// IfExistsAppend - дописать строки в существующую таблицу
	IfExistsAppend IfExists = "append"
)

// ParseIfExists разбирает режим из строки. Пустая строка означает fail.
func ParseIfExists(s string) (IfExists, error) {
	switch IfExists(s) {
	case "", IfExistsFail:
		return IfExistsFail, nil
	case IfExistsReplace:
		return IfExistsReplace, nil
	case IfExistsAppend:
		return IfExistsAppend, nil
	}
	return "", fmt.Errorf("invalid if_exists mode '%s'", s)
}

// LoadOptions настраивают загрузку фрейма в таблицу.
type LoadOptions struct {
	// Schema - схема таблицы, по умолчанию public
	Schema string

	// Dtype - словарь типов: rstype.Type, строка-спецификация,
	// map[string]rstype.Type или map[string]string (см. rstype.Dictionary)
	Dtype any

	// IfExists - поведение при существующей таблице
	IfExists IfExists

	// Progress - приёмник строк прогресса, nil отключает вывод
	Progress io.Writer

	// DumpDir - каталог для дампа невыполненных выражений, пустая
	// строка отключает дамп
	DumpDir string
}

// Load загружает фрейм в таблицу пакетами INSERT. Перед отправкой все
// значения кодируются в литералы и каждая строка проверяется на лимит
// размера выражения; ошибка любой стадии не оставляет частично
// отправленной очереди.
func (c *Client) Load(ctx context.Context, f *frame.Frame, table string, opts LoadOptions) error {
	if opts.Schema == "" {
		opts.Schema = "public"
	}
	mode := opts.IfExists
	if mode == "" {
		mode = IfExistsFail
	}

	names := f.Names()
	if len(names) == 0 {
		return sqlgen.ErrNoColumns
	}

	exists, err := c.ExistsTable(ctx, table, opts.Schema)
	if err != nil {
		return err
	}
	if exists && mode == IfExistsFail {
		return &TableCreationError{Schema: opts.Schema, Table: table}
	}

	dtype, err := rstype.Dictionary(names, opts.Dtype)
	if err != nil {
		return err
	}

	rows, err := encodeFrame(f, names, dtype)
	if err != nil {
		return err
	}

	// План строится до любого DDL: строка сверх лимита не оставляет
	// ни созданной таблицы, ни отправленных выражений.
	plan, err := sqlgen.NewInsertPlan(opts.Schema, table, names, rows)
	if err != nil {
		return err
	}

	createTable := true
	if exists {
		switch mode {
		case IfExistsReplace:
			drop, err := sqlgen.DropTableSQL(opts.Schema, table)
			if err != nil {
				return err
			}
			if _, err := c.Run(ctx, drop); err != nil {
				return c.dumpOnFailure(opts.DumpDir, err)
			}
		case IfExistsAppend:
			createTable = false
		}
	}

	if createTable {
		create, err := sqlgen.CreateTableSQL(opts.Schema, table, names, dtype)
		if err != nil {
			return err
		}
		if _, err := c.Run(ctx, create); err != nil {
			return c.dumpOnFailure(opts.DumpDir, err)
		}
	}

	total := plan.Total()
	it := plan.Statements()
	for it.Next() {
		if _, err := c.Submit(ctx, it.SQL()); err != nil {
			return c.dumpOnFailure(opts.DumpDir, err)
		}
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "%d out of %d rows loaded.\n", total-it.Remaining(), total)
		}
	}
	if err := c.Wait(ctx); err != nil {
		return c.dumpOnFailure(opts.DumpDir, err)
	}
	return nil
}

// encodeFrame кодирует фрейм поколоночно и переводит результат в
// построчные кортежи литералов.
func encodeFrame(f *frame.Frame, names []string, dtype map[string]rstype.Type) ([][]string, error) {
	encoded := make([][]string, len(names))
	for j, name := range names {
		col, _ := f.Column(name)
		t := dtype[name]
		values := make([]string, len(col.Values))
		for i, v := range col.Values {
			lit, err := t.Encode(v)
			if err != nil {
				return nil, &EncodeError{Column: name, Err: err}
			}
			values[i] = lit
		}
		encoded[j] = values
	}

	rows := make([][]string, f.Len())
	for i := range rows {
		row := make([]string, len(names))
		for j := range names {
			row[j] = encoded[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}

// dumpOnFailure сохраняет SQL упавшего или остановленного выражения в
// файловый дамп. Ошибка дампа не затирает исходную ошибку загрузки.
func (c *Client) dumpOnFailure(dir string, err error) error {
	if dir == "" {
		return err
	}

	var sql, cause string
	var failed *QueryFailedError
	var aborted *QueryAbortedError
	switch {
	case errors.As(err, &failed):
		sql, cause = failed.SQL, failed.Cause
	case errors.As(err, &aborted):
		sql, cause = aborted.SQL, "stopped by user"
	default:
		return err
	}

	dump, dumpErr := retry.NewStatementDump(dir)
	if dumpErr != nil {
		return err
	}
	dump.Add(retry.StatementRecord{
		Timestamp: time.Now(),
		SQL:       sql,
		Error:     cause,
	})
	return err
}
