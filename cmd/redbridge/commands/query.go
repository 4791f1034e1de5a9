package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruslano69/redbridge/pkg/core/frame"
	"github.com/ruslano69/redbridge/pkg/redshift"
)

// QueryOptions holds options for query operations
type QueryOptions struct {
	SQL        string
	OutputFile string // "" or "-" writes CSV to stdout
}

// Query executes SQL and writes the decoded result as CSV
func Query(ctx context.Context, client *redshift.Client, opts QueryOptions) error {
	f, err := client.Query(ctx, opts.SQL)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if opts.OutputFile == "" || opts.OutputFile == "-" {
		return writeFrameCSV(os.Stdout, f)
	}

	dir := filepath.Dir(opts.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	out, err := os.Create(opts.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := writeFrameCSV(out, f); err != nil {
		return err
	}
	fmt.Printf("✓ %d row(s) written to: %s\n", f.Len(), opts.OutputFile)
	return nil
}

// writeFrameCSV writes the frame with a header row
func writeFrameCSV(out *os.File, f *frame.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(f.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, f.Width())
	for i := 0; i < f.Len(); i++ {
		for j, v := range f.Row(i) {
			record[j] = cellText(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// cellText renders a decoded cell for CSV output; NULL becomes an
// empty cell.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case []byte:
		return string(x)
	}
	return fmt.Sprintf("%v", v)
}
