package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruslano69/redbridge/pkg/core/frame"
	"github.com/ruslano69/redbridge/pkg/core/rstype"
	"github.com/ruslano69/redbridge/pkg/core/sqlgen"
	"github.com/ruslano69/redbridge/pkg/redshift"
	"github.com/ruslano69/redbridge/pkg/s3stage"
	"github.com/ruslano69/redbridge/pkg/source"
)

// LoadOptions holds options for load operations
type LoadOptions struct {
	FilePath string
	Table    string
	Schema   string
	Sheet    string            // XLSX sheet name ("" = first sheet)
	Header   bool              // First row holds column names
	Dtype    map[string]string // Per-column types
	DtypeAll string            // Single type for every column
	IfExists string
	Stage    *s3stage.Stage // Non-nil switches to the S3 COPY path
	DumpDir  string
	Progress io.Writer // Statement progress sink (default: discarded)
}

// LoadReport summarizes a finished (or failed) load for result publishing
type LoadReport struct {
	Table      string
	Schema     string
	Rows       int
	Statements int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Load reads a CSV or XLSX file and loads it into Redshift.
// The report is non-nil whenever the load reached the executor, so the
// caller can publish the outcome even on failure.
func Load(ctx context.Context, client *redshift.Client, opts LoadOptions) (*LoadReport, error) {
	f, err := readSource(opts)
	if err != nil {
		return nil, err
	}

	dtype, err := dtypeSpec(opts)
	if err != nil {
		return nil, err
	}

	mode, err := redshift.ParseIfExists(opts.IfExists)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Loading '%s' into %s.%s (%d rows)...\n",
		opts.FilePath, opts.Schema, opts.Table, f.Len())

	report := &LoadReport{
		Table:     opts.Table,
		Schema:    opts.Schema,
		Rows:      f.Len(),
		StartedAt: time.Now().UTC(),
	}

	progress := &progressCounter{w: opts.Progress}
	if opts.Stage != nil {
		err = loadStaged(ctx, client, opts, mode, f, dtype)
		if err == nil && f.Len() > 0 {
			progress.lines = 1 // single COPY statement
		}
	} else {
		err = client.Load(ctx, f, opts.Table, redshift.LoadOptions{
			Schema:   opts.Schema,
			Dtype:    dtype,
			IfExists: mode,
			Progress: progress,
			DumpDir:  opts.DumpDir,
		})
	}
	report.Statements = progress.lines
	report.FinishedAt = time.Now().UTC()

	if err != nil {
		return report, err
	}

	fmt.Printf("✓ Loaded %d row(s) into %s.%s\n", report.Rows, opts.Schema, opts.Table)
	return report, nil
}

// loadStaged runs the COPY path: the same exists/create handling as the
// INSERT path, then a single COPY from the staged object.
func loadStaged(ctx context.Context, client *redshift.Client, opts LoadOptions, mode redshift.IfExists, f *frame.Frame, dtypeAny any) error {
	dtype, err := rstype.Dictionary(f.Names(), dtypeAny)
	if err != nil {
		return err
	}

	exists, err := client.ExistsTable(ctx, opts.Table, opts.Schema)
	if err != nil {
		return err
	}

	create := true
	switch mode {
	case redshift.IfExistsFail:
		if exists {
			return &redshift.TableCreationError{Schema: opts.Schema, Table: opts.Table}
		}
	case redshift.IfExistsReplace:
		if exists {
			sql, err := sqlgen.DropTableSQL(opts.Schema, opts.Table)
			if err != nil {
				return err
			}
			if _, err := client.Run(ctx, sql); err != nil {
				return err
			}
		}
	case redshift.IfExistsAppend:
		create = !exists
	}

	if create {
		sql, err := sqlgen.CreateTableSQL(opts.Schema, opts.Table, f.Names(), dtype)
		if err != nil {
			return err
		}
		if _, err := client.Run(ctx, sql); err != nil {
			return err
		}
	}

	if f.Len() == 0 {
		return nil
	}

	fmt.Printf("Staging %d row(s) to S3...\n", f.Len())
	uri, err := opts.Stage.Load(ctx, client, opts.Schema, opts.Table, f)
	if uri != "" {
		fmt.Printf("✓ Staged to: %s\n", uri)
	}
	return err
}

// readSource picks the reader by file extension
func readSource(opts LoadOptions) (*frame.Frame, error) {
	switch strings.ToLower(filepath.Ext(opts.FilePath)) {
	case ".xlsx", ".xlsm":
		return source.ReadXLSX(opts.FilePath, opts.Sheet, opts.Header)
	default:
		return source.ReadCSV(opts.FilePath, opts.Header)
	}
}

// dtypeSpec builds the dtype argument for the type dictionary
func dtypeSpec(opts LoadOptions) (any, error) {
	switch {
	case len(opts.Dtype) > 0:
		return opts.Dtype, nil
	case opts.DtypeAll != "":
		return opts.DtypeAll, nil
	}
	return nil, fmt.Errorf("column types are required: use -dtype or -dtype-all")
}

// ParseDtype parses a "col:TYPE,col2:TYPE(args)" flag value. Commas
// inside parentheses belong to type arguments, not the list.
func ParseDtype(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}

	dtype := make(map[string]string)
	for _, entry := range splitDtypeEntries(s) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, spec, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid dtype entry '%s' (expected 'column:TYPE')", entry)
		}
		dtype[strings.TrimSpace(name)] = strings.TrimSpace(spec)
	}
	if len(dtype) == 0 {
		return nil, fmt.Errorf("no dtype entries in '%s'", s)
	}
	return dtype, nil
}

func splitDtypeEntries(s string) []string {
	var entries []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				entries = append(entries, s[start:i])
				start = i + 1
			}
		}
	}
	return append(entries, s[start:])
}

// progressCounter counts emitted progress lines so the caller can
// report how many statements ran.
type progressCounter struct {
	w     io.Writer
	lines int
}

func (p *progressCounter) Write(b []byte) (int, error) {
	p.lines += bytes.Count(b, []byte{'\n'})
	if p.w == nil {
		return len(b), nil
	}
	return p.w.Write(b)
}
