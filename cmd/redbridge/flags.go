package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Load   *string
	Query  *string
	Exists *bool

	// Load Options
	Table    *string
	Schema   *string
	Sheet    *string
	NoHeader *bool
	Dtype    *string
	DtypeAll *string
	IfExists *string
	Stage    *bool

	// Query Options
	Out *string

	// Options
	Config  *string
	Verbose *bool

	// Config Creation
	CreateConfig *string

	// Misc
	Version   *bool
	Help      *bool
	ShortHelp *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Load = flag.String("load", "", "Load CSV or XLSX file into Redshift (file path)")
	f.Query = flag.String("query", "", "Execute SQL and print the result as CSV")
	f.Exists = flag.Bool("exists", false, "Check whether a table exists (use with -table)")

	// Load Options
	f.Table = flag.String("table", "", "Target table name")
	f.Schema = flag.String("schema", "public", "Target schema name")
	f.Sheet = flag.String("sheet", "", "Excel sheet name for XLSX files (default: first sheet)")
	f.NoHeader = flag.Bool("no-header", false, "Treat the first row as data, not column names")
	f.Dtype = flag.String("dtype", "", "Column types, comma-separated (e.g. 'id:INTEGER,name:VARCHAR(64)')")
	f.DtypeAll = flag.String("dtype-all", "", "Single type for every column (e.g. 'VARCHAR(256)')")
	f.IfExists = flag.String("if-exists", "fail", "Behavior for existing table: fail, replace, append")
	f.Stage = flag.Bool("stage", false, "Load via S3 staging and COPY instead of INSERT batches")

	// Query Options
	f.Out = flag.String("out", "", "Output file path for query results (default: stdout)")

	// Options
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.Verbose = flag.Bool("verbose", false, "Print executed statements and extra diagnostics")

	// Config Creation
	f.CreateConfig = flag.String("create-config", "", "Create sample config file (path)")

	// Misc
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show detailed help with examples")
	f.ShortHelp = flag.Bool("h", false, "Show brief help (commands and options)")

	flag.Parse()

	return f
}
