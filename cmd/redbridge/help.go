package main

import "fmt"

const version = "1.2.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("redbridge version %s\n", version)
	fmt.Println("Redshift Data API bulk loader")
	fmt.Println("https://github.com/ruslano69/redbridge")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("redbridge - Amazon Redshift Data API Command Line Loader")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  redbridge [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Load Operations:")
	fmt.Println("    -load <file>               Load CSV or XLSX file into a table")
	fmt.Println("    -stage                     Load via S3 staging + COPY (use with -load)")
	fmt.Println()

	fmt.Println("  Query Operations:")
	fmt.Println("    -query <sql>               Execute SQL and print the result as CSV")
	fmt.Println()

	fmt.Println("  Table Operations:")
	fmt.Println("    -exists -table <t>         Check whether a table exists")
	fmt.Println()

	fmt.Println("  Configuration:")
	fmt.Println("    -create-config <path>      Create sample config file")
	fmt.Println("    -config <path>             Configuration file (default: config.yaml)")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println()
	fmt.Println("  -table <name>                Target table name")
	fmt.Println("  -schema <name>               Target schema (default: public)")
	fmt.Println("  -sheet <name>                Excel sheet for XLSX files (default: first sheet)")
	fmt.Println("  -no-header                   Treat the first row as data")
	fmt.Println("  -dtype <spec>                Column types: 'id:INTEGER,name:VARCHAR(64)'")
	fmt.Println("  -dtype-all <type>            One type for every column: 'VARCHAR(256)'")
	fmt.Println("  -if-exists <mode>            fail (default), replace, append")
	fmt.Println("  -out <file>                  Query output file (default: stdout)")
	fmt.Println("  -verbose                     Print executed statements and diagnostics")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println()

	fmt.Println("  # Create a config template")
	fmt.Println("  redbridge -create-config config.yaml")
	fmt.Println()

	fmt.Println("  # Load a CSV file (batched INSERT statements)")
	fmt.Println("  redbridge -load users.csv -table users \\")
	fmt.Println("    -dtype 'id:INTEGER,name:VARCHAR(64),score:DOUBLE PRECISION'")
	fmt.Println()

	fmt.Println("  # Load an Excel sheet, replacing the table")
	fmt.Println("  redbridge -load orders.xlsx -sheet Orders -table orders \\")
	fmt.Println("    -dtype-all 'VARCHAR(256)' -if-exists replace")
	fmt.Println()

	fmt.Println("  # Bulk load through S3 + COPY")
	fmt.Println("  redbridge -load big.csv -table events -stage \\")
	fmt.Println("    -dtype 'id:BIGINT,payload:SUPER'")
	fmt.Println()

	fmt.Println("  # Query to stdout / to a file")
	fmt.Println("  redbridge -query 'SELECT * FROM public.users LIMIT 10'")
	fmt.Println("  redbridge -query 'SELECT count(*) FROM events' -out counts.csv")
	fmt.Println()

	fmt.Println("  # Check a table before loading")
	fmt.Println("  redbridge -exists -table users -schema analytics")
	fmt.Println()

	fmt.Println("AUTHENTICATION:")
	fmt.Println()
	fmt.Println("  The Data API needs either db_user (temporary credentials) or")
	fmt.Println("  secret_arn (AWS Secrets Manager) in the config file. AWS access")
	fmt.Println("  keys come from the standard SDK chain (env, profile, IMDS).")
}
