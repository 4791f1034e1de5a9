package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ruslano69/redbridge/cmd/redbridge/commands"
	"github.com/ruslano69/redbridge/pkg/notify"
	"github.com/ruslano69/redbridge/pkg/redshift"
	"github.com/ruslano69/redbridge/pkg/resilience"
	"github.com/ruslano69/redbridge/pkg/resultlog"
	"github.com/ruslano69/redbridge/pkg/s3stage"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help || *flags.ShortHelp {
		PrintHelp()
		os.Exit(0)
	}

	// Handle config creation
	if *flags.CreateConfig != "" {
		createConfigTemplate(*flags.CreateConfig)
		return
	}

	// If no command was specified, show help
	if !commandWasSpecified(flags) {
		PrintHelp()
		os.Exit(1)
	}

	// Load configuration
	config, err := LoadConfig(*flags.Config)
	if err != nil {
		if !devMode() {
			fatal("Failed to load config: %v", err)
		}
		// Dev mode works without a config file
		config = devConfig()
	}

	client, dumpSQL, err := buildClient(ctx, config, *flags.Verbose)
	if err != nil {
		fatal("Failed to create client: %v", err)
	}

	// Route commands
	var cmdErr error

	if *flags.Load != "" {
		if *flags.Table == "" {
			fatal("Load requires -table")
		}
		dtype, err := commands.ParseDtype(*flags.Dtype)
		if err != nil {
			fatal("Invalid dtype: %v", err)
		}

		var stage *s3stage.Stage
		if *flags.Stage {
			if devMode() {
				fatal("-stage is not available in dev mode")
			}
			stage, err = s3stage.NewFromAWS(ctx, config.StageConfigFor())
			if err != nil {
				fatal("Failed to init S3 staging: %v", err)
			}
			defer stage.Close()
		}

		var report *commands.LoadReport
		report, cmdErr = commands.Load(ctx, client, commands.LoadOptions{
			FilePath: *flags.Load,
			Table:    *flags.Table,
			Schema:   *flags.Schema,
			Sheet:    *flags.Sheet,
			Header:   !*flags.NoHeader,
			Dtype:    dtype,
			DtypeAll: *flags.DtypeAll,
			IfExists: *flags.IfExists,
			Stage:    stage,
			DumpDir:  config.DumpDir,
			Progress: os.Stdout,
		})
		publishResult(ctx, config, report, cmdErr)
	} else if *flags.Query != "" {
		cmdErr = commands.Query(ctx, client, commands.QueryOptions{
			SQL:        *flags.Query,
			OutputFile: *flags.Out,
		})
	} else if *flags.Exists {
		if *flags.Table == "" {
			fatal("Exists check requires -table")
		}
		_, cmdErr = commands.Exists(ctx, client, *flags.Table, *flags.Schema)
	}

	if *flags.Verbose && dumpSQL != nil {
		dumpSQL()
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// buildClient creates the executor client: real AWS by default, the
// in-memory Data API when -dev is set
func buildClient(ctx context.Context, config *Config, verbose bool) (*redshift.Client, func(), error) {
	rcfg := config.RedshiftConfig()
	if verbose {
		rcfg.Breaker.OnStateChange = func(name string, from, to resilience.State) {
			log.Printf("circuit breaker '%s': %s -> %s", name, from, to)
		}
	}
	if devMode() {
		return buildDevClient(rcfg)
	}
	client, err := redshift.NewFromAWS(ctx, rcfg)
	return client, nil, err
}

// devConfig substitutes a minimal configuration when -dev runs without
// a config file
func devConfig() *Config {
	return &Config{
		Cluster:  "dev-cluster",
		Database: "dev",
		DbUser:   "dev",
	}
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate(path string) {
	if err := SaveConfig(path, CreateSampleConfig()); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample config: %s\n", path)
	fmt.Println("Edit the file with your cluster settings and run:")
	fmt.Printf("  redbridge -exists -table mytable -config %s\n", path)
}

// publishResult reports the load outcome to Redis and the event broker
// when they are configured. Publishing failures do not fail the load.
func publishResult(ctx context.Context, config *Config, report *commands.LoadReport, execErr error) {
	if report == nil {
		return
	}

	if config.Redis.Address != "" {
		pub := resultlog.NewRedisPublisher(config.ResultLogConfig())
		result := resultlog.LoadResult{
			Table:      report.Table,
			Schema:     report.Schema,
			Rows:       report.Rows,
			Statements: report.Statements,
			StartedAt:  report.StartedAt,
			FinishedAt: report.FinishedAt,
		}
		if err := pub.Publish(ctx, result, execErr); err != nil {
			log.Printf("warning: redis publish failed: %v", err)
		}
		pub.Close()
	}

	if config.Notify.Type != "" {
		notifier, err := notify.New(config.NotifierConfig())
		if err != nil {
			log.Printf("warning: notifier init failed: %v", err)
			return
		}
		if err := notifier.Connect(ctx); err != nil {
			log.Printf("warning: notifier connect failed: %v", err)
			return
		}
		defer notifier.Close()

		status := "success"
		if execErr != nil {
			status = "failed"
		}
		event := notify.Event{
			Table:     report.Table,
			Schema:    report.Schema,
			Rows:      report.Rows,
			Status:    status,
			Timestamp: report.FinishedAt,
		}
		if err := notifier.Publish(ctx, event); err != nil {
			log.Printf("warning: event publish failed: %v", err)
		}
	}
}

// commandWasSpecified checks if any command was specified
func commandWasSpecified(flags *Flags) bool {
	return *flags.Load != "" ||
		*flags.Query != "" ||
		*flags.Exists
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
