//go:build !production

package main

import (
	"flag"
	"fmt"

	"github.com/ruslano69/redbridge/pkg/redshift"
)

// registerDevFlags регистрирует флаги доступные только в dev-сборке.
// В продакшен-сборке (go build -tags production) этот файл не компилируется —
// флаг физически отсутствует в бинаре.
func init() {
	// Dev активирует выполнение против in-memory Data API (без AWS).
	// Использование: redbridge -dev -load data.csv -table t -dtype-all "VARCHAR(256)"
	flag.Bool("dev", false, "[DEV ONLY] Run against an in-memory Data API (no AWS credentials required)")
}

// devMode reports whether the -dev flag was set
func devMode() bool {
	f := flag.Lookup("dev")
	return f != nil && f.Value.String() == "true"
}

// buildDevClient creates a client over the in-memory Data API plus a
// dump function that prints every statement the command executed
func buildDevClient(cfg redshift.Config) (*redshift.Client, func(), error) {
	api := redshift.NewDevAPI()
	client, err := redshift.New(api, cfg)
	if err != nil {
		return nil, nil, err
	}
	dump := func() {
		for _, sql := range api.ExecutedSQL() {
			fmt.Printf("  SQL> %s\n", sql)
		}
	}
	return client, dump, nil
}
