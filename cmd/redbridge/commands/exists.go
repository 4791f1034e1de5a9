package commands

import (
	"context"
	"fmt"

	"github.com/ruslano69/redbridge/pkg/redshift"
)

// Exists checks whether the table exists and prints the verdict
func Exists(ctx context.Context, client *redshift.Client, table, schema string) (bool, error) {
	exists, err := client.ExistsTable(ctx, table, schema)
	if err != nil {
		return false, fmt.Errorf("exists check failed: %w", err)
	}

	if exists {
		fmt.Printf("✓ Table %s.%s exists\n", schema, table)
	} else {
		fmt.Printf("⚠ Table %s.%s does not exist\n", schema, table)
	}
	return exists, nil
}
