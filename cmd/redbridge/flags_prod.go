//go:build production

package main

import (
	"fmt"

	"github.com/ruslano69/redbridge/pkg/redshift"
)

// devMode always reports false: the -dev flag does not exist in the
// production build.
func devMode() bool { return false }

func buildDevClient(cfg redshift.Config) (*redshift.Client, func(), error) {
	return nil, nil, fmt.Errorf("dev mode is not available in production build")
}
