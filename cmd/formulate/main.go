// Package main provides the formulate command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/formulate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
