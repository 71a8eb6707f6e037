// Package main implements the cflow CLI. It parses simple-C sources and
// prints control flow graphs in a canonical text format.
package main

import (
	"os"

	"github.com/simplec/cflow/cmd/cflow/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`cflow version {{.Version}}
`)

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
