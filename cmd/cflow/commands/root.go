// Package commands provides the CLI commands for the cflow tool.
package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cflow",
	Short: "cflow - Control flow graphs for simple-C programs",
	Long: `cflow parses simple-C source files and prints each function's control
flow graph in a canonical text format.

Commands:
  graph       Print the control flow graphs of one source file
  funcs       List the functions defined in a source file
  batch       Print graphs for every source file under a directory
  init        Create a config file interactively

Use "cflow [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}
