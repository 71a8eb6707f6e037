package commands

import (
	"fmt"
	"os"

	"github.com/simplec/cflow/internal/config"
	"github.com/simplec/cflow/internal/log"
	"github.com/simplec/cflow/internal/scanner"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Print graphs for every source file under a directory",
	Long: `Walks a directory tree, finds every .c file, and prints each file's
control flow graphs in path order. Hidden directories, common build
directories, and .cflowignore patterns are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		keepGoing, _ := cmd.Flags().GetBool("keep-going")
		return runBatch(root, keepGoing)
	},
}

func runBatch(root string, keepGoing bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.Default()
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	files, err := scanner.Scan(root)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", root, err)
	}
	if len(files) == 0 {
		logger.Warn("no source files found", "root", root)
		return nil
	}
	logger.Debug("batch scan complete", "root", root, "files", len(files))

	failed := 0
	for _, f := range files {
		content, err := os.ReadFile(f.FullPath)
		if err != nil {
			if !keepGoing {
				return fmt.Errorf("reading file %s: %w", f.Path, err)
			}
			logger.Error("skipping unreadable file", "file", f.Path, "error", err)
			failed++
			continue
		}

		out, err := renderFile(content, f.Path)
		if err != nil {
			if !keepGoing {
				return err
			}
			logger.Error("skipping file", "file", f.Path, "error", err)
			failed++
			continue
		}
		fmt.Print(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func init() {
	batchCmd.Flags().Bool("keep-going", false, "Continue past files that fail to parse")
	RootCmd.AddCommand(batchCmd)
}
