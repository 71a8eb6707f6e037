package commands

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/simplec/cflow/internal/config"
	"github.com/simplec/cflow/internal/log"
	"github.com/simplec/cflow/pkg/cache"
	"github.com/simplec/cflow/pkg/frontend"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Print the control flow graphs of one source file",
	Long: `Parses a simple-C source file and prints the control flow graph of
every function in canonical text form. Identical inputs are served from
the render cache when it is enabled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		return runGraph(args[0], noCache)
	},
}

func runGraph(filePath string, noCache bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.Default()
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected a file: %s", filePath)
	}
	if !isCFile(filePath) {
		return fmt.Errorf("unsupported file type: %s (only .c files supported)", filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", filePath, err)
	}

	useCache := cfg.CacheEnabled && !noCache

	var store *cache.Store
	digest := renderDigest(filePath, content)
	if useCache {
		store = cache.New(cache.Options{MaxEntries: cfg.CacheMaxEntries})
		if err := cache.LoadFromFile(store, cfg.CachePath); err != nil {
			logger.Warn("discarding unreadable render cache", "path", cfg.CachePath, "error", err)
			store.Clear()
		}
		if out, found := store.Get(digest); found {
			logger.Debug("render cache hit", "file", filePath)
			fmt.Print(out)
			return nil
		}
		logger.Debug("render cache miss", "file", filePath)
	}

	out, err := renderFile(content, filePath)
	if err != nil {
		return err
	}
	fmt.Print(out)

	if useCache {
		store.Put(digest, out)
		if err := cache.PersistToFile(store, cfg.CachePath); err != nil {
			logger.Warn("persisting render cache", "path", cfg.CachePath, "error", err)
		}
	}

	return nil
}

// renderFile parses source content and renders every function's graph.
func renderFile(content []byte, name string) (string, error) {
	prog, err := frontend.Parse(content, name)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := prog.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// renderDigest keys the cache on the path and the exact file contents.
func renderDigest(path string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// isCFile checks if the file has a .c extension.
func isCFile(filePath string) bool {
	return strings.HasSuffix(filePath, ".c")
}

func init() {
	graphCmd.Flags().Bool("no-cache", false, "Bypass the render cache for this run")
	RootCmd.AddCommand(graphCmd)
}
