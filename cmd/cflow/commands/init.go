package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/simplec/cflow/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long: `Guides you through setting up cflow configuration step by step and
writes the result to the global or project config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	cfg := config.DefaultConfig()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Render cache").
				Description("Reuse cached output when a file has not changed?").
				Affirmative("Yes, enable the cache").
				Negative("No, always re-render").
				Value(&cfg.CacheEnabled),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if cfg.CacheEnabled {
		cachePath := cfg.CachePath
		maxEntries := strconv.Itoa(cfg.CacheMaxEntries)

		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Cache file path").
					Placeholder(cfg.CachePath).
					Value(&cachePath),
				huh.NewInput().
					Title("Maximum cached renders (0 for unlimited)").
					Placeholder(maxEntries).
					Value(&maxEntries).
					Validate(func(s string) error {
						n, err := strconv.Atoi(s)
						if err != nil || n < 0 {
							return fmt.Errorf("enter a non-negative number")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}

		cfg.CachePath = cachePath
		cfg.CacheMaxEntries, _ = strconv.Atoi(maxEntries)
	}

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Verbose logging").
				Description("Print debug diagnostics on stderr?").
				Affirmative("Yes").
				Negative("No").
				Value(&cfg.Verbose),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	var path string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should the config live?").
				Options(
					huh.NewOption("Global (~/.cflow/config.yaml)", config.GlobalPath()),
					huh.NewOption("This project (./.cflow/config.yaml)", config.ProjectPath()),
				).
				Value(&path),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		overwrite := false
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
					Affirmative("Yes, replace it").
					Negative("No, abort").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Aborted; existing config left untouched.")
			return nil
		}
	}

	preview, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Printf("Writing to %s:\n\n%s\n", path, preview)

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
