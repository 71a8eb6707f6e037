package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/simplec/cflow/pkg/frontend"
	"github.com/spf13/cobra"
)

// funcsCmd represents the funcs command
var funcsCmd = &cobra.Command{
	Use:   "funcs <file>",
	Short: "List the functions defined in a source file",
	Long: `Lists every function definition in a simple-C source file with its
return type and parameters, without building any graphs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

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

		funcs, err := frontend.ListFunctions(filePath)
		if err != nil {
			return fmt.Errorf("listing functions: %w", err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(funcs, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		for _, f := range funcs {
			fmt.Printf("%s %s(%s)\n", f.RetType, f.Name, f.Params)
		}
		return nil
	},
}

func init() {
	funcsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(funcsCmd)
}
