// Command filelog exercises and inspects filelog directories.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "filelog [command]",
	Short: "buffered rotating file logger tools",
	Long: `
Tools for the filelog library: emit test records into a rotating log
directory, list the files of a directory and print or save configuration.
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(emitCmd, lsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
