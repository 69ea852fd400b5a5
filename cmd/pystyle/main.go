package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/pystyle/internal/version"
	"github.com/ludo-technologies/pystyle/service"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Handle custom exit codes from the root and check commands
		if exitErr, ok := err.(*CheckExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			// Silently exit with the specified code (output already printed)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &styleOptions{}

	rootCmd := &cobra.Command{
		Use:   "pystyle [path...]",
		Short: "pystyle - Python style checker",
		Long: `pystyle checks Python source files for style violations: line length,
indentation, semicolons, comment spacing, TODO markers, blank-line runs,
naming conventions and mutable default arguments.

Each diagnostic is printed as:
  <file>: Line <n>: <code> <message>

Examples:
  pystyle src/
  pystyle --ignore todo,Error1 app.py
  pystyle --format json src/ > report.json`,
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		RunE:          opts.runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.addFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			asJSON, _ := cmd.Flags().GetBool("json")

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return service.WriteJSON(out, version.Info())
			case verbose:
				fmt.Fprintln(out, version.GetFullVersion())
			default:
				fmt.Fprintf(out, "pystyle version %s\n", version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	cmd.Flags().Bool("json", false, "Print build information as JSON")
	return cmd
}
