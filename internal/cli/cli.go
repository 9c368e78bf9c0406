// Package cli implements bracketctl, an offline companion to the server for
// inspecting seed positions, draws and bracket spacing.
//
// # Commands
//
//   - seeds: canonical seed order for a bracket size
//   - draw: place a TOML roster into first-round matches
//   - bracket: assemble every round of a roster for a format
//   - layout: match and connector spacing for winners or losers rounds
//
// All commands accept --verbose (-v) for debug logging and --json for
// machine-readable output.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Logs go to logOut.
func NewRootCommand(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "bracketctl",
		Short:         "Inspect seeding, draws and bracket layout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().Bool("json", false, "print JSON instead of a table")

	root.AddCommand(newSeedsCmd())
	root.AddCommand(newDrawCmd())
	root.AddCommand(newBracketCmd())
	root.AddCommand(newLayoutCmd())
	return root
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
