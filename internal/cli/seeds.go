package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dosada05/bracketview/brackets"
)

func newSeedsCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Print the seed placed at each slot of a bracket",
		Example: `  bracketctl seeds --size 8
  1 8 4 5 2 7 3 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 || size&(size-1) != 0 {
				return fmt.Errorf("size %d is not a power of two (try %d)", size, brackets.NextPowerOfTwo(size))
			}
			positions := brackets.StandardSeedPositions(size)
			loggerFromContext(cmd.Context()).Debug("computed seed positions", "size", size)

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), positions)
			}
			parts := make([]string, len(positions))
			for i, p := range positions {
				parts[i] = strconv.Itoa(p)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return err
		},
	}
	cmd.Flags().IntVar(&size, "size", 8, "bracket size, a power of two")
	return cmd
}
