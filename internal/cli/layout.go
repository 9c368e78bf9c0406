package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Dosada05/bracketview/brackets"
)

type layoutOutput struct {
	Config      brackets.LayoutConfig `json:"config"`
	Spacing     brackets.Spacing      `json:"spacing"`
	Transitions []string              `json:"transitions,omitempty"`
}

func newLayoutCmd() *cobra.Command {
	cfg := brackets.DefaultLayoutConfig()

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute match and connector spacing",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the nearest persistent pre-run, so chain the root's.
			if root := cmd.Root(); root.PersistentPreRun != nil {
				root.PersistentPreRun(cmd, args)
			}
			if cfg.MatchHeight <= 0 || cfg.BaseSpacerHeight <= 0 || cfg.MatchPadding < 0 {
				return fmt.Errorf("match height and spacer must be positive and padding not negative")
			}
			return nil
		},
	}
	cmd.PersistentFlags().Float64Var(&cfg.MatchHeight, "match-height", brackets.DefaultMatchHeight, "rendered match box height")
	cmd.PersistentFlags().Float64Var(&cfg.MatchPadding, "match-padding", brackets.DefaultMatchPadding, "padding added to each match box")
	cmd.PersistentFlags().Float64Var(&cfg.BaseSpacerHeight, "spacer", brackets.DefaultBaseSpacerHeight, "base gap between first-round matches")

	cmd.AddCommand(newLayoutSingleCmd(&cfg))
	cmd.AddCommand(newLayoutLosersCmd(&cfg))
	return cmd
}

func newLayoutSingleCmd(cfg *brackets.LayoutConfig) *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "single",
		Short: "Spacing for a single elimination cascade",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rounds <= 0 {
				return fmt.Errorf("rounds must be positive")
			}
			out := layoutOutput{Config: *cfg, Spacing: brackets.SingleEliminationSpacing(rounds, *cfg)}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), out)
			}
			return printSpacing(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 3, "number of rounds")
	return cmd
}

func newLayoutLosersCmd(cfg *brackets.LayoutConfig) *cobra.Command {
	var (
		counts  []int
		variant string
	)

	cmd := &cobra.Command{
		Use:     "losers",
		Short:   "Spacing for losers bracket rounds of the given sizes",
		Example: "  bracketctl layout losers --counts 4,2,4,2,1 --variant depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(counts) == 0 {
				return fmt.Errorf("counts must list at least one round")
			}
			for _, c := range counts {
				if c < 0 {
					return fmt.Errorf("match counts must not be negative")
				}
			}
			v := brackets.SpacingVariant(variant)
			if v != brackets.VariantRatio && v != brackets.VariantDepth {
				return fmt.Errorf("unknown variant %q (want ratio or depth)", variant)
			}
			loggerFromContext(cmd.Context()).Debug("computing losers spacing", "counts", counts, "variant", v)

			out := layoutOutput{Config: *cfg, Spacing: brackets.LosersBracketSpacing(counts, *cfg, v)}
			for _, t := range brackets.Transitions(counts) {
				out.Transitions = append(out.Transitions, t.String())
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), out)
			}
			return printSpacing(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntSliceVar(&counts, "counts", nil, "match count of every losers round, comma separated")
	cmd.Flags().StringVar(&variant, "variant", string(brackets.VariantRatio), "ratio or depth")
	_ = cmd.MarkFlagRequired("counts")
	return cmd
}

func printSpacing(w io.Writer, out layoutOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "ROUND\tMATCH SPACING\tCONNECTOR"
	if out.Transitions != nil {
		header += "\tTRANSITION"
	}
	fmt.Fprintln(tw, header)

	for i, gap := range out.Spacing.MatchSpacing {
		connector, transition := "-", "-"
		if i < len(out.Spacing.ConnectorSpacing) {
			connector = formatLength(out.Spacing.ConnectorSpacing[i])
		}
		if i < len(out.Transitions) {
			transition = out.Transitions[i]
		}
		line := fmt.Sprintf("%d\t%s\t%s", i+1, formatLength(gap), connector)
		if out.Transitions != nil {
			line += "\t" + transition
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
