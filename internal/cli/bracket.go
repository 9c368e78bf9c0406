package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Dosada05/bracketview/brackets"
)

func newBracketCmd() *cobra.Command {
	var (
		flags  rosterFlags
		format string
		bronze bool
		legs   int
	)

	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Assemble every round of a roster for a format",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := brackets.NewGenerator(brackets.Format(format))
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			roster, err := flags.load(logger)
			if err != nil {
				return err
			}

			bracket := gen.Generate(brackets.GenerateParams{
				Participants: roster.Participants,
				Seeds:        roster.Seeds,
				Preview:      flags.preview,
				Shuffler:     flags.shuffler(cmd),
				Options:      brackets.EliminationOptions{BronzeMatch: bronze},
				Legs:         legs,
			})
			logger.Debug("bracket generated", "generator", gen.Name(), "matches", len(bracket.AllMatches()))

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), bracket)
			}
			return printBracket(cmd.OutOrStdout(), bracket)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(brackets.FormatSingleElimination), "single_elimination, double_elimination or round_robin")
	cmd.Flags().BoolVar(&bronze, "bronze", false, "add a third place match")
	cmd.Flags().IntVar(&legs, "legs", 1, "round robin legs (1 or 2)")
	return cmd
}

func printBracket(w io.Writer, b *brackets.Bracket) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	section := func(title string, rounds []brackets.Round) {
		for _, r := range rounds {
			fmt.Fprintf(tw, "%s round %d\t\t\t\n", title, r.Number)
			for _, m := range r.Matches {
				printBracketMatch(tw, m)
			}
		}
	}

	section(string(b.Format), b.Rounds)
	section("losers", b.Losers)
	if b.GrandFinal != nil {
		fmt.Fprintln(tw, "grand final\t\t\t")
		printBracketMatch(tw, b.GrandFinal)
	}
	if b.Bronze != nil {
		fmt.Fprintln(tw, "third place\t\t\t")
		printBracketMatch(tw, b.Bronze)
	}
	return tw.Flush()
}

func printBracketMatch(w io.Writer, m *brackets.BracketMatch) {
	note := ""
	if m.IsBye {
		note = "bye"
		if m.ByeParticipant != nil {
			note = "bye, " + brackets.DisplayName(m.ByeParticipant) + " advances"
		}
	}
	fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
		m.UID, matchSlotText(m.Participant1, m.Source1), matchSlotText(m.Participant2, m.Source2), note)
}

func matchSlotText(p brackets.Participant, src *brackets.SourceRef) string {
	switch {
	case p != nil:
		return brackets.DisplayName(p)
	case src == nil:
		return "-"
	case src.Loser:
		return "loser of " + src.MatchUID
	default:
		return "winner of " + src.MatchUID
	}
}
