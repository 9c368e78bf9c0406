package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Dosada05/bracketview/brackets"
)

type rosterFlags struct {
	path    string
	preview bool
	rngSeed uint64
}

func (f *rosterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "roster", "", "TOML roster file with [[participant]] entries")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "place only seeded participants, without shuffling")
	cmd.Flags().Uint64Var(&f.rngSeed, "rng-seed", 0, "seed for the unseeded shuffle (random when unset)")
	_ = cmd.MarkFlagRequired("roster")
}

func (f *rosterFlags) shuffler(cmd *cobra.Command) brackets.Shuffler {
	if !cmd.Flags().Changed("rng-seed") {
		return nil
	}
	return rand.New(rand.NewPCG(f.rngSeed, f.rngSeed))
}

func (f *rosterFlags) load(logger *log.Logger) (Roster, error) {
	roster, err := LoadRoster(f.path)
	if err != nil {
		return Roster{}, err
	}
	logger.Debug("roster loaded", "path", f.path, "participants", len(roster.Participants), "seeded", len(roster.Seeds))

	size := brackets.NextPowerOfTwo(len(roster.Participants))
	for id, seed := range roster.Seeds {
		if seed > size {
			logger.Warn("seed exceeds bracket size and is ignored", "participant", id, "seed", seed, "size", size)
		}
	}
	return roster, nil
}

func newDrawCmd() *cobra.Command {
	var flags rosterFlags

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Place a roster into first-round matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			roster, err := flags.load(logger)
			if err != nil {
				return err
			}

			draw := brackets.GenerateDraw(roster.Participants, roster.Seeds, flags.preview, flags.shuffler(cmd))
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), draw)
			}
			return printDraw(cmd.OutOrStdout(), draw)
		},
	}
	flags.register(cmd)
	return cmd
}

func printDraw(w io.Writer, draw brackets.Draw) error {
	seeding := "unseeded"
	if draw.HasSeeds {
		seeding = "seeded"
	}
	if _, err := fmt.Fprintf(w, "bracket size %d, %d matches, %d participants, %s\n",
		draw.BracketSize, draw.MatchAmount, draw.ParticipantCount, seeding); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tSEED\tA\tSEED\tB")
	for _, m := range draw.Matches {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			m.MatchNumber, seedText(m.SeedA), slotText(m.ParticipantA), seedText(m.SeedB), slotText(m.ParticipantB))
	}
	return tw.Flush()
}

func slotText(p brackets.Participant) string {
	if p == nil {
		return "(bye)"
	}
	return brackets.DisplayName(p)
}

func seedText(seed *int) string {
	if seed == nil {
		return "-"
	}
	return strconv.Itoa(*seed)
}
