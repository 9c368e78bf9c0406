package brackets

// BronzeMatchUID identifies the third place match.
const BronzeMatchUID = "BRONZE"

// EliminationOptions tweaks elimination bracket assembly.
type EliminationOptions struct {
	BronzeMatch bool
}

type singleEliminationGenerator struct{}

func (g *singleEliminationGenerator) Name() string {
	return "SingleElimination"
}

func (g *singleEliminationGenerator) Generate(params GenerateParams) *Bracket {
	draw := GenerateDraw(params.Participants, params.Seeds, params.Preview, params.Shuffler)
	rounds, bronze := buildSingleElimination(draw, params.Options)
	return &Bracket{
		Format: FormatSingleElimination,
		Draw:   &draw,
		Rounds: rounds,
		Bronze: bronze,
	}
}

// BuildSingleElimination assembles every round from a draw. Byes advance
// their participant straight into the next round; everything else refers to
// the feeding match by UID.
func BuildSingleElimination(draw Draw, opts EliminationOptions) []Round {
	rounds, _ := buildSingleElimination(draw, opts)
	return rounds
}

func buildSingleElimination(draw Draw, opts EliminationOptions) ([]Round, *BracketMatch) {
	if draw.BracketSize < 2 {
		return []Round{}, nil
	}

	current := make([]node, 0, draw.BracketSize)
	for _, dm := range draw.Matches {
		current = append(current,
			participantNode(dm.ParticipantA, dm.SeedA),
			participantNode(dm.ParticipantB, dm.SeedB),
		)
	}

	var rounds []Round
	for r := 1; len(current) >= 2; r++ {
		round := Round{Number: r, Matches: make([]*BracketMatch, 0, len(current)/2)}
		next := make([]node, 0, len(current)/2)
		for i := 0; i+1 < len(current); i += 2 {
			order := i/2 + 1
			m, winner := pairNodes(matchUID("R", r, order), r, order, SideWinners, current[i], current[i+1])
			round.Matches = append(round.Matches, m)
			next = append(next, winner)
		}
		rounds = append(rounds, round)
		current = next
	}

	var bronze *BracketMatch
	if opts.BronzeMatch && len(rounds) >= 2 {
		semis := rounds[len(rounds)-2].Matches
		final := rounds[len(rounds)-1]
		bronze, _ = pairNodes(BronzeMatchUID, final.Number, 2, SideBronze, loserOf(semis[0]), loserOf(semis[1]))
	}
	return rounds, bronze
}
