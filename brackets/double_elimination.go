package brackets

// GrandFinalUID identifies the match between the winners and losers bracket champions.
const GrandFinalUID = "GF"

// DoubleBracket is the winners side, the losers side and the deciding matches.
type DoubleBracket struct {
	Winners    []Round
	Losers     []Round
	GrandFinal *BracketMatch
	Bronze     *BracketMatch
}

type doubleEliminationGenerator struct{}

func (g *doubleEliminationGenerator) Name() string {
	return "DoubleElimination"
}

func (g *doubleEliminationGenerator) Generate(params GenerateParams) *Bracket {
	draw := GenerateDraw(params.Participants, params.Seeds, params.Preview, params.Shuffler)
	de := BuildDoubleElimination(draw, params.Options)
	return &Bracket{
		Format:     FormatDoubleElimination,
		Draw:       &draw,
		Rounds:     de.Winners,
		Losers:     de.Losers,
		GrandFinal: de.GrandFinal,
		Bronze:     de.Bronze,
	}
}

// LosersRoundCounts returns the match count of every losers bracket round for
// a bracket of the given size: N/4, N/4, N/8, N/8, ... 1, 1.
func LosersRoundCounts(bracketSize int) []int {
	var counts []int
	for c := bracketSize / 4; c >= 1; c /= 2 {
		counts = append(counts, c, c)
	}
	return counts
}

// BuildDoubleElimination assembles the winners bracket from the draw and
// derives the losers bracket from it. Odd losers rounds pair survivors with
// each other (the first one pairs first round losers); even rounds take in
// the losers of the next winners round in reverse order.
func BuildDoubleElimination(draw Draw, opts EliminationOptions) DoubleBracket {
	winners := BuildSingleElimination(draw, EliminationOptions{})
	de := DoubleBracket{Winners: winners, Losers: []Round{}}
	if len(winners) == 0 {
		return de
	}

	wbFinal := winners[len(winners)-1].Matches[0]
	if len(winners) == 1 {
		de.GrandFinal, _ = pairNodes(GrandFinalUID, 2, 1, SideGrandFinal, winnerNode(wbFinal), loserOf(wbFinal))
		return de
	}

	// Losers of the first winners round pair up among themselves.
	current := make([]node, 0, len(winners[0].Matches))
	for _, m := range winners[0].Matches {
		current = append(current, loserOf(m))
	}

	lbRound := 0
	playSurvivors := func() {
		lbRound++
		round := Round{Number: lbRound}
		next := make([]node, 0, len(current)/2)
		for i := 0; i+1 < len(current); i += 2 {
			order := i/2 + 1
			m, w := pairNodes(matchUID("L", lbRound, order), lbRound, order, SideLosers, current[i], current[i+1])
			round.Matches = append(round.Matches, m)
			next = append(next, w)
		}
		de.Losers = append(de.Losers, round)
		current = next
	}
	playDropIns := func(wbRound Round) {
		lbRound++
		round := Round{Number: lbRound}
		next := make([]node, 0, len(current))
		count := len(wbRound.Matches)
		for i := 0; i < len(current) && i < count; i++ {
			order := i + 1
			dropped := loserOf(wbRound.Matches[count-1-i])
			m, w := pairNodes(matchUID("L", lbRound, order), lbRound, order, SideLosers, current[i], dropped)
			round.Matches = append(round.Matches, m)
			next = append(next, w)
		}
		de.Losers = append(de.Losers, round)
		current = next
	}

	playSurvivors()
	for wb := 1; wb < len(winners); wb++ {
		if wb > 1 {
			playSurvivors()
		}
		playDropIns(winners[wb])
	}

	lbFinal := de.Losers[len(de.Losers)-1].Matches[0]
	de.GrandFinal, _ = pairNodes(GrandFinalUID, len(winners)+1, 1, SideGrandFinal, winnerNode(wbFinal), winnerNode(lbFinal))

	if opts.BronzeMatch && len(de.Losers) >= 2 {
		lbSemi := de.Losers[len(de.Losers)-2].Matches[0]
		de.Bronze, _ = pairNodes(BronzeMatchUID, len(winners)+1, 2, SideBronze, loserOf(lbFinal), loserOf(lbSemi))
	}
	return de
}

// winnerNode is the slot filled by whoever comes out of m. A bye passes its
// lone occupant through.
func winnerNode(m *BracketMatch) node {
	if !m.IsBye {
		return winnerOf(m.UID)
	}
	switch {
	case m.Participant1 != nil:
		return participantNode(m.Participant1, m.Seed1)
	case m.Source1 != nil:
		return node{source: m.Source1}
	case m.Participant2 != nil:
		return participantNode(m.Participant2, m.Seed2)
	case m.Source2 != nil:
		return node{source: m.Source2}
	}
	return node{}
}
