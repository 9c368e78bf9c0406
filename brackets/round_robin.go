package brackets

import "fmt"

type roundRobinGenerator struct{}

func (g *roundRobinGenerator) Name() string {
	return "RoundRobin"
}

func (g *roundRobinGenerator) Generate(params GenerateParams) *Bracket {
	return &Bracket{
		Format: FormatRoundRobin,
		Rounds: BuildRoundRobin(params.Participants, params.Legs),
	}
}

// BuildRoundRobin schedules every participant against every other one using
// the circle method. An odd roster gets a rest slot each round. With two legs
// the whole schedule repeats with sides swapped.
func BuildRoundRobin(participants []Participant, legs int) []Round {
	if legs != 2 {
		legs = 1
	}
	participants = presentParticipants(participants)
	if len(participants) < 2 {
		return []Round{}
	}

	circle := make([]Participant, len(participants), len(participants)+1)
	copy(circle, participants)
	if len(circle)%2 == 1 {
		circle = append(circle, nil)
	}
	n := len(circle)
	roundsPerLeg := n - 1

	rounds := make([]Round, 0, roundsPerLeg*legs)
	for leg := 1; leg <= legs; leg++ {
		order := append([]Participant(nil), circle...)
		for r := 0; r < roundsPerLeg; r++ {
			number := (leg-1)*roundsPerLeg + r + 1
			round := Round{Number: number, Matches: make([]*BracketMatch, 0, n/2)}
			for i := 0; i < n/2; i++ {
				home, away := order[i], order[n-1-i]
				if home == nil || away == nil {
					continue
				}
				// Alternate sides so the fixed slot does not always play at home.
				if i == 0 && r%2 == 1 {
					home, away = away, home
				}
				if leg == 2 {
					home, away = away, home
				}
				matchOrder := len(round.Matches) + 1
				round.Matches = append(round.Matches, &BracketMatch{
					UID:          fmt.Sprintf("RR%dM%d", number, matchOrder),
					Round:        number,
					OrderInRound: matchOrder,
					Side:         SideGroup,
					Participant1: home,
					Participant2: away,
				})
			}
			rounds = append(rounds, round)

			// Keep slot 0 fixed and rotate the rest clockwise.
			last := order[n-1]
			copy(order[2:], order[1:n-1])
			order[1] = last
		}
	}
	return rounds
}
