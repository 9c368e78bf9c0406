package brackets

import "fmt"

// Format names a bracket topology.
type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
)

// Valid reports whether f is a known topology.
func (f Format) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin:
		return true
	}
	return false
}

// Side tells which part of a bracket a match belongs to.
type Side string

const (
	SideWinners    Side = "winners"
	SideLosers     Side = "losers"
	SideGrandFinal Side = "grand_final"
	SideBronze     Side = "bronze"
	SideGroup      Side = "group"
)

// SourceRef points at the match whose winner (or loser) fills a slot.
type SourceRef struct {
	MatchUID string `json:"match_uid"`
	Loser    bool   `json:"loser,omitempty"`
}

// BracketMatch is a match in an assembled bracket. A slot is either a known
// participant, a reference to an earlier match, or empty.
type BracketMatch struct {
	UID          string `json:"uid"`
	Round        int    `json:"round"`
	OrderInRound int    `json:"order_in_round"`
	Side         Side   `json:"side"`

	Participant1 Participant `json:"participant1"`
	Participant2 Participant `json:"participant2"`
	Seed1        *int        `json:"seed1,omitempty"`
	Seed2        *int        `json:"seed2,omitempty"`

	Source1 *SourceRef `json:"source1,omitempty"`
	Source2 *SourceRef `json:"source2,omitempty"`

	IsPlaceholder  bool        `json:"is_placeholder"`
	IsBye          bool        `json:"is_bye"`
	ByeParticipant Participant `json:"bye_participant,omitempty"`
}

// Round is an ordered list of matches played at the same stage.
type Round struct {
	Number  int             `json:"number"`
	Matches []*BracketMatch `json:"matches"`
}

// Bracket is a fully assembled draw for one format.
type Bracket struct {
	Format     Format        `json:"format"`
	Draw       *Draw         `json:"draw,omitempty"`
	Rounds     []Round       `json:"rounds"`
	Losers     []Round       `json:"losers,omitempty"`
	GrandFinal *BracketMatch `json:"grand_final,omitempty"`
	Bronze     *BracketMatch `json:"bronze,omitempty"`
}

// MatchCounts returns the number of matches in each round.
func MatchCounts(rounds []Round) []int {
	counts := make([]int, len(rounds))
	for i, r := range rounds {
		counts[i] = len(r.Matches)
	}
	return counts
}

// AllMatches flattens the bracket in play order: winners, losers, bronze, grand final.
func (b *Bracket) AllMatches() []*BracketMatch {
	var out []*BracketMatch
	for _, r := range b.Rounds {
		out = append(out, r.Matches...)
	}
	for _, r := range b.Losers {
		out = append(out, r.Matches...)
	}
	if b.Bronze != nil {
		out = append(out, b.Bronze)
	}
	if b.GrandFinal != nil {
		out = append(out, b.GrandFinal)
	}
	return out
}

// node is one slot travelling between rounds.
type node struct {
	participant Participant
	seed        *int
	source      *SourceRef
}

func (n node) empty() bool {
	return n.participant == nil && n.source == nil
}

func participantNode(p Participant, seed *int) node {
	return node{participant: p, seed: seed}
}

func winnerOf(uid string) node {
	return node{source: &SourceRef{MatchUID: uid}}
}

func loserOf(m *BracketMatch) node {
	if m.IsBye {
		return node{}
	}
	return node{source: &SourceRef{MatchUID: m.UID, Loser: true}}
}

// pairNodes builds the match between two slots and returns the node that
// advances from it. A lone occupant advances without playing.
func pairNodes(uid string, round, order int, side Side, a, b node) (*BracketMatch, node) {
	m := &BracketMatch{
		UID:          uid,
		Round:        round,
		OrderInRound: order,
		Side:         side,
		Participant1: a.participant,
		Participant2: b.participant,
		Seed1:        a.seed,
		Seed2:        b.seed,
		Source1:      a.source,
		Source2:      b.source,
	}
	m.IsPlaceholder = a.source != nil || b.source != nil

	switch {
	case a.empty() && b.empty():
		m.IsBye = true
		return m, node{}
	case b.empty():
		m.IsBye = true
		m.ByeParticipant = a.participant
		return m, a
	case a.empty():
		m.IsBye = true
		m.ByeParticipant = b.participant
		return m, b
	default:
		return m, winnerOf(uid)
	}
}

func matchUID(prefix string, round, order int) string {
	return fmt.Sprintf("%s%dM%d", prefix, round, order)
}
