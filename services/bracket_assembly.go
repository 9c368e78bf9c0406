package services

import (
	"sort"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/models"
)

// RoundRobinTable is the results grid plus the standings derived from it.
type RoundRobinTable struct {
	Matrix    brackets.Matrix     `json:"matrix"`
	Standings []brackets.Standing `json:"standings"`
}

func entryIndex(participants []models.Participant) map[int]brackets.Participant {
	index := make(map[int]brackets.Participant, len(participants))
	for i := range participants {
		index[participants[i].ID] = participants[i].BracketEntry()
	}
	return index
}

func lookupEntry(index map[int]brackets.Participant, id *int) brackets.Participant {
	if id == nil {
		return nil
	}
	return index[*id]
}

func sourceRef(uid *string, loser bool) *brackets.SourceRef {
	if uid == nil {
		return nil
	}
	return &brackets.SourceRef{MatchUID: *uid, Loser: loser}
}

// assembleBracket rebuilds the round structure of a persisted bracket so its
// layout can be computed the same way as for a freshly generated one.
func assembleBracket(format brackets.Format, rows []models.Match, index map[int]brackets.Participant) *brackets.Bracket {
	b := &brackets.Bracket{Format: format, Rounds: []brackets.Round{}}
	winners := map[int][]*brackets.BracketMatch{}
	losers := map[int][]*brackets.BracketMatch{}

	for _, row := range rows {
		m := &brackets.BracketMatch{
			UID:          row.BracketUID,
			Round:        row.Round,
			OrderInRound: row.OrderInRound,
			Side:         row.Side,
			Participant1: lookupEntry(index, row.Participant1ID),
			Participant2: lookupEntry(index, row.Participant2ID),
			Source1:      sourceRef(row.Source1UID, row.Source1Loser),
			Source2:      sourceRef(row.Source2UID, row.Source2Loser),
		}
		m.IsPlaceholder = (m.Source1 != nil && m.Participant1 == nil) || (m.Source2 != nil && m.Participant2 == nil)
		if row.Status == models.MatchStatusCanceled || (row.Status == models.MatchStatusCompleted && (row.Participant1ID == nil || row.Participant2ID == nil)) {
			m.IsBye = true
			m.ByeParticipant = lookupEntry(index, row.WinnerID)
		}

		switch row.Side {
		case brackets.SideLosers:
			losers[row.Round] = append(losers[row.Round], m)
		case brackets.SideGrandFinal:
			b.GrandFinal = m
		case brackets.SideBronze:
			b.Bronze = m
		default:
			winners[row.Round] = append(winners[row.Round], m)
		}
	}

	b.Rounds = roundsFrom(winners)
	if format == brackets.FormatDoubleElimination {
		b.Losers = roundsFrom(losers)
	}
	return b
}

func roundsFrom(byRound map[int][]*brackets.BracketMatch) []brackets.Round {
	numbers := make([]int, 0, len(byRound))
	for n := range byRound {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	rounds := make([]brackets.Round, 0, len(numbers))
	for _, n := range numbers {
		matches := byRound[n]
		sort.Slice(matches, func(i, j int) bool { return matches[i].OrderInRound < matches[j].OrderInRound })
		rounds = append(rounds, brackets.Round{Number: n, Matches: matches})
	}
	return rounds
}

// roundRobinTable builds the matrix rows in roster order, each row listing
// the matches its participant plays.
func roundRobinTable(participants []models.Participant, rows []models.Match) *RoundRobinTable {
	index := entryIndex(participants)
	byParticipant := make(map[int][]brackets.ResultMatch, len(participants))
	for i := range rows {
		rm, ok := rows[i].ResultMatch()
		if !ok {
			continue
		}
		byParticipant[rm.ParticipantAID] = append(byParticipant[rm.ParticipantAID], rm)
		byParticipant[rm.ParticipantBID] = append(byParticipant[rm.ParticipantBID], rm)
	}

	matrixRows := make([]brackets.MatrixRow, 0, len(participants))
	for _, p := range participants {
		matrixRows = append(matrixRows, brackets.MatrixRow{
			Participant: index[p.ID],
			Matches:     byParticipant[p.ID],
		})
	}
	return &RoundRobinTable{
		Matrix:    brackets.BuildMatrix(matrixRows),
		Standings: brackets.ComputeStandings(matrixRows),
	}
}
