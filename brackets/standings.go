package brackets

import "sort"

// PointsPerWin is awarded for every finished match won.
const PointsPerWin = 2

// Standing is one participant's round robin record.
type Standing struct {
	Participant     Participant `json:"participant"`
	Rank            int         `json:"rank"`
	Played          int         `json:"played"`
	Wins            int         `json:"wins"`
	Losses          int         `json:"losses"`
	Points          int         `json:"points"`
	ScoreFor        int         `json:"score_for"`
	ScoreAgainst    int         `json:"score_against"`
	ScoreDifference int         `json:"score_difference"`
}

// ComputeStandings tallies finished matches (those with a winner). Ties on
// points fall back to score difference, then participant id.
func ComputeStandings(rows []MatrixRow) []Standing {
	index := make(map[int]*Standing, len(rows))
	standings := make([]*Standing, 0, len(rows))
	for _, row := range rows {
		s := &Standing{Participant: row.Participant}
		index[row.Participant.GetID()] = s
		standings = append(standings, s)
	}

	seen := make(map[int]bool)
	for _, row := range rows {
		for _, m := range row.Matches {
			if seen[m.ID] || m.WinnerID == nil {
				continue
			}
			seen[m.ID] = true

			a, b := index[m.ParticipantAID], index[m.ParticipantBID]
			if a == nil || b == nil {
				continue
			}
			a.Played++
			b.Played++
			if len(m.Score) == 2 {
				a.ScoreFor += m.Score[0]
				a.ScoreAgainst += m.Score[1]
				b.ScoreFor += m.Score[1]
				b.ScoreAgainst += m.Score[0]
			}
			winner, loser := a, b
			if *m.WinnerID == m.ParticipantBID {
				winner, loser = b, a
			}
			winner.Wins++
			winner.Points += PointsPerWin
			loser.Losses++
		}
	}

	for _, s := range standings {
		s.ScoreDifference = s.ScoreFor - s.ScoreAgainst
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].ScoreDifference != standings[j].ScoreDifference {
			return standings[i].ScoreDifference > standings[j].ScoreDifference
		}
		return standings[i].Participant.GetID() < standings[j].Participant.GetID()
	})

	out := make([]Standing, len(standings))
	for i, s := range standings {
		s.Rank = i + 1
		out[i] = *s
	}
	return out
}
