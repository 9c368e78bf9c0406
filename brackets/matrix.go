package brackets

import "fmt"

// CellStatus is the outcome of a grid cell from the row participant's side.
type CellStatus string

const (
	StatusWin        CellStatus = "W"
	StatusLoss       CellStatus = "L"
	StatusInProgress CellStatus = "IP"
)

// ResultMatch is a played or scheduled round robin match.
type ResultMatch struct {
	ID             int   `json:"id"`
	ParticipantAID int   `json:"participant_a_id"`
	ParticipantBID int   `json:"participant_b_id"`
	Score          []int `json:"score,omitempty"`
	WinnerID       *int  `json:"winner_id,omitempty"`
}

// MatrixRow is one participant followed by the matches it took part in.
type MatrixRow struct {
	Participant Participant   `json:"participant"`
	Matches     []ResultMatch `json:"matches"`
}

// MatrixCell is the rendering of one (row, column) pair.
type MatrixCell struct {
	Disabled  bool       `json:"disabled"`
	Scheduled bool       `json:"scheduled"`
	MatchID   int        `json:"match_id,omitempty"`
	Score     string     `json:"score,omitempty"`
	Status    CellStatus `json:"status,omitempty"`
}

// Matrix is an N×N grid in row order.
type Matrix struct {
	Participants []Participant  `json:"participants"`
	Cells        [][]MatrixCell `json:"cells"`
}

type pairKey struct{ lo, hi int }

func keyFor(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// BuildMatrix indexes the matches of every row by unordered participant pair
// and renders the grid. A pair that appears in several rows resolves to the
// same match.
func BuildMatrix(rows []MatrixRow) Matrix {
	byPair := make(map[pairKey]ResultMatch)
	for _, row := range rows {
		for _, m := range row.Matches {
			byPair[keyFor(m.ParticipantAID, m.ParticipantBID)] = m
		}
	}

	matrix := Matrix{
		Participants: make([]Participant, len(rows)),
		Cells:        make([][]MatrixCell, len(rows)),
	}
	for i, row := range rows {
		matrix.Participants[i] = row.Participant
		matrix.Cells[i] = make([]MatrixCell, len(rows))
		for j, col := range rows {
			if i == j {
				matrix.Cells[i][j] = MatrixCell{Disabled: true}
				continue
			}
			rowID, colID := row.Participant.GetID(), col.Participant.GetID()
			m, ok := byPair[keyFor(rowID, colID)]
			if !ok {
				continue
			}
			matrix.Cells[i][j] = cellFor(m, rowID)
		}
	}
	return matrix
}

func cellFor(m ResultMatch, rowID int) MatrixCell {
	cell := MatrixCell{Scheduled: true, MatchID: m.ID, Score: "-", Status: StatusInProgress}
	if len(m.Score) == 2 {
		own, other := m.Score[0], m.Score[1]
		if m.ParticipantBID == rowID {
			own, other = other, own
		}
		cell.Score = fmt.Sprintf("%d-%d", own, other)
	}
	if m.WinnerID != nil {
		if *m.WinnerID == rowID {
			cell.Status = StatusWin
		} else {
			cell.Status = StatusLoss
		}
	}
	return cell
}
