package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBuildMatrix(t *testing.T) {
	p1 := &Player{ID: 1, Username: "one"}
	p2 := &Player{ID: 2, Username: "two"}
	p3 := &Player{ID: 3, Username: "three"}
	match := ResultMatch{ID: 10, ParticipantAID: 1, ParticipantBID: 2, Score: []int{6, 4}, WinnerID: intPtr(1)}

	matrix := BuildMatrix([]MatrixRow{
		{Participant: p1, Matches: []ResultMatch{match}},
		{Participant: p2, Matches: []ResultMatch{match}},
		{Participant: p3},
	})

	require.Len(t, matrix.Cells, 3)
	for i := range matrix.Cells {
		require.Len(t, matrix.Cells[i], 3)
		assert.True(t, matrix.Cells[i][i].Disabled)
	}

	rowOne := matrix.Cells[0][1]
	assert.True(t, rowOne.Scheduled)
	assert.Equal(t, "6-4", rowOne.Score)
	assert.Equal(t, StatusWin, rowOne.Status)
	assert.Equal(t, 10, rowOne.MatchID)

	rowTwo := matrix.Cells[1][0]
	assert.Equal(t, "4-6", rowTwo.Score)
	assert.Equal(t, StatusLoss, rowTwo.Status)

	assert.False(t, matrix.Cells[2][0].Scheduled)
	assert.False(t, matrix.Cells[0][2].Scheduled)
	assert.False(t, matrix.Cells[2][0].Disabled)
}

func TestBuildMatrix_MatchListedOnlyOnOneRow(t *testing.T) {
	p1 := &Player{ID: 1}
	p2 := &Player{ID: 2}
	match := ResultMatch{ID: 3, ParticipantAID: 2, ParticipantBID: 1}

	matrix := BuildMatrix([]MatrixRow{
		{Participant: p1},
		{Participant: p2, Matches: []ResultMatch{match}},
	})

	cell := matrix.Cells[0][1]
	assert.True(t, cell.Scheduled)
	assert.Equal(t, "-", cell.Score)
	assert.Equal(t, StatusInProgress, cell.Status)
	assert.Equal(t, cell, matrix.Cells[1][0])
}

func TestComputeStandings(t *testing.T) {
	p1 := &Player{ID: 1}
	p2 := &Player{ID: 2}
	p3 := &Player{ID: 3}
	m12 := ResultMatch{ID: 1, ParticipantAID: 1, ParticipantBID: 2, Score: []int{6, 4}, WinnerID: intPtr(1)}
	m23 := ResultMatch{ID: 2, ParticipantAID: 2, ParticipantBID: 3, Score: []int{6, 0}, WinnerID: intPtr(2)}
	m13 := ResultMatch{ID: 3, ParticipantAID: 1, ParticipantBID: 3}

	standings := ComputeStandings([]MatrixRow{
		{Participant: p1, Matches: []ResultMatch{m12, m13}},
		{Participant: p2, Matches: []ResultMatch{m12, m23}},
		{Participant: p3, Matches: []ResultMatch{m23, m13}},
	})

	require.Len(t, standings, 3)

	// 1 and 2 are level on points; 2 has the better difference.
	assert.Equal(t, 2, standings[0].Participant.GetID())
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 2, standings[0].Played)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 1, standings[0].Losses)
	assert.Equal(t, 4, standings[0].ScoreDifference)

	assert.Equal(t, 1, standings[1].Participant.GetID())
	assert.Equal(t, PointsPerWin, standings[1].Points)
	assert.Equal(t, 1, standings[1].Played, "unfinished matches do not count")

	assert.Equal(t, 3, standings[2].Participant.GetID())
	assert.Equal(t, 0, standings[2].Points)
	assert.Equal(t, -6, standings[2].ScoreDifference)
}
