package models

import (
	"time"

	"github.com/Dosada05/bracketview/brackets"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCanceled   MatchStatus = "canceled"
)

// Match is a persisted bracket match. Slots are participant ids; sources name
// the bracket uid whose winner (or loser) fills an empty slot.
type Match struct {
	ID           int           `json:"id" db:"id"`
	EventID      int           `json:"event_id" db:"event_id"`
	BracketUID   string        `json:"bracket_uid" db:"bracket_uid"`
	Round        int           `json:"round" db:"round"`
	OrderInRound int           `json:"order_in_round" db:"order_in_round"`
	Side         brackets.Side `json:"side" db:"side"`

	Participant1ID *int `json:"participant1_id,omitempty" db:"participant1_id"`
	Participant2ID *int `json:"participant2_id,omitempty" db:"participant2_id"`

	Source1UID   *string `json:"source1_uid,omitempty" db:"source1_uid"`
	Source1Loser bool    `json:"source1_loser" db:"source1_loser"`
	Source2UID   *string `json:"source2_uid,omitempty" db:"source2_uid"`
	Source2Loser bool    `json:"source2_loser" db:"source2_loser"`

	Score1    *int        `json:"score1,omitempty" db:"score1"`
	Score2    *int        `json:"score2,omitempty" db:"score2"`
	WinnerID  *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status    MatchStatus `json:"status" db:"status"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// MatchFromBracket flattens an assembled bracket match into a row.
func MatchFromBracket(eventID int, m *brackets.BracketMatch) Match {
	row := Match{
		EventID:        eventID,
		BracketUID:     m.UID,
		Round:          m.Round,
		OrderInRound:   m.OrderInRound,
		Side:           m.Side,
		Participant1ID: brackets.ParticipantID(m.Participant1),
		Participant2ID: brackets.ParticipantID(m.Participant2),
		Status:         MatchStatusPending,
	}
	if m.Source1 != nil {
		uid := m.Source1.MatchUID
		row.Source1UID = &uid
		row.Source1Loser = m.Source1.Loser
	}
	if m.Source2 != nil {
		uid := m.Source2.MatchUID
		row.Source2UID = &uid
		row.Source2Loser = m.Source2.Loser
	}

	switch {
	case m.IsBye && m.ByeParticipant != nil:
		row.WinnerID = brackets.ParticipantID(m.ByeParticipant)
		row.Status = MatchStatusCompleted
	case m.IsBye:
		row.Status = MatchStatusCanceled
	case row.Participant1ID != nil && row.Participant2ID != nil:
		row.Status = MatchStatusScheduled
	}
	return row
}

// LoserID returns the participant who lost a completed match, if any.
func (m *Match) LoserID() *int {
	if m.WinnerID == nil || m.Participant1ID == nil || m.Participant2ID == nil {
		return nil
	}
	if *m.WinnerID == *m.Participant1ID {
		return m.Participant2ID
	}
	return m.Participant1ID
}

// ResultMatch converts the row for the round robin matrix.
func (m *Match) ResultMatch() (brackets.ResultMatch, bool) {
	if m.Participant1ID == nil || m.Participant2ID == nil {
		return brackets.ResultMatch{}, false
	}
	rm := brackets.ResultMatch{
		ID:             m.ID,
		ParticipantAID: *m.Participant1ID,
		ParticipantBID: *m.Participant2ID,
		WinnerID:       m.WinnerID,
	}
	if m.Score1 != nil && m.Score2 != nil {
		rm.Score = []int{*m.Score1, *m.Score2}
	}
	return rm, true
}

// MatchResult is a reported outcome.
type MatchResult struct {
	Score1   int `json:"score1"`
	Score2   int `json:"score2"`
	WinnerID int `json:"winner_id"`
}
