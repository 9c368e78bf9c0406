package models

import (
	"time"

	"github.com/Dosada05/bracketview/brackets"
)

// EventStatus mirrors the event_status ENUM.
type EventStatus string

const (
	EventStatusDraft        EventStatus = "draft"
	EventStatusRegistration EventStatus = "registration"
	EventStatusSeeding      EventStatus = "seeding"
	EventStatusInProgress   EventStatus = "in_progress"
	EventStatusCompleted    EventStatus = "completed"
	EventStatusCanceled     EventStatus = "canceled"
)

// Event is a single bracket competition.
type Event struct {
	ID              int             `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     *string         `json:"description,omitempty" db:"description"`
	LeagueID        *int            `json:"league_id,omitempty" db:"league_id"`
	OrganizerID     int             `json:"organizer_id" db:"organizer_id"`
	Format          brackets.Format `json:"format" db:"format"`
	ParticipantType ParticipantType `json:"participant_type" db:"participant_type"`
	BronzeMatch     bool            `json:"bronze_match" db:"bronze_match"`
	Legs            int             `json:"legs" db:"legs"`
	Status          EventStatus     `json:"status" db:"status"`
	StartsAt        *time.Time      `json:"starts_at,omitempty" db:"starts_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	Organizer    *User         `json:"organizer,omitempty" db:"-"`
	Editors      []User        `json:"editors,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
}
