package models

import (
	"time"

	"github.com/Dosada05/bracketview/brackets"
)

type ParticipantStatus string

const (
	ParticipantStatusApplication ParticipantStatus = "application"
	ParticipantStatusParticipant ParticipantStatus = "participant"
	ParticipantStatusWithdrawn   ParticipantStatus = "withdrawn"
)

// Participant is an entry in an event. Exactly one of UserID and TeamID is set,
// matching the event's participant type.
type Participant struct {
	ID        int               `json:"id" db:"id"`
	EventID   int               `json:"event_id" db:"event_id"`
	UserID    *int              `json:"user_id,omitempty" db:"user_id"`
	TeamID    *int              `json:"team_id,omitempty" db:"team_id"`
	Seed      *int              `json:"seed,omitempty" db:"seed"`
	Status    ParticipantStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
	Team *Team `json:"team,omitempty" db:"-"`
}

// BracketEntry converts the row into a bracket slot keyed by participant id.
func (p *Participant) BracketEntry() brackets.Participant {
	if p.TeamID != nil {
		team := &brackets.Team{ID: p.ID}
		if p.Team != nil {
			team.TeamName = p.Team.Name
			team.Player1 = bracketPlayer(p.Team.Player1)
			team.Player2 = bracketPlayer(p.Team.Player2)
		}
		return team
	}

	player := &brackets.Player{ID: p.ID}
	if p.User != nil {
		player.Username = p.User.Username
		if p.User.Name != nil {
			player.Name = *p.User.Name
		}
	}
	return player
}

func bracketPlayer(u *User) *brackets.Player {
	if u == nil {
		return nil
	}
	pl := &brackets.Player{ID: u.ID, Username: u.Username}
	if u.Name != nil {
		pl.Name = *u.Name
	}
	return pl
}

// BracketEntries converts accepted participants and collects their seeds.
func BracketEntries(participants []Participant) ([]brackets.Participant, brackets.SeedMap) {
	entries := make([]brackets.Participant, 0, len(participants))
	seeds := make(brackets.SeedMap)
	for i := range participants {
		p := &participants[i]
		if p.Status != ParticipantStatusParticipant {
			continue
		}
		entries = append(entries, p.BracketEntry())
		if p.Seed != nil {
			seeds[p.ID] = *p.Seed
		}
	}
	return entries, seeds
}

// SeedAssignment is one participant's requested seed; a nil seed clears it.
type SeedAssignment struct {
	ParticipantID int  `json:"participant_id"`
	Seed          *int `json:"seed"`
}
