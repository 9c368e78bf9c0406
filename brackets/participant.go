package brackets

// unknownParticipantName is shown when a participant carries no usable name.
const unknownParticipantName = "Unknown Participant"

// Participant is anything that can occupy a bracket slot: a single player or a team.
type Participant interface {
	GetID() int
	GetDisplayName() string
}

// Player is a single competitor.
type Player struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

func (p *Player) GetID() int {
	return p.ID
}

func (p *Player) GetDisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return unknownParticipantName
}

// Team is a doubles pairing entered under one id.
type Team struct {
	ID       int     `json:"id"`
	Player1  *Player `json:"player1,omitempty"`
	Player2  *Player `json:"player2,omitempty"`
	TeamName string  `json:"team_name"`
}

func (t *Team) GetID() int {
	return t.ID
}

func (t *Team) GetDisplayName() string {
	if t.TeamName != "" {
		return t.TeamName
	}
	return unknownParticipantName
}

// presentParticipants drops nil entries, including nil *Player and *Team
// values stored in the interface.
func presentParticipants(participants []Participant) []Participant {
	out := make([]Participant, 0, len(participants))
	for _, p := range participants {
		switch v := p.(type) {
		case nil:
			continue
		case *Player:
			if v == nil {
				continue
			}
		case *Team:
			if v == nil {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// DisplayName resolves the name of a possibly empty slot.
func DisplayName(p Participant) string {
	if p == nil {
		return unknownParticipantName
	}
	return p.GetDisplayName()
}

// ParticipantID returns a pointer to the slot's id, nil for an empty slot.
func ParticipantID(p Participant) *int {
	if p == nil {
		return nil
	}
	id := p.GetID()
	return &id
}
