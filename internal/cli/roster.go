package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/Dosada05/bracketview/brackets"
)

// Roster is a participant list read from a file, in file order.
type Roster struct {
	Participants []brackets.Participant
	Seeds        brackets.SeedMap
}

type rosterFile struct {
	Participants []rosterEntry `toml:"participant"`
}

// rosterEntry is one [[participant]] table. A non-empty team makes the entry
// a team; otherwise it is a player. Seed 0 means unseeded.
type rosterEntry struct {
	ID       int    `toml:"id"`
	Name     string `toml:"name"`
	Username string `toml:"username"`
	Team     string `toml:"team"`
	Seed     int    `toml:"seed"`
}

// LoadRoster reads a TOML roster file.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster: %w", err)
	}
	return parseRoster(data)
}

func parseRoster(data []byte) (Roster, error) {
	var file rosterFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Roster{}, fmt.Errorf("parse roster: %w", err)
	}

	roster := Roster{
		Participants: make([]brackets.Participant, 0, len(file.Participants)),
		Seeds:        brackets.SeedMap{},
	}
	ids := make(map[int]bool, len(file.Participants))
	teams := 0
	for i, e := range file.Participants {
		if e.ID <= 0 {
			return Roster{}, fmt.Errorf("participant %d: id must be positive", i+1)
		}
		if ids[e.ID] {
			return Roster{}, fmt.Errorf("participant %d: duplicate id %d", i+1, e.ID)
		}
		if e.Seed < 0 {
			return Roster{}, fmt.Errorf("participant %d: seed must not be negative", e.ID)
		}
		ids[e.ID] = true

		if e.Team != "" {
			teams++
			roster.Participants = append(roster.Participants, &brackets.Team{ID: e.ID, TeamName: e.Team})
		} else {
			roster.Participants = append(roster.Participants, &brackets.Player{ID: e.ID, Username: e.Username, Name: e.Name})
		}
		if e.Seed > 0 {
			roster.Seeds[e.ID] = e.Seed
		}
	}
	if teams > 0 && teams != len(file.Participants) {
		return Roster{}, fmt.Errorf("roster mixes teams and players")
	}
	return roster, nil
}
