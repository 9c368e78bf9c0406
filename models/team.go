package models

import "time"

// Team is a doubles pairing. Either player slot may still be open.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Player1ID *int      `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID *int      `json:"player2_id,omitempty" db:"player2_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Player1 *User `json:"player1,omitempty" db:"-"`
	Player2 *User `json:"player2,omitempty" db:"-"`
}
