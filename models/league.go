package models

import "time"

// League groups events played under one banner.
type League struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Events []Event `json:"events,omitempty" db:"-"`
}
