package models

import "github.com/Dosada05/bracketview/brackets"

type ParticipantType string

const (
	ParticipantTypeSolo ParticipantType = "solo"
	ParticipantTypeTeam ParticipantType = "team"
)

func (t ParticipantType) Valid() bool {
	return t == ParticipantTypeSolo || t == ParticipantTypeTeam
}

// FormatInfo describes a bracket topology offered to organizers.
type FormatInfo struct {
	Format           brackets.Format `json:"format"`
	Name             string          `json:"name"`
	SupportsBronze   bool            `json:"supports_bronze"`
	SupportsLegs     bool            `json:"supports_legs"`
	HasLosersBracket bool            `json:"has_losers_bracket"`
}

// SupportedFormats lists every format the bracket engine can assemble.
func SupportedFormats() []FormatInfo {
	return []FormatInfo{
		{Format: brackets.FormatSingleElimination, Name: "Single Elimination", SupportsBronze: true},
		{Format: brackets.FormatDoubleElimination, Name: "Double Elimination", SupportsBronze: true, HasLosersBracket: true},
		{Format: brackets.FormatRoundRobin, Name: "Round Robin", SupportsLegs: true},
	}
}
