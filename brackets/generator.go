package brackets

import "fmt"

// GenerateParams is everything a generator needs to assemble a bracket.
type GenerateParams struct {
	Participants []Participant
	Seeds        SeedMap
	Preview      bool
	Shuffler     Shuffler
	Options      EliminationOptions
	// Legs is 1 or 2 for round robin; ignored by elimination formats.
	Legs int
}

// Generator assembles a bracket for one format.
type Generator interface {
	Generate(params GenerateParams) *Bracket

	Name() string
}

// NewGenerator returns the generator for a format.
func NewGenerator(format Format) (Generator, error) {
	switch format {
	case FormatSingleElimination:
		return &singleEliminationGenerator{}, nil
	case FormatDoubleElimination:
		return &doubleEliminationGenerator{}, nil
	case FormatRoundRobin:
		return &roundRobinGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported bracket format %q", format)
	}
}
