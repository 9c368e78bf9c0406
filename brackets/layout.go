package brackets

// Layout is the spacing a renderer needs to draw a bracket.
type Layout struct {
	Format      Format         `json:"format"`
	Config      LayoutConfig   `json:"config"`
	Variant     SpacingVariant `json:"variant,omitempty"`
	Winners     Spacing        `json:"winners"`
	Losers      *Spacing       `json:"losers,omitempty"`
	Transitions []string       `json:"losers_transitions,omitempty"`
}

// ComputeLayout derives spacing from the shape of an assembled bracket.
// Round robin brackets render as a grid and carry no spacing.
func ComputeLayout(b *Bracket, cfg LayoutConfig, variant SpacingVariant) Layout {
	layout := Layout{
		Format:  b.Format,
		Config:  cfg,
		Winners: Spacing{MatchSpacing: []float64{}, ConnectorSpacing: []float64{}},
	}
	if b.Format == FormatRoundRobin {
		return layout
	}

	layout.Winners = SingleEliminationSpacing(len(b.Rounds), cfg)
	if b.Format == FormatDoubleElimination {
		counts := MatchCounts(b.Losers)
		losers := LosersBracketSpacing(counts, cfg, variant)
		layout.Losers = &losers
		layout.Variant = variant
		for _, t := range Transitions(counts) {
			layout.Transitions = append(layout.Transitions, t.String())
		}
	}
	return layout
}
