package brackets

import "math"

// Default visual constants, in pixels.
const (
	DefaultMatchHeight      = 53
	DefaultMatchPadding     = 10
	DefaultBaseSpacerHeight = 10
)

// LayoutConfig holds the dimensions the spacing math is derived from.
type LayoutConfig struct {
	MatchHeight      float64 `json:"match_height"`
	MatchPadding     float64 `json:"match_padding"`
	BaseSpacerHeight float64 `json:"base_spacer_height"`
}

// DefaultLayoutConfig returns the stock match box dimensions.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MatchHeight:      DefaultMatchHeight,
		MatchPadding:     DefaultMatchPadding,
		BaseSpacerHeight: DefaultBaseSpacerHeight,
	}
}

// TrueMatchHeight is the rendered match box height including its padding.
func (c LayoutConfig) TrueMatchHeight() float64 {
	return c.MatchHeight + c.MatchPadding
}

// Spacing carries one match gap per round and one connector length per
// transition between consecutive rounds.
type Spacing struct {
	MatchSpacing     []float64 `json:"match_spacing"`
	ConnectorSpacing []float64 `json:"connector_spacing"`
}

// Transition classifies how the match count changes from one round to the next.
type Transition int

const (
	TransitionEqual Transition = iota
	TransitionFeedIn
	TransitionProgression
)

func (t Transition) String() string {
	switch t {
	case TransitionFeedIn:
		return "feed_in"
	case TransitionProgression:
		return "progression"
	default:
		return "equal"
	}
}

// SpacingVariant selects the losers bracket formula set.
type SpacingVariant string

const (
	// VariantRatio scales connectors by the elimination ratio between rounds.
	VariantRatio SpacingVariant = "ratio"
	// VariantDepth follows the single elimination doubling at an effective depth.
	VariantDepth SpacingVariant = "depth"
)

// ParseSpacingVariant maps a name onto a variant, falling back to VariantRatio.
func ParseSpacingVariant(s string) SpacingVariant {
	if SpacingVariant(s) == VariantDepth {
		return VariantDepth
	}
	return VariantRatio
}

// ClassifyTransition compares two consecutive round sizes. Rounds without
// matches never change the geometry.
func ClassifyTransition(prev, next int) Transition {
	if prev <= 0 || next <= 0 {
		return TransitionEqual
	}
	switch {
	case next > prev:
		return TransitionFeedIn
	case next < prev:
		return TransitionProgression
	default:
		return TransitionEqual
	}
}

// SingleEliminationSpacing computes spacing for a clean power-of-two cascade,
// where each match centers on the two matches feeding it.
func SingleEliminationSpacing(roundCount int, cfg LayoutConfig) Spacing {
	if roundCount <= 0 {
		return Spacing{MatchSpacing: []float64{}, ConnectorSpacing: []float64{}}
	}
	t := cfg.TrueMatchHeight()
	b := cfg.BaseSpacerHeight

	match := make([]float64, roundCount)
	for r := 0; r < roundCount; r++ {
		match[r] = depthMatchSpacing(r, t, b)
	}

	connector := make([]float64, roundCount-1)
	for r := 0; r < roundCount-1; r++ {
		scale := math.Exp2(float64(r))
		connector[r] = t*scale + b*scale
	}
	return Spacing{MatchSpacing: match, ConnectorSpacing: connector}
}

// LosersBracketSpacing computes spacing from the actual match count of every
// losers bracket round, which may grow on feed-in rounds.
func LosersBracketSpacing(matchCounts []int, cfg LayoutConfig, variant SpacingVariant) Spacing {
	if variant == VariantDepth {
		return losersDepthSpacing(matchCounts, cfg)
	}
	return losersRatioSpacing(matchCounts, cfg)
}

// Transitions classifies every pair of consecutive rounds.
func Transitions(matchCounts []int) []Transition {
	if len(matchCounts) < 2 {
		return []Transition{}
	}
	out := make([]Transition, len(matchCounts)-1)
	for i := 0; i+1 < len(matchCounts); i++ {
		out[i] = ClassifyTransition(matchCounts[i], matchCounts[i+1])
	}
	return out
}

func losersRatioSpacing(counts []int, cfg LayoutConfig) Spacing {
	n := len(counts)
	if n == 0 {
		return Spacing{MatchSpacing: []float64{}, ConnectorSpacing: []float64{}}
	}
	t := cfg.TrueMatchHeight()
	b := cfg.BaseSpacerHeight

	match := make([]float64, n)
	match[0] = b
	for i := 1; i < n; i++ {
		switch ClassifyTransition(counts[i-1], counts[i]) {
		case TransitionFeedIn:
			match[i] = math.Max(b, match[i-1]/2)
		case TransitionProgression:
			match[i] = match[i-1]*2 + t
		default:
			match[i] = match[i-1]
		}
	}

	connector := make([]float64, n-1)
	for i := 0; i+1 < n; i++ {
		switch ClassifyTransition(counts[i], counts[i+1]) {
		case TransitionFeedIn:
			connector[i] = t + b
		case TransitionProgression:
			connector[i] = (t + b) * (float64(counts[i]) / float64(counts[i+1]))
		default:
			connector[i] = 2*t + 2*b
		}
	}
	return Spacing{MatchSpacing: match, ConnectorSpacing: connector}
}

func losersDepthSpacing(counts []int, cfg LayoutConfig) Spacing {
	n := len(counts)
	if n == 0 {
		return Spacing{MatchSpacing: []float64{}, ConnectorSpacing: []float64{}}
	}
	t := cfg.TrueMatchHeight()
	b := cfg.BaseSpacerHeight

	depths := make([]int, n)
	for i := 1; i < n; i++ {
		depths[i] = depths[i-1]
		if ClassifyTransition(counts[i-1], counts[i]) == TransitionProgression {
			depths[i]++
		}
	}

	match := make([]float64, n)
	for i, d := range depths {
		match[i] = depthMatchSpacing(d, t, b)
	}

	connector := make([]float64, n-1)
	for i := 0; i+1 < n; i++ {
		if ClassifyTransition(counts[i], counts[i+1]) == TransitionFeedIn {
			connector[i] = t + b
			continue
		}
		connector[i] = (t + b) * math.Exp2(float64(depths[i]))
	}
	return Spacing{MatchSpacing: match, ConnectorSpacing: connector}
}

// depthMatchSpacing is the gap between matches of a round at the given
// doubling depth: b at depth 0, t*(2^d-1) + b*2^d beyond.
func depthMatchSpacing(depth int, t, b float64) float64 {
	if depth == 0 {
		return b
	}
	scale := math.Exp2(float64(depth))
	return t*(scale-1) + b*scale
}
