package brackets

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func players(n int) []Participant {
	out := make([]Participant, n)
	for i := range out {
		out[i] = &Player{ID: i + 1, Username: "player" + string(rune('A'+i))}
	}
	return out
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, NextPowerOfTwo(-3))
	assert.Equal(t, 1, NextPowerOfTwo(0))

	for n := 1; n <= 1000; n++ {
		got := NextPowerOfTwo(n)
		assert.Zero(t, got&(got-1), "result for %d is not a power of two", n)
		assert.GreaterOrEqual(t, got, n)
		if n&(n-1) == 0 {
			assert.Equal(t, n, got)
		} else {
			assert.Less(t, got/2, n)
		}
	}
}

func TestStandardSeedPositions(t *testing.T) {
	assert.Empty(t, StandardSeedPositions(0))
	assert.Empty(t, StandardSeedPositions(-4))
	assert.Equal(t, []int{1}, StandardSeedPositions(1))
	assert.Equal(t, []int{1, 2}, StandardSeedPositions(2))
	assert.Equal(t, []int{1, 4, 2, 3}, StandardSeedPositions(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, StandardSeedPositions(8))

	for _, size := range []int{1, 2, 4, 8, 16, 32} {
		positions := StandardSeedPositions(size)
		require.Len(t, positions, size)

		sorted := slices.Clone(positions)
		slices.Sort(sorted)
		for i, seed := range sorted {
			assert.Equal(t, i+1, seed, "size %d is not a permutation", size)
		}
		assert.Equal(t, 1, positions[0])
		if size > 1 {
			assert.Equal(t, 2, positions[size/2])
		}
	}
}

func TestStandardSeedPositions_FirstRoundSumsToSizePlusOne(t *testing.T) {
	positions := StandardSeedPositions(16)
	for i := 0; i < len(positions); i += 2 {
		assert.Equal(t, 17, positions[i]+positions[i+1])
	}
}

func TestGenerateDraw_Empty(t *testing.T) {
	draw := GenerateDraw(nil, nil, false, nil)

	assert.Equal(t, 0, draw.BracketSize)
	assert.Equal(t, 0, draw.MatchAmount)
	assert.Equal(t, 0, draw.ParticipantCount)
	assert.False(t, draw.HasSeeds)
	assert.Empty(t, draw.Matches)
}

func TestGenerateDraw_SkipsNilEntries(t *testing.T) {
	var missing *Player
	roster := []Participant{&Player{ID: 1}, missing, nil, &Player{ID: 2}, (*Team)(nil), &Player{ID: 3}}

	draw := GenerateDraw(roster, SeedMap{3: 1}, false, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, 3, draw.ParticipantCount)
	assert.Equal(t, 4, draw.BracketSize)
	assert.Equal(t, 0, draw.SlotOf(3))
	for _, id := range []int{1, 2} {
		assert.NotEqual(t, -1, draw.SlotOf(id))
	}

	rounds := BuildRoundRobin(roster, 1)
	assert.Len(t, rounds, 3)
}

func TestGenerateDraw_FourWithoutSeeds(t *testing.T) {
	draw := GenerateDraw(players(4), nil, false, nil)

	assert.Equal(t, 4, draw.BracketSize)
	assert.Equal(t, 2, draw.MatchAmount)
	assert.False(t, draw.HasSeeds)
	require.Len(t, draw.Matches, 2)
	for _, m := range draw.Matches {
		assert.NotNil(t, m.ParticipantA)
		assert.NotNil(t, m.ParticipantB)
		assert.False(t, m.IsBye)
	}
	// Roster order is the seeding: 1 v 4, 2 v 3.
	assert.Equal(t, 1, draw.Matches[0].ParticipantA.GetID())
	assert.Equal(t, 4, draw.Matches[0].ParticipantB.GetID())
	assert.Equal(t, 2, draw.Matches[1].ParticipantA.GetID())
	assert.Equal(t, 3, draw.Matches[1].ParticipantB.GetID())
}

func TestGenerateDraw_FiveWithoutSeeds(t *testing.T) {
	draw := GenerateDraw(players(5), nil, false, nil)

	assert.Equal(t, 8, draw.BracketSize)
	assert.Equal(t, 4, draw.MatchAmount)
	require.Len(t, draw.Matches, 4)

	byes := 0
	for _, m := range draw.Matches {
		if m.IsBye {
			byes++
		}
	}
	assert.Equal(t, draw.BracketSize-draw.ParticipantCount, byes)
	assert.Equal(t, 3, byes)

	full := draw.Matches[1]
	assert.False(t, full.IsBye)
	assert.Equal(t, 4, *full.SeedA)
	assert.Equal(t, 5, *full.SeedB)
}

func TestGenerateDraw_PreviewWithoutSeedsLeavesSlotsEmpty(t *testing.T) {
	draw := GenerateDraw(players(6), SeedMap{}, true, nil)

	assert.Equal(t, 8, draw.BracketSize)
	assert.False(t, draw.HasSeeds)
	for _, m := range draw.Matches {
		assert.Nil(t, m.ParticipantA)
		assert.Nil(t, m.ParticipantB)
		assert.True(t, m.IsBye)
	}
}

func TestGenerateDraw_SeedRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13, 16} {
		roster := players(n)
		seeds := SeedMap{}
		for i, p := range roster {
			seeds[p.GetID()] = i + 1
		}

		draw := GenerateDraw(roster, seeds, false, rand.New(rand.NewPCG(7, 7)))
		positions := StandardSeedPositions(draw.BracketSize)
		for _, p := range roster {
			want := slices.Index(positions, seeds[p.GetID()])
			assert.Equal(t, want, draw.SlotOf(p.GetID()), "n=%d participant %d", n, p.GetID())
		}
	}
}

func TestGenerateDraw_PartialSeedsFillRemainingSlots(t *testing.T) {
	roster := players(6)
	seeds := SeedMap{3: 1, 5: 2}

	draw := GenerateDraw(roster, seeds, false, rand.New(rand.NewPCG(1, 2)))

	assert.True(t, draw.HasSeeds)
	assert.Equal(t, 0, draw.SlotOf(3))
	assert.Equal(t, 4, draw.SlotOf(5))
	for _, p := range roster {
		assert.NotEqual(t, -1, draw.SlotOf(p.GetID()), "participant %d not placed", p.GetID())
	}

	placed := 0
	for _, p := range draw.Positions {
		if p != nil {
			placed++
		}
	}
	assert.Equal(t, 6, placed)

	// Unseeded participants carry no seed number.
	for _, m := range draw.Matches {
		if m.ParticipantA != nil && m.ParticipantA.GetID() != 3 && m.ParticipantA.GetID() != 5 {
			assert.Nil(t, m.SeedA)
		}
	}
}

func TestGenerateDraw_UnseededFillIsReproducibleWithFixedSource(t *testing.T) {
	roster := players(7)
	seeds := SeedMap{1: 1}

	first := GenerateDraw(roster, seeds, false, rand.New(rand.NewPCG(42, 1)))
	second := GenerateDraw(roster, seeds, false, rand.New(rand.NewPCG(42, 1)))

	assert.Equal(t, first.Positions, second.Positions)
}

func TestGenerateDraw_PreviewIsIdempotent(t *testing.T) {
	roster := players(7)
	seeds := SeedMap{2: 1, 4: 2, 6: 3}

	first := GenerateDraw(roster, seeds, true, nil)
	second := GenerateDraw(roster, seeds, true, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, -1, first.SlotOf(1), "unseeded participants stay out of preview")
}

func TestGenerateDraw_IgnoresInvalidSeeds(t *testing.T) {
	roster := players(3)
	seeds := SeedMap{1: 9, 2: 0, 3: -1}

	draw := GenerateDraw(roster, seeds, true, nil)

	assert.Equal(t, 4, draw.BracketSize)
	assert.True(t, draw.HasSeeds)
	for _, p := range draw.Positions {
		assert.Nil(t, p)
	}
}

func TestGenerateDraw_DuplicateSeedLastClaimWins(t *testing.T) {
	roster := players(4)
	seeds := SeedMap{1: 1, 2: 1}

	assert.NotPanics(t, func() {
		draw := GenerateDraw(roster, seeds, true, nil)
		assert.Equal(t, 2, draw.Positions[0].GetID())
	})
}

func TestGenerateDraw_SingleParticipant(t *testing.T) {
	draw := GenerateDraw(players(1), nil, false, nil)

	assert.Equal(t, 1, draw.BracketSize)
	assert.Equal(t, 0, draw.MatchAmount)
	assert.Empty(t, draw.Matches)
	assert.Equal(t, 0, draw.SlotOf(1))
}

func TestParticipantDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", (&Player{ID: 1, Username: "ann99", Name: "Ann"}).GetDisplayName())
	assert.Equal(t, "ann99", (&Player{ID: 1, Username: "ann99"}).GetDisplayName())
	assert.Equal(t, "Unknown Participant", (&Player{ID: 1}).GetDisplayName())
	assert.Equal(t, "Smash Bros", (&Team{ID: 2, TeamName: "Smash Bros"}).GetDisplayName())
	assert.Equal(t, "Unknown Participant", (&Team{ID: 2}).GetDisplayName())
	assert.Equal(t, "Unknown Participant", DisplayName(nil))
	assert.Nil(t, ParticipantID(nil))
	assert.Equal(t, 7, *ParticipantID(&Team{ID: 7}))
}
