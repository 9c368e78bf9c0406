package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeeds(t *testing.T) {
	roster := map[int]bool{1: true, 2: true, 3: true}

	tests := []struct {
		name    string
		seeds   brackets.SeedMap
		wantErr bool
	}{
		{"empty", brackets.SeedMap{}, false},
		{"partial from one", brackets.SeedMap{2: 1, 3: 2}, false},
		{"full", brackets.SeedMap{1: 3, 2: 1, 3: 2}, false},
		{"not on roster", brackets.SeedMap{9: 1}, true},
		{"zero", brackets.SeedMap{1: 0}, true},
		{"negative", brackets.SeedMap{1: -2}, true},
		{"beyond roster", brackets.SeedMap{1: 4}, true},
		{"duplicate", brackets.SeedMap{1: 1, 2: 1}, true},
		{"gap", brackets.SeedMap{1: 1, 2: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeeds(tt.seeds, roster)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeeds)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newSeedingService(f *bracketFixture) SeedingService {
	return NewSeedingService(f.participants, f.events, fakeTx{}, f.cache, f.hub, brackets.DefaultLayoutConfig(), discardLogger())
}

func TestSeedingService_ReplaceSeeds(t *testing.T) {
	f := newBracketFixture(t, brackets.FormatSingleElimination, 3)
	svc := newSeedingService(f)
	ctx := context.Background()

	got, err := svc.ReplaceSeeds(ctx, organizer, f.eventID, []models.SeedAssignment{
		{ParticipantID: 3, Seed: intPtr(1)},
		{ParticipantID: 1, Seed: intPtr(2)},
		{ParticipantID: 2},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].ID)
	assert.Equal(t, 1, got[1].ID)
	assert.Equal(t, 2, got[2].ID)
	assert.Nil(t, got[2].Seed)
	assert.Contains(t, f.hub.types(), realtime.MessageSeedingUpdated)

	_, err = svc.ReplaceSeeds(ctx, organizer, f.eventID, []models.SeedAssignment{
		{ParticipantID: 1, Seed: intPtr(1)},
		{ParticipantID: 1, Seed: intPtr(2)},
	})
	assert.ErrorIs(t, err, ErrInvalidSeeds)

	_, err = svc.ReplaceSeeds(ctx, models.Actor{UserID: 5, Role: models.RolePlayer}, f.eventID, nil)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = f.brackets.Generate(ctx, organizer, f.eventID)
	require.NoError(t, err)
	_, err = svc.ReplaceSeeds(ctx, organizer, f.eventID, nil)
	assert.ErrorIs(t, err, ErrSeedingLocked)
}

func TestSeedingService_Preview(t *testing.T) {
	f := newBracketFixture(t, brackets.FormatSingleElimination, 5)
	svc := newSeedingService(f)
	ctx := context.Background()

	stored, err := svc.Preview(ctx, f.eventID, nil)
	require.NoError(t, err)
	require.NotNil(t, stored.Bracket.Draw)
	assert.Equal(t, 8, stored.Bracket.Draw.BracketSize)
	for id := 1; id <= 5; id++ {
		assert.NotEqual(t, -1, stored.Bracket.Draw.SlotOf(id))
	}
	assert.Equal(t, []float64{10, 83, 229}, stored.Layout.Winners.MatchSpacing)

	proposed, err := svc.Preview(ctx, f.eventID, []models.SeedAssignment{{ParticipantID: 2, Seed: intPtr(1)}})
	require.NoError(t, err)
	assert.Equal(t, 0, proposed.Bracket.Draw.SlotOf(2))
	assert.Equal(t, -1, proposed.Bracket.Draw.SlotOf(1), "unseeded participants stay out of a preview")

	again, err := svc.Preview(ctx, f.eventID, []models.SeedAssignment{{ParticipantID: 2, Seed: intPtr(1)}})
	require.NoError(t, err)
	assert.Equal(t, proposed.Bracket.Draw.Positions, again.Bracket.Draw.Positions)

	_, err = svc.Preview(ctx, f.eventID, []models.SeedAssignment{{ParticipantID: 2, Seed: intPtr(7)}})
	assert.ErrorIs(t, err, ErrInvalidSeeds)
}
