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

func strPtr(s string) *string { return &s }

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to models.EventStatus
		want     bool
	}{
		{models.EventStatusDraft, models.EventStatusRegistration, true},
		{models.EventStatusRegistration, models.EventStatusSeeding, true},
		{models.EventStatusSeeding, models.EventStatusRegistration, true},
		{models.EventStatusSeeding, models.EventStatusInProgress, false},
		{models.EventStatusDraft, models.EventStatusCompleted, false},
		{models.EventStatusInProgress, models.EventStatusCompleted, true},
		{models.EventStatusCompleted, models.EventStatusDraft, false},
		{models.EventStatusCanceled, models.EventStatusRegistration, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidStatusTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, &fakeParticipantRepo{}, nil, nil, discardLogger())
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, models.Actor{UserID: 3, Role: models.RolePlayer}, CreateEventInput{Name: "x"})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	event, err := svc.CreateEvent(ctx, organizer, CreateEventInput{
		Name:            "  League night ",
		Format:          brackets.FormatRoundRobin,
		ParticipantType: models.ParticipantTypeSolo,
		BronzeMatch:     true,
		StartsAt:        strPtr("May 1, 2026"),
	})
	require.NoError(t, err)
	assert.Equal(t, "League night", event.Name)
	assert.Equal(t, 1, event.Legs)
	assert.False(t, event.BronzeMatch, "round robin has no bronze match")
	assert.Equal(t, models.EventStatusDraft, event.Status)
	require.NotNil(t, event.StartsAt)
	assert.Equal(t, 2026, event.StartsAt.Year())

	tests := []struct {
		name    string
		input   CreateEventInput
		wantErr error
	}{
		{"no name", CreateEventInput{Format: brackets.FormatSingleElimination, ParticipantType: models.ParticipantTypeSolo}, ErrNameRequired},
		{"bad format", CreateEventInput{Name: "a", Format: "swiss", ParticipantType: models.ParticipantTypeSolo}, ErrInvalidFormat},
		{"bad participant type", CreateEventInput{Name: "a", Format: brackets.FormatSingleElimination, ParticipantType: "crowd"}, ErrInvalidParticipantType},
		{"three legs", CreateEventInput{Name: "a", Format: brackets.FormatRoundRobin, ParticipantType: models.ParticipantTypeTeam, Legs: 3}, ErrInvalidLegs},
		{"bad date", CreateEventInput{Name: "a", Format: brackets.FormatSingleElimination, ParticipantType: models.ParticipantTypeSolo, StartsAt: strPtr("someday soon")}, ErrInvalidStartsAt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, organizer, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEventService_UpdateStatusAndLocking(t *testing.T) {
	repo := newFakeEventRepo()
	hub := &recordingHub{}
	svc := NewEventService(repo, &fakeParticipantRepo{}, nil, hub, discardLogger())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, organizer, CreateEventInput{
		Name:            "Open",
		Format:          brackets.FormatSingleElimination,
		ParticipantType: models.ParticipantTypeSolo,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, organizer, event.ID, models.EventStatusInProgress)
	assert.ErrorIs(t, err, ErrEventInvalidStatusTransition)

	_, err = svc.UpdateStatus(ctx, organizer, event.ID, "paused")
	assert.ErrorIs(t, err, ErrEventInvalidStatus)

	updated, err := svc.UpdateStatus(ctx, organizer, event.ID, models.EventStatusRegistration)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusRegistration, updated.Status)
	assert.Equal(t, []string{realtime.MessageEventStatus}, hub.types())

	require.NoError(t, repo.UpdateStatus(ctx, nil, event.ID, models.EventStatusInProgress))
	double := brackets.FormatDoubleElimination
	_, err = svc.UpdateEvent(ctx, organizer, event.ID, UpdateEventInput{Format: &double})
	assert.ErrorIs(t, err, ErrEventLocked)

	renamed, err := svc.UpdateEvent(ctx, organizer, event.ID, UpdateEventInput{Name: strPtr("Open 2026")})
	require.NoError(t, err)
	assert.Equal(t, "Open 2026", renamed.Name)
}

func TestEventService_ParticipantTypeFixedOnceRegistered(t *testing.T) {
	repo := newFakeEventRepo()
	participants := &fakeParticipantRepo{}
	svc := NewEventService(repo, participants, nil, nil, discardLogger())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, organizer, CreateEventInput{
		Name:            "Weekly",
		Format:          brackets.FormatSingleElimination,
		ParticipantType: models.ParticipantTypeSolo,
	})
	require.NoError(t, err)
	id := participants.add(event.ID, "ann", nil)

	team := models.ParticipantTypeTeam
	_, err = svc.UpdateEvent(ctx, organizer, event.ID, UpdateEventInput{ParticipantType: &team})
	assert.ErrorIs(t, err, ErrRegistrationsExist)

	solo := models.ParticipantTypeSolo
	_, err = svc.UpdateEvent(ctx, organizer, event.ID, UpdateEventInput{ParticipantType: &solo})
	assert.NoError(t, err, "keeping the same type is allowed")

	require.NoError(t, participants.UpdateStatus(ctx, id, models.ParticipantStatusWithdrawn))
	updated, err := svc.UpdateEvent(ctx, organizer, event.ID, UpdateEventInput{ParticipantType: &team})
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantTypeTeam, updated.ParticipantType)
}

func TestEventService_EditorsCanManage(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, &fakeParticipantRepo{}, nil, nil, discardLogger())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, organizer, CreateEventInput{
		Name:            "Doubles",
		Format:          brackets.FormatDoubleElimination,
		ParticipantType: models.ParticipantTypeTeam,
	})
	require.NoError(t, err)

	editor := models.Actor{UserID: 7, Role: models.RolePlayer}
	_, err = svc.UpdateStatus(ctx, editor, event.ID, models.EventStatusRegistration)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	assert.ErrorIs(t, svc.AddEditor(ctx, editor, event.ID, 7), ErrForbiddenOperation)
	require.NoError(t, svc.AddEditor(ctx, organizer, event.ID, 7))
	assert.ErrorIs(t, svc.AddEditor(ctx, organizer, event.ID, 7), ErrEditorConflict)

	_, err = svc.UpdateStatus(ctx, editor, event.ID, models.EventStatusRegistration)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteEvent(ctx, editor, event.ID), ErrForbiddenOperation)
}
