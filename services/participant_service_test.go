package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type participantFixture struct {
	events       *fakeEventRepo
	participants *fakeParticipantRepo
	teams        *fakeTeamRepo
	svc          ParticipantService
}

func newParticipantFixture(t *testing.T, participantType models.ParticipantType, status models.EventStatus) (*participantFixture, int) {
	t.Helper()
	f := &participantFixture{
		events:       newFakeEventRepo(),
		participants: &fakeParticipantRepo{},
		teams:        &fakeTeamRepo{},
	}
	event := &models.Event{
		Name:            "Club Open",
		OrganizerID:     organizer.UserID,
		Format:          brackets.FormatSingleElimination,
		ParticipantType: participantType,
		Status:          status,
	}
	require.NoError(t, f.events.Create(context.Background(), event))
	f.svc = NewParticipantService(f.participants, f.events, f.teams, nil, discardLogger())
	return f, event.ID
}

func TestParticipantService_RegisterSolo(t *testing.T) {
	f, eventID := newParticipantFixture(t, models.ParticipantTypeSolo, models.EventStatusRegistration)
	ctx := context.Background()
	player := models.Actor{UserID: 20, Role: models.RolePlayer}

	p, err := f.svc.Register(ctx, player, eventID, RegisterParticipantInput{})
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusApplication, p.Status)
	require.NotNil(t, p.UserID)
	assert.Equal(t, 20, *p.UserID)

	_, err = f.svc.Register(ctx, player, eventID, RegisterParticipantInput{})
	assert.ErrorIs(t, err, ErrRegistrationConflict)

	_, err = f.svc.Register(ctx, models.Actor{UserID: 21}, eventID, RegisterParticipantInput{TeamID: intPtr(1)})
	assert.ErrorIs(t, err, ErrParticipantTypeMismatch)

	accepted, err := f.svc.UpdateStatus(ctx, organizer, p.ID, models.ParticipantStatusParticipant)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusParticipant, accepted.Status)

	_, err = f.svc.UpdateStatus(ctx, player, p.ID, models.ParticipantStatusParticipant)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestParticipantService_RegisterClosed(t *testing.T) {
	f, eventID := newParticipantFixture(t, models.ParticipantTypeSolo, models.EventStatusDraft)

	_, err := f.svc.Register(context.Background(), models.Actor{UserID: 20}, eventID, RegisterParticipantInput{})
	assert.ErrorIs(t, err, ErrRegistrationNotOpen)
}

func TestParticipantService_RegisterTeam(t *testing.T) {
	f, eventID := newParticipantFixture(t, models.ParticipantTypeTeam, models.EventStatusRegistration)
	ctx := context.Background()
	team := &models.Team{Name: "Net Rushers", Player1ID: intPtr(30), Player2ID: intPtr(31)}
	require.NoError(t, f.teams.Create(ctx, team))

	_, err := f.svc.Register(ctx, models.Actor{UserID: 30}, eventID, RegisterParticipantInput{})
	assert.ErrorIs(t, err, ErrParticipantTypeMismatch)

	_, err = f.svc.Register(ctx, models.Actor{UserID: 99}, eventID, RegisterParticipantInput{TeamID: &team.ID})
	assert.ErrorIs(t, err, ErrNotTeamMember)

	p, err := f.svc.Register(ctx, models.Actor{UserID: 31}, eventID, RegisterParticipantInput{TeamID: &team.ID})
	require.NoError(t, err)
	assert.Equal(t, team.ID, *p.TeamID)

	require.NoError(t, f.svc.Withdraw(ctx, models.Actor{UserID: 30}, p.ID))
	withdrawn, err := f.participants.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusWithdrawn, withdrawn.Status)
}

func TestParticipantService_Search(t *testing.T) {
	f, eventID := newParticipantFixture(t, models.ParticipantTypeSolo, models.EventStatusRegistration)
	for _, name := range []string{"alicia", "bob", "Alice"} {
		f.participants.add(eventID, name, nil)
	}

	found, err := f.svc.Search(context.Background(), eventID, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice", found[0].User.Username)
	assert.Equal(t, "alicia", found[1].User.Username)

	all, err := f.svc.Search(context.Background(), eventID, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
