package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/Dosada05/bracketview/cache"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/repositories"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type ParticipantService interface {
	Register(ctx context.Context, actor models.Actor, eventID int, input RegisterParticipantInput) (*models.Participant, error)
	ListParticipants(ctx context.Context, eventID int, status *models.ParticipantStatus) ([]models.Participant, error)
	Search(ctx context.Context, eventID int, query string) ([]models.Participant, error)
	UpdateStatus(ctx context.Context, actor models.Actor, participantID int, status models.ParticipantStatus) (*models.Participant, error)
	Withdraw(ctx context.Context, actor models.Actor, participantID int) error
}

// RegisterParticipantInput names the team for team events; solo events
// register the caller.
type RegisterParticipantInput struct {
	TeamID *int `json:"team_id,omitempty"`
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	eventRepo       repositories.EventRepository
	teamRepo        repositories.TeamRepository
	access          eventAccess
	cache           cache.LayoutCache
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	eventRepo repositories.EventRepository,
	teamRepo repositories.TeamRepository,
	layoutCache cache.LayoutCache,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		teamRepo:        teamRepo,
		access:          eventAccess{eventRepo: eventRepo},
		cache:           layoutCache,
		logger:          logger,
	}
}

func (s *participantService) Register(ctx context.Context, actor models.Actor, eventID int, input RegisterParticipantInput) (*models.Participant, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if event.Status != models.EventStatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	p := &models.Participant{EventID: eventID, Status: models.ParticipantStatusApplication}
	switch event.ParticipantType {
	case models.ParticipantTypeSolo:
		if input.TeamID != nil {
			return nil, ErrParticipantTypeMismatch
		}
		userID := actor.UserID
		p.UserID = &userID
	case models.ParticipantTypeTeam:
		if input.TeamID == nil {
			return nil, ErrParticipantTypeMismatch
		}
		team, err := s.teamRepo.GetByID(ctx, *input.TeamID)
		if err != nil {
			return nil, handleRepositoryError(err)
		}
		if !isTeamMember(team, actor.UserID) {
			return nil, ErrNotTeamMember
		}
		p.TeamID = &team.ID
	}

	if err := s.participantRepo.Create(ctx, p); err != nil {
		return nil, handleRepositoryError(err)
	}
	return p, nil
}

func (s *participantService) ListParticipants(ctx context.Context, eventID int, status *models.ParticipantStatus) ([]models.Participant, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.participantRepo.ListByEvent(ctx, eventID, status)
}

// Search ranks an event's roster by fuzzy match of display names, best
// match first. Matching is case-insensitive.
func (s *participantService) Search(ctx context.Context, eventID int, query string) ([]models.Participant, error) {
	participants, err := s.ListParticipants(ctx, eventID, nil)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return participants, nil
	}

	names := make([]string, len(participants))
	for i := range participants {
		names[i] = participants[i].BracketEntry().GetDisplayName()
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	out := make([]models.Participant, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, participants[r.OriginalIndex])
	}
	return out, nil
}

func (s *participantService) UpdateStatus(ctx context.Context, actor models.Actor, participantID int, status models.ParticipantStatus) (*models.Participant, error) {
	switch status {
	case models.ParticipantStatusApplication, models.ParticipantStatusParticipant, models.ParticipantStatusWithdrawn:
	default:
		return nil, ErrValidationFailed
	}

	p, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	event, err := s.access.loadManagedEvent(ctx, p.EventID, actor)
	if err != nil {
		return nil, err
	}
	if !beforeBracket(event.Status) {
		return nil, ErrSeedingLocked
	}

	if err := s.participantRepo.UpdateStatus(ctx, participantID, status); err != nil {
		return nil, handleRepositoryError(err)
	}
	p.Status = status
	if status != models.ParticipantStatusParticipant {
		p.Seed = nil
	}
	s.invalidate(ctx, p.EventID)
	return p, nil
}

// Withdraw lets a participant (or an event manager) pull out before the
// bracket exists.
func (s *participantService) Withdraw(ctx context.Context, actor models.Actor, participantID int) error {
	p, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return handleRepositoryError(err)
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		return handleRepositoryError(err)
	}

	self := p.UserID != nil && *p.UserID == actor.UserID
	if !self && p.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *p.TeamID)
		if err != nil {
			return handleRepositoryError(err)
		}
		self = isTeamMember(team, actor.UserID)
	}
	if !self {
		if err := s.access.canManage(ctx, event, actor); err != nil {
			return err
		}
	}
	if !beforeBracket(event.Status) {
		return ErrSeedingLocked
	}

	if err := s.participantRepo.UpdateStatus(ctx, participantID, models.ParticipantStatusWithdrawn); err != nil {
		return handleRepositoryError(err)
	}
	s.invalidate(ctx, p.EventID)
	return nil
}

func (s *participantService) invalidate(ctx context.Context, eventID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.logger.Warn("failed to invalidate layout cache", slog.Int("event_id", eventID), slog.Any("error", err))
	}
}
