package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/cache"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
	"github.com/araddon/dateparse"
)

type EventService interface {
	CreateEvent(ctx context.Context, actor models.Actor, input CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, filter ListEventsFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, actor models.Actor, id int, input UpdateEventInput) (*models.Event, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id int, status models.EventStatus) (*models.Event, error)
	DeleteEvent(ctx context.Context, actor models.Actor, id int) error

	AddEditor(ctx context.Context, actor models.Actor, eventID, userID int) error
	RemoveEditor(ctx context.Context, actor models.Actor, eventID, userID int) error
	ListEditors(ctx context.Context, eventID int) ([]models.User, error)
}

type CreateEventInput struct {
	Name            string                 `json:"name"`
	Description     *string                `json:"description,omitempty"`
	LeagueID        *int                   `json:"league_id,omitempty"`
	Format          brackets.Format        `json:"format"`
	ParticipantType models.ParticipantType `json:"participant_type"`
	BronzeMatch     bool                   `json:"bronze_match"`
	Legs            int                    `json:"legs,omitempty"`
	// StartsAt accepts any common date layout, e.g. "2026-05-01 18:00" or "May 1, 2026".
	StartsAt *string `json:"starts_at,omitempty"`
}

type UpdateEventInput struct {
	Name            *string                 `json:"name,omitempty"`
	Description     *string                 `json:"description,omitempty"`
	LeagueID        *int                    `json:"league_id,omitempty"`
	Format          *brackets.Format        `json:"format,omitempty"`
	ParticipantType *models.ParticipantType `json:"participant_type,omitempty"`
	BronzeMatch     *bool                   `json:"bronze_match,omitempty"`
	Legs            *int                    `json:"legs,omitempty"`
	StartsAt        *string                 `json:"starts_at,omitempty"`
}

type ListEventsFilter struct {
	LeagueID    *int
	OrganizerID *int
	Status      *models.EventStatus
	Limit       int
	Offset      int
}

type eventService struct {
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	access          eventAccess
	cache           cache.LayoutCache
	hub             realtime.Broadcaster
	logger          *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	layoutCache cache.LayoutCache,
	hub realtime.Broadcaster,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		access:          eventAccess{eventRepo: eventRepo},
		cache:           layoutCache,
		hub:             broadcasterOrNop(hub),
		logger:          logger,
	}
}

var allowedStatusTransitions = map[models.EventStatus][]models.EventStatus{
	models.EventStatusDraft:        {models.EventStatusRegistration, models.EventStatusCanceled},
	models.EventStatusRegistration: {models.EventStatusDraft, models.EventStatusSeeding, models.EventStatusCanceled},
	models.EventStatusSeeding:      {models.EventStatusRegistration, models.EventStatusCanceled},
	models.EventStatusInProgress:   {models.EventStatusCompleted, models.EventStatusCanceled},
	models.EventStatusCompleted:    {},
	models.EventStatusCanceled:     {},
}

// isValidStatusTransition reports whether a manual status change is allowed.
// Moving into in_progress only happens by generating the bracket.
func isValidStatusTransition(current, next models.EventStatus) bool {
	for _, s := range allowedStatusTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

func parseStartsAt(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartsAt, *raw)
	}
	return &t, nil
}

func validateEventShape(e *models.Event) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	if !e.Format.Valid() {
		return ErrInvalidFormat
	}
	if !e.ParticipantType.Valid() {
		return ErrInvalidParticipantType
	}
	if e.Format == brackets.FormatRoundRobin {
		if e.Legs == 0 {
			e.Legs = 1
		}
		if e.Legs != 1 && e.Legs != 2 {
			return ErrInvalidLegs
		}
		e.BronzeMatch = false
	} else {
		e.Legs = 1
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, actor models.Actor, input CreateEventInput) (*models.Event, error) {
	if !actor.CanOrganize() {
		return nil, ErrForbiddenOperation
	}

	startsAt, err := parseStartsAt(input.StartsAt)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		LeagueID:        input.LeagueID,
		OrganizerID:     actor.UserID,
		Format:          input.Format,
		ParticipantType: input.ParticipantType,
		BronzeMatch:     input.BronzeMatch,
		Legs:            input.Legs,
		Status:          models.EventStatusDraft,
		StartsAt:        startsAt,
	}
	if err := validateEventShape(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.Info("event created", slog.Int("event_id", event.ID), slog.String("format", string(event.Format)))
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	editors, err := s.eventRepo.ListEditors(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Editors = editors
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter ListEventsFilter) ([]models.Event, error) {
	if filter.Status != nil && !validEventStatus(*filter.Status) {
		return nil, ErrEventInvalidStatus
	}
	return s.eventRepo.List(ctx, repositories.ListEventsFilter(filter))
}

func (s *eventService) UpdateEvent(ctx context.Context, actor models.Actor, id int, input UpdateEventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := s.access.canOwn(event, actor); err != nil {
		return nil, err
	}

	structural := input.Format != nil || input.ParticipantType != nil || input.BronzeMatch != nil || input.Legs != nil
	if structural && !beforeBracket(event.Status) {
		return nil, ErrEventLocked
	}

	if input.Name != nil {
		event.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.LeagueID != nil {
		event.LeagueID = input.LeagueID
	}
	if input.Format != nil {
		event.Format = *input.Format
	}
	if input.ParticipantType != nil && *input.ParticipantType != event.ParticipantType {
		if err := s.ensureNoRegistrations(ctx, event.ID); err != nil {
			return nil, err
		}
		event.ParticipantType = *input.ParticipantType
	}
	if input.BronzeMatch != nil {
		event.BronzeMatch = *input.BronzeMatch
	}
	if input.Legs != nil {
		event.Legs = *input.Legs
	}
	if input.StartsAt != nil {
		if event.StartsAt, err = parseStartsAt(input.StartsAt); err != nil {
			return nil, err
		}
	}
	if err := validateEventShape(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.invalidate(ctx, id)
	return event, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, actor models.Actor, id int, status models.EventStatus) (*models.Event, error) {
	if !validEventStatus(status) {
		return nil, ErrEventInvalidStatus
	}
	event, err := s.access.loadManagedEvent(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !isValidStatusTransition(event.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrEventInvalidStatusTransition, event.Status, status)
	}

	if err := s.eventRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, handleRepositoryError(err)
	}
	event.Status = status
	s.invalidate(ctx, id)
	s.hub.BroadcastToRoom(realtime.EventRoom(id), realtime.NewMessage(realtime.MessageEventStatus, id, event))
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor models.Actor, id int) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := s.access.canOwn(event, actor); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *eventService) AddEditor(ctx context.Context, actor models.Actor, eventID, userID int) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := s.access.canOwn(event, actor); err != nil {
		return err
	}
	if userID == event.OrganizerID {
		return fmt.Errorf("%w: the organizer already manages the event", ErrEditorConflict)
	}
	return handleRepositoryError(s.eventRepo.AddEditor(ctx, eventID, userID))
}

func (s *eventService) RemoveEditor(ctx context.Context, actor models.Actor, eventID, userID int) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := s.access.canOwn(event, actor); err != nil {
		return err
	}
	return handleRepositoryError(s.eventRepo.RemoveEditor(ctx, eventID, userID))
}

func (s *eventService) ListEditors(ctx context.Context, eventID int) ([]models.User, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.eventRepo.ListEditors(ctx, eventID)
}

func (s *eventService) invalidate(ctx context.Context, eventID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.logger.Warn("failed to invalidate layout cache", slog.Int("event_id", eventID), slog.Any("error", err))
	}
}

func validEventStatus(s models.EventStatus) bool {
	_, ok := allowedStatusTransitions[s]
	return ok
}

// beforeBracket reports whether the bracket has not been generated yet.
func beforeBracket(s models.EventStatus) bool {
	return s == models.EventStatusDraft || s == models.EventStatusRegistration || s == models.EventStatusSeeding
}

// ensureNoRegistrations fails while any application or accepted entry exists.
func (s *eventService) ensureNoRegistrations(ctx context.Context, eventID int) error {
	registered, err := s.participantRepo.ListByEvent(ctx, eventID, nil)
	if err != nil {
		return fmt.Errorf("failed to list registrations for event %d: %w", eventID, err)
	}
	for _, p := range registered {
		if p.Status != models.ParticipantStatusWithdrawn {
			return ErrRegistrationsExist
		}
	}
	return nil
}
