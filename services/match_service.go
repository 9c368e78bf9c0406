package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/cache"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
	"golang.org/x/sync/errgroup"
)

type MatchService interface {
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListMatches(ctx context.Context, eventID int) ([]models.Match, error)
	// ReportResult records the outcome and advances winner and loser into
	// the matches that reference this one.
	ReportResult(ctx context.Context, actor models.Actor, matchID int, result models.MatchResult) (*models.Match, error)
	GetRoundRobinTable(ctx context.Context, eventID int) (*RoundRobinTable, error)
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	tx              TxRunner
	access          eventAccess
	cache           cache.LayoutCache
	hub             realtime.Broadcaster
	logger          *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	tx TxRunner,
	layoutCache cache.LayoutCache,
	hub realtime.Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		tx:              tx,
		access:          eventAccess{eventRepo: eventRepo},
		cache:           layoutCache,
		hub:             broadcasterOrNop(hub),
		logger:          logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return m, nil
}

func (s *matchService) ListMatches(ctx context.Context, eventID int) ([]models.Match, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for event %d: %w", eventID, err)
	}
	return matches, nil
}

func validateResult(m *models.Match, result models.MatchResult) error {
	if m.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyCompleted
	}
	if m.Status == models.MatchStatusCanceled || m.Participant1ID == nil || m.Participant2ID == nil {
		return ErrMatchNotReady
	}
	if result.WinnerID != *m.Participant1ID && result.WinnerID != *m.Participant2ID {
		return ErrInvalidWinner
	}
	if result.Score1 < 0 || result.Score2 < 0 {
		return ErrInvalidScore
	}
	winnerScore, loserScore := result.Score1, result.Score2
	if result.WinnerID == *m.Participant2ID {
		winnerScore, loserScore = loserScore, winnerScore
	}
	if winnerScore < loserScore {
		return ErrInvalidScore
	}
	return nil
}

func (s *matchService) ReportResult(ctx context.Context, actor models.Actor, matchID int, result models.MatchResult) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	event, err := s.access.loadManagedEvent(ctx, m.EventID, actor)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusInProgress {
		return nil, fmt.Errorf("%w: event is %s", ErrEventLocked, event.Status)
	}
	if err := validateResult(m, result); err != nil {
		return nil, err
	}

	winner := result.WinnerID
	m.Score1, m.Score2 = &result.Score1, &result.Score2
	m.WinnerID = &winner
	m.Status = models.MatchStatusCompleted

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateResult(ctx, exec, m); err != nil {
			return err
		}
		if m.Side == brackets.SideGroup {
			return nil
		}
		if err := s.matchRepo.FillSlots(ctx, exec, m.EventID, m.BracketUID, false, m.WinnerID); err != nil {
			return fmt.Errorf("failed to advance winner of %s: %w", m.BracketUID, err)
		}
		if err := s.matchRepo.FillSlots(ctx, exec, m.EventID, m.BracketUID, true, m.LoserID()); err != nil {
			return fmt.Errorf("failed to drop loser of %s: %w", m.BracketUID, err)
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("match result reported",
		slog.Int("event_id", m.EventID),
		slog.Int("match_id", m.ID),
		slog.String("uid", m.BracketUID),
		slog.Int("winner_id", winner))

	if err := s.completeEventIfFinished(ctx, event); err != nil {
		s.logger.Error("failed to close finished event", slog.Int("event_id", event.ID), slog.Any("error", err))
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, m.EventID); err != nil {
			s.logger.Warn("failed to invalidate layout cache", slog.Int("event_id", m.EventID), slog.Any("error", err))
		}
	}
	s.hub.BroadcastToRoom(realtime.EventRoom(m.EventID), realtime.NewMessage(realtime.MessageMatchUpdated, m.EventID, m))
	return m, nil
}

// completeEventIfFinished marks the event completed once no match is left to play.
func (s *matchService) completeEventIfFinished(ctx context.Context, event *models.Event) error {
	matches, err := s.matchRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	for _, m := range matches {
		switch m.Status {
		case models.MatchStatusPending, models.MatchStatusScheduled, models.MatchStatusInProgress:
			return nil
		}
	}
	if err := s.eventRepo.UpdateStatus(ctx, nil, event.ID, models.EventStatusCompleted); err != nil {
		return err
	}
	event.Status = models.EventStatusCompleted
	s.hub.BroadcastToRoom(realtime.EventRoom(event.ID), realtime.NewMessage(realtime.MessageEventStatus, event.ID, event))
	s.logger.Info("event completed", slog.Int("event_id", event.ID))
	return nil
}

func (s *matchService) GetRoundRobinTable(ctx context.Context, eventID int) (*RoundRobinTable, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if event.Format != brackets.FormatRoundRobin {
		return nil, ErrNotRoundRobin
	}

	var (
		participants []models.Participant
		matches      []models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accepted := models.ParticipantStatusParticipant
		var err error
		participants, err = s.participantRepo.ListByEvent(gCtx, eventID, &accepted)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByEvent(gCtx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load round robin for event %d: %w", eventID, err)
	}
	return roundRobinTable(participants, matches), nil
}
