package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/cache"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
	"github.com/Dosada05/bracketview/storage"
	"golang.org/x/sync/errgroup"
)

type BracketService interface {
	// Generate draws the bracket for the accepted roster, stores its matches
	// and moves the event to in_progress. Leftover matches of an earlier draw
	// are replaced.
	Generate(ctx context.Context, actor models.Actor, eventID int) (*brackets.Bracket, error)
	// GetBracket returns the rendered bracket document, served from the
	// layout cache when possible.
	GetBracket(ctx context.Context, eventID int) (json.RawMessage, error)
	PublishSnapshot(ctx context.Context, actor models.Actor, eventID int) (*storage.UploadResult, error)
}

// SnapshotPublisher writes an immutable copy of a bracket document.
type SnapshotPublisher interface {
	Publish(ctx context.Context, eventID int, data interface{}) (*storage.UploadResult, error)
}

// BracketDocument is everything a client needs to draw an event's bracket.
type BracketDocument struct {
	Event        *models.Event        `json:"event"`
	Participants []models.Participant `json:"participants"`
	Matches      []models.Match       `json:"matches"`
	Bracket      *brackets.Bracket    `json:"bracket"`
	Layout       brackets.Layout      `json:"layout"`
	Table        *RoundRobinTable     `json:"table,omitempty"`
}

type bracketService struct {
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	tx              TxRunner
	access          eventAccess
	cache           cache.LayoutCache
	snapshots       SnapshotPublisher
	hub             realtime.Broadcaster
	layout          brackets.LayoutConfig
	logger          *slog.Logger
}

func NewBracketService(
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	tx TxRunner,
	layoutCache cache.LayoutCache,
	snapshots SnapshotPublisher,
	hub realtime.Broadcaster,
	layout brackets.LayoutConfig,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		tx:              tx,
		access:          eventAccess{eventRepo: eventRepo},
		cache:           layoutCache,
		snapshots:       snapshots,
		hub:             broadcasterOrNop(hub),
		layout:          layout,
		logger:          logger,
	}
}

func (s *bracketService) Generate(ctx context.Context, actor models.Actor, eventID int) (*brackets.Bracket, error) {
	event, err := s.access.loadManagedEvent(ctx, eventID, actor)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusRegistration && event.Status != models.EventStatusSeeding {
		return nil, fmt.Errorf("%w: event is %s", ErrEventInvalidStatusTransition, event.Status)
	}

	accepted := models.ParticipantStatusParticipant
	participants, err := s.participantRepo.ListByEvent(ctx, eventID, &accepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for event %d: %w", eventID, err)
	}
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	gen, err := brackets.NewGenerator(event.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	entries, seeds := models.BracketEntries(participants)
	if err := ValidateSeeds(seeds, rosterOf(participants)); err != nil {
		return nil, fmt.Errorf("stored seeding no longer fits the roster: %w", err)
	}
	bracket := gen.Generate(brackets.GenerateParams{
		Participants: entries,
		Seeds:        seeds,
		Options:      brackets.EliminationOptions{BronzeMatch: event.BronzeMatch},
		Legs:         event.Legs,
	})

	matches := bracket.AllMatches()
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.DeleteByEvent(ctx, exec, eventID); err != nil {
			return fmt.Errorf("failed to clear previous draw: %w", err)
		}
		for _, m := range matches {
			row := models.MatchFromBracket(eventID, m)
			if err := s.matchRepo.Create(ctx, exec, &row); err != nil {
				return fmt.Errorf("failed to store match %s: %w", m.UID, err)
			}
		}
		return s.eventRepo.UpdateStatus(ctx, exec, eventID, models.EventStatusInProgress)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.invalidate(ctx, eventID)
	s.hub.BroadcastToRoom(realtime.EventRoom(eventID), realtime.NewMessage(realtime.MessageBracketUpdated, eventID, bracket))
	s.logger.Info("bracket generated",
		slog.Int("event_id", eventID),
		slog.String("format", string(event.Format)),
		slog.Int("participants", len(participants)),
		slog.Int("matches", len(matches)))
	return bracket, nil
}

func (s *bracketService) GetBracket(ctx context.Context, eventID int) (json.RawMessage, error) {
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, eventID)
		if err != nil {
			s.logger.Warn("layout cache read failed", slog.Int("event_id", eventID), slog.Any("error", err))
		} else if ok {
			return data, nil
		}
	}

	doc, err := s.loadDocument(ctx, eventID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket for event %d: %w", eventID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, eventID, data); err != nil {
			s.logger.Warn("layout cache write failed", slog.Int("event_id", eventID), slog.Any("error", err))
		}
	}
	return data, nil
}

func (s *bracketService) PublishSnapshot(ctx context.Context, actor models.Actor, eventID int) (*storage.UploadResult, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	if _, err := s.access.loadManagedEvent(ctx, eventID, actor); err != nil {
		return nil, err
	}
	doc, err := s.loadDocument(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result, err := s.snapshots.Publish(ctx, eventID, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to publish snapshot for event %d: %w", eventID, err)
	}
	s.hub.BroadcastToRoom(realtime.EventRoom(eventID), realtime.NewMessage(realtime.MessageSnapshotCreated, eventID, result))
	s.logger.Info("snapshot published", slog.Int("event_id", eventID), slog.String("url", result.Location))
	return result, nil
}

// loadDocument reads the event, its roster and its matches concurrently and
// assembles the bracket with its layout.
func (s *bracketService) loadDocument(ctx context.Context, eventID int) (*BracketDocument, error) {
	var (
		event        *models.Event
		participants []models.Participant
		matches      []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = s.eventRepo.GetByID(gCtx, eventID)
		if err != nil {
			return handleRepositoryError(err)
		}
		return nil
	})
	g.Go(func() error {
		accepted := models.ParticipantStatusParticipant
		var err error
		participants, err = s.participantRepo.ListByEvent(gCtx, eventID, &accepted)
		if err != nil {
			return fmt.Errorf("failed to list participants for event %d: %w", eventID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByEvent(gCtx, eventID)
		if err != nil {
			return fmt.Errorf("failed to list matches for event %d: %w", eventID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrBracketNotGenerated
	}

	bracket := assembleBracket(event.Format, matches, entryIndex(participants))
	doc := &BracketDocument{
		Event:        event,
		Participants: participants,
		Matches:      matches,
		Bracket:      bracket,
		Layout:       brackets.ComputeLayout(bracket, s.layout, brackets.VariantRatio),
	}
	if event.Format == brackets.FormatRoundRobin {
		doc.Table = roundRobinTable(participants, matches)
	}
	return doc, nil
}

func (s *bracketService) invalidate(ctx context.Context, eventID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.logger.Warn("failed to invalidate layout cache", slog.Int("event_id", eventID), slog.Any("error", err))
	}
}
