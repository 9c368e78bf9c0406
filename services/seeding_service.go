package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/cache"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
)

type SeedingService interface {
	GetSeeds(ctx context.Context, eventID int) ([]models.Participant, error)
	ReplaceSeeds(ctx context.Context, actor models.Actor, eventID int, seeds []models.SeedAssignment) ([]models.Participant, error)
	// Preview renders the draw with seeded slots only. A nil assignment list
	// previews the stored seeds, which must still fit the accepted roster.
	Preview(ctx context.Context, eventID int, seeds []models.SeedAssignment) (*BracketPreview, error)
}

// BracketPreview is a deterministic look at the draw before it is generated.
type BracketPreview struct {
	Bracket *brackets.Bracket `json:"bracket"`
	Layout  brackets.Layout   `json:"layout"`
}

type seedingService struct {
	participantRepo repositories.ParticipantRepository
	eventRepo       repositories.EventRepository
	tx              TxRunner
	access          eventAccess
	cache           cache.LayoutCache
	hub             realtime.Broadcaster
	layout          brackets.LayoutConfig
	logger          *slog.Logger
}

func NewSeedingService(
	participantRepo repositories.ParticipantRepository,
	eventRepo repositories.EventRepository,
	tx TxRunner,
	layoutCache cache.LayoutCache,
	hub realtime.Broadcaster,
	layout brackets.LayoutConfig,
	logger *slog.Logger,
) SeedingService {
	return &seedingService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		tx:              tx,
		access:          eventAccess{eventRepo: eventRepo},
		cache:           layoutCache,
		hub:             broadcasterOrNop(hub),
		layout:          layout,
		logger:          logger,
	}
}

// ValidateSeeds checks a seeding against the accepted roster: every seeded id
// must be on the roster, seeds are positive and unique, never exceed the
// roster size, and run 1..k without gaps.
func ValidateSeeds(seeds brackets.SeedMap, roster map[int]bool) error {
	used := make(map[int]int, len(seeds))
	for participantID, seed := range seeds {
		if !roster[participantID] {
			return fmt.Errorf("%w: participant %d is not an accepted participant of this event", ErrInvalidSeeds, participantID)
		}
		if seed <= 0 {
			return fmt.Errorf("%w: seed %d for participant %d must be positive", ErrInvalidSeeds, seed, participantID)
		}
		if seed > len(roster) {
			return fmt.Errorf("%w: seed %d exceeds the %d accepted participants", ErrInvalidSeeds, seed, len(roster))
		}
		if other, dup := used[seed]; dup {
			return fmt.Errorf("%w: seed %d is given to participants %d and %d", ErrInvalidSeeds, seed, min(other, participantID), max(other, participantID))
		}
		used[seed] = participantID
	}
	for seed := 1; seed <= len(used); seed++ {
		if _, ok := used[seed]; !ok {
			return fmt.Errorf("%w: seeds must run from 1 without gaps, %d is missing", ErrInvalidSeeds, seed)
		}
	}
	return nil
}

func seedMapFrom(assignments []models.SeedAssignment) (brackets.SeedMap, error) {
	seeds := make(brackets.SeedMap, len(assignments))
	seen := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		if seen[a.ParticipantID] {
			return nil, fmt.Errorf("%w: participant %d appears twice", ErrInvalidSeeds, a.ParticipantID)
		}
		seen[a.ParticipantID] = true
		if a.Seed != nil {
			seeds[a.ParticipantID] = *a.Seed
		}
	}
	return seeds, nil
}

func (s *seedingService) acceptedRoster(ctx context.Context, eventID int) ([]models.Participant, map[int]bool, error) {
	accepted := models.ParticipantStatusParticipant
	participants, err := s.participantRepo.ListByEvent(ctx, eventID, &accepted)
	if err != nil {
		return nil, nil, err
	}
	return participants, rosterOf(participants), nil
}

func rosterOf(participants []models.Participant) map[int]bool {
	roster := make(map[int]bool, len(participants))
	for _, p := range participants {
		roster[p.ID] = true
	}
	return roster
}

func (s *seedingService) GetSeeds(ctx context.Context, eventID int) ([]models.Participant, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, handleRepositoryError(err)
	}
	participants, _, err := s.acceptedRoster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sortBySeed(participants)
	return participants, nil
}

func (s *seedingService) ReplaceSeeds(ctx context.Context, actor models.Actor, eventID int, assignments []models.SeedAssignment) ([]models.Participant, error) {
	event, err := s.access.loadManagedEvent(ctx, eventID, actor)
	if err != nil {
		return nil, err
	}
	if !beforeBracket(event.Status) {
		return nil, ErrSeedingLocked
	}

	seeds, err := seedMapFrom(assignments)
	if err != nil {
		return nil, err
	}
	_, roster, err := s.acceptedRoster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := ValidateSeeds(seeds, roster); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.participantRepo.ReplaceSeeds(ctx, exec, eventID, seeds)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store seeds for event %d: %w", eventID, handleRepositoryError(err))
	}

	participants, _, err := s.acceptedRoster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sortBySeed(participants)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, eventID); err != nil {
			s.logger.Warn("failed to invalidate layout cache", slog.Int("event_id", eventID), slog.Any("error", err))
		}
	}
	s.hub.BroadcastToRoom(realtime.EventRoom(eventID), realtime.NewMessage(realtime.MessageSeedingUpdated, eventID, participants))
	s.logger.Info("seeding updated", slog.Int("event_id", eventID), slog.Int("seeded", len(seeds)))
	return participants, nil
}

func (s *seedingService) Preview(ctx context.Context, eventID int, assignments []models.SeedAssignment) (*BracketPreview, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	participants, roster, err := s.acceptedRoster(ctx, eventID)
	if err != nil {
		return nil, err
	}

	entries, seeds := models.BracketEntries(participants)
	if assignments != nil {
		if seeds, err = seedMapFrom(assignments); err != nil {
			return nil, err
		}
	}
	if err := ValidateSeeds(seeds, roster); err != nil {
		return nil, err
	}

	gen, err := brackets.NewGenerator(event.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	bracket := gen.Generate(brackets.GenerateParams{
		Participants: entries,
		Seeds:        seeds,
		Preview:      true,
		Options:      brackets.EliminationOptions{BronzeMatch: event.BronzeMatch},
		Legs:         event.Legs,
	})
	return &BracketPreview{
		Bracket: bracket,
		Layout:  brackets.ComputeLayout(bracket, s.layout, brackets.VariantRatio),
	}, nil
}

// sortBySeed orders seeded participants first by seed, then the rest by id.
func sortBySeed(ps []models.Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i].Seed, ps[j].Seed
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return ps[i].ID < ps[j].ID
		}
	})
}
