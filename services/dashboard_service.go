package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context, actor models.Actor) (*models.DashboardStats, error)
}

type dashboardService struct {
	userRepo        repositories.UserRepository
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	eventRepo repositories.EventRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) DashboardService {
	return &dashboardService{
		userRepo:        userRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context, actor models.Actor) (*models.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	stats := &models.DashboardStats{}
	active := models.EventStatusInProgress
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.UsersTotal, err = s.userRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.EventsTotal, err = s.eventRepo.Count(gCtx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveEvents, err = s.eventRepo.Count(gCtx, &active)
		return err
	})
	g.Go(func() (err error) {
		stats.ParticipantsTotal, err = s.participantRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.MatchesCompleted, err = s.matchRepo.CountCompleted(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect dashboard stats: %w", err)
	}
	return stats, nil
}
