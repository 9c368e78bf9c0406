package services

import (
	"context"
	"strings"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/repositories"
)

type LeagueService interface {
	CreateLeague(ctx context.Context, actor models.Actor, input CreateLeagueInput) (*models.League, error)
	GetLeague(ctx context.Context, id int) (*models.League, error)
	ListLeagues(ctx context.Context) ([]models.League, error)
}

type CreateLeagueInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type leagueService struct {
	leagueRepo repositories.LeagueRepository
	eventRepo  repositories.EventRepository
}

func NewLeagueService(leagueRepo repositories.LeagueRepository, eventRepo repositories.EventRepository) LeagueService {
	return &leagueService{leagueRepo: leagueRepo, eventRepo: eventRepo}
}

func (s *leagueService) CreateLeague(ctx context.Context, actor models.Actor, input CreateLeagueInput) (*models.League, error) {
	if !actor.CanOrganize() {
		return nil, ErrForbiddenOperation
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	league := &models.League{Name: name, Description: input.Description}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		return nil, handleRepositoryError(err)
	}
	return league, nil
}

// GetLeague returns the league with its events attached.
func (s *leagueService) GetLeague(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	events, err := s.eventRepo.List(ctx, repositories.ListEventsFilter{LeagueID: &id})
	if err != nil {
		return nil, err
	}
	league.Events = events
	return league, nil
}

func (s *leagueService) ListLeagues(ctx context.Context) ([]models.League, error) {
	return s.leagueRepo.List(ctx)
}
