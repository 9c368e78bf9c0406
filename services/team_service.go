package services

import (
	"context"
	"strings"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, actor models.Actor, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
}

// CreateTeamInput pairs the caller with an optional partner.
type CreateTeamInput struct {
	Name      string `json:"name"`
	PartnerID *int   `json:"partner_id,omitempty"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
}

func NewTeamService(teamRepo repositories.TeamRepository, userRepo repositories.UserRepository) TeamService {
	return &teamService{teamRepo: teamRepo, userRepo: userRepo}
}

func (s *teamService) CreateTeam(ctx context.Context, actor models.Actor, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.PartnerID != nil {
		if *input.PartnerID == actor.UserID {
			return nil, ErrValidationFailed
		}
		if _, err := s.userRepo.GetByID(ctx, *input.PartnerID); err != nil {
			return nil, handleRepositoryError(err)
		}
	}

	captain := actor.UserID
	team := &models.Team{Name: name, Player1ID: &captain, Player2ID: input.PartnerID}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, handleRepositoryError(err)
	}
	return team, nil
}

// GetTeam loads a team together with both players.
func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	for _, slot := range []struct {
		id  *int
		dst **models.User
	}{{team.Player1ID, &team.Player1}, {team.Player2ID, &team.Player2}} {
		if slot.id == nil {
			continue
		}
		u, err := s.userRepo.GetByID(ctx, *slot.id)
		if err != nil {
			return nil, handleRepositoryError(err)
		}
		u.PasswordHash = ""
		*slot.dst = u
	}
	return team, nil
}

func isTeamMember(team *models.Team, userID int) bool {
	return (team.Player1ID != nil && *team.Player1ID == userID) || (team.Player2ID != nil && *team.Player2ID == userID)
}
