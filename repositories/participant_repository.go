package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/bracketview/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrParticipantConflict      = errors.New("participant conflict: user or team already registered for this event")
	ErrParticipantUserInvalid   = errors.New("participant user conflict or invalid")
	ErrParticipantTeamInvalid   = errors.New("participant team conflict or invalid")
	ErrParticipantEventInvalid  = errors.New("participant event conflict or invalid")
	ErrParticipantTypeViolation = errors.New("participant type violation: either user_id or team_id must be set, but not both")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, id int) (*models.Participant, error)
	ListByEvent(ctx context.Context, eventID int, statusFilter *models.ParticipantStatus) ([]models.Participant, error)
	// UpdateStatus also clears the seed of a participant leaving the accepted roster.
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error
	// ReplaceSeeds clears every seed of the event and writes the given ones.
	ReplaceSeeds(ctx context.Context, exec SQLExecutor, eventID int, seeds map[int]int) error
	Count(ctx context.Context) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantSelect = `
	SELECT
		p.id, p.event_id, p.user_id, p.team_id, p.seed, p.status, p.created_at,
		COALESCE(u.id, 0), COALESCE(u.username, ''), u.name,
		COALESCE(t.id, 0), COALESCE(t.name, '')
	FROM participants p
	LEFT JOIN users u ON p.user_id = u.id
	LEFT JOIN teams t ON p.team_id = t.id`

func scanParticipant(row rowScanner) (models.Participant, error) {
	var p models.Participant
	var u models.User
	var t models.Team
	err := row.Scan(
		&p.ID, &p.EventID, &p.UserID, &p.TeamID, &p.Seed, &p.Status, &p.CreatedAt,
		&u.ID, &u.Username, &u.Name,
		&t.ID, &t.Name,
	)
	if err != nil {
		return p, err
	}
	if p.UserID != nil && u.ID > 0 {
		p.User = &u
	}
	if p.TeamID != nil && t.ID > 0 {
		p.Team = &t
	}
	return p, nil
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (event_id, user_id, team_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.EventID, p.UserID, p.TeamID, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrParticipantConflict
			case "23503":
				switch pqErr.Constraint {
				case "participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participants_team_id_fkey":
					return ErrParticipantTeamInvalid
				case "participants_event_id_fkey":
					return ErrParticipantEventInvalid
				}
			case "23514":
				if pqErr.Constraint == "chk_participant_type" {
					return ErrParticipantTypeViolation
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	p, err := scanParticipant(r.db.QueryRowContext(ctx, participantSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return &p, nil
}

func (r *postgresParticipantRepository) ListByEvent(ctx context.Context, eventID int, statusFilter *models.ParticipantStatus) ([]models.Participant, error) {
	var qb strings.Builder
	args := []interface{}{eventID}

	qb.WriteString(participantSelect)
	qb.WriteString(" WHERE p.event_id = $1")
	if statusFilter != nil {
		qb.WriteString(" AND p.status = $2")
		args = append(args, *statusFilter)
	}
	qb.WriteString(" ORDER BY p.seed ASC NULLS LAST, p.created_at ASC")

	rows, err := r.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants by event: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	// Only accepted participants keep a seed.
	query := `
		UPDATE participants
		SET status = $1, seed = CASE WHEN $3 THEN seed ELSE NULL END
		WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id, status == models.ParticipantStatusParticipant)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ReplaceSeeds(ctx context.Context, exec SQLExecutor, eventID int, seeds map[int]int) error {
	executor := pickExecutor(r.db, exec)
	if _, err := executor.ExecContext(ctx, `UPDATE participants SET seed = NULL WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear seeds for event %d: %w", eventID, err)
	}
	for participantID, seed := range seeds {
		result, err := executor.ExecContext(ctx,
			`UPDATE participants SET seed = $1 WHERE id = $2 AND event_id = $3`, seed, participantID, eventID)
		if err != nil {
			return fmt.Errorf("failed to set seed for participant %d: %w", participantID, err)
		}
		if err := checkAffectedRows(result, ErrParticipantNotFound); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresParticipantRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}
