package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracketview/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchUIDConflict        = errors.New("bracket uid already used in this event")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchAlreadyCompleted   = errors.New("match is already completed")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Match, error)
	DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error
	// UpdateResult records a result unless the match is already completed.
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// FillSlots writes participantID into every slot fed by the winner (or
	// loser) of sourceUID and schedules matches whose both slots are known.
	FillSlots(ctx context.Context, exec SQLExecutor, eventID int, sourceUID string, loser bool, participantID *int) error
	CountCompleted(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, event_id, bracket_uid, round, order_in_round, side,
	participant1_id, participant2_id, source1_uid, source1_loser, source2_uid, source2_loser,
	score1, score2, winner_id, status, updated_at`

func scanMatch(row rowScanner, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.EventID, &m.BracketUID, &m.Round, &m.OrderInRound, &m.Side,
		&m.Participant1ID, &m.Participant2ID, &m.Source1UID, &m.Source1Loser, &m.Source2UID, &m.Source2Loser,
		&m.Score1, &m.Score2, &m.WinnerID, &m.Status, &m.UpdatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches (
			event_id, bracket_uid, round, order_in_round, side,
			participant1_id, participant2_id, source1_uid, source1_loser, source2_uid, source2_loser,
			winner_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, updated_at`

	err := pickExecutor(r.db, exec).QueryRowContext(ctx, query,
		m.EventID, m.BracketUID, m.Round, m.OrderInRound, m.Side,
		m.Participant1ID, m.Participant2ID, m.Source1UID, m.Source1Loser, m.Source2UID, m.Source2Loser,
		m.WinnerID, m.Status,
	).Scan(&m.ID, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE event_id = $1 ORDER BY side, round, order_in_round`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for event %d: %w", eventID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	if _, err := pickExecutor(r.db, exec).ExecContext(ctx, `DELETE FROM matches WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete matches for event %d: %w", eventID, err)
	}
	return nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, winner_id = $3, status = $4, updated_at = NOW()
		WHERE id = $5 AND status <> 'completed'
		RETURNING updated_at`

	executor := pickExecutor(r.db, exec)
	err := executor.QueryRowContext(ctx, query, m.Score1, m.Score2, m.WinnerID, m.Status, m.ID).
		Scan(&m.UpdatedAt)
	if !errors.Is(err, sql.ErrNoRows) {
		return r.handleMatchError(err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, m.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check match %d: %w", m.ID, err)
	}
	if exists {
		return ErrMatchAlreadyCompleted
	}
	return ErrMatchNotFound
}

func (r *postgresMatchRepository) FillSlots(ctx context.Context, exec SQLExecutor, eventID int, sourceUID string, loser bool, participantID *int) error {
	executor := pickExecutor(r.db, exec)

	for _, slot := range []string{"1", "2"} {
		query := fmt.Sprintf(`
			UPDATE matches SET participant%[1]s_id = $1, updated_at = NOW()
			WHERE event_id = $2 AND source%[1]s_uid = $3 AND source%[1]s_loser = $4`, slot)
		if _, err := executor.ExecContext(ctx, query, participantID, eventID, sourceUID, loser); err != nil {
			return r.handleMatchError(err)
		}
	}

	_, err := executor.ExecContext(ctx, `
		UPDATE matches SET status = $1
		WHERE event_id = $2 AND status = $3
		  AND participant1_id IS NOT NULL AND participant2_id IS NOT NULL`,
		models.MatchStatusScheduled, eventID, models.MatchStatusPending)
	if err != nil {
		return fmt.Errorf("failed to schedule filled matches for event %d: %w", eventID, err)
	}
	return nil
}

func (r *postgresMatchRepository) CountCompleted(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE status = $1`, models.MatchStatusCompleted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrMatchUIDConflict
		case "23503":
			return ErrMatchParticipantInvalid
		}
	}
	return err
}
