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
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNameConflict  = errors.New("event name conflict for this organizer")
	ErrEventInvalidLeague = errors.New("invalid league reference")
	ErrEventInvalidOrg    = errors.New("invalid organizer reference")
	ErrEventInUse         = errors.New("event is in use (participants/matches exist)")
	ErrEditorNotFound     = errors.New("editor not found")
	ErrEditorConflict     = errors.New("user is already an editor of this event")
	ErrEditorUserInvalid  = errors.New("editor user reference invalid")
)

type ListEventsFilter struct {
	LeagueID    *int
	OrganizerID *int
	Status      *models.EventStatus
	Limit       int
	Offset      int
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EventStatus) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, status *models.EventStatus) (int, error)

	AddEditor(ctx context.Context, eventID, userID int) error
	RemoveEditor(ctx context.Context, eventID, userID int) error
	ListEditors(ctx context.Context, eventID int) ([]models.User, error)
	IsEditor(ctx context.Context, eventID, userID int) (bool, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, description, league_id, organizer_id, format, participant_type,
	bronze_match, legs, status, starts_at, created_at`

func scanEvent(row rowScanner, e *models.Event) error {
	return row.Scan(
		&e.ID, &e.Name, &e.Description, &e.LeagueID, &e.OrganizerID, &e.Format, &e.ParticipantType,
		&e.BronzeMatch, &e.Legs, &e.Status, &e.StartsAt, &e.CreatedAt,
	)
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (
			name, description, league_id, organizer_id, format, participant_type,
			bronze_match, legs, status, starts_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Description, e.LeagueID, e.OrganizerID, e.Format, e.ParticipantType,
		e.BronzeMatch, e.Legs, e.Status, e.StartsAt,
	).Scan(&e.ID, &e.CreatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	e := &models.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.LeagueID != nil {
		query += fmt.Sprintf(" AND league_id = $%d", argID)
		args = append(args, *filter.LeagueID)
		argID++
	}
	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY starts_at DESC NULLS LAST, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events SET
			name = $1,
			description = $2,
			league_id = $3,
			format = $4,
			participant_type = $5,
			bronze_match = $6,
			legs = $7,
			starts_at = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		e.Name, e.Description, e.LeagueID, e.Format, e.ParticipantType,
		e.BronzeMatch, e.Legs, e.StartsAt, e.ID,
	)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.EventStatus) error {
	result, err := pickExecutor(r.db, exec).ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Count(ctx context.Context, status *models.EventStatus) (int, error) {
	query := `SELECT COUNT(*) FROM events`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *postgresEventRepository) AddEditor(ctx context.Context, eventID, userID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO event_editors (event_id, user_id) VALUES ($1, $2)`, eventID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrEditorConflict
			case "23503":
				if pqErr.Constraint == "event_editors_event_id_fkey" {
					return ErrEventNotFound
				}
				return ErrEditorUserInvalid
			}
		}
		return fmt.Errorf("failed to add editor: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) RemoveEditor(ctx context.Context, eventID, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_editors WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove editor: %w", err)
	}
	return checkAffectedRows(result, ErrEditorNotFound)
}

func (r *postgresEventRepository) ListEditors(ctx context.Context, eventID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.name, u.email, u.role, u.created_at
		FROM event_editors ee
		JOIN users u ON u.id = ee.user_id
		WHERE ee.event_id = $1
		ORDER BY u.username`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list editors: %w", err)
	}
	defer rows.Close()

	editors := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		editors = append(editors, u)
	}
	return editors, rows.Err()
}

func (r *postgresEventRepository) IsEditor(ctx context.Context, eventID, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_editors WHERE event_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check editor: %w", err)
	}
	return exists, nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "events_organizer_id_name_key" {
				return ErrEventNameConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "events_league_id_fkey":
				return ErrEventInvalidLeague
			case "events_organizer_id_fkey":
				return ErrEventInvalidOrg
			default:
				return ErrEventInUse
			}
		}
	}
	return err
}
