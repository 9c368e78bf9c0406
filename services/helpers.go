package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
)

// handleRepositoryError translates repository sentinels into service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrEditorNotFound):
		return ErrEditorNotFound
	case errors.Is(err, repositories.ErrMatchAlreadyCompleted):
		return ErrMatchAlreadyCompleted
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrUserUsernameConflict):
		return ErrUserUsernameConflict
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrLeagueNameConflict):
		return ErrLeagueNameConflict
	case errors.Is(err, repositories.ErrEventNameConflict):
		return ErrEventNameConflict
	case errors.Is(err, repositories.ErrEventInvalidLeague):
		return fmt.Errorf("%w: %v", ErrLeagueNotFound, err)
	case errors.Is(err, repositories.ErrEventInUse):
		return ErrEventInUse
	case errors.Is(err, repositories.ErrParticipantConflict):
		return ErrRegistrationConflict
	case errors.Is(err, repositories.ErrEditorConflict):
		return ErrEditorConflict
	case errors.Is(err, repositories.ErrEditorUserInvalid):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrTeamPlayerInvalid):
		return ErrUserNotFound
	default:
		return err
	}
}

// eventAccess decides who may manage an event: admins, its organizer and
// its editors.
type eventAccess struct {
	eventRepo repositories.EventRepository
}

func (a eventAccess) canManage(ctx context.Context, event *models.Event, actor models.Actor) error {
	if actor.IsAdmin() || event.OrganizerID == actor.UserID {
		return nil
	}
	ok, err := a.eventRepo.IsEditor(ctx, event.ID, actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to check editor rights: %w", err)
	}
	if !ok {
		return ErrForbiddenOperation
	}
	return nil
}

func (a eventAccess) canOwn(event *models.Event, actor models.Actor) error {
	if actor.IsAdmin() || event.OrganizerID == actor.UserID {
		return nil
	}
	return ErrForbiddenOperation
}

// loadManagedEvent fetches an event and checks the caller may manage it.
func (a eventAccess) loadManagedEvent(ctx context.Context, eventID int, actor models.Actor) (*models.Event, error) {
	event, err := a.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := a.canManage(ctx, event, actor); err != nil {
		return nil, err
	}
	return event, nil
}

// withTx runs fn in a transaction, committing on success.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", err))
				err = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

// TxRunner abstracts transaction handling so services can be tested without a database.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLTxRunner(db *sql.DB, logger *slog.Logger) TxRunner {
	return &sqlTxRunner{db: db, logger: logger}
}

func (r *sqlTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return withTx(ctx, r.db, r.logger, func(tx *sql.Tx) error { return fn(tx) })
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToRoom(string, interface{}) {}

func broadcasterOrNop(b realtime.Broadcaster) realtime.Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}
