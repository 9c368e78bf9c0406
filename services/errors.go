package services

import "errors"

// Errors shared by services and mapped to HTTP statuses by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// validation and business rules
	ErrValidationFailed             = errors.New("validation failed")
	ErrPasswordTooShort             = errors.New("password is too short")
	ErrInvalidEmail                 = errors.New("email address is invalid")
	ErrUsernameRequired             = errors.New("username is required")
	ErrNameRequired                 = errors.New("name is required")
	ErrInvalidFormat                = errors.New("unsupported bracket format")
	ErrInvalidParticipantType       = errors.New("participant type must be solo or team")
	ErrInvalidLegs                  = errors.New("round robin legs must be 1 or 2")
	ErrInvalidStartsAt              = errors.New("starts_at is not a recognizable date")
	ErrEventInvalidStatus           = errors.New("invalid event status provided")
	ErrEventInvalidStatusTransition = errors.New("invalid event status transition")
	ErrEventLocked                  = errors.New("event can no longer be changed")
	ErrRegistrationNotOpen          = errors.New("event registration is not open")
	ErrParticipantTypeMismatch      = errors.New("registration does not match the event participant type")
	ErrRegistrationsExist           = errors.New("participant type cannot change while registrations exist")
	ErrNotTeamMember                = errors.New("only a member of the team can register it")
	ErrInvalidSeeds                 = errors.New("invalid seeding")
	ErrSeedingLocked                = errors.New("seeding is locked once the bracket is generated")
	ErrNotEnoughParticipants        = errors.New("at least two accepted participants are required")
	ErrBracketNotGenerated          = errors.New("bracket has not been generated yet")
	ErrNotRoundRobin                = errors.New("event is not a round robin")
	ErrMatchNotReady                = errors.New("match participants are not known yet")
	ErrMatchAlreadyCompleted        = errors.New("match result has already been reported")
	ErrInvalidWinner                = errors.New("winner must be one of the match participants")
	ErrInvalidScore                 = errors.New("scores must be non-negative and favor the winner")
	ErrSnapshotsDisabled            = errors.New("snapshot publishing is not configured")

	// conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrLeagueNameConflict   = errors.New("league name is already in use")
	ErrEventNameConflict    = errors.New("event name already exists for this organizer")
	ErrRegistrationConflict = errors.New("user or team is already registered for this event")
	ErrEditorConflict       = errors.New("user is already an editor of this event")
	ErrEventInUse           = errors.New("event still has participants or matches")

	// authentication and authorization
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// entity specific not found
	ErrUserNotFound        = errors.New("user not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrLeagueNotFound      = errors.New("league not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrEditorNotFound      = errors.New("editor not found")
)
