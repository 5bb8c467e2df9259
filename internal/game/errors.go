package game

import "errors"

// Error classes. Every sentinel below matches exactly one of them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrTurnViolation      = errors.New("turn violation")
	ErrStateUnavailable   = errors.New("state unavailable")
)

var (
	ErrPlayerNotFound = newError(ErrNotFound, "player not found")
	ErrGameNotFound   = newError(ErrNotFound, "game not found")

	ErrInvalidOptions = newError(ErrInvalidArgument, "invalid game options")

	ErrGameOver      = newError(ErrPreconditionFailed, "game over")
	ErrGameFull      = newError(ErrPreconditionFailed, "game full")
	ErrTooFewPlayers = newError(ErrPreconditionFailed, "too few players")
	ErrNotActiveGame = newError(ErrPreconditionFailed, "not an active game")

	ErrNotYourGame      = newError(ErrTurnViolation, "not your game")
	ErrNotYourTurn      = newError(ErrTurnViolation, "not your turn")
	ErrTooLate          = newError(ErrTurnViolation, "too late")
	ErrAlreadyAnswered  = newError(ErrTurnViolation, "already answered")
	ErrNoActiveQuestion = newError(ErrStateUnavailable, "no active question")
)

type gameError struct {
	class error
	msg   string
}

func newError(class error, msg string) error {
	return &gameError{class: class, msg: msg}
}

func (e *gameError) Error() string {
	return e.msg
}

func (e *gameError) Is(target error) bool {
	return target == e.class
}

// Class reports which error class err belongs to, or nil when it is not an
// engine error.
func Class(err error) error {
	for _, class := range []error{
		ErrNotFound,
		ErrInvalidArgument,
		ErrPreconditionFailed,
		ErrTurnViolation,
		ErrStateUnavailable,
	} {
		if errors.Is(err, class) {
			return class
		}
	}
	return nil
}
