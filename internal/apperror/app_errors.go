package apperror

import (
	"errors"
	"fmt"
)

// Category sentinels. Every specific error below wraps exactly one of
// these, so transports can map a status code with errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrTransient          = errors.New("transient failure")
	ErrUnknown            = errors.New("unknown error")
)

var (
	ErrGameNotFound    = fmt.Errorf("%w: game", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrPictureNotFound = fmt.Errorf("%w: picture", ErrNotFound)
	ErrSnipeNotFound   = fmt.Errorf("%w: snipe", ErrFailedPrecondition)

	ErrGameAlreadyStarted = fmt.Errorf("%w: game is already started", ErrFailedPrecondition)
	ErrGameNotStarted     = fmt.Errorf("%w: game is not in progress", ErrFailedPrecondition)
	ErrGameEnded          = fmt.Errorf("%w: game is already ended", ErrFailedPrecondition)
	ErrNotOwner           = fmt.Errorf("%w: only the game owner may do this", ErrFailedPrecondition)
	ErrOwnerCannotLeave   = fmt.Errorf("%w: owner cannot leave the game", ErrFailedPrecondition)
	ErrTooFewPlayers      = fmt.Errorf("%w: not enough players to start", ErrFailedPrecondition)
	ErrGameFull           = fmt.Errorf("%w: game is at capacity", ErrFailedPrecondition)
	ErrNotInGame          = fmt.Errorf("%w: user is not in the game", ErrFailedPrecondition)
	ErrNotAlive           = fmt.Errorf("%w: user is not alive in the game", ErrFailedPrecondition)
	ErrSnipeResolved      = fmt.Errorf("%w: snipe is already resolved", ErrFailedPrecondition)
	ErrNotPendingVoter    = fmt.Errorf("%w: user has no pending vote for this snipe", ErrFailedPrecondition)
	ErrSniperCannotVote   = fmt.Errorf("%w: sniper cannot vote on their own snipe", ErrFailedPrecondition)

	ErrAlreadyJoined = fmt.Errorf("%w: user is already in the game", ErrAlreadyExists)

	ErrInvalidID     = fmt.Errorf("%w: malformed id", ErrInvalidArgument)
	ErrEmptyGameList = fmt.Errorf("%w: empty list of game ids", ErrInvalidArgument)
	ErrDuplicateGame = fmt.Errorf("%w: duplicate game id", ErrInvalidArgument)
	ErrEmptyEvidence = fmt.Errorf("%w: empty evidence image", ErrInvalidArgument)
)
