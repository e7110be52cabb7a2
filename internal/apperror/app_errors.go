package apperror

import "errors"

// Kind classifies an application error so the boundary layer can map it
// to a stable externally-visible result without matching on messages.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindConflict
	KindInvalidArgument
	KindInternal
)

type Error struct {
	kind Kind
	msg  string
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (that *Error) Error() string {
	return that.msg
}

func (that *Error) Kind() Kind {
	return that.kind
}

var (
	ErrUserNotFound = New(KindNotFound, "user not found")
	ErrGameNotFound = New(KindNotFound, "game not found")

	// ErrGameAccessDenied is returned when a game exists but the viewer
	// is not a participant. It shares NotFound's kind so callers cannot
	// probe for the existence of games they are not part of.
	ErrGameAccessDenied = New(KindNotFound, "no game with this ID for this user")

	ErrNotParticipating = New(KindForbidden, "user is not participating in this game")

	ErrGameFull     = New(KindConflict, "game is already full")
	ErrGameFinished = New(KindConflict, "game is over")
	ErrOutOfTurn    = New(KindConflict, "out of turn")

	ErrInvalidMove      = New(KindInvalidArgument, "invalid move")
	ErrInvalidBoardSize = New(KindInvalidArgument, "invalid board size")

	ErrCodeGeneration = New(KindInternal, "an error occurred, please try again")
)

// KindOf extracts the Kind from anywhere in err's chain, or KindInternal
// when err carries no application error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}
