package game

type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrTooFewPlayers means a session needs at least two players
	ErrTooFewPlayers = &GameError{"TOOFEWPLAYERS", "need at least two players"}
	// ErrBadRequest is for malformed commands
	ErrBadRequest = &GameError{"BADREQUEST", "bad request"}
	// ErrUnknownCommand is for commands nobody handles
	ErrUnknownCommand = &GameError{"UNKNOWNCOMMAND", "unknown command"}
	// ErrNotNow is for commands refused by a front end in the current phase
	ErrNotNow = &GameError{"NOTNOW", "you cannot do that now"}
)

// ReError matches an error code back to the error object, for errors that
// have been through a wire.
func ReError(code, msg string) error {
	switch code {
	case "":
		return nil
	case ErrTooFewPlayers.Code:
		return ErrTooFewPlayers
	case ErrBadRequest.Code:
		return ErrBadRequest
	case ErrUnknownCommand.Code:
		return ErrUnknownCommand
	case ErrNotNow.Code:
		return ErrNotNow
	default:
		return &GameError{code, msg}
	}
}
