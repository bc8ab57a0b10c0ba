package server

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/undeconstructed/pictogo/comms"
	"github.com/undeconstructed/pictogo/game"
)

// Streaming clients send a move per pointer event, so the limit is generous.
const (
	commandRate  = 120
	commandBurst = 240
)

var errTooFast = &game.GameError{Code: "TOOFAST", Msg: "too many commands, slow down"}

func newLimiter() *rate.Limiter {
	return rate.NewLimiter(commandRate, commandBurst)
}

func encodeDown(down interface{}) (comms.Message, error) {
	switch msg := down.(type) {
	case comms.Message:
		// send preformatted message
		return msg, nil
	case toSend:
		return comms.Encode(msg.mtype, msg.data)
	default:
		return comms.Message{}, fmt.Errorf("cannot send: %#v", msg)
	}
}

// handleCommand runs a "command:<id>" message from a streaming client.
func (s *Server) handleCommand(ctx context.Context, lim *rate.Limiter, msg comms.Message) CommandOutput {
	if !lim.Allow() {
		view, err := s.View(ctx)
		if err != nil {
			return commandOutput(view, err)
		}
		return commandOutput(view, errTooFast)
	}

	var text string
	if err := comms.Decode(msg, &text); err != nil {
		return commandOutput(game.View{}, fmt.Errorf("%w: %v", game.ErrBadRequest, err))
	}
	cmd, err := game.ParseCommand(game.CommandString(text))
	if err != nil {
		return commandOutput(game.View{}, err)
	}
	return commandOutput(s.ApplyRemote(ctx, cmd))
}
