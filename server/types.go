package server

import (
	"github.com/undeconstructed/pictogo/comms"
	"github.com/undeconstructed/pictogo/game"
)

type commandMsg struct {
	Cmd    game.Command
	Remote bool
	Rep    chan commandResult
}

type commandResult struct {
	View game.View
	Err  error
}

type viewMsg struct {
	Rep chan game.View
}

type pictureMsg struct {
	Rep chan pictureResult
}

type pictureResult struct {
	Data []byte
	Err  error
}

type connectMsg struct {
	ID     string
	Client *clientBundle
	Rep    chan game.View
}

type disconnectMsg struct {
	ID string
}

type clientBundle struct {
	downCh chan interface{}
}

type toSend struct {
	mtype string
	data  interface{}
}

// CanvasChanged tells clients to fetch the picture again.
type CanvasChanged struct {
	Revision int `json:"revision"`
}

// CommandInput is the body of a command over REST.
type CommandInput struct {
	Command string `json:"command"`
}

// CommandOutput is the reply to a command, over REST or websocket.
type CommandOutput struct {
	State game.View         `json:"state"`
	Err   *comms.CommsError `json:"error,omitempty"`
}

// Connected is the first thing a websocket client is sent.
type Connected struct {
	ID    string    `json:"id"`
	State game.View `json:"state"`
}
