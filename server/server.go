// Package server runs one game session for remote players. A single core
// goroutine owns the controller; gateways talk to it with messages.
package server

import (
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/undeconstructed/pictogo/comms"
	"github.com/undeconstructed/pictogo/game"
)

// ErrStopped is returned to requests made after the core loop has ended.
var ErrStopped = &game.GameError{Code: "STOPPED", Msg: "server stopped"}

// errNotRemote is for commands that touch the server's own files.
var errNotRemote = &game.GameError{Code: "NOTREMOTE", Msg: "not allowed remotely"}

// Picture is the canvas as far as the server needs it.
type Picture interface {
	EncodePNG(w io.Writer) error
}

type Options struct {
	// WebAddr is where the gin gateway listens, empty for none.
	WebAddr string
	// Origins may open websockets.
	Origins []string
	// GRPCAddr is where the gRPC gateway listens, empty for none.
	GRPCAddr string
	// TCPAddr is for line based comms clients, empty for none.
	TCPAddr string
}

type Server struct {
	ctl     *game.Controller
	picture Picture
	opts    Options

	coreCh   chan interface{}
	done     chan struct{}
	clients  map[string]*clientBundle
	revision int
	log      zerolog.Logger
}

func NewServer(ctl *game.Controller, picture Picture, opts Options) *Server {
	return &Server{
		ctl:     ctl,
		picture: picture,
		opts:    opts,
		coreCh:  make(chan interface{}),
		done:    make(chan struct{}),
		clients: map[string]*clientBundle{},
		log:     log.With().Str("server", "core").Logger(),
	}
}

// Run runs the core loop and the configured gateways until ctx ends or one
// of them fails.
func (s *Server) Run(ctx context.Context) error {
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return s.loop(ctx)
	})
	if s.opts.WebAddr != "" {
		grp.Go(func() error {
			return runWebGateway(ctx, s, s.opts.WebAddr)
		})
	}
	if s.opts.GRPCAddr != "" {
		grp.Go(func() error {
			return runGrpcGateway(ctx, s, s.opts.GRPCAddr)
		})
	}
	if s.opts.TCPAddr != "" {
		grp.Go(func() error {
			return runTcpGateway(ctx, s, s.opts.TCPAddr)
		})
	}

	return grp.Wait()
}

// loop is the only goroutine that touches the controller.
func (s *Server) loop(ctx context.Context) error {
	s.log.Info().Msg("core running")
	defer s.log.Info().Msg("core stopping")
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case in := <-s.coreCh:
			s.processMessage(in)
		}
	}
}

func (s *Server) processMessage(in interface{}) {
	switch msg := in.(type) {
	case commandMsg:
		if msg.Remote {
			if err := checkRemote(msg.Cmd, s.ctl.Session()); err != nil {
				msg.Rep <- commandResult{View: s.ctl.View(), Err: err}
				return
			}
		}
		_, err := s.ctl.Apply(msg.Cmd)
		view := s.ctl.View()
		// broadcast first, so the sender sees it before its response
		if err == nil {
			if drawsOnCanvas(msg.Cmd.Kind) {
				s.revision++
				s.broadcast(toSend{"canvas", CanvasChanged{Revision: s.revision}})
			} else {
				s.broadcast(toSend{"state", view})
			}
		}
		msg.Rep <- commandResult{View: view, Err: err}
	case viewMsg:
		msg.Rep <- s.ctl.View()
	case pictureMsg:
		var buf bytes.Buffer
		err := s.picture.EncodePNG(&buf)
		msg.Rep <- pictureResult{Data: buf.Bytes(), Err: err}
	case connectMsg:
		s.clients[msg.ID] = msg.Client
		s.log.Info().Str("client", msg.ID).Int("clients", len(s.clients)).Msg("client connected")
		msg.Rep <- s.ctl.View()
	case disconnectMsg:
		c, ok := s.clients[msg.ID]
		if !ok {
			return
		}
		delete(s.clients, msg.ID)
		close(c.downCh)
		s.log.Info().Str("client", msg.ID).Msg("client gone")
	default:
		s.log.Warn().Msgf("nonsense in core: %#v", in)
	}
}

func (s *Server) broadcast(down interface{}) {
	msg, err := encodeDown(down)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode broadcast")
		return
	}
	for id, c := range s.clients {
		select {
		case c.downCh <- msg:
		default:
			s.log.Info().Str("client", id).Msg("client lagging")
		}
	}
}

// checkRemote refuses network commands that would touch the server's files,
// and reports the ones that would be ignored in this phase.
func checkRemote(cmd game.Command, sess game.Session) error {
	switch cmd.Kind {
	case game.Save:
		return errNotRemote
	case game.Open:
		if len(cmd.Data) == 0 && cmd.Path != "" {
			return errNotRemote
		}
	case game.StartGuess:
		if sess.Guess.Phase != game.Drawing {
			return game.ErrNotNow
		}
	case game.SubmitGuess:
		if sess.Guess.Phase != game.Guessing {
			return game.ErrNotNow
		}
	}
	return nil
}

func drawsOnCanvas(k game.Kind) bool {
	switch k {
	case game.Press, game.Move, game.Release, game.Clear, game.Open, game.Resize:
		return true
	}
	return false
}

// request hands msg to the core, giving up if the core has stopped. coreCh
// is unbuffered, so a request that got in is always answered.
func (s *Server) request(ctx context.Context, msg interface{}) error {
	select {
	case s.coreCh <- msg:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply runs one command in the core. The view is returned even when the
// command fails.
func (s *Server) Apply(ctx context.Context, cmd game.Command) (game.View, error) {
	return s.apply(ctx, cmd, false)
}

// ApplyRemote is Apply for commands from the network. These may not read or
// write the server's files, and get ErrNotNow where a local command would
// just be ignored.
func (s *Server) ApplyRemote(ctx context.Context, cmd game.Command) (game.View, error) {
	return s.apply(ctx, cmd, true)
}

func (s *Server) apply(ctx context.Context, cmd game.Command, remote bool) (game.View, error) {
	rep := make(chan commandResult, 1)
	if err := s.request(ctx, commandMsg{cmd, remote, rep}); err != nil {
		return game.View{}, err
	}
	res := <-rep
	return res.View, res.Err
}

// View is the current state for display.
func (s *Server) View(ctx context.Context) (game.View, error) {
	rep := make(chan game.View, 1)
	if err := s.request(ctx, viewMsg{rep}); err != nil {
		return game.View{}, err
	}
	return <-rep, nil
}

// CanvasPNG is the current picture.
func (s *Server) CanvasPNG(ctx context.Context) ([]byte, error) {
	rep := make(chan pictureResult, 1)
	if err := s.request(ctx, pictureMsg{rep}); err != nil {
		return nil, err
	}
	res := <-rep
	return res.Data, res.Err
}

func (s *Server) connect(ctx context.Context, id string, client *clientBundle) (game.View, error) {
	rep := make(chan game.View, 1)
	if err := s.request(ctx, connectMsg{id, client, rep}); err != nil {
		return game.View{}, err
	}
	return <-rep, nil
}

func (s *Server) disconnect(id string) {
	select {
	case s.coreCh <- disconnectMsg{id}:
	case <-s.done:
	}
}

// commandOutput wraps a result for sending.
func commandOutput(view game.View, err error) CommandOutput {
	return CommandOutput{State: view, Err: comms.WrapError(err)}
}
