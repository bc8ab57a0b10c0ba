package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/undeconstructed/pictogo/comms"
)

// runTcpGateway speaks the same messages as the websocket, one JSON
// message per line.
func runTcpGateway(ctx context.Context, server *Server, addr string) error {
	log := log.With().Str("gw", "tcp").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("comms listening on tcp:%v", ln.Addr())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	m := &tcpManager{
		server: server,
		log:    log,
	}
	err = m.Serve(ctx, ln)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

type tcpManager struct {
	server *Server
	log    zerolog.Logger
}

func (m *tcpManager) Serve(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go m.manageTcpConnection(ctx, conn)
	}
}

func (m *tcpManager) manageTcpConnection(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	log := m.log.With().Str("client", id).Str("addr", conn.RemoteAddr().String()).Logger()
	log.Info().Msgf("connecting")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	upStream := comms.NewDecoder(conn)
	dnStream := comms.NewEncoder(conn)

	downCh := make(chan interface{}, 100)

	view, err := m.server.connect(ctx, id, &clientBundle{downCh})
	if err != nil {
		log.Info().Err(err).Msg("refusing")
		return
	}
	defer m.server.disconnect(id)

	if err := dnStream.Encode("connected", Connected{ID: id, State: view}); err != nil {
		log.Info().Err(err).Msg("send error")
		return
	}

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			msg, err := encodeDown(down)
			if err != nil {
				log.Info().Err(err).Msg("encode error")
				continue
			}
			if err := dnStream.Send(msg); err != nil {
				log.Info().Err(err).Msg("send error")
				cancel()
				return
			}
		}
	}()

	lim := newLimiter()

	for {
		// read conn, despatch into server
		msg, err := upStream.Decode()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Info().Err(err).Msg("decode error")
			}
			return
		}
		log.Debug().Msgf("received: %s %s", msg.Head, string(msg.Data))

		f := msg.Head.Fields()
		switch f[0] {
		case "command":
			if len(f) < 2 {
				log.Info().Msgf("command without id: %v", f)
				continue
			}
			out := m.server.handleCommand(ctx, lim, msg)
			select {
			case downCh <- toSend{"response:" + f[1], out}:
			default:
				log.Info().Msg("client lagging")
			}
		default:
			log.Info().Msgf("junk from client: %v", f)
		}
	}
}
