package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/undeconstructed/pictogo/comms"
)

type commsHandler struct {
	server  *Server
	origins []string
	log     zerolog.Logger
}

// serveWS speaks comms messages over a websocket. Up, "command:<id>" with
// the command text as body. Down, "connected" first, then "response:<id>"
// for each command and "state" and "canvas" as things change.
func (ch *commsHandler) serveWS(c *gin.Context) {
	id := uuid.NewString()
	log := ch.log.With().Str("client", id).Str("addr", c.Request.RemoteAddr).Logger()
	log.Info().Msgf("connecting")

	server := ch.server

	socket, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		Subprotocols:   []string{"comms"},
		OriginPatterns: ch.origins,
	})
	if err != nil {
		log.Info().Err(err).Msg("websocket accept error")
		return
	}
	defer socket.Close(websocket.StatusInternalError, "the sky is falling")

	if socket.Subprotocol() != "comms" {
		socket.Close(websocket.StatusPolicyViolation, "client must speak the comms subprotocol")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// start real work

	downCh := make(chan interface{}, 100)

	view, err := server.connect(ctx, id, &clientBundle{downCh})
	if err != nil {
		log.Info().Err(err).Msg("refusing")
		socket.Close(websocket.StatusTryAgainLater, "cannot connect")
		return
	}
	defer server.disconnect(id)

	msg, _ := comms.Encode("connected", Connected{ID: id, State: view})
	if err := sendDownWs(ctx, socket, msg); err != nil {
		log.Info().Err(err).Msg("send error")
		return
	}

	go func() {
		// read downCh, write to conn
		for {
			select {
			case down, ok := <-downCh:
				if !ok {
					return
				}
				msg, err := encodeDown(down)
				if err != nil {
					log.Info().Err(err).Msg("encode error")
					continue
				}
				if err := sendDownWs(ctx, socket, msg); err != nil {
					log.Info().Err(err).Msg("send error")
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	lim := newLimiter()

	for {
		// read conn, despatch into server
		msg, err := readMessageWs(ctx, socket)
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			return
		}
		if err != nil {
			log.Info().Err(err).Msg("client read error")
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
			out := server.handleCommand(ctx, lim, msg)
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

func sendDownWs(ctx context.Context, ws *websocket.Conn, msg comms.Message) error {
	w, err := ws.Writer(ctx, websocket.MessageText)
	if err != nil {
		return err
	}
	defer w.Close()

	tmsg, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if _, err = w.Write(tmsg); err != nil {
		return err
	}

	return w.Close()
}

func readMessageWs(ctx context.Context, c *websocket.Conn) (comms.Message, error) {
	typ, r, err := c.Reader(ctx)
	if err != nil {
		return comms.Message{}, err
	}

	if typ != websocket.MessageText {
		return comms.Message{}, fmt.Errorf("client sent a %v", typ)
	}

	// text type means fully encapsulated in JSON
	bytes, err := io.ReadAll(r)
	if err != nil {
		return comms.Message{}, err
	}
	msg := comms.Message{}
	if err := json.Unmarshal(bytes, &msg); err != nil {
		return comms.Message{}, err
	}
	return msg, nil
}
