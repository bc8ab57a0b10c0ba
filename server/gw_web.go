package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/undeconstructed/pictogo/game"
)

// maxUpload bounds an imported picture.
const maxUpload = 16 << 20

func runWebGateway(ctx context.Context, server *Server, addr string) error {
	log := log.With().Str("gw", "web").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("web listening on http://%v", ln.Addr())

	s := &http.Server{
		Handler:     server.Router(),
		ReadTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	err = s.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Router is the gin engine for the REST API and the websocket.
func (s *Server) Router() *gin.Engine {
	log := log.With().Str("gw", "web").Logger()

	rh := restHandler{
		server: s,
		log:    log,
	}

	ch := commsHandler{
		server:  s,
		origins: s.opts.Origins,
		log:     log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return originAllowed(origin, s.opts.Origins)
		},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       time.Hour,
	}))

	a := r.Group("/api")
	a.GET("/state", rh.getState)
	a.POST("/command", rh.postCommand)
	a.GET("/canvas.png", rh.getCanvas)
	a.POST("/canvas", rh.postCanvas)
	r.GET("/ws", ch.serveWS)

	return r
}

// originAllowed matches the host of origin against host patterns, the same
// way the websocket does.
func originAllowed(origin string, patterns []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, p := range patterns {
		if ok, _ := path.Match(strings.ToLower(p), host); ok {
			return true
		}
	}
	return false
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

type restHandler struct {
	server *Server
	log    zerolog.Logger
}

func (rh *restHandler) getState(c *gin.Context) {
	view, err := rh.server.View(c.Request.Context())
	if err != nil {
		c.String(http.StatusServiceUnavailable, "error: %v", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (rh *restHandler) postCommand(c *gin.Context) {
	in := CommandInput{}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "bad body: %v", err)
		return
	}

	cmd, err := game.ParseCommand(game.CommandString(in.Command))
	if err != nil {
		c.JSON(http.StatusBadRequest, commandOutput(game.View{}, err))
		return
	}

	rh.apply(c, cmd)
}

func (rh *restHandler) getCanvas(c *gin.Context) {
	data, err := rh.server.CanvasPNG(c.Request.Context())
	if err != nil {
		rh.log.Error().Err(err).Msg("encode canvas error")
		c.String(http.StatusInternalServerError, "error: %v", err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// postCanvas opens the uploaded image on the canvas.
func (rh *restHandler) postCanvas(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpload))
	if err != nil {
		c.String(http.StatusBadRequest, "bad body: %v", err)
		return
	}

	rh.apply(c, game.Command{Kind: game.Open, Data: data})
}

// apply runs a command, replying with the state and any game error. Only a
// dead server is an HTTP error.
func (rh *restHandler) apply(c *gin.Context, cmd game.Command) {
	view, err := rh.server.ApplyRemote(c.Request.Context(), cmd)
	if errors.Is(err, ErrStopped) {
		c.String(http.StatusServiceUnavailable, "error: %v", err)
		return
	}
	c.JSON(http.StatusOK, commandOutput(view, err))
}
