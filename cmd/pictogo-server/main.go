package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/undeconstructed/pictogo/canvas"
	"github.com/undeconstructed/pictogo/config"
	"github.com/undeconstructed/pictogo/game"
	"github.com/undeconstructed/pictogo/server"
	"github.com/undeconstructed/pictogo/words"
)

func main() {
	configFile := flag.String("config", "", "TOML settings file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Level() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	var source game.WordSource = words.Embedded()
	if cfg.WordsDir != "" {
		source = words.OpenDir(cfg.WordsDir)
	}

	cv := canvas.New(cfg.Canvas.Width, cfg.Canvas.Height)

	ctl, err := game.NewController(game.Setup{
		Players: cfg.Players,
		Mode:    cfg.Mode,
		Words:   source,
		Surface: cv,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start game")
	}

	srv := server.NewServer(ctl, cv, server.Options{
		WebAddr:  cfg.Web.Addr,
		Origins:  cfg.Web.Origins,
		GRPCAddr: cfg.GRPC.Addr,
		TCPAddr:  cfg.TCP.Addr,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = srv.Run(ctx)
	log.Info().Err(err).Msg("server return")
	if err != nil {
		os.Exit(1)
	}
}
