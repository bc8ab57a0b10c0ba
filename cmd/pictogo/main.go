package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/undeconstructed/pictogo/canvas"
	"github.com/undeconstructed/pictogo/client"
	"github.com/undeconstructed/pictogo/config"
	"github.com/undeconstructed/pictogo/game"
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
	// the REPL owns the terminal, so only problems are logged
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if cfg.Level() > zerolog.WarnLevel {
		zerolog.SetGlobalLevel(cfg.Level())
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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	repl := client.NewRepl(ctl, cfg.Repl.History, os.Stdout)
	if err := repl.Run(ctx); err != nil {
		log.Error().Err(err).Msg("repl failed")
		os.Exit(1)
	}
}
