// Package client is the terminal front end: a readline loop that turns
// typed lines into commands for a local game.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	rl "github.com/chzyer/readline"
	"github.com/mitchellh/go-homedir"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/undeconstructed/pictogo/canvas"
	"github.com/undeconstructed/pictogo/game"
)

// Game is what the REPL drives. *game.Controller is one.
type Game interface {
	Apply(cmd game.Command) (game.Session, error)
	View() game.View
}

type Repl struct {
	game    Game
	history string
	out     *termenv.Output
	log     zerolog.Logger
}

// NewRepl makes a REPL for g, keeping line history in the history file
// (none if empty) and writing to out.
func NewRepl(g Game, history string, out io.Writer) *Repl {
	return &Repl{
		game:    g,
		history: history,
		out:     termenv.NewOutput(out),
		log:     log.With().Str("client", "repl").Logger(),
	}
}

func (r *Repl) completer() *rl.PrefixCompleter {
	var colours []rl.PrefixCompleterInterface
	for _, name := range canvas.PaletteNames() {
		colours = append(colours, rl.PcItem(name))
	}
	var widths []rl.PrefixCompleterInterface
	for _, w := range canvas.BrushSizes {
		widths = append(widths, rl.PcItem(fmt.Sprint(w)))
	}

	return rl.NewPrefixCompleter(
		rl.PcItem("start"),
		rl.PcItem("next"),
		rl.PcItem("guess"),
		rl.PcItem("mode",
			rl.PcItem(game.Easy.String()),
			rl.PcItem(game.Hard.String()),
		),
		rl.PcItem("color", colours...),
		rl.PcItem("width", widths...),
		rl.PcItem("press"),
		rl.PcItem("move"),
		rl.PcItem("release"),
		rl.PcItem("line"),
		rl.PcItem("clear"),
		rl.PcItem("save"),
		rl.PcItem("open"),
		rl.PcItem("resize"),
		rl.PcItem("help"),
	)
}

// Run reads lines until EOF, an interrupt on an empty line, or ctx ending.
func (r *Repl) Run(ctx context.Context) error {
	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		HistoryFile:       r.history,
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	r.printView(r.game.View())

	for {
		l.SetPrompt(r.prompt(r.game.View()))

		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		} else if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		r.run(line)
	}

	return nil
}

// run executes a line, reporting a failure instead of returning it.
func (r *Repl) run(line string) {
	if err := r.Exec(line); err != nil {
		r.log.Debug().Err(err).Str("line", line).Msg("command failed")
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

// Exec runs one typed line.
func (r *Repl) Exec(line string) error {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		r.printView(r.game.View())
		return nil
	case "help", "?":
		r.printHelp()
		return nil
	}

	lines, err := Translate(line)
	if err != nil {
		return err
	}

	for _, cs := range lines {
		cmd, err := game.ParseCommand(cs)
		if err != nil {
			return err
		}
		if err := r.resolvePaths(&cmd); err != nil {
			return err
		}
		if _, err := r.game.Apply(cmd); err != nil {
			return err
		}
	}

	r.printView(r.game.View())
	return nil
}

// resolvePaths expands ~ in save and open paths, and reads the file to open.
func (r *Repl) resolvePaths(cmd *game.Command) error {
	if cmd.Path == "" {
		return nil
	}

	path, err := homedir.Expand(cmd.Path)
	if err != nil {
		return err
	}
	cmd.Path = path

	if cmd.Kind == game.Open {
		data, err := os.ReadFile(path)
		if err != nil {
			return &canvas.IOError{Op: "import", Path: path, Err: err}
		}
		cmd.Data = data
	}
	return nil
}

// Translate turns a typed line into protocol commands. Words can be
// separated by spaces or colons, so "press 10 20" and "press:10:20" are the
// same. "line x1 y1 x2 y2" is a whole stroke.
func Translate(line string) ([]game.CommandString, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, errors.New("empty line")
	}

	first, rest := line, ""
	if i := strings.IndexAny(line, " :"); i >= 0 {
		first, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	one := func(s string) ([]game.CommandString, error) {
		return []game.CommandString{game.CommandString(s)}, nil
	}

	switch first {
	case "g":
		first = "guess"
	case "n":
		first = "next"
	}

	switch first {
	case "guess", "save", "open", "mode", "color", "colour", "width":
		// the rest is one argument, spaces and all
		return one(first + ":" + rest)
	case "press", "move", "resize":
		args := splitArgs(rest)
		return one(strings.Join(append([]string{first}, args...), ":"))
	case "line":
		args := splitArgs(rest)
		if len(args) != 4 {
			return nil, fmt.Errorf("%w: line <x1> <y1> <x2> <y2>", game.ErrBadRequest)
		}
		return []game.CommandString{
			game.CommandString("press:" + args[0] + ":" + args[1]),
			game.CommandString("move:" + args[2] + ":" + args[3]),
			"release",
		}, nil
	default:
		if rest != "" {
			return one(first + ":" + rest)
		}
		return one(first)
	}
}

func splitArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ':' || r == ','
	})
}
