package game

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/undeconstructed/pictogo/canvas"
)

// Kind says what a Command does.
type Kind int

const (
	StartGuess Kind = iota + 1
	AdvanceTurn
	SubmitGuess
	SetColor
	SetWidth
	SetMode
	Clear
	Save
	Open
	Press
	Move
	Release
	Resize
)

var kindNames = map[Kind]string{
	StartGuess:  "start",
	AdvanceTurn: "next",
	SubmitGuess: "guess",
	SetColor:    "color",
	SetWidth:    "width",
	SetMode:     "mode",
	Clear:       "clear",
	Save:        "save",
	Open:        "open",
	Press:       "press",
	Move:        "move",
	Release:     "release",
	Resize:      "resize",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one input event for a Controller. Only the fields its Kind
// needs are read.
type Command struct {
	Kind  Kind
	Text  string
	Point image.Point
	Color color.NRGBA
	Width int
	Size  image.Point
	Mode  Mode
	Path  string
	Data  []byte
}

// CommandString is from the user, to do something, e.g. "guess:apple".
type CommandString string

// First gets just the first part of the string
func (c CommandString) First() string {
	return strings.SplitN(string(c), ":", 2)[0]
}

// Rest gets everything after the first part, colons and all.
func (c CommandString) Rest() string {
	parts := strings.SplitN(string(c), ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// CommandPattern defines something that is allowed
type CommandPattern string

// First gets just the first part of the pattern
func (c CommandPattern) First() string {
	return strings.SplitN(string(c), ":", 2)[0]
}

// Match will try to match a command to the pattern. If it matches, you will
// get the parts of the command.
func (p CommandPattern) Match(c CommandString) []string {
	ps, cs := strings.Split(string(p), ":"), strings.Split(string(c), ":")

	if len(cs) < len(ps) {
		// command can be longer, but not shorter
		return nil
	}

	for i := range ps {
		pi := ps[i]
		ci := cs[i]

		if pi != "*" && pi != ci {
			return nil
		}
	}

	return cs
}

// Patterns are the forms ParseCommand accepts, for help and completion.
var Patterns = []CommandPattern{
	"start",
	"next",
	"guess:*",
	"mode:*",
	"color:*",
	"width:*",
	"press:*:*",
	"move:*:*",
	"release",
	"clear",
	"save:*",
	"open:*",
	"resize:*:*",
}

// ParseCommand turns the text form of a command into a Command. Text after
// "guess:", "save:" and "open:" is taken whole, so it may contain colons.
// "open:" only sets Path; whoever reads the file fills in Data.
func ParseCommand(s CommandString) (Command, error) {
	s = CommandString(strings.TrimSpace(string(s)))

	switch s.First() {
	case "start":
		return Command{Kind: StartGuess}, nil
	case "next":
		return Command{Kind: AdvanceTurn}, nil
	case "guess":
		return Command{Kind: SubmitGuess, Text: s.Rest()}, nil
	case "mode":
		m, err := ParseMode(s.Rest())
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return Command{Kind: SetMode, Mode: m}, nil
	case "color", "colour":
		c, err := canvas.ParseColor(s.Rest())
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return Command{Kind: SetColor, Color: c}, nil
	case "width":
		w, err := strconv.Atoi(strings.TrimSpace(s.Rest()))
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad width %q", ErrBadRequest, s.Rest())
		}
		return Command{Kind: SetWidth, Width: w}, nil
	case "press", "move", "resize":
		args := CommandPattern("*:*:*").Match(s)
		if len(args) != 3 {
			return Command{}, fmt.Errorf("%w: want %s:<x>:<y>", ErrBadRequest, s.First())
		}
		x, err1 := strconv.Atoi(strings.TrimSpace(args[1]))
		y, err2 := strconv.Atoi(strings.TrimSpace(args[2]))
		if err1 != nil || err2 != nil {
			return Command{}, fmt.Errorf("%w: bad numbers in %q", ErrBadRequest, s)
		}
		switch s.First() {
		case "press":
			return Command{Kind: Press, Point: image.Pt(x, y)}, nil
		case "move":
			return Command{Kind: Move, Point: image.Pt(x, y)}, nil
		default:
			return Command{Kind: Resize, Size: image.Pt(x, y)}, nil
		}
	case "release":
		return Command{Kind: Release}, nil
	case "clear":
		return Command{Kind: Clear}, nil
	case "save":
		return Command{Kind: Save, Path: s.Rest()}, nil
	case "open":
		return Command{Kind: Open, Path: s.Rest()}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, s.First())
	}
}
