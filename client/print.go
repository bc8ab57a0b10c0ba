package client

import (
	"fmt"
	"strings"

	"github.com/undeconstructed/pictogo/canvas"
	"github.com/undeconstructed/pictogo/game"
)

func (r *Repl) printView(v game.View) {
	fmt.Fprintf(r.out, "Turn:   %s (%s)\n", v.Turn, v.Phase)
	fmt.Fprintf(r.out, "Word:   %s\n", v.Word)
	if v.Phase == game.Guessing {
		fmt.Fprintf(r.out, "Tries:  %d\n", v.Attempts)
	}
	fmt.Fprintf(r.out, "Scores: %s\n", strings.Join(v.Scores, ", "))
	fmt.Fprintf(r.out, "Brush:  %s %dpx, %s words\n", v.Color, v.Width, v.Mode)
	if v.Notice != "" {
		fmt.Fprintf(r.out, "> %s\n", v.Notice)
	}
}

func (r *Repl) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	for _, p := range game.Patterns {
		fmt.Fprintf(r.out, "\t%s\n", strings.ReplaceAll(string(p), ":*", " <...>"))
	}
	fmt.Fprintln(r.out, "\tline <x1> <y1> <x2> <y2>")
	fmt.Fprintln(r.out, "Blank line shows the state again.")
}

// prompt names whoever acts next, in the brush colour.
func (r *Repl) prompt(v game.View) string {
	text := fmt.Sprintf("%s|%s» ", v.Turn, v.Phase)

	c, err := canvas.ParseColor(v.Color)
	if err != nil {
		return text
	}
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	return r.out.String(text).Foreground(r.out.Color(hex)).String()
}
