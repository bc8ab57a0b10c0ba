package game

import (
	"fmt"

	"github.com/undeconstructed/pictogo/canvas"
)

// View is what a front end shows: the labels beside the canvas.
type View struct {
	Turn     string   `json:"turn"`
	Drawer   string   `json:"drawer"`
	Players  []Player `json:"players"`
	Scores   []string `json:"scores"`
	Word     string   `json:"word"`
	Notice   string   `json:"notice"`
	Phase    Phase    `json:"phase"`
	Attempts int      `json:"attempts"`
	Mode     Mode     `json:"mode"`
	Color    string   `json:"color"`
	Width    int      `json:"width"`
}

// View describes the current state for display.
func (c *Controller) View() View {
	return MakeView(c.s, c.surface)
}

// MakeView builds the labels for s. The surface may be nil.
func MakeView(s Session, surface Surface) View {
	v := View{
		Turn:     s.Players[s.CurrentPlayer()].Name,
		Drawer:   s.Drawer().Name,
		Players:  append([]Player(nil), s.Players...),
		Word:     s.Display,
		Notice:   s.Notice,
		Phase:    s.Guess.Phase,
		Attempts: s.Guess.AttemptsRemaining,
		Mode:     s.Mode,
	}
	for _, p := range s.Players {
		v.Scores = append(v.Scores, fmt.Sprintf("%s: %d", p.Name, p.Score))
	}
	if surface != nil {
		v.Color = canvas.ColorName(surface.Color())
		v.Width = surface.Width()
	}
	return v
}
