package game

import (
	"fmt"
	"strings"
)

// Mode picks which word list is in play.
type Mode int

const (
	Easy Mode = iota
	Hard
)

func (m Mode) String() string {
	switch m {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode reads "easy" or "hard", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("unknown mode: %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Phase is where a round is up to.
type Phase int

const (
	// Drawing is the drawer at work; guesses are ignored.
	Drawing Phase = iota
	// Guessing is the guesser using up attempts.
	Guessing
	// RoundOver is after a correct guess or the last wrong one.
	RoundOver
)

func (p Phase) String() string {
	switch p {
	case Drawing:
		return "drawing"
	case Guessing:
		return "guessing"
	case RoundOver:
		return "roundover"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for _, q := range []Phase{Drawing, Guessing, RoundOver} {
		if q.String() == string(b) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase: %q", b)
}

// Outcome is how a round ended.
type Outcome int

const (
	Unresolved Outcome = iota
	Correct
	Exhausted
)

// MaxAttempts is how many guesses the guesser gets each round.
const MaxAttempts = 3

// Masked is shown in place of the word while guessing. It is the same
// whatever the word's length.
const Masked = "----------"

type Player struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type GuessState struct {
	Phase             Phase
	GuesserIndex      int
	AttemptsRemaining int
	Outcome           Outcome
}

// Session is the whole state of a game, apart from the picture.
type Session struct {
	Players     []Player
	DrawerIndex int
	Mode        Mode
	WordList    []string
	CurrentWord string
	Guess       GuessState

	// Display is the word label: the word itself, or Masked while guessing.
	Display string
	// Notice is the attempts label, e.g. "Wrong. Attempts left: 2".
	Notice string
}

// Clone copies s deeply enough that changes to the copy never reach s.
func (s Session) Clone() Session {
	out := s
	out.Players = append([]Player(nil), s.Players...)
	out.WordList = append([]string(nil), s.WordList...)
	return out
}

// Drawer is the player drawing this round.
func (s Session) Drawer() Player {
	return s.Players[s.DrawerIndex]
}

// CurrentPlayer is whoever the turn label names: the drawer while drawing,
// the guesser after that.
func (s Session) CurrentPlayer() int {
	if s.Guess.Phase == Drawing {
		return s.DrawerIndex
	}
	return s.Guess.GuesserIndex
}
