package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup is what a Controller is made from.
type Setup struct {
	Players []string
	Mode    Mode
	Words   WordSource
	Surface Surface
	// Rand picks words; nil means seeded from the clock.
	Rand *rand.Rand
}

// Controller runs turns and guesses for one session, and passes drawing
// commands to the canvas. It is not safe for concurrent use: every call is
// expected from one goroutine, in event order.
type Controller struct {
	words   WordSource
	surface Surface
	rng     *rand.Rand
	log     zerolog.Logger

	s Session
}

// NewController starts a session with the first player drawing.
func NewController(setup Setup) (*Controller, error) {
	if len(setup.Players) < 2 {
		return nil, ErrTooFewPlayers
	}
	if setup.Words == nil || setup.Surface == nil {
		return nil, fmt.Errorf("%w: missing words or surface", ErrBadRequest)
	}

	rng := setup.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Controller{
		words:   setup.Words,
		surface: setup.Surface,
		rng:     rng,
		log:     log.With().Str("game", "controller").Logger(),
	}

	for _, name := range setup.Players {
		c.s.Players = append(c.s.Players, Player{Name: name})
	}
	c.s.Mode = setup.Mode
	c.s.Guess.GuesserIndex = c.nextIndex()
	c.loadWords()
	c.pickWord()
	c.s.Display = c.s.CurrentWord

	return c, nil
}

// Session is a snapshot of the current state.
func (c *Controller) Session() Session {
	return c.s.Clone()
}

// Apply is the single entry point for input events. It returns the state
// after the command. Errors are never fatal and leave the game as it was;
// wrong-phase input is silently ignored rather than reported.
func (c *Controller) Apply(cmd Command) (Session, error) {
	var err error

	switch cmd.Kind {
	case StartGuess:
		c.StartGuessPhase()
	case AdvanceTurn:
		c.AdvanceTurn()
	case SubmitGuess:
		c.SubmitGuess(cmd.Text)
	case SetMode:
		c.SetMode(cmd.Mode)
	case SetColor:
		c.surface.SetColor(cmd.Color)
	case SetWidth:
		err = c.surface.SetWidth(cmd.Width)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	case Clear:
		c.surface.Clear()
	case Save:
		err = c.surface.ExportTo(cmd.Path)
	case Open:
		err = c.surface.ImportFrom(cmd.Data)
	case Press:
		c.surface.BeginStroke(cmd.Point)
	case Move:
		c.surface.ExtendStroke(cmd.Point)
	case Release:
		c.surface.EndStroke()
	case Resize:
		c.surface.Resize(cmd.Size.X, cmd.Size.Y)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Kind)
	}

	if err != nil {
		c.log.Info().Err(err).Stringer("command", cmd.Kind).Msg("command failed")
	}

	return c.Session(), err
}

// StartGuessPhase hands over to the guesser. It only works while drawing.
func (c *Controller) StartGuessPhase() {
	if c.s.Guess.Phase != Drawing {
		return
	}

	c.s.Guess = GuessState{
		Phase:             Guessing,
		GuesserIndex:      c.nextIndex(),
		AttemptsRemaining: MaxAttempts,
	}
	c.s.Display = Masked
	c.s.Notice = fmt.Sprintf("Attempts left: %d", c.s.Guess.AttemptsRemaining)

	c.log.Debug().Int("guesser", c.s.Guess.GuesserIndex).Msg("guessing starts")
}

// SubmitGuess checks a guess. Outside the guessing phase, or for a blank
// guess, it does nothing.
func (c *Controller) SubmitGuess(text string) {
	if c.s.Guess.Phase != Guessing {
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	g := &c.s.Guess

	if sameWord(text, c.s.CurrentWord) {
		c.s.Players[g.GuesserIndex].Score++
		c.endRound(Correct)
		c.s.Notice = "Correct! Word: " + c.s.CurrentWord
		return
	}

	g.AttemptsRemaining--
	if g.AttemptsRemaining <= 0 {
		g.AttemptsRemaining = 0
		c.endRound(Exhausted)
		c.s.Notice = "No attempts left. Word: " + c.s.CurrentWord
		return
	}

	c.s.Notice = fmt.Sprintf("Wrong. Attempts left: %d", g.AttemptsRemaining)
}

func (c *Controller) endRound(outcome Outcome) {
	c.s.Guess.Phase = RoundOver
	c.s.Guess.Outcome = outcome
	c.s.Display = c.s.CurrentWord

	c.log.Debug().Int("outcome", int(outcome)).Msg("round over")
}

// AdvanceTurn is "next turn": from drawing it starts the guessing, otherwise
// it moves on to the next drawer. Skipping an unfinished guess forfeits it.
func (c *Controller) AdvanceTurn() {
	switch c.s.Guess.Phase {
	case Drawing:
		c.StartGuessPhase()
	case Guessing:
		c.log.Debug().Int("guesser", c.s.Guess.GuesserIndex).Msg("round forfeited")
		c.nextDrawer()
	default:
		c.nextDrawer()
	}
}

// nextIndex is the player after the drawer.
func (c *Controller) nextIndex() int {
	return (c.s.DrawerIndex + 1) % len(c.s.Players)
}

func (c *Controller) nextDrawer() {
	c.s.DrawerIndex = c.nextIndex()
	c.loadWords()
	c.pickWord()

	c.s.Guess = GuessState{Phase: Drawing, GuesserIndex: c.nextIndex()}
	c.s.Display = c.s.CurrentWord
	c.s.Notice = ""

	c.log.Debug().Int("drawer", c.s.DrawerIndex).Msg("next drawer")
}

// SetMode switches word list. While guessing, the word in play stays and the
// new list is used from the next round.
func (c *Controller) SetMode(m Mode) {
	c.s.Mode = m
	c.loadWords()
	if c.s.Guess.Phase == Guessing {
		return
	}
	c.pickWord()
	c.s.Display = c.s.CurrentWord
}

func (c *Controller) loadWords() {
	c.s.WordList = c.words.Load(c.s.Mode.String())
	if len(c.s.WordList) == 0 {
		c.log.Warn().Stringer("mode", c.s.Mode).Msg("word list is empty")
	}
}

func (c *Controller) pickWord() {
	c.s.CurrentWord = randomWord(c.rng, c.s.WordList)
}
