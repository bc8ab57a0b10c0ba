package game

import (
	"errors"
	"image"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undeconstructed/pictogo/canvas"
)

type fakeWords map[string][]string

func (f fakeWords) Load(mode string) []string {
	return append([]string(nil), f[mode]...)
}

func newTestController(t *testing.T, players []string, words fakeWords) (*Controller, *canvas.Canvas) {
	t.Helper()
	cv := canvas.New(50, 50)
	c, err := NewController(Setup{
		Players: players,
		Words:   words,
		Surface: cv,
		Rand:    rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	return c, cv
}

func catDog(t *testing.T) *Controller {
	c, _ := newTestController(t, []string{"A", "B"}, fakeWords{"easy": {"cat", "dog"}, "hard": {"lighthouse"}})
	c.s.CurrentWord = "cat"
	c.s.Display = "cat"
	return c
}

func TestNew_tooFewPlayers(t *testing.T) {
	_, err := NewController(Setup{Players: []string{"solo"}, Words: fakeWords{}, Surface: canvas.New(1, 1)})
	assert.ErrorIs(t, err, ErrTooFewPlayers)
}

func TestNew_initialState(t *testing.T) {
	c, _ := newTestController(t, []string{"A", "B"}, fakeWords{"easy": {"cat", "dog"}})
	s := c.Session()

	assert.Equal(t, Drawing, s.Guess.Phase)
	assert.Equal(t, 0, s.DrawerIndex)
	assert.Equal(t, Easy, s.Mode)
	assert.Contains(t, []string{"cat", "dog"}, s.CurrentWord)
	assert.Equal(t, s.CurrentWord, s.Display)
	for _, p := range s.Players {
		assert.Zero(t, p.Score)
	}
}

func TestScenario_catDog(t *testing.T) {
	c := catDog(t)

	s, err := c.Apply(Command{Kind: AdvanceTurn})
	require.NoError(t, err)
	assert.Equal(t, Guessing, s.Guess.Phase)
	assert.Equal(t, 1, s.Guess.GuesserIndex)
	assert.Equal(t, 3, s.Guess.AttemptsRemaining)
	assert.Equal(t, "----------", s.Display)

	s, _ = c.Apply(Command{Kind: SubmitGuess, Text: "dog"})
	assert.Equal(t, 2, s.Guess.AttemptsRemaining)
	assert.Equal(t, Guessing, s.Guess.Phase)
	assert.Equal(t, "Wrong. Attempts left: 2", s.Notice)

	s, _ = c.Apply(Command{Kind: SubmitGuess, Text: "cat"})
	assert.Equal(t, RoundOver, s.Guess.Phase)
	assert.Equal(t, Correct, s.Guess.Outcome)
	assert.Equal(t, 0, s.Players[0].Score)
	assert.Equal(t, 1, s.Players[1].Score)
	assert.Equal(t, "cat", s.Display)
	assert.Equal(t, "Correct! Word: cat", s.Notice)

	s, _ = c.Apply(Command{Kind: AdvanceTurn})
	assert.Equal(t, Drawing, s.Guess.Phase)
	assert.Equal(t, 1, s.DrawerIndex)
	assert.Contains(t, []string{"cat", "dog"}, s.CurrentWord)
	assert.Equal(t, s.CurrentWord, s.Display)
	assert.Empty(t, s.Notice)
}

func TestGuess_caseAndSpace(t *testing.T) {
	for _, guess := range []string{"Apple", "apple ", " APPLE"} {
		c, _ := newTestController(t, []string{"A", "B"}, fakeWords{"easy": {"apple"}})
		c.AdvanceTurn()
		c.SubmitGuess(guess)
		s := c.Session()
		assert.Equal(t, RoundOver, s.Guess.Phase, guess)
		assert.Equal(t, 1, s.Players[1].Score, guess)
	}
}

func TestGuess_noPartialCredit(t *testing.T) {
	c, _ := newTestController(t, []string{"A", "B"}, fakeWords{"easy": {"apple"}})
	c.AdvanceTurn()
	c.SubmitGuess("appl")
	c.SubmitGuess("apples")
	s := c.Session()
	assert.Equal(t, 1, s.Guess.AttemptsRemaining)
	assert.Equal(t, 0, s.Players[1].Score)
}

func TestGuess_exhaustion(t *testing.T) {
	c := catDog(t)
	c.AdvanceTurn()

	want := []int{2, 1, 0}
	for i, n := range want {
		c.SubmitGuess("wrong")
		s := c.Session()
		assert.Equal(t, n, s.Guess.AttemptsRemaining)
		if i < 2 {
			assert.Equal(t, Guessing, s.Guess.Phase)
		}
	}

	s := c.Session()
	assert.Equal(t, RoundOver, s.Guess.Phase)
	assert.Equal(t, Exhausted, s.Guess.Outcome)
	assert.Equal(t, "cat", s.Display)
	assert.Equal(t, "No attempts left. Word: cat", s.Notice)
	assert.Equal(t, 0, s.Players[0].Score+s.Players[1].Score)

	// further guesses do nothing, even the right one
	c.SubmitGuess("cat")
	s = c.Session()
	assert.Equal(t, 0, s.Guess.AttemptsRemaining)
	assert.Equal(t, 0, s.Players[1].Score)
}

func TestGuess_ignoredWhileDrawing(t *testing.T) {
	c := catDog(t)
	c.SubmitGuess("cat")
	s := c.Session()
	assert.Equal(t, Drawing, s.Guess.Phase)
	assert.Equal(t, 0, s.Players[1].Score)
}

func TestGuess_blankIgnored(t *testing.T) {
	c := catDog(t)
	c.AdvanceTurn()
	c.SubmitGuess("")
	c.SubmitGuess("   ")
	assert.Equal(t, 3, c.Session().Guess.AttemptsRemaining)
}

func TestGuess_emptyWordList(t *testing.T) {
	c, _ := newTestController(t, []string{"A", "B"}, fakeWords{})
	s := c.Session()
	assert.Empty(t, s.WordList)
	assert.Equal(t, "", s.CurrentWord)

	c.AdvanceTurn()
	c.SubmitGuess("")
	s = c.Session()
	assert.Equal(t, Guessing, s.Guess.Phase)
	assert.Equal(t, 3, s.Guess.AttemptsRemaining)

	c.SubmitGuess("anything")
	assert.Equal(t, 2, c.Session().Guess.AttemptsRemaining)
}

func TestGuesserFollowsDrawer(t *testing.T) {
	players := []string{"A", "B", "C", "D"}
	c, _ := newTestController(t, players, fakeWords{"easy": {"x"}})

	for round := 0; round < 10; round++ {
		c.AdvanceTurn()
		s := c.Session()
		require.Equal(t, Guessing, s.Guess.Phase)
		assert.Equal(t, (s.DrawerIndex+1)%len(players), s.Guess.GuesserIndex)
		assert.Equal(t, round%len(players), s.DrawerIndex)

		// alternate forfeits and finished rounds
		if round%2 == 0 {
			c.SubmitGuess("x")
		}
		c.AdvanceTurn()
	}
}

func TestAdvance_forfeitKeepsScores(t *testing.T) {
	c := catDog(t)
	c.AdvanceTurn()
	c.SubmitGuess("dog")
	c.AdvanceTurn()

	s := c.Session()
	assert.Equal(t, Drawing, s.Guess.Phase)
	assert.Equal(t, 1, s.DrawerIndex)
	assert.Equal(t, 0, s.Players[0].Score+s.Players[1].Score)
}

func TestStartGuess_onlyFromDrawing(t *testing.T) {
	c := catDog(t)
	c.AdvanceTurn()
	c.SubmitGuess("dog")
	c.StartGuessPhase()
	assert.Equal(t, 2, c.Session().Guess.AttemptsRemaining)

	c.SubmitGuess("cat")
	_, err := c.Apply(Command{Kind: StartGuess})
	require.NoError(t, err)
	assert.Equal(t, RoundOver, c.Session().Guess.Phase)
}

func TestSetMode_whileDrawing(t *testing.T) {
	c := catDog(t)
	s, err := c.Apply(Command{Kind: SetMode, Mode: Hard})
	require.NoError(t, err)
	assert.Equal(t, Hard, s.Mode)
	assert.Equal(t, []string{"lighthouse"}, s.WordList)
	assert.Equal(t, "lighthouse", s.CurrentWord)
	assert.Equal(t, "lighthouse", s.Display)
}

func TestSetMode_whileGuessing(t *testing.T) {
	c := catDog(t)
	c.AdvanceTurn()
	c.SetMode(Hard)

	s := c.Session()
	assert.Equal(t, "cat", s.CurrentWord, "word in play stays")
	assert.Equal(t, Masked, s.Display)
	assert.Equal(t, []string{"lighthouse"}, s.WordList)

	c.SubmitGuess("cat")
	c.AdvanceTurn()
	assert.Equal(t, "lighthouse", c.Session().CurrentWord)
}

func TestSession_isSnapshot(t *testing.T) {
	c := catDog(t)
	s := c.Session()
	s.Players[0].Score = 99
	s.WordList[0] = "zebra"
	assert.Equal(t, 0, c.Session().Players[0].Score)
	assert.Equal(t, "cat", c.Session().WordList[0])
}

func TestApply_drawing(t *testing.T) {
	c, cv := newTestController(t, []string{"A", "B"}, fakeWords{})

	cmds := []Command{
		{Kind: SetColor, Color: canvas.Red},
		{Kind: SetWidth, Width: 5},
		{Kind: Press, Point: image.Pt(10, 10)},
		{Kind: Move, Point: image.Pt(40, 10)},
		{Kind: Release},
		{Kind: Move, Point: image.Pt(40, 40)},
	}
	for _, cmd := range cmds {
		_, err := c.Apply(cmd)
		require.NoError(t, err, cmd.Kind)
	}

	img := cv.Image()
	assert.Equal(t, canvas.Red, img.NRGBAAt(25, 10))
	assert.Equal(t, canvas.Background, img.NRGBAAt(40, 30), "move after release")

	_, err := c.Apply(Command{Kind: Clear})
	require.NoError(t, err)
	assert.Equal(t, canvas.Background, cv.Image().NRGBAAt(25, 10))

	v := c.View()
	assert.Equal(t, "red", v.Color)
	assert.Equal(t, 5, v.Width)
}

func TestApply_badWidth(t *testing.T) {
	c, cv := newTestController(t, []string{"A", "B"}, fakeWords{})
	_, err := c.Apply(Command{Kind: SetWidth, Width: 0})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, canvas.DefaultBrush, cv.Width())
}

func TestApply_saveFailureLeavesState(t *testing.T) {
	c := catDog(t)
	c.AdvanceTurn()
	before := c.Session()

	s, err := c.Apply(Command{Kind: Save, Path: filepath.Join(t.TempDir(), "no", "such", "dir.png")})
	var ioErr *canvas.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, before, s)
}

func TestApply_cancelledDialogs(t *testing.T) {
	c := catDog(t)
	_, err := c.Apply(Command{Kind: Save})
	assert.NoError(t, err)
	_, err = c.Apply(Command{Kind: Open})
	assert.NoError(t, err)
}

func TestApply_unknown(t *testing.T) {
	c := catDog(t)
	_, err := c.Apply(Command{})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestView_labels(t *testing.T) {
	c := catDog(t)
	v := c.View()
	assert.Equal(t, "A", v.Turn)
	assert.Equal(t, "cat", v.Word)
	assert.Equal(t, []string{"A: 0", "B: 0"}, v.Scores)
	assert.Equal(t, "black", v.Color)
	assert.Equal(t, canvas.DefaultBrush, v.Width)

	c.AdvanceTurn()
	v = c.View()
	assert.Equal(t, "B", v.Turn)
	assert.Equal(t, "A", v.Drawer)
	assert.Equal(t, Masked, v.Word)
	assert.Equal(t, "Attempts left: 3", v.Notice)

	c.SubmitGuess("cat")
	v = c.View()
	assert.Equal(t, "B", v.Turn)
	assert.Equal(t, []string{"A: 0", "B: 1"}, v.Scores)
}
