package game

import (
	"math/rand"
	"strings"
)

// randomWord picks uniformly from list, or gives "" for an empty list.
func randomWord(rng *rand.Rand, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rng.Intn(len(list))]
}

// sameWord compares a guess with the word, ignoring case and surrounding
// space. Only exact matches count.
func sameWord(guess, word string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(word))
}
