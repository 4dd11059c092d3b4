package helpers

import (
	"strings"
	"unicode"

	"github.com/nbutton23/zxcvbn-go"
	"github.com/nbutton23/zxcvbn-go/match"
)

// WeakPasswordScore is the highest zxcvbn score still considered weak.
const WeakPasswordScore = 2

// PasswordStrength scores passwords with zxcvbn, penalising the user's own inputs.
type PasswordStrength struct{}

// Score returns the zxcvbn score (0..4) and suggestions that explain a low score.
// Suggestions are empty for passwords above WeakPasswordScore.
func (PasswordStrength) Score(password string, hints []string) (int, []string) {
	if password == "" {
		return 0, suggestionsFor(password, nil)
	}
	res := zxcvbn.PasswordStrength(password, hints)
	if res.Score > WeakPasswordScore {
		return res.Score, nil
	}
	return res.Score, suggestionsFor(password, res.MatchSequence)
}

func suggestionsFor(password string, seq []match.Match) []string {
	if password == "" || len(seq) == 0 {
		return []string{
			"Use a few words, avoid common phrases",
			"No need for symbols, digits, or uppercase letters",
		}
	}

	longest := seq[0]
	for _, m := range seq[1:] {
		if len(m.Token) > len(longest.Token) {
			longest = m
		}
	}

	out := []string{"Add another word or two. Uncommon words are better."}
	pattern := strings.ToLower(longest.Pattern)
	switch {
	case strings.Contains(pattern, "dict"):
		if len(seq) == 1 {
			out = append(out, "Avoid common words and names, including your own email")
		}
		if isCapitalized(longest.Token) {
			out = append(out, "Capitalization doesn't help very much")
		} else if isAllUpper(longest.Token) {
			out = append(out, "All-uppercase is almost as easy to guess as all-lowercase")
		}
	case strings.Contains(pattern, "spatial"):
		out = append(out, "Use a longer keyboard pattern with more turns")
	case strings.Contains(pattern, "repeat"):
		out = append(out, "Avoid repeated words and characters")
	case strings.Contains(pattern, "sequence"):
		out = append(out, "Avoid sequences")
	case strings.Contains(pattern, "date"), strings.Contains(pattern, "year"):
		out = append(out, "Avoid dates and years that are associated with you")
	}
	return out
}

func isCapitalized(s string) bool {
	r := []rune(s)
	if len(r) < 2 || !unicode.IsUpper(r[0]) {
		return false
	}
	return strings.ToLower(string(r[1:])) == string(r[1:])
}

func isAllUpper(s string) bool {
	return s != "" && strings.ToUpper(s) == s && strings.ToLower(s) != s
}
