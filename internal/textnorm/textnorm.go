// Package textnorm provides accent-insensitive, stopword-stripped string
// normalization and fuzzy comparison for club and team names.
//
// Club names in federation exports are wildly inconsistent: the same club
// appears as "C.B. Rinconada", "Club Bádminton Rinconada" or "CB RINCONADA"
// depending on who typed it. Normalize reduces all of these to a common
// form so that identity checks (loaned-player detection, category lookup)
// can compare them reliably.
//
// All functions are pure and deterministic.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are tokens stripped during normalization: sport and legal-form
// markers plus sponsor prefixes that clubs attach and drop between seasons.
// Longer tokens come first so "c.d.b." is consumed before "cdb" or "cd".
var stopwords = []string{
	"club", "badminton", "deportivo",
	"c.d.b.", "c.b.", "c.d.", "cdb", "cb", "cd",
	"mercapinturas", "recreativo", "ies",
	"asociacion", "agrupacion",
}

// accentStripper decomposes characters (NFD) and drops combining marks,
// turning "Bádminton Alfajarín" into "Badminton Alfajarin".
var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveAccents strips diacritical marks from s.
// Returns s unchanged if the transform fails (never expected in practice).
func RemoveAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize reduces a club or team name to its comparable core:
// accents removed, lowercased, stopwords stripped, punctuation collapsed
// to single spaces.
func Normalize(s string) string {
	s = RemoveAccents(strings.ToLower(s))
	for _, w := range stopwords {
		s = strings.ReplaceAll(s, w, "")
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns a score in [0,1] for how alike two club/team names are.
//
// Both names are normalized first. A containment match (one normalized form
// being a substring of the other) is treated as high confidence and scores
// 1.0. Otherwise the score is the SequenceMatcher ratio of the normalized
// forms; the matcher is order-sensitive, so both argument orders are tried
// and the higher ratio wins, keeping the score symmetric. Empty or
// unparseable input scores 0.0.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" || nb == "" {
		return 0.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1.0
	}

	ra := splitRunes(na)
	rb := splitRunes(nb)
	score := difflib.NewMatcher(ra, rb).Ratio()
	if rev := difflib.NewMatcher(rb, ra).Ratio(); rev > score {
		score = rev
	}
	return score
}

// splitRunes breaks a string into one-rune elements so the line-oriented
// SequenceMatcher compares character sequences.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
