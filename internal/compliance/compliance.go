// Package compliance evaluates rosters against per-category rule sets.
//
// Two cooperating, idempotent evaluators work per team-group: Audit
// produces one summary row per team, Annotate writes violation text onto
// every affected player row. Both are stateless: rule sets and category
// assignments are passed explicitly on every call, and re-running either
// without input changes produces identical output.
package compliance

import (
	"sort"
	"strings"
	"time"

	"rosteraudit/internal/roster"
)

// Verdict is the closed set of team-level audit outcomes. Teams whose
// category has no rule set are Pending, never Pass or Fail.
type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictFail    Verdict = "FAIL"
	VerdictPending Verdict = "PENDING"
)

// TeamSummary is one team's audit result. Summaries are recomputed
// wholesale on every Audit call and never persisted on their own.
type TeamSummary struct {
	Team     string `json:"team"`
	Category string `json:"category"`

	Total int `json:"total"`
	Men   int `json:"men"`
	Women int `json:"women"`

	LoanedMen   int `json:"loaned_men"`
	LoanedWomen int `json:"loaned_women"`

	// MaxLoanedMen/Women are the ratio-table limits the counts were
	// checked against; zero-valued for Pending teams.
	MaxLoanedMen   int `json:"max_loaned_men"`
	MaxLoanedWomen int `json:"max_loaned_women"`

	Verdict Verdict  `json:"verdict"`
	Issues  []string `json:"issues,omitempty"`
	Details string   `json:"details"`
}

// teamCounts aggregates one team's players.
type teamCounts struct {
	total, men, women      int
	loanedMen, loanedWomen int
}

// countPlayers tallies a player group. With activeOnly, excluded players
// are left out of every figure; they never count toward totals, gender
// minimums or loan ratios.
func countPlayers(players []*roster.Player, activeOnly bool) teamCounts {
	var c teamCounts
	for _, p := range players {
		if activeOnly && p.Excluded {
			continue
		}
		c.total++
		switch p.GenderCode {
		case "M":
			c.men++
			if p.Loaned {
				c.loanedMen++
			}
		case "F":
			c.women++
			if p.Loaned {
				c.loanedWomen++
			}
		}
	}
	return c
}

// activePlayers filters out excluded rows.
func activePlayers(players []*roster.Player) []*roster.Player {
	var out []*roster.Player
	for _, p := range players {
		if !p.Excluded {
			out = append(out, p)
		}
	}
	return out
}

// isDomestic reports whether the country field names the home federation.
func isDomestic(country string) bool {
	c := strings.TrimSpace(country)
	return strings.EqualFold(c, "SPAIN") || strings.EqualFold(c, "ESPAÑA")
}

// sortedTeams returns the table's team names in lexical order so both
// evaluators process teams deterministically.
func sortedTeams(t *roster.Table) []string {
	teams := t.Teams()
	sort.Strings(teams)
	return teams
}

// birthDateLayouts are the formats birth dates arrive in. Anything else is
// unparsable and the player is treated as an adult (fail-safe).
var birthDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
}

// isAdult reports whether the player is of age in the reference year,
// computed as year difference only. Unparsable birth dates count as adult:
// a documented fail-safe, so missing data never suppresses a roster count.
func isAdult(birthDate string, now time.Time) bool {
	s := strings.TrimSpace(birthDate)
	if s == "" {
		return true
	}
	for _, layout := range birthDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return now.Year()-d.Year() >= 18
		}
	}
	return true
}
