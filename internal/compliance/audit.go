package compliance

// audit.go is the aggregate auditor: one summary row per team with active
// totals, gender splits, loaned counts against the ratio table, and the
// documentation checks the category requires.

import (
	"fmt"
	"strings"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/rules"
)

// Audit evaluates every team in the roster against its category's rule
// set and returns one summary per team, in lexical team order.
//
// Teams whose category has no rule set (including unassigned teams) yield
// a Pending summary; a misconfigured team never aborts the batch.
func Audit(t *roster.Table, cfg rules.Config, cats rules.Categories) []TeamSummary {
	summaries := make([]TeamSummary, 0, len(t.Teams()))

	for _, team := range sortedTeams(t) {
		players := t.TeamPlayers(team)
		category := rules.ResolveCategory(team, cats)

		rs, ok := cfg[category]
		if !ok {
			// No rules to check against: report raw counts and leave the
			// verdict open for the operator.
			c := countPlayers(players, false)
			summaries = append(summaries, TeamSummary{
				Team:        team,
				Category:    category,
				Total:       c.total,
				Men:         c.men,
				Women:       c.women,
				LoanedMen:   c.loanedMen,
				LoanedWomen: c.loanedWomen,
				Verdict:     VerdictPending,
				Details:     "No category assigned or no rules defined; configuration pending.",
			})
			continue
		}

		c := countPlayers(players, true)
		maxMen := rs.MaxLoaned(c.men)
		maxWomen := rs.MaxLoaned(c.women)

		var issues []string
		if c.total < rs.MinTotal {
			issues = append(issues, fmt.Sprintf("Minimum %d players (%d)", rs.MinTotal, c.total))
		}
		if rs.MaxTotal > 0 && c.total > rs.MaxTotal {
			issues = append(issues, fmt.Sprintf("Maximum %d players (%d)", rs.MaxTotal, c.total))
		}
		if c.men < rs.MinGender {
			issues = append(issues, fmt.Sprintf("Minimum %d men (%d)", rs.MinGender, c.men))
		}
		if c.women < rs.MinGender {
			issues = append(issues, fmt.Sprintf("Minimum %d women (%d)", rs.MinGender, c.women))
		}
		if c.loanedMen > maxMen {
			issues = append(issues, fmt.Sprintf("Excess loaned men (%d/%d)", c.loanedMen, maxMen))
		}
		if c.loanedWomen > maxWomen {
			issues = append(issues, fmt.Sprintf("Excess loaned women (%d/%d)", c.loanedWomen, maxWomen))
		}

		if rs.RequireDeclaration {
			missing := 0
			for _, p := range activePlayers(players) {
				if !isDomestic(p.Country) && !p.SwornDeclaration {
					missing++
				}
			}
			if missing > 0 {
				issues = append(issues, fmt.Sprintf("Missing %d sworn declarations (foreign players)", missing))
			}
		}
		if rs.RequireLoanDoc {
			missing := 0
			for _, p := range activePlayers(players) {
				if p.Loaned && !p.LoanDocument {
					missing++
				}
			}
			if missing > 0 {
				issues = append(issues, fmt.Sprintf("Missing %d loan documents", missing))
			}
		}

		summary := TeamSummary{
			Team:           team,
			Category:       category,
			Total:          c.total,
			Men:            c.men,
			Women:          c.women,
			LoanedMen:      c.loanedMen,
			LoanedWomen:    c.loanedWomen,
			MaxLoanedMen:   maxMen,
			MaxLoanedWomen: maxWomen,
			Issues:         issues,
			Verdict:        VerdictPass,
			Details:        "Compliant",
		}
		if len(issues) > 0 {
			summary.Verdict = VerdictFail
			summary.Details = strings.Join(issues, ", ")
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
