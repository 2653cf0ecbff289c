package compliance

// annotate.go is the per-player annotator: it rebuilds the violation text
// of every row from scratch on each pass. Violations are appended per
// player in a fixed order (team-wide issues, sworn declaration, loan
// document, eligibility, license-registry result, registration deadline)
// so repeated runs over unchanged input are byte-identical.

import (
	"fmt"
	"strings"
	"time"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/rules"
)

// Violation text constants. CodeNationalPending is the short code used on
// exports when the license registry has no record of the player.
const (
	CodeNationalPending = "HN-p"

	violationTeamPrefix      = "TEAM: "
	violationNoDeclaration   = "Missing sworn declaration"
	violationNoLoanDoc       = "Missing loan document"
	violationNonSelNotAllow  = "Non-selectable player not allowed"
	violationNonSelAdult     = "Non-selectable player over age"
	violationRegistryProblem = "License registry incident"
)

// Annotate rebuilds the normative-errors column of every player against
// the given rule sets and category assignments.
func Annotate(t *roster.Table, cfg rules.Config, cats rules.Categories) {
	annotate(t, cfg, cats, time.Now())
}

func annotate(t *roster.Table, cfg rules.Config, cats rules.Categories, now time.Time) {
	// Stale violations must not survive a re-run; the column is fully
	// recomputed, never patched.
	for _, p := range t.Players {
		p.NormativeErrors = ""
	}

	for _, team := range sortedTeams(t) {
		players := t.TeamPlayers(team)
		active := activePlayers(players)
		category := rules.ResolveCategory(team, cats)

		rs, ok := cfg[category]
		if !ok {
			if category == rules.CategoryUnassigned {
				applyTeamIssues(active, []string{"Team has no category assigned"})
			}
			continue
		}

		applyTeamIssues(active, teamIssues(active, rs))

		for _, p := range active {
			if rs.RequireDeclaration && !isDomestic(p.Country) && !p.SwornDeclaration {
				p.AppendViolation(violationNoDeclaration)
			}
			if rs.RequireLoanDoc && p.Loaned && !p.LoanDocument {
				p.AppendViolation(violationNoLoanDoc)
			}
			if p.NonSelectable {
				if !rs.AllowNonSelectable {
					p.AppendViolation(violationNonSelNotAllow)
				} else if rs.NonSelectableMinorsOnly && isAdult(p.BirthDate, now) {
					p.AppendViolation(violationNonSelAdult)
				}
			}
			if code := registryCode(p.LicenseValidation); code != "" && !p.HasViolation(code) {
				p.AppendViolation(code)
			}
			if v := deadlineViolation(p, rs); v != "" {
				p.AppendViolation(v)
			}
		}
	}
}

// teamIssues computes the team-wide violations of one active group.
func teamIssues(active []*roster.Player, rs rules.RuleSet) []string {
	c := countPlayers(active, true)

	var issues []string
	if c.total < rs.MinTotal {
		issues = append(issues, fmt.Sprintf("Minimum total not met (%d/%d)", c.total, rs.MinTotal))
	}
	if rs.MaxTotal > 0 && c.total > rs.MaxTotal {
		issues = append(issues, fmt.Sprintf("Maximum total exceeded (%d/%d)", c.total, rs.MaxTotal))
	}
	if c.men < rs.MinGender {
		issues = append(issues, fmt.Sprintf("Minimum men not met (%d/%d)", c.men, rs.MinGender))
	}
	if c.women < rs.MinGender {
		issues = append(issues, fmt.Sprintf("Minimum women not met (%d/%d)", c.women, rs.MinGender))
	}

	if !rs.AllowLoanedPlayers {
		if c.loanedMen > 0 || c.loanedWomen > 0 {
			issues = append(issues, "Loaned players not allowed in this category")
		}
	} else {
		if max := rs.MaxLoaned(c.men); c.loanedMen > max {
			issues = append(issues, fmt.Sprintf("Excess loaned men (%d/%d)", c.loanedMen, max))
		}
		if max := rs.MaxLoaned(c.women); c.loanedWomen > max {
			issues = append(issues, fmt.Sprintf("Excess loaned women (%d/%d)", c.loanedWomen, max))
		}
	}
	return issues
}

// applyTeamIssues writes the team-wide violations onto every active row,
// prefixed so player-level and team-level problems stay distinguishable.
func applyTeamIssues(active []*roster.Player, issues []string) {
	if len(issues) == 0 {
		return
	}
	for _, p := range active {
		for _, issue := range issues {
			p.AppendViolation(violationTeamPrefix + issue)
		}
	}
}

// registryCode maps the external license-registry result to a short
// violation code. The registry writes free text; only the "not found" and
// error markers matter here.
func registryCode(validation string) string {
	v := strings.ToUpper(strings.TrimSpace(validation))
	if v == "" {
		return ""
	}
	if strings.Contains(v, "NOT FOUND") || strings.Contains(v, "NO ENCONTRADO") {
		return CodeNationalPending
	}
	if strings.Contains(v, "❌") || strings.Contains(v, "ERROR") {
		return violationRegistryProblem
	}
	return ""
}

// nationalLicenseMarkers identify nationally-homologated license types in
// the registry result; only those are bound by the registration deadline.
var nationalLicenseMarkers = []string{"NACIONAL", "NATIONAL", "HN", "HOMOLOGADA"}

// deadlineViolation checks the license start date against the category's
// registration deadline. Rows with an amended license are exempt, and
// unparsable dates are skipped rather than flagged.
func deadlineViolation(p *roster.Player, rs rules.RuleSet) string {
	if rs.RegistrationDeadline == "" || p.LicenseAmended {
		return ""
	}
	deadline, err := time.Parse("2006-01-02", rs.RegistrationDeadline)
	if err != nil {
		return ""
	}

	validation := strings.ToUpper(p.LicenseValidation)
	national := false
	for _, marker := range nationalLicenseMarkers {
		if strings.Contains(validation, marker) {
			national = true
			break
		}
	}
	if !national {
		return ""
	}

	start := strings.TrimSpace(p.LicenseStart)
	if start == "" || strings.EqualFold(start, "nan") || start == "?" {
		return ""
	}
	startDate, err := time.Parse("02/01/2006", start)
	if err != nil {
		return ""
	}
	if startDate.After(deadline) {
		return fmt.Sprintf("Past registration deadline (%s)", start)
	}
	return ""
}
