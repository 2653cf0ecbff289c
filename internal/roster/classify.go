package roster

// classify.go derives the per-player flags from canonical fields: loaned
// status (club vs. team, with fuzzy and equivalence tolerance), selection
// eligibility by nationality, and data completeness. Classification is
// idempotent: review columns are defaulted exactly once and manual edits
// are never overwritten by a re-run.

import (
	"sort"
	"strings"

	"rosteraudit/internal/textnorm"
)

// DefaultFuzzyThreshold is the similarity above which a club and a team
// are considered the same organization.
const DefaultFuzzyThreshold = 0.80

// homeCountry is the domestic federation country; anyone else is
// non-selectable for restricted competition slots.
const homeCountry = "SPAIN"

// Classify recomputes the derived fields of every player in the table.
//
// equivalences maps a parent club to the subsidiary teams whose players it
// may field without them counting as loaned. threshold is the fuzzy
// similarity cutoff in [0,1]; values <= 0 select DefaultFuzzyThreshold.
func Classify(t *Table, equivalences map[string][]string, threshold float64) {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	// Review columns (exclusion, documentation flags, notes) are manual
	// state: classification recomputes only derived fields and leaves
	// them untouched, so re-running over an edited roster is safe.
	for _, p := range t.Players {
		p.Loaned = isLoaned(p, equivalences, threshold)
		p.NonSelectable = isNonSelectable(p)
		p.DataValid = hasValidData(p)

		p.DisplayName = strings.TrimSpace(strings.TrimSpace(p.Surname+" "+p.SecondSurname) + " " + p.GivenName)
		p.GenderCode = genderCode(p.Gender)
		p.Status = statusText(p)
	}
}

// isLoaned reports whether the player competes for a team other than their
// origin club. Exact match, fuzzy match above the threshold and configured
// parent/subsidiary equivalences all count as "own club".
func isLoaned(p *Player, equivalences map[string][]string, threshold float64) bool {
	club := strings.TrimSpace(p.OriginClub)
	team := strings.TrimSpace(p.CurrentTeam)

	if club == "" || team == "" {
		return false
	}
	if strings.EqualFold(club, team) {
		return false
	}
	if textnorm.Similarity(club, team) >= threshold {
		return false
	}

	// First matching key wins; keys are visited in sorted order so the
	// outcome is deterministic.
	keys := make([]string, 0, len(equivalences))
	for k := range equivalences {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, parent := range keys {
		if !strings.EqualFold(parent, club) {
			continue
		}
		for _, valid := range equivalences[parent] {
			if strings.EqualFold(valid, team) {
				return false
			}
		}
		break
	}
	return true
}

// isNonSelectable reports nationality-based ineligibility.
func isNonSelectable(p *Player) bool {
	return !strings.EqualFold(strings.TrimSpace(p.Country), homeCountry)
}

// hasValidData reports whether the row carries the minimum usable fields.
func hasValidData(p *Player) bool {
	return strings.TrimSpace(p.LicenseID) != "" && strings.TrimSpace(p.GivenName) != ""
}

// genderCode normalizes a free-text gender value to "M", "F" or "".
func genderCode(raw string) string {
	g := strings.ToUpper(strings.TrimSpace(raw))
	if strings.HasPrefix(g, "M") || strings.HasPrefix(g, "F") {
		return g[:1]
	}
	return ""
}

// statusText builds the pipe-joined status summary in fixed order.
func statusText(p *Player) string {
	var labels []string
	if p.Loaned {
		labels = append(labels, LabelLoaned)
	}
	if p.NonSelectable {
		labels = append(labels, LabelForeign)
	}
	if p.Excluded {
		labels = append(labels, LabelExcluded)
	}
	if !p.DataValid {
		labels = append(labels, LabelIncompleteData)
	}
	if len(labels) == 0 {
		return StatusOK
	}
	return strings.Join(labels, statusSeparator)
}
