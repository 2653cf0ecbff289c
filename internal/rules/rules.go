// Package rules holds the externally-owned configuration the compliance
// engine consumes: per-category rule sets, the parent-club equivalence map
// and the team-to-category assignment. Configuration is always passed
// explicitly to the evaluators; nothing here is global state.
package rules

import (
	"sort"
	"strings"

	"rosteraudit/internal/textnorm"
)

// CategoryUnassigned is the resolved category for teams absent from the
// category map. It never has a rule set; audits surface it for operator
// assignment instead of passing or failing the team.
const CategoryUnassigned = "Unassigned"

// RatioRule is one breakpoint of the loaned-player ratio table: a roster
// of exactly Total active players of one gender may field at most
// MaxLoaned loaned players of that gender.
type RatioRule struct {
	Total     int `json:"total"`
	MaxLoaned int `json:"max_loaned"`
}

// RuleSet is the normative rule set of one competition category.
type RuleSet struct {
	MinTotal  int `json:"min_total"`
	MaxTotal  int `json:"max_total"`
	MinGender int `json:"min_gender"`

	RatioTable []RatioRule `json:"ratio_table"`

	RequireLoanDoc     bool `json:"require_loan_doc"`
	RequireDeclaration bool `json:"require_declaration"`

	AllowLoanedPlayers      bool `json:"allow_loaned_players"`
	AllowNonSelectable      bool `json:"allow_non_selectable"`
	NonSelectableMinorsOnly bool `json:"non_selectable_minors_only"`

	// RegistrationDeadline, when set ("YYYY-MM-DD"), caps the license
	// start date of nationally-homologated licenses.
	RegistrationDeadline string `json:"registration_deadline,omitempty"`
}

// MaxLoaned returns the loaned-player limit for a gender group of the
// given active size: the limit of the largest breakpoint at or below the
// total. Totals below the lowest breakpoint allow zero loaned players;
// totals above the highest get that breakpoint's limit ("10 or more").
func (rs RuleSet) MaxLoaned(total int) int {
	table := make([]RatioRule, len(rs.RatioTable))
	copy(table, rs.RatioTable)
	sort.SliceStable(table, func(i, j int) bool { return table[i].Total < table[j].Total })

	max := 0
	for _, r := range table {
		if r.Total > total {
			break
		}
		max = r.MaxLoaned
	}
	return max
}

// Config maps a category name to its rule set.
type Config map[string]RuleSet

// Equivalences maps a parent club to the subsidiary teams it may field
// players on without them counting as loaned.
type Equivalences map[string][]string

// Categories maps a team display name to its competition category.
type Categories map[string]string

// ResolveCategory finds the category of a team: exact key match first,
// then a whitespace-trimmed match, then a normalized-name match that
// ignores case, accents and club stopwords. Teams that still have no match
// resolve to CategoryUnassigned.
func ResolveCategory(team string, cats Categories) string {
	if c, ok := cats[team]; ok {
		return c
	}
	if c, ok := cats[strings.TrimSpace(team)]; ok {
		return c
	}

	target := textnorm.Normalize(team)
	// Sorted key order keeps resolution deterministic when two configured
	// names normalize identically.
	keys := make([]string, 0, len(cats))
	for k := range cats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if textnorm.Normalize(k) == target {
			return cats[k]
		}
	}
	return CategoryUnassigned
}
