package rules

// defaults.go ships the league's factory configuration. The config store
// seeds these on first run; operators edit them afterwards through the
// configuration endpoints.

// defaultRatioTable is the loaned-player breakpoint table from the
// national club-league regulations (table 9.1).
var defaultRatioTable = []RatioRule{
	{Total: 4, MaxLoaned: 1},
	{Total: 5, MaxLoaned: 1},
	{Total: 6, MaxLoaned: 2},
	{Total: 7, MaxLoaned: 2},
	{Total: 8, MaxLoaned: 2},
	{Total: 9, MaxLoaned: 3},
	{Total: 10, MaxLoaned: 3},
}

// Defaults returns the factory rule sets for the national league
// divisions. All divisions share the documentation requirements and the
// ratio table; they differ in roster minimums.
func Defaults() Config {
	return Config{
		"División de Honor": defaultRuleSet(10, 5),
		"Primera ORO":       defaultRuleSet(10, 5),
		"Primera PLATA":     defaultRuleSet(8, 4),
		"Primera BRONCE":    defaultRuleSet(8, 4),
		"Segunda ORO":       defaultRuleSet(6, 3),
	}
}

func defaultRuleSet(minTotal, minGender int) RuleSet {
	table := make([]RatioRule, len(defaultRatioTable))
	copy(table, defaultRatioTable)
	return RuleSet{
		MinTotal:           minTotal,
		MaxTotal:           20,
		MinGender:          minGender,
		RatioTable:         table,
		RequireLoanDoc:     true,
		RequireDeclaration: true,
		AllowLoanedPlayers: true,
		AllowNonSelectable: true,
	}
}

// DefaultEquivalences returns the factory parent-club/subsidiary links.
func DefaultEquivalences() Equivalences {
	return Equivalences{
		"Club Bádminton Ravachol Pontevedra":   {"Club Bádminton As Neves"},
		"Club Bádminton San Fernando Valencia": {"Club Bádminton Xàtiva"},
		"Club Bádminton Arjonilla":             {"Club Bádminton Alhaurín de la Torre"},
		"Club Bádminton Alicante":              {"Club Bádminton El Campello"},
		"Club Bádminton Oviedo":                {"Club Bádminton Vegadeo"},
		"Club Bádminton Benalmádena":           {"Club Bádminton Jorge Guillén"},
		"Club Bádminton Pitiús":                {"Club Bádminton Ibiza"},
		"Club Bádminton Rinconada":             {"Club Bádminton La Unión"},
	}
}
