package rules

import "testing"

func TestMaxLoaned(t *testing.T) {
	rs := RuleSet{RatioTable: []RatioRule{
		{Total: 4, MaxLoaned: 1},
		{Total: 5, MaxLoaned: 1},
		{Total: 6, MaxLoaned: 2},
		{Total: 7, MaxLoaned: 2},
		{Total: 8, MaxLoaned: 2},
		{Total: 9, MaxLoaned: 3},
		{Total: 10, MaxLoaned: 3},
	}}

	tests := []struct {
		total int
		want  int
	}{
		{4, 1},
		{5, 1},
		{6, 2},
		{9, 3},
		{10, 3},
		{11, 3}, // above the highest breakpoint: highest limit applies
		{25, 3},
		{3, 0}, // below the lowest breakpoint: no loaned players
		{0, 0},
	}
	for _, tt := range tests {
		if got := rs.MaxLoaned(tt.total); got != tt.want {
			t.Errorf("MaxLoaned(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestMaxLoaned_EmptyTable(t *testing.T) {
	rs := RuleSet{}
	if got := rs.MaxLoaned(10); got != 0 {
		t.Errorf("MaxLoaned(10) = %d, want 0", got)
	}
}

func TestMaxLoaned_SparseTable(t *testing.T) {
	// Gaps resolve to the largest breakpoint at or below the total, even
	// when the table arrives unsorted.
	rs := RuleSet{RatioTable: []RatioRule{
		{Total: 10, MaxLoaned: 3},
		{Total: 4, MaxLoaned: 1},
	}}

	tests := []struct {
		total int
		want  int
	}{
		{3, 0},
		{4, 1},
		{7, 1}, // between breakpoints: the lower one applies
		{10, 3},
		{12, 3},
	}
	for _, tt := range tests {
		if got := rs.MaxLoaned(tt.total); got != tt.want {
			t.Errorf("MaxLoaned(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestResolveCategory(t *testing.T) {
	cats := Categories{
		"CB Pontevedra":              "División de Honor",
		"Club Bádminton Rinconada":   "Primera ORO",
		" CB Granada ":               "Primera PLATA",
		"Club Bádminton San Mamede ": "Segunda ORO",
	}

	tests := []struct {
		name string
		team string
		want string
	}{
		{"exact match", "CB Pontevedra", "División de Honor"},
		{"trimmed match", "CB Granada", "Primera PLATA"},
		{"normalized match", "C.B. RINCONADA", "Primera ORO"},
		{"normalized with accents", "club badminton san mamede", "Segunda ORO"},
		{"no match", "CB Desconocido", CategoryUnassigned},
		{"empty team", "", CategoryUnassigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCategory(tt.team, cats); got != tt.want {
				t.Errorf("ResolveCategory(%q) = %q, want %q", tt.team, got, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	want := map[string]struct{ minTotal, minGender int }{
		"División de Honor": {10, 5},
		"Primera ORO":       {10, 5},
		"Primera PLATA":     {8, 4},
		"Primera BRONCE":    {8, 4},
		"Segunda ORO":       {6, 3},
	}
	if len(cfg) != len(want) {
		t.Fatalf("Defaults() has %d categories, want %d", len(cfg), len(want))
	}
	for cat, w := range want {
		rs, ok := cfg[cat]
		if !ok {
			t.Errorf("missing category %q", cat)
			continue
		}
		if rs.MinTotal != w.minTotal || rs.MinGender != w.minGender {
			t.Errorf("%s: min total/gender = %d/%d, want %d/%d", cat, rs.MinTotal, rs.MinGender, w.minTotal, w.minGender)
		}
		if rs.MaxTotal != 20 {
			t.Errorf("%s: MaxTotal = %d, want 20", cat, rs.MaxTotal)
		}
		if !rs.RequireLoanDoc || !rs.RequireDeclaration || !rs.AllowLoanedPlayers || !rs.AllowNonSelectable {
			t.Errorf("%s: documentation and allow flags must default to true", cat)
		}
	}
}

func TestDefaults_IndependentRatioTables(t *testing.T) {
	cfg := Defaults()
	cfg["División de Honor"].RatioTable[0].MaxLoaned = 99

	if Defaults()["División de Honor"].RatioTable[0].MaxLoaned == 99 {
		t.Error("mutating one Defaults() result must not leak into the next")
	}
	if cfg["Primera ORO"].RatioTable[0].MaxLoaned == 99 {
		t.Error("categories must not share a ratio table")
	}
}
