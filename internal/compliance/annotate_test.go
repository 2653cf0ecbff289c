package compliance

import (
	"strings"
	"testing"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/rules"
)

func TestAnnotate_ResetsStaleViolations(t *testing.T) {
	players := squad("Alpha", 5, 5)
	players[0].NormativeErrors = "stale text from a previous run"
	table := &roster.Table{Players: players}
	cats := rules.Categories{"Alpha": "División de Honor"}

	Annotate(table, testRules(), cats)

	if got := players[0].NormativeErrors; got != "" {
		t.Errorf("NormativeErrors = %q, want fully recomputed (empty)", got)
	}
}

func TestAnnotate_TeamIssuesOnEveryActiveRow(t *testing.T) {
	players := squad("Alpha", 3, 3) // below both minimums
	players[0].Excluded = true
	table := &roster.Table{Players: players}
	cats := rules.Categories{"Alpha": "División de Honor"}

	Annotate(table, testRules(), cats)

	if got := players[0].NormativeErrors; got != "" {
		t.Errorf("excluded player annotated: %q", got)
	}
	for _, p := range players[1:] {
		if !strings.Contains(p.NormativeErrors, "TEAM: Minimum total not met (5/10)") {
			t.Errorf("NormativeErrors = %q, want team-prefixed minimum issue", p.NormativeErrors)
		}
	}
}

func TestAnnotate_DocumentViolations(t *testing.T) {
	players := squad("Alpha", 5, 5)
	players[0].Country = "FRANCE" // no declaration
	players[1].Loaned = true      // no loan document
	players[2].Country = "DENMARK"
	players[2].SwornDeclaration = true // documented, no violation
	players[5].Loaned = true
	players[5].LoanDocument = true // documented, no violation
	table := &roster.Table{Players: players}
	cats := rules.Categories{"Alpha": "División de Honor"}

	Annotate(table, testRules(), cats)

	if !strings.Contains(players[0].NormativeErrors, "Missing sworn declaration") {
		t.Errorf("players[0] = %q", players[0].NormativeErrors)
	}
	if !strings.Contains(players[1].NormativeErrors, "Missing loan document") {
		t.Errorf("players[1] = %q", players[1].NormativeErrors)
	}
	if players[2].NormativeErrors != "" || players[5].NormativeErrors != "" {
		t.Errorf("documented players flagged: %q / %q",
			players[2].NormativeErrors, players[5].NormativeErrors)
	}
}

func TestAnnotate_NonSelectable(t *testing.T) {
	cfg := testRules()

	t.Run("not allowed", func(t *testing.T) {
		rs := cfg["División de Honor"]
		rs.AllowNonSelectable = false
		strict := rules.Config{"División de Honor": rs}

		players := squad("Alpha", 5, 5)
		players[0].NonSelectable = true
		table := &roster.Table{Players: players}
		Annotate(table, strict, rules.Categories{"Alpha": "División de Honor"})

		if !strings.Contains(players[0].NormativeErrors, "Non-selectable player not allowed") {
			t.Errorf("NormativeErrors = %q", players[0].NormativeErrors)
		}
	})

	t.Run("minors only flags adults", func(t *testing.T) {
		rs := cfg["División de Honor"]
		rs.NonSelectableMinorsOnly = true
		minorsOnly := rules.Config{"División de Honor": rs}

		players := squad("Alpha", 5, 5)
		players[0].NonSelectable = true
		players[0].BirthDate = "1990-01-01"
		players[1].NonSelectable = true
		players[1].BirthDate = "2015-01-01"
		table := &roster.Table{Players: players}
		Annotate(table, minorsOnly, rules.Categories{"Alpha": "División de Honor"})

		if !strings.Contains(players[0].NormativeErrors, "Non-selectable player over age") {
			t.Errorf("adult not flagged: %q", players[0].NormativeErrors)
		}
		if strings.Contains(players[1].NormativeErrors, "over age") {
			t.Errorf("minor flagged: %q", players[1].NormativeErrors)
		}
	})
}

func TestRegistryCode(t *testing.T) {
	tests := []struct {
		validation string
		want       string
	}{
		{"", ""},
		{"Licencia Nacional OK", ""},
		{"NO ENCONTRADO", CodeNationalPending},
		{"jugador not found en el registro", CodeNationalPending},
		{"❌ fallo de conexión", "License registry incident"},
		{"ERROR: timeout", "License registry incident"},
	}
	for _, tt := range tests {
		if got := registryCode(tt.validation); got != tt.want {
			t.Errorf("registryCode(%q) = %q, want %q", tt.validation, got, tt.want)
		}
	}
}

func TestAnnotate_RegistryCodeNotDuplicated(t *testing.T) {
	players := squad("Alpha", 5, 5)
	players[0].LicenseValidation = "NO ENCONTRADO"
	table := &roster.Table{Players: players}
	cats := rules.Categories{"Alpha": "División de Honor"}

	Annotate(table, testRules(), cats)
	Annotate(table, testRules(), cats)

	if got := strings.Count(players[0].NormativeErrors, CodeNationalPending); got != 1 {
		t.Errorf("code appears %d times in %q, want 1", got, players[0].NormativeErrors)
	}
}

func TestAnnotate_RegistrationDeadline(t *testing.T) {
	cfg := testRules()
	rs := cfg["División de Honor"]
	rs.RegistrationDeadline = "2026-01-15"
	cfg = rules.Config{"División de Honor": rs}
	cats := rules.Categories{"Alpha": "División de Honor"}
	now := mustDate(t, "2026-03-01")

	tests := []struct {
		name       string
		validation string
		start      string
		amended    bool
		flagged    bool
	}{
		{"national license past deadline", "Licencia NACIONAL", "01/02/2026", false, true},
		{"national license in time", "Licencia NACIONAL", "10/01/2026", false, false},
		{"homologated past deadline", "HOMOLOGADA", "20/01/2026", false, true},
		{"regional license ignores deadline", "Licencia Autonómica", "01/02/2026", false, false},
		{"amended license exempt", "Licencia NACIONAL", "01/02/2026", true, false},
		{"blank start date skipped", "Licencia NACIONAL", "", false, false},
		{"nan start date skipped", "Licencia NACIONAL", "nan", false, false},
		{"unparsable start date skipped", "Licencia NACIONAL", "soon", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := squad("Alpha", 5, 5)
			players[0].LicenseValidation = tt.validation
			players[0].LicenseStart = tt.start
			players[0].LicenseAmended = tt.amended
			table := &roster.Table{Players: players}

			annotate(table, cfg, cats, now)

			got := strings.Contains(players[0].NormativeErrors, "Past registration deadline")
			if got != tt.flagged {
				t.Errorf("flagged = %v, want %v (errors: %q)", got, tt.flagged, players[0].NormativeErrors)
			}
		})
	}
}

func TestAnnotate_UnassignedTeamNote(t *testing.T) {
	table := &roster.Table{Players: squad("Mystery", 2, 2)}

	Annotate(table, testRules(), rules.Categories{})

	for _, p := range table.Players {
		if !strings.Contains(p.NormativeErrors, "Team has no category assigned") {
			t.Errorf("NormativeErrors = %q, want unassigned note", p.NormativeErrors)
		}
	}
}

func TestAnnotate_Idempotent(t *testing.T) {
	players := squad("Alpha", 4, 3)
	players[0].Loaned = true
	players[1].Country = "FRANCE"
	players[2].LicenseValidation = "NO ENCONTRADO"
	table := &roster.Table{Players: players}
	cats := rules.Categories{"Alpha": "División de Honor"}

	Annotate(table, testRules(), cats)
	first := make([]string, len(players))
	for i, p := range players {
		first[i] = p.NormativeErrors
	}

	Annotate(table, testRules(), cats)
	for i, p := range players {
		if p.NormativeErrors != first[i] {
			t.Errorf("player %d changed on re-run:\n first = %q\nsecond = %q", i, first[i], p.NormativeErrors)
		}
	}
}
