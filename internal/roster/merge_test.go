package roster

import (
	"strings"
	"testing"
)

func mergeFixture() *Table {
	return &Table{Players: []*Player{
		{LicenseID: "100", DisplayName: "García Ana", OriginClub: "CB Oviedo", CurrentTeam: "CB Oviedo"},
		{LicenseID: "200", DisplayName: "Pérez Luis", OriginClub: "CB Pontevedra", CurrentTeam: "CB Pontevedra"},
	}}
}

func TestMerge_AddsNewPlayers(t *testing.T) {
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		{LicenseID: "300", DisplayName: "Ruiz Eva", OriginClub: "CB Rinconada", CurrentTeam: "CB Rinconada"},
	}}

	merged, report := Merge(current, incoming)

	if report.Added != 1 || report.Updated != 0 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 1 added", report)
	}
	if merged.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", merged.Len())
	}
	// New players append at the end; existing order is untouched.
	if merged.Players[2].LicenseID != "300" {
		t.Errorf("new player not appended last: %q", merged.Players[2].LicenseID)
	}
	if report.Log[0] != "Summary: 1 added, 0 updated." {
		t.Errorf("summary line = %q", report.Log[0])
	}
}

func TestMerge_LogNamesUnclassifiedRows(t *testing.T) {
	// Incoming batches come straight from Ingest, before classification
	// derives DisplayName; the log falls back to the raw name fields.
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		{LicenseID: "300", Surname: "Ruiz", GivenName: "Eva", CurrentTeam: "CB Rinconada"},
		{LicenseID: "100", Surname: "García", GivenName: "Ana", CurrentTeam: "CB Vegadeo"},
	}}

	_, report := Merge(current, incoming)

	joined := strings.Join(report.Log, "\n")
	if !strings.Contains(joined, "- Ruiz Eva (300) -> CB Rinconada") {
		t.Errorf("log = %q, want addition line with raw name", joined)
	}
	if !strings.Contains(joined, "Updated: García Ana (100)") {
		t.Errorf("log = %q, want update line with raw name", joined)
	}
}

func TestMerge_UpdatesTeamAndClub(t *testing.T) {
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		{LicenseID: "100", DisplayName: "García Ana", OriginClub: "CB Vegadeo", CurrentTeam: "CB Vegadeo"},
	}}

	merged, report := Merge(current, incoming)

	if report.Updated != 1 {
		t.Fatalf("Updated = %d, want 1", report.Updated)
	}
	p := merged.ByLicenseID("100")
	if p.CurrentTeam != "CB Vegadeo" || p.OriginClub != "CB Vegadeo" {
		t.Errorf("team/club = %q/%q, want CB Vegadeo", p.CurrentTeam, p.OriginClub)
	}
	if !strings.Contains(p.ReviewNotes, "[MOD:") {
		t.Errorf("ReviewNotes = %q, want change note", p.ReviewNotes)
	}
}

func TestMerge_TransferResolution(t *testing.T) {
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		// Comma notation: the candidate not matching the current team is the
		// destination.
		{LicenseID: "100", DisplayName: "García Ana", CurrentTeam: "CB Oviedo, CB Vegadeo"},
	}}

	merged, report := Merge(current, incoming)

	p := merged.ByLicenseID("100")
	if p.CurrentTeam != "CB Vegadeo" {
		t.Errorf("CurrentTeam = %q, want CB Vegadeo", p.CurrentTeam)
	}
	if !strings.Contains(p.ReviewNotes, "transfer detected") {
		t.Errorf("ReviewNotes = %q, want transfer note", p.ReviewNotes)
	}
	if report.Updated != 1 {
		t.Errorf("Updated = %d, want 1", report.Updated)
	}
}

func TestMerge_AmbiguousTransferKeptRaw(t *testing.T) {
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		// Two non-matching candidates: no safe resolution, keep the raw cell.
		{LicenseID: "100", CurrentTeam: "CB Vegadeo, CB Rinconada"},
	}}

	merged, _ := Merge(current, incoming)

	if got := merged.ByLicenseID("100").CurrentTeam; got != "CB Vegadeo, CB Rinconada" {
		t.Errorf("CurrentTeam = %q, want raw value kept", got)
	}
}

func TestMerge_BlankValuesNeverOverwrite(t *testing.T) {
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		{LicenseID: "100", OriginClub: "nan", CurrentTeam: ""},
	}}

	merged, report := Merge(current, incoming)

	p := merged.ByLicenseID("100")
	if p.OriginClub != "CB Oviedo" || p.CurrentTeam != "CB Oviedo" {
		t.Errorf("club/team = %q/%q, want unchanged", p.OriginClub, p.CurrentTeam)
	}
	if report.Updated != 0 {
		t.Errorf("Updated = %d, want 0", report.Updated)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	current := mergeFixture()
	incoming := &Table{Players: []*Player{
		{LicenseID: "100", DisplayName: "García Ana", CurrentTeam: "CB Vegadeo"},
	}}

	merged, _ := Merge(current, incoming)
	notes := merged.ByLicenseID("100").ReviewNotes

	again := &Table{Players: []*Player{
		{LicenseID: "100", DisplayName: "García Ana", CurrentTeam: "CB Vegadeo"},
	}}
	merged, report := Merge(merged, again)

	if report.Updated != 0 {
		t.Errorf("second merge Updated = %d, want 0", report.Updated)
	}
	if got := merged.ByLicenseID("100").ReviewNotes; got != notes {
		t.Errorf("ReviewNotes changed on re-merge: %q -> %q", notes, got)
	}
}

func TestMerge_EmptyBatch(t *testing.T) {
	current := mergeFixture()
	merged, report := Merge(current, NewTable())

	if merged.Len() != 2 {
		t.Errorf("Len() = %d, want 2", merged.Len())
	}
	if report.Added != 0 || report.Updated != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v, want all zero", report)
	}
	if len(report.Log) != 1 {
		t.Errorf("Log = %v, want summary line only", report.Log)
	}
}
