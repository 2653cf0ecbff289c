package roster

import (
	"errors"
	"strconv"
	"testing"
)

// federationRows builds a minimal federation-style export: junk preamble,
// a header row with Spanish column names, then data rows.
func federationRows(data ...[]string) [][]string {
	rows := [][]string{
		{"Campeonato de España de Clubes"},
		{""},
		{"Nº.ID", "Nombre", "Nombre.1", "Género", "País", "F. Nac.", "Club", "Equipo"},
	}
	return append(rows, data...)
}

func TestIngest_FederationExport(t *testing.T) {
	rows := federationRows(
		[]string{"12345.0", "García", "Ana", "Femenino", "España", "2001-05-10", "CB Pontevedra", "CB Pontevedra"},
		[]string{"", "", "", "", "", "", "", ""},
		[]string{"67890", "Pérez", "Luis", "Masculino", "España", "1999-01-01", "CB Oviedo", "CB Vegadeo"},
	)

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank row skipped)", table.Len())
	}

	p := table.Players[0]
	if p.LicenseID != "12345" {
		t.Errorf("LicenseID = %q, want %q (.0 suffix stripped)", p.LicenseID, "12345")
	}
	if p.Surname != "García" || p.GivenName != "Ana" {
		t.Errorf("name = %q/%q, want García/Ana", p.Surname, p.GivenName)
	}
	if p.OriginClub != "CB Pontevedra" || p.CurrentTeam != "CB Pontevedra" {
		t.Errorf("club/team = %q/%q", p.OriginClub, p.CurrentTeam)
	}
	if p.BirthDate != "2001-05-10" {
		t.Errorf("BirthDate = %q", p.BirthDate)
	}
}

func TestIngest_HeaderDiscovery(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string // license ID of the single data row
	}{
		{
			name: "header on first row",
			rows: [][]string{
				{"Licencia", "Nombre", "Nombre.1", "Club", "Equipo"},
				{"111", "A", "B", "C1", "T1"},
			},
			want: "111",
		},
		{
			name: "header after preamble",
			rows: [][]string{
				{"Temporada 2025/26"},
				{"Exportado el 01/02/2026"},
				{"Licencia", "Nombre", "Nombre.1", "Club", "Equipo"},
				{"222", "A", "B", "C1", "T1"},
			},
			want: "222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Ingest(tt.rows)
			if err != nil {
				t.Fatalf("Ingest() error = %v", err)
			}
			if table.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", table.Len())
			}
			if got := table.Players[0].LicenseID; got != tt.want {
				t.Errorf("LicenseID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIngest_BOMHeader(t *testing.T) {
	// Files saved as "CSV UTF-8" carry a byte-order mark glued to the first
	// header cell; it must not defeat column mapping.
	rows := [][]string{
		{"\uFEFFLicencia", "Nombre", "Nombre.1", "Club", "Equipo"},
		{"333", "García", "Ana", "C1", "T1"},
	}

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got := table.Players[0].LicenseID; got != "333" {
		t.Errorf("LicenseID = %q, want %q", got, "333")
	}
}

func TestIngest_MissingColumns(t *testing.T) {
	rows := [][]string{
		{"Nombre", "Nombre.1", "Equipo"}, // no license, no club
		{"García", "Ana", "CB Pontevedra"},
	}

	_, err := Ingest(rows)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Ingest() error = %v, want *FormatError", err)
	}

	wantMissing := map[string]bool{"license_id": true, "club": true}
	if len(formatErr.Missing) != len(wantMissing) {
		t.Fatalf("Missing = %v, want license_id and club", formatErr.Missing)
	}
	for _, m := range formatErr.Missing {
		if !wantMissing[m] {
			t.Errorf("unexpected missing column %q", m)
		}
	}
}

func TestIngest_EmptyInput(t *testing.T) {
	var formatErr *FormatError
	if _, err := Ingest(nil); !errors.As(err, &formatErr) {
		t.Fatalf("Ingest(nil) error = %v, want *FormatError", err)
	}
}

func TestIngest_LicenseColumnTieBreak(t *testing.T) {
	// Both "Nº.ID" and "Licencia Nacional" map to the license field; the
	// longer column name wins and the other is unmapped.
	rows := [][]string{
		{"Nº.ID", "Licencia Nacional", "Nombre", "Nombre.1", "Club", "Equipo"},
		{"1", "55555", "García", "Ana", "C1", "T1"},
	}

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got := table.Players[0].LicenseID; got != "55555" {
		t.Errorf("LicenseID = %q, want %q", got, "55555")
	}
}

func TestIngest_RowCounterNotID(t *testing.T) {
	rows := [][]string{
		{"N.", "Licencia", "Nombre", "Nombre.1", "Club", "Equipo"},
		{"1", "777", "García", "Ana", "C1", "T1"},
	}

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got := table.Players[0].LicenseID; got != "777" {
		t.Errorf("LicenseID = %q, want %q (N. column skipped)", got, "777")
	}
}

func TestIngest_TransferFlag(t *testing.T) {
	rows := federationRows(
		[]string{"1", "García", "Ana", "F", "España", "", "CB Oviedo", "CB Oviedo, CB Vegadeo"},
		[]string{"2", "Pérez", "Luis", "M", "España", "", "CB Oviedo", "CB Oviedo"},
	)

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if got := table.Players[0].TransferFlag; got != TransferFlagMultiClub {
		t.Errorf("TransferFlag = %q, want %q", got, TransferFlagMultiClub)
	}
	if got := table.Players[1].TransferFlag; got != "" {
		t.Errorf("TransferFlag = %q, want empty", got)
	}
}

func TestIngest_Mojibake(t *testing.T) {
	rows := federationRows(
		[]string{"1", "GarcÃ­a", "Ana", "F", "EspaÃ±a", "", "CB AlfajarÃ­n", "CB AlfajarÃ­n"},
	)

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	p := table.Players[0]
	if p.Surname != "García" {
		t.Errorf("Surname = %q, want %q", p.Surname, "García")
	}
	if p.Country != "España" {
		t.Errorf("Country = %q, want %q", p.Country, "España")
	}
	if p.OriginClub != "CB Alfajarín" {
		t.Errorf("OriginClub = %q, want %q", p.OriginClub, "CB Alfajarín")
	}
}

func TestFixMojibake_LeavesCleanTextAlone(t *testing.T) {
	for _, s := range []string{"García", "CB Alfajarín", "plain ascii", ""} {
		if got := fixMojibake(s); got != s {
			t.Errorf("fixMojibake(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestIngest_BackupRoundTrip(t *testing.T) {
	// A backup export carries the system's own headers: remapping is skipped
	// and manual review state survives the restore.
	// More data rows than the fallback header offset: the backup header
	// has to be discovered, not reached by falling through the keyword scan.
	rows := [][]string{
		{"license_id", "surname", "given_name", "team", "club", "status", "review_notes", "sworn_declaration", "excluded", "loaned"},
		{"123.0", "García", "Ana", "CB Vegadeo", "CB Oviedo", "Loaned", "checked by hand", "TRUE", "SI", "1"},
		{"456", "Pérez", "Luis", "CB Oviedo", "CB Oviedo", "OK", "", "FALSE", "no", "0"},
		{"789", "Santos", "Marta", "CB Oviedo", "CB Oviedo", "OK", "", "FALSE", "no", "0"},
		{"790", "Vila", "Jorge", "CB Oviedo", "CB Oviedo", "OK", "", "FALSE", "no", "0"},
	}

	table, err := Ingest(rows)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", table.Len())
	}

	p := table.Players[0]
	if p.LicenseID != "123" {
		t.Errorf("LicenseID = %q, want %q", p.LicenseID, "123")
	}
	if p.ReviewNotes != "checked by hand" {
		t.Errorf("ReviewNotes = %q, want preserved", p.ReviewNotes)
	}
	if !p.SwornDeclaration || !p.Excluded || !p.Loaned {
		t.Errorf("booleans = %v/%v/%v, want all true", p.SwornDeclaration, p.Excluded, p.Loaned)
	}

	q := table.Players[1]
	if q.SwornDeclaration || q.Excluded || q.Loaned {
		t.Errorf("booleans = %v/%v/%v, want all false", q.SwornDeclaration, q.Excluded, q.Loaned)
	}
}

func TestStrictBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"TRUE", true},
		{"true", true},
		{"1", true},
		{"YES", true},
		{"si", true},
		{" SI ", true},
		{"FALSE", false},
		{"0", false},
		{"no", false},
		{"", false},
		{"maybe", false},
		{"2", false},
	}
	for _, tt := range tests {
		if got := strictBool(tt.in); got != tt.want {
			t.Errorf("strictBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBestIDColumn(t *testing.T) {
	header := []string{"N.", "Nº.ID", "Nombre"}
	var data [][]string
	for i := 1; i <= 15; i++ {
		data = append(data, []string{
			// sequential counter vs. plausible license numbers
			strconv.Itoa(i), strconv.Itoa(40000 + i*7), "García",
		})
	}

	if got := BestIDColumn(header, data); got != 1 {
		t.Errorf("BestIDColumn() = %d, want 1", got)
	}
}

func TestBestIDColumn_NoCandidate(t *testing.T) {
	header := []string{"Nombre", "Club"}
	data := [][]string{{"García", "CB Oviedo"}}
	if got := BestIDColumn(header, data); got != -1 {
		t.Errorf("BestIDColumn() = %d, want -1", got)
	}
}
