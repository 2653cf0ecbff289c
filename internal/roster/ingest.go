package roster

// ingest.go turns raw tabular input into a canonical roster table.
//
// Federation exports are messy: the header row floats somewhere in the
// first screenful, column names vary between seasons ("Nº.ID", "N║.ID",
// "Licencia"...), license IDs arrive as floats with a trailing ".0", and
// files re-imported through other tools show UTF-8-as-Latin-1 mojibake.
// Ingest deals with all of that in one pass.
//
// Input that already carries the system's own column headers is a backup
// (round-trip) export: column remapping is skipped entirely and only type
// coercion is applied, so manually-reviewed state survives a restore.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// headerScanLimit is how many leading rows are searched for the header.
const headerScanLimit = 20

// fallbackHeaderRow is used when no row matches enough header keywords.
const fallbackHeaderRow = 3

// headerKeywords identify a header row: a row containing at least two of
// these (case-insensitive, substring anywhere in any cell) is the header.
var headerKeywords = []string{"nombre", "club", "equipo", "licencia", "n."}

// systemColumns are the canonical headers written by the system's own
// exports. A file whose header carries all but at most one of them is a
// backup and bypasses column remapping.
var systemColumns = []string{
	"license_id", "surname", "team", "status",
	"review_notes", "sworn_declaration", "excluded",
}

// Canonical field keys used internally by the column mapper.
const (
	colLicenseID         = "license_id"
	colSurname           = "surname"
	colSecondSurname     = "second_surname"
	colGivenName         = "given_name"
	colGender            = "gender"
	colCountry           = "country"
	colBirthDate         = "birth_date"
	colClub              = "club"
	colTeam              = "team"
	colLicenseStart      = "license_start"
	colLicenseValidation = "license_validation"
)

// FormatError reports that required canonical columns could not be located
// in the input. Processing must not continue on a partial mapping.
type FormatError struct {
	Missing []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("input is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Ingest parses raw tabular input (rows of cells, as read from a
// spreadsheet) into a canonical roster table.
//
// Returns a *FormatError when the license-ID, name, club or team columns
// cannot be located after mapping.
func Ingest(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, &FormatError{Missing: []string{colLicenseID, colSurname, colClub, colTeam}}
	}

	headerRow := findHeaderRow(rows)
	header := cleanHeader(rows[headerRow])
	data := rows[headerRow+1:]

	if isBackup(header) {
		return ingestBackup(header, data), nil
	}

	mapping, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	t := NewTable()
	for _, row := range data {
		if blankRow(row) {
			continue
		}
		p := &Player{}
		for i, field := range mapping {
			if field == "" || i >= len(row) {
				continue
			}
			assignField(p, field, strings.TrimSpace(row[i]))
		}
		if strings.Contains(p.CurrentTeam, ",") {
			p.TransferFlag = TransferFlagMultiClub
		}
		t.Players = append(t.Players, p)
	}
	return t, nil
}

// findHeaderRow scans the leading rows for the header: a row already
// carrying the system's own backup columns, or one matching at least two
// distinct federation keywords. Falls back to a fixed offset. Backup
// headers must be tested explicitly since they share no keyword with the
// federation names.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		if isBackup(cleanHeader(rows[i])) {
			return i
		}
		matches := 0
		for _, kw := range headerKeywords {
			for _, cell := range rows[i] {
				if strings.Contains(strings.ToLower(cell), kw) {
					matches++
					break
				}
			}
		}
		if matches >= 2 {
			return i
		}
	}
	if len(rows) > fallbackHeaderRow {
		return fallbackHeaderRow
	}
	return 0
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// Backup (round-trip) path
// ----------------------------------------------------------------------------

// isBackup reports whether the header already carries the system's own
// columns (all but at most one).
func isBackup(header []string) bool {
	present := 0
	for _, want := range systemColumns {
		for _, h := range header {
			if h == want {
				present++
				break
			}
		}
	}
	return present >= len(systemColumns)-1
}

// backupSetters maps canonical headers to field assignments. Booleans go
// through the strict truthy allow-list; license IDs are trimmed of the
// float artifact.
var backupSetters = map[string]func(*Player, string){
	"license_id":         func(p *Player, v string) { p.LicenseID = cleanLicenseID(v) },
	"surname":            func(p *Player, v string) { p.Surname = v },
	"second_surname":     func(p *Player, v string) { p.SecondSurname = v },
	"given_name":         func(p *Player, v string) { p.GivenName = v },
	"display_name":       func(p *Player, v string) { p.DisplayName = v },
	"gender":             func(p *Player, v string) { p.Gender = v },
	"gender_code":        func(p *Player, v string) { p.GenderCode = v },
	"country":            func(p *Player, v string) { p.Country = v },
	"birth_date":         func(p *Player, v string) { p.BirthDate = v },
	"club":               func(p *Player, v string) { p.OriginClub = v },
	"team":               func(p *Player, v string) { p.CurrentTeam = v },
	"transfer_flag":      func(p *Player, v string) { p.TransferFlag = v },
	"license_start":      func(p *Player, v string) { p.LicenseStart = v },
	"license_validation": func(p *Player, v string) { p.LicenseValidation = v },
	"status":             func(p *Player, v string) { p.Status = v },
	"normative_errors":   func(p *Player, v string) { p.NormativeErrors = v },
	"review_notes":       func(p *Player, v string) { p.ReviewNotes = v },
	"loaned":             func(p *Player, v string) { p.Loaned = strictBool(v) },
	"non_selectable":     func(p *Player, v string) { p.NonSelectable = strictBool(v) },
	"data_valid":         func(p *Player, v string) { p.DataValid = strictBool(v) },
	"excluded":           func(p *Player, v string) { p.Excluded = strictBool(v) },
	"sworn_declaration":  func(p *Player, v string) { p.SwornDeclaration = strictBool(v) },
	"loan_document":      func(p *Player, v string) { p.LoanDocument = strictBool(v) },
	"license_amended":    func(p *Player, v string) { p.LicenseAmended = strictBool(v) },
}

func ingestBackup(header []string, data [][]string) *Table {
	t := NewTable()
	for _, row := range data {
		if blankRow(row) {
			continue
		}
		p := &Player{}
		for i, h := range header {
			if i >= len(row) {
				break
			}
			if set, ok := backupSetters[h]; ok {
				set(p, strings.TrimSpace(row[i]))
			}
		}
		t.Players = append(t.Players, p)
	}
	return t
}

// strictBool coerces spreadsheet boolean cells. Only the allow-listed
// truthy tokens count; everything else is false.
func strictBool(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "TRUE", "1", "YES", "SI":
		return true
	}
	return false
}

// cleanLicenseID trims whitespace and the ".0" suffix Excel leaves behind
// when integer IDs pass through a float column.
func cleanLicenseID(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimSuffix(v, ".0")
}

// ----------------------------------------------------------------------------
// Column mapping (non-backup path)
// ----------------------------------------------------------------------------

// mapColumns resolves each source column to a canonical field in a single
// pass. Returns a slice parallel to the header, with "" for unmapped
// columns, or a *FormatError when required fields are absent.
func mapColumns(header []string) ([]string, error) {
	mapping := make([]string, len(header))
	nameColumns := 0

	for i, h := range header {
		lower := strings.ToLower(h)
		squashed := strings.NewReplacer(" ", "", "_", "").Replace(lower)

		switch {
		case h == "N.":
			// Row counter, never an ID despite the name.
		case strings.HasSuffix(lower, ".id"),
			strings.Contains(lower, "licencia"),
			strings.Contains(squashed, "memberid"):
			mapping[i] = colLicenseID
		case strings.Contains(lower, "club"):
			mapping[i] = colClub
		case strings.Contains(lower, "equipo"), strings.Contains(lower, "prueba"):
			mapping[i] = colTeam
		case strings.Contains(lower, "nombre") && strings.HasPrefix(lower, "2"):
			mapping[i] = colSecondSurname
		case lower == "nombre.1":
			mapping[i] = colGivenName
		case strings.Contains(lower, "nombre"):
			// Federation exports repeat "Nombre": first occurrence is the
			// surname, the second the given name.
			if nameColumns == 0 {
				mapping[i] = colSurname
			} else {
				mapping[i] = colGivenName
			}
			nameColumns++
		case strings.Contains(lower, "género"), strings.Contains(lower, "genero"), strings.Contains(lower, "sexo"):
			mapping[i] = colGender
		case strings.Contains(lower, "país"), strings.Contains(lower, "pais"):
			mapping[i] = colCountry
		case strings.Contains(lower, "nac"):
			mapping[i] = colBirthDate
		case strings.Contains(lower, "inicio"):
			mapping[i] = colLicenseStart
		case strings.Contains(lower, "validacion"), strings.Contains(lower, "validación"):
			mapping[i] = colLicenseValidation
		}
	}

	// Several columns can look like the license ID ("Nº.ID" plus a stray
	// "Licencia"); keep only the longest column name, deterministically.
	var idCols []int
	for i, field := range mapping {
		if field == colLicenseID {
			idCols = append(idCols, i)
		}
	}
	if len(idCols) > 1 {
		best := idCols[0]
		for _, i := range idCols[1:] {
			if len(header[i]) > len(header[best]) {
				best = i
			}
		}
		for _, i := range idCols {
			if i != best {
				mapping[i] = ""
			}
		}
	}

	var missing []string
	for _, required := range []string{colLicenseID, colSurname, colClub, colTeam} {
		found := false
		for _, field := range mapping {
			if field == required {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{Missing: missing}
	}
	return mapping, nil
}

// assignField writes a mapped cell onto the player, repairing mojibake on
// the text fields it is known to appear in.
func assignField(p *Player, field, value string) {
	switch field {
	case colLicenseID:
		p.LicenseID = cleanLicenseID(value)
	case colSurname:
		p.Surname = fixMojibake(value)
	case colSecondSurname:
		p.SecondSurname = fixMojibake(value)
	case colGivenName:
		p.GivenName = fixMojibake(value)
	case colGender:
		p.Gender = value
	case colCountry:
		p.Country = fixMojibake(value)
	case colBirthDate:
		p.BirthDate = value
	case colClub:
		p.OriginClub = fixMojibake(value)
	case colTeam:
		p.CurrentTeam = fixMojibake(value)
	case colLicenseStart:
		p.LicenseStart = value
	case colLicenseValidation:
		p.LicenseValidation = value
	}
}

// fixMojibake repairs text that was UTF-8 but got decoded as Latin-1
// somewhere upstream ("AlfajarÃ­n" -> "Alfajarín"). The artifact always
// contains 'Ã'; re-encode each rune as its Latin-1 byte and re-decode as
// UTF-8, keeping the original when the round trip does not hold.
func fixMojibake(s string) string {
	if !strings.Contains(s, "Ã") {
		return s
	}
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		b = append(b, byte(r))
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return s
}

// ----------------------------------------------------------------------------
// ID column heuristics (operator tooling)
// ----------------------------------------------------------------------------

var idNamePattern = regexp.MustCompile(`(?i)n[º°?║.]*\.?id`)

// BestIDColumn scores the columns of a raw table and returns the index of
// the most plausible license-ID column, or -1 when none qualifies.
//
// A good ID column has numeric content in a plausible license range and is
// not a sequential row counter. Useful when an import maps no ID column
// and an operator has to pick one by hand.
func BestIDColumn(header []string, data [][]string) int {
	best := -1
	bestScore := -1

	for col, name := range header {
		name = strings.TrimSpace(name)
		lower := strings.ToLower(name)

		if name != "N." && !idNamePattern.MatchString(name) &&
			!strings.Contains(lower, "licencia") && !strings.Contains(lower, "id") {
			continue
		}

		var nums []float64
		for _, row := range data {
			if col >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				nums = append(nums, f)
			}
		}
		if len(nums) == 0 {
			continue
		}

		score := 0

		// Sequential row counters step by exactly one and start low.
		if len(nums) > 10 {
			sequential := nums[0] <= 1
			for i := 1; i < 10 && sequential; i++ {
				if nums[i]-nums[i-1] != 1 {
					sequential = false
				}
			}
			if sequential {
				score -= 50
			}
		}

		var sum float64
		for _, n := range nums {
			sum += n
		}
		mean := sum / float64(len(nums))
		switch {
		case mean >= 1000 && mean <= 900000:
			score += 20
		case mean < 100:
			score -= 10
		}

		if strings.Contains(lower, "id") && strings.Contains(lower, "n.") {
			score += 10
		}
		if name == "N." {
			score += 5
		}

		if score > bestScore {
			bestScore = score
			best = col
		}
	}
	return best
}
