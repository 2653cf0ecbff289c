// Package roster provides the canonical player record and the batch
// transforms that operate on it: spreadsheet ingestion, player
// classification and roster merging.
//
// A roster is the single mutable source of truth for one imported
// competition entry list. All transforms here are synchronous and operate
// on in-memory tables; persistence and any other I/O belong to callers.
package roster

import "strings"

// Status labels assembled by the classifier. A player's Status is the
// pipe-joined list of the labels that apply, in this fixed order, or
// StatusOK when none do.
const (
	StatusOK              = "OK"
	LabelLoaned           = "Loaned"
	LabelForeign          = "Foreign"
	LabelExcluded         = "EXCLUDED"
	LabelIncompleteData   = "Incomplete Data"
	statusSeparator       = " | "
	TransferFlagMultiClub = "MULTI-CLUB / TRANSFER"
)

// Player is one row of the roster table.
//
// Identity and name fields come from the ingested spreadsheet. Derived
// fields (DisplayName, GenderCode, the classification flags and Status) are
// recomputed by Classify on every pass. Review fields (Excluded,
// SwornDeclaration, LoanDocument, LicenseAmended, ReviewNotes) are manual
// state and are only ever defaulted when absent, never overwritten.
type Player struct {
	// LicenseID is the player's federation license number. Unique within a
	// roster; alphanumeric values are tolerated even though IDs are numeric
	// in practice.
	LicenseID string `json:"license_id"`

	Surname       string `json:"surname"`
	SecondSurname string `json:"second_surname,omitempty"`
	GivenName     string `json:"given_name"`

	// DisplayName is derived: surname followed by given name.
	DisplayName string `json:"display_name,omitempty"`

	// Gender is the raw imported value; GenderCode is the normalized
	// single letter ("M", "F" or empty when undetermined).
	Gender     string `json:"gender,omitempty"`
	GenderCode string `json:"gender_code,omitempty"`

	Country   string `json:"country,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`

	// OriginClub is the club the player belongs to; CurrentTeam is the
	// competition entry the player is registered under. Audits group by
	// CurrentTeam, never by club.
	OriginClub  string `json:"club"`
	CurrentTeam string `json:"team"`

	// TransferFlag marks rows whose imported team cell listed several
	// teams. Resolution to a single destination happens during merge.
	TransferFlag string `json:"transfer_flag,omitempty"`

	// LicenseStart is the license validity start date (DD/MM/YYYY) used by
	// the registration-deadline check.
	LicenseStart string `json:"license_start,omitempty"`

	// LicenseValidation is written by the external license registry
	// collaborator and only read here.
	LicenseValidation string `json:"license_validation,omitempty"`

	// Derived classification flags.
	Loaned        bool `json:"loaned"`
	NonSelectable bool `json:"non_selectable"`
	DataValid     bool `json:"data_valid"`

	// Manual review state.
	Excluded         bool   `json:"excluded"`
	SwornDeclaration bool   `json:"sworn_declaration"`
	LoanDocument     bool   `json:"loan_document"`
	LicenseAmended   bool   `json:"license_amended"`
	ReviewNotes      string `json:"review_notes,omitempty"`

	// Status is the derived summary; NormativeErrors is the pipe-joined
	// violation list rebuilt from scratch on every compliance pass.
	Status          string `json:"status"`
	NormativeErrors string `json:"normative_errors,omitempty"`
}

// AppendViolation adds a violation string to the player's pipe-joined
// violation list.
func (p *Player) AppendViolation(v string) {
	if p.NormativeErrors == "" {
		p.NormativeErrors = v
		return
	}
	p.NormativeErrors += statusSeparator + v
}

// HasViolation reports whether v already appears in the violation list.
func (p *Player) HasViolation(v string) bool {
	return strings.Contains(p.NormativeErrors, v)
}

// Table is an ordered roster of players. Order is preserved across
// classification and merge so change logs and exports stay stable.
type Table struct {
	Players []*Player
}

// NewTable returns an empty roster table.
func NewTable() *Table {
	return &Table{}
}

// Len returns the number of players in the table.
func (t *Table) Len() int { return len(t.Players) }

// ByLicenseID returns the first player with the given (trimmed) license ID,
// or nil when absent.
func (t *Table) ByLicenseID(id string) *Player {
	id = strings.TrimSpace(id)
	for _, p := range t.Players {
		if strings.TrimSpace(p.LicenseID) == id {
			return p
		}
	}
	return nil
}

// Teams returns the distinct CurrentTeam values in first-seen order.
func (t *Table) Teams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, p := range t.Players {
		if !seen[p.CurrentTeam] {
			seen[p.CurrentTeam] = true
			teams = append(teams, p.CurrentTeam)
		}
	}
	return teams
}

// TeamPlayers returns the players registered under the given team, in
// table order.
func (t *Table) TeamPlayers(team string) []*Player {
	var out []*Player
	for _, p := range t.Players {
		if p.CurrentTeam == team {
			out = append(out, p)
		}
	}
	return out
}
