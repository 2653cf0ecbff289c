package roster

// merge.go reconciles a newly ingested batch against an existing roster.
//
// New license IDs are appended; known IDs get field-level updates with a
// change note on the player and a human-readable log entry. A team cell
// listing several teams ("Old Team, New Team") is a transfer notation: the
// candidate that does not match the player's current team is the
// destination.

import (
	"fmt"
	"strings"

	"rosteraudit/internal/textnorm"
)

// transferMatchThreshold is the similarity above which an incoming team
// candidate is considered the player's current team.
const transferMatchThreshold = 0.9

// MergeReport summarizes a merge: counts plus an ordered human-readable
// change log (summary line first, then additions, then updates).
type MergeReport struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Log     []string `json:"log"`
}

// Merge applies the incoming batch onto the current roster in place and
// returns the merged table with the change log.
//
// Incoming rows whose license ID cannot be located by exact match where an
// update was expected are skipped, never inserted, to avoid duplicate-key
// corruption; the report counts them.
func Merge(current, incoming *Table) (*Table, *MergeReport) {
	report := &MergeReport{}

	existing := make(map[string]bool, current.Len())
	for _, p := range current.Players {
		existing[strings.TrimSpace(p.LicenseID)] = true
	}

	var added []*Player
	var updates []*Player
	for _, p := range incoming.Players {
		if existing[strings.TrimSpace(p.LicenseID)] {
			updates = append(updates, p)
		} else {
			added = append(added, p)
		}
	}

	var log []string
	if len(added) > 0 {
		log = append(log, fmt.Sprintf("Added %d new players:", len(added)))
		for _, p := range added {
			log = append(log, fmt.Sprintf("- %s (%s) -> %s", logName(p), p.LicenseID, p.CurrentTeam))
		}
	}
	if len(updates) > 0 {
		log = append(log, fmt.Sprintf("Reviewing %d existing players...", len(updates)))
	}

	for _, in := range updates {
		cur := current.ByLicenseID(in.LicenseID)
		if cur == nil {
			report.Skipped++
			continue
		}

		oldTeam := strings.TrimSpace(cur.CurrentTeam)
		newTeam := strings.TrimSpace(in.CurrentTeam)
		oldClub := strings.TrimSpace(cur.OriginClub)
		newClub := strings.TrimSpace(in.OriginClub)

		var changes []string

		finalTeam, transfer := resolveTransfer(oldTeam, newTeam)
		note := ""
		if transfer {
			note = " (transfer detected)"
		}
		if !blankValue(finalTeam) && oldTeam != finalTeam {
			cur.CurrentTeam = finalTeam
			changes = append(changes, fmt.Sprintf("Team: '%s' -> '%s'%s", oldTeam, finalTeam, note))
		}

		if !blankValue(newClub) && oldClub != newClub {
			cur.OriginClub = newClub
			changes = append(changes, fmt.Sprintf("Club: '%s' -> '%s'", oldClub, newClub))
		}

		if len(changes) == 0 {
			continue
		}
		report.Updated++

		changeNote := fmt.Sprintf(" [MOD: %s]", strings.Join(changes, ", "))
		if !strings.Contains(cur.ReviewNotes, changeNote) {
			cur.ReviewNotes = strings.TrimSpace(cur.ReviewNotes + changeNote)
		}
		log = append(log, fmt.Sprintf("Updated: %s (%s): %s", logName(in), in.LicenseID, strings.Join(changes, ", ")))
	}

	current.Players = append(current.Players, added...)
	report.Added = len(added)

	summary := fmt.Sprintf("Summary: %d added, %d updated.", report.Added, report.Updated)
	report.Log = append([]string{summary}, log...)

	return current, report
}

// logName labels a player in the change log. Incoming batches arrive
// straight from Ingest, before classification derives DisplayName, so
// blank display names fall back to the raw name fields.
func logName(p *Player) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return strings.TrimSpace(strings.TrimSpace(p.Surname+" "+p.SecondSurname) + " " + p.GivenName)
}

// resolveTransfer resolves a comma-separated team notation against the
// player's current team. When exactly one candidate does not match the
// current team while at least one other does, the non-matching candidate
// is the destination. Any other shape falls back to the raw value.
func resolveTransfer(oldTeam, incoming string) (string, bool) {
	if !strings.Contains(incoming, ",") {
		return incoming, false
	}

	var parts []string
	for _, p := range strings.Split(incoming, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	oldNorm := textnorm.Normalize(oldTeam)
	matched := false
	var candidates []string
	for _, p := range parts {
		if textnorm.Normalize(p) == oldNorm || textnorm.Similarity(p, oldTeam) > transferMatchThreshold {
			matched = true
		} else {
			candidates = append(candidates, p)
		}
	}

	if matched && len(candidates) == 1 {
		return candidates[0], true
	}
	return incoming, false
}

// blankValue reports cells that should never overwrite existing data:
// empty strings and the "nan" artifact of missing spreadsheet values.
func blankValue(v string) bool {
	return v == "" || strings.EqualFold(v, "nan")
}
