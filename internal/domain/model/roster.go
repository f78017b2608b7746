package model

import "strings"

// RosterEntry is one roster row.
type RosterEntry struct {
	PlayerID string `json:"gsis_id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

// Roster indexes roster rows by player id and lower-cased full name.
// The first row wins when keys repeat. A nil *Roster answers every lookup
// with a miss.
type Roster struct {
	byID   map[string]RosterEntry
	byName map[string]RosterEntry
}

// NewRoster builds the index.
func NewRoster(entries []RosterEntry) *Roster {
	r := &Roster{
		byID:   make(map[string]RosterEntry, len(entries)),
		byName: make(map[string]RosterEntry, len(entries)),
	}
	for _, e := range entries {
		if e.PlayerID != "" {
			if _, dup := r.byID[e.PlayerID]; !dup {
				r.byID[e.PlayerID] = e
			}
		}
		if key := nameKey(e.FullName); key != "" {
			if _, dup := r.byName[key]; !dup {
				r.byName[key] = e
			}
		}
	}
	return r
}

// NameByID returns the full name for a player id.
func (r *Roster) NameByID(id string) (string, bool) {
	if r == nil || id == "" {
		return "", false
	}
	e, ok := r.byID[id]
	if !ok || e.FullName == "" {
		return "", false
	}
	return e.FullName, true
}

// Position resolves a position by id first, then by case-insensitive name.
func (r *Roster) Position(id, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	if id != "" {
		if e, ok := r.byID[id]; ok {
			return e.Position, true
		}
	}
	if key := nameKey(name); key != "" {
		if e, ok := r.byName[key]; ok {
			return e.Position, true
		}
	}
	return "", false
}

// Len returns the number of indexed player ids.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byID)
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
