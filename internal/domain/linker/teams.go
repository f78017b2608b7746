package linker

import (
	"strings"
	"unicode"
)

// TeamDirectory maps team codes to franchise names. It is immutable once
// built and safe for concurrent use.
type TeamDirectory struct {
	names  map[string]string
	byNorm map[string]string
}

// NewTeamDirectory copies names into a new directory.
func NewTeamDirectory(names map[string]string) TeamDirectory {
	d := TeamDirectory{
		names:  make(map[string]string, len(names)),
		byNorm: make(map[string]string, len(names)),
	}
	for code, name := range names {
		d.names[code] = name
		d.byNorm[Normalize(name)] = code
	}
	return d
}

// DefaultTeamDirectory returns the 32 current franchises.
func DefaultTeamDirectory() TeamDirectory {
	return NewTeamDirectory(map[string]string{
		"ARI": "Arizona Cardinals",
		"ATL": "Atlanta Falcons",
		"BAL": "Baltimore Ravens",
		"BUF": "Buffalo Bills",
		"CAR": "Carolina Panthers",
		"CHI": "Chicago Bears",
		"CIN": "Cincinnati Bengals",
		"CLE": "Cleveland Browns",
		"DAL": "Dallas Cowboys",
		"DEN": "Denver Broncos",
		"DET": "Detroit Lions",
		"GB":  "Green Bay Packers",
		"HOU": "Houston Texans",
		"IND": "Indianapolis Colts",
		"JAX": "Jacksonville Jaguars",
		"KC":  "Kansas City Chiefs",
		"LV":  "Las Vegas Raiders",
		"LAC": "Los Angeles Chargers",
		"LAR": "Los Angeles Rams",
		"MIA": "Miami Dolphins",
		"MIN": "Minnesota Vikings",
		"NE":  "New England Patriots",
		"NO":  "New Orleans Saints",
		"NYG": "New York Giants",
		"NYJ": "New York Jets",
		"PHI": "Philadelphia Eagles",
		"PIT": "Pittsburgh Steelers",
		"SF":  "San Francisco 49ers",
		"SEA": "Seattle Seahawks",
		"TB":  "Tampa Bay Buccaneers",
		"TEN": "Tennessee Titans",
		"WAS": "Washington Commanders",
	})
}

// FullName returns the franchise name for code, or code itself when the
// directory does not know it.
func (d TeamDirectory) FullName(code string) string {
	if name, ok := d.names[code]; ok {
		return name
	}
	return code
}

// Code resolves an external team name back to a code. Exact normalized
// names win; otherwise the unique franchise whose normalized name contains
// or is contained by the input is used.
func (d TeamDirectory) Code(name string) (string, bool) {
	n := Normalize(name)
	if n == "" {
		return "", false
	}
	if code, ok := d.byNorm[n]; ok {
		return code, true
	}
	if _, ok := d.names[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return strings.ToUpper(strings.TrimSpace(name)), true
	}
	found := ""
	for norm, code := range d.byNorm {
		if !teamsMatch(n, norm) {
			continue
		}
		if found != "" && found != code {
			return "", false
		}
		found = code
	}
	return found, found != ""
}

// Len returns the number of known teams.
func (d TeamDirectory) Len() int { return len(d.names) }

// Normalize lowercases s and keeps only letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func teamsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
