package odds

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"
)

// DefaultMinNameLength is the shortest name eligible for substring matching.
const DefaultMinNameLength = 4

// PlayerIndex finds a player's probability from a bookmaker's spelling of
// the name.
type PlayerIndex struct {
	exact  map[string]model.PlayerProbability
	folded map[string]string
	keys   []string // sorted
	minLen int
}

// NewPlayerIndex indexes probs by player name. minLen below one falls back
// to DefaultMinNameLength.
func NewPlayerIndex(probs []model.PlayerProbability, minLen int) *PlayerIndex {
	if minLen < 1 {
		minLen = DefaultMinNameLength
	}
	ix := &PlayerIndex{
		exact:  make(map[string]model.PlayerProbability, len(probs)),
		folded: make(map[string]string, len(probs)),
		minLen: minLen,
	}
	for _, p := range probs {
		if _, dup := ix.exact[p.Player]; dup {
			continue
		}
		ix.exact[p.Player] = p
		ix.keys = append(ix.keys, p.Player)
	}
	sort.Strings(ix.keys)
	for _, k := range ix.keys {
		f := strings.ToLower(k)
		if _, dup := ix.folded[f]; !dup {
			ix.folded[f] = k
		}
	}
	return ix
}

// Len returns the number of indexed players.
func (ix *PlayerIndex) Len() int { return len(ix.keys) }

// Lookup matches name exactly, then case-insensitively, then by substring
// containment in either direction when both names are at least minLen
// characters. Among substring candidates the longest name wins, then the
// alphabetically first.
func (ix *PlayerIndex) Lookup(name string) (model.PlayerProbability, bool) {
	if p, ok := ix.exact[name]; ok {
		return p, true
	}
	n := strings.ToLower(strings.TrimSpace(name))
	if k, ok := ix.folded[n]; ok {
		return ix.exact[k], true
	}
	if utf8.RuneCountInString(n) < ix.minLen {
		return model.PlayerProbability{}, false
	}

	best := ""
	bestLen := 0
	for _, k := range ix.keys {
		kl := utf8.RuneCountInString(k)
		if kl < ix.minLen {
			continue
		}
		f := strings.ToLower(k)
		if !strings.Contains(f, n) && !strings.Contains(n, f) {
			continue
		}
		// keys are sorted, so strict > keeps the alphabetically first
		if kl > bestLen {
			best, bestLen = k, kl
		}
	}
	if best == "" {
		return model.PlayerProbability{}, false
	}
	return ix.exact[best], true
}
