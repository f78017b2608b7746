// Package funnel labels defenses that push offenses toward the pass or the run.
package funnel

import "github.com/akursar1107/nfl-first-td-analyzer/internal/domain/defense"

// Label is a funnel classification. The zero value means no funnel.
type Label string

// Funnel labels.
const (
	None Label = ""
	Pass Label = "Pass Funnel"
	Run  Label = "Run Funnel"
)

// Fixed rank thresholds.
const (
	StrongRank  = 12
	WeakRank    = 20
	DefaultRank = 16
)

// Classify labels one defense from its RB, WR and TE ranks. A rank of zero
// or less is treated as missing and replaced by DefaultRank.
func Classify(rb, wr, te int) Label {
	rb, wr, te = orDefault(rb), orDefault(wr), orDefault(te)
	pass := float64(wr+te) / 2
	switch {
	case float64(rb) <= StrongRank && pass >= WeakRank:
		return Pass
	case pass <= StrongRank && float64(rb) >= WeakRank:
		return Run
	}
	return None
}

// ClassifyAll labels every defense in the table. Teams without a funnel are
// omitted.
func ClassifyAll(t defense.Table) map[string]Label {
	out := make(map[string]Label)
	for _, r := range t.Teams() {
		if l := Classify(r.Rank(defense.RB), r.Rank(defense.WR), r.Rank(defense.TE)); l != None {
			out[r.Team] = l
		}
	}
	return out
}

// Matches reports whether a scorer at position benefits from the funnel.
func Matches(l Label, position string) bool {
	switch l {
	case Pass:
		return position == "WR" || position == "TE" || position == "QB"
	case Run:
		return position == "RB"
	}
	return false
}

func orDefault(rank int) int {
	if rank <= 0 {
		return DefaultRank
	}
	return rank
}
