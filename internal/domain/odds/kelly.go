package odds

import "github.com/shopspring/decimal"

// KellyStake returns the fractional-Kelly stake for a bet with win
// probability p at decimal odds dec, rounded to cents. It is zero whenever
// the full-Kelly fraction is not positive.
func KellyStake(p, dec float64, bankroll decimal.Decimal, fraction float64) decimal.Decimal {
	if p <= 0 || dec <= 1 || fraction <= 0 || !bankroll.IsPositive() {
		return decimal.Zero
	}
	b := dec - 1
	f := (b*p - (1 - p)) / b
	if f <= 0 {
		return decimal.Zero
	}
	return bankroll.
		Mul(decimal.NewFromFloat(f)).
		Mul(decimal.NewFromFloat(fraction)).
		Round(2)
}
