// Package odds converts probabilities and American prices into fair odds,
// expected value and fractional-Kelly stakes.
package odds

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPrice is returned for a zero American price.
var ErrInvalidPrice = errors.New("invalid american price")

// CertainOdds is the fair price reported for a probability of one or more.
const CertainOdds = -10000

// snapEpsilon absorbs float noise such as 0.6/0.4*100 = 149.99999999999997.
const snapEpsilon = 1e-9

// AmericanToDecimal converts an American price to decimal odds.
func AmericanToDecimal(price int) (float64, error) {
	switch {
	case price > 0:
		return float64(price)/100 + 1, nil
	case price < 0:
		return 100/math.Abs(float64(price)) + 1, nil
	}
	return 0, fmt.Errorf("price %d: %w", price, ErrInvalidPrice)
}

// FairOdds returns the American price implied by probability p, truncated
// toward zero.
func FairOdds(p float64) int {
	switch {
	case p <= 0 || math.IsNaN(p):
		return 0
	case p >= 1:
		return CertainOdds
	case p > 0.5:
		return truncate(-100 * p / (1 - p))
	}
	return truncate(100 * (1 - p) / p)
}

// ExpectedValue is the profit per unit staked at decimal odds dec when the
// win probability is p.
func ExpectedValue(p, dec float64) float64 {
	return p*dec - 1
}

func truncate(x float64) int {
	if r := math.Round(x); math.Abs(x-r) < snapEpsilon {
		x = r
	}
	return int(math.Trunc(x))
}
