package odds

import "github.com/akursar1107/nfl-first-td-analyzer/internal/domain/model"

// BestPrice is the most generous quote for one player.
type BestPrice struct {
	Player    string `json:"player"`
	Price     int    `json:"price"`
	Bookmaker string `json:"bookmaker"`
}

// BestPrices keeps the highest price per player among quotes for market,
// in order of first appearance. The first bookmaker wins a tie. An empty
// market accepts every quote.
func BestPrices(quotes []model.MarketQuote, market string) []BestPrice {
	idx := make(map[string]int)
	var out []BestPrice
	for _, q := range quotes {
		if market != "" && q.Market != market {
			continue
		}
		if q.Player == "" {
			continue
		}
		i, ok := idx[q.Player]
		if !ok {
			idx[q.Player] = len(out)
			out = append(out, BestPrice{Player: q.Player, Price: q.Price, Bookmaker: q.Bookmaker})
			continue
		}
		if q.Price > out[i].Price {
			out[i].Price, out[i].Bookmaker = q.Price, q.Bookmaker
		}
	}
	return out
}
