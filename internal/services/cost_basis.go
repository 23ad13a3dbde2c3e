package services

import (
	"github.com/shopspring/decimal"

	"finances/internal/models"
)

// costBasis returns the cost of what is still held after replaying the
// trades oldest first, using weighted-average cost. A BUY adds its units at
// amount * price. A SELL removes units at the running average cost; selling
// more than is held empties the position and the excess carries no cost.
func costBasis(trades []models.CryptoTransaction) decimal.Decimal {
	held := decimal.Zero
	cost := decimal.Zero

	for _, t := range trades {
		switch t.Type {
		case models.CryptoTransactionBuy:
			held = held.Add(t.Amount)
			cost = cost.Add(t.Amount.Mul(t.Price))
		case models.CryptoTransactionSell:
			if !held.IsPositive() {
				continue
			}
			if t.Amount.GreaterThanOrEqual(held) {
				held = decimal.Zero
				cost = decimal.Zero
				continue
			}
			average := cost.Div(held)
			held = held.Sub(t.Amount)
			cost = cost.Sub(average.Mul(t.Amount))
		}
	}
	return cost
}
