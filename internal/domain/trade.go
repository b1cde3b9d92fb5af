package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade records one fill between an incoming order and a standing
// order. The price is always the standing order's price, so the
// incoming side receives any price improvement. Seq orders trades for
// audit purposes.
type Trade struct {
	IncomingID uuid.UUID
	StandingID uuid.UUID
	Price      decimal.Decimal
	Quantity   int64
	Seq        uint64
}

// TradeBlotter is the result of one match call: the (mutated) incoming
// order plus the trades it produced, in execution order.
type TradeBlotter struct {
	Order  *Order
	Trades []Trade
}

// FilledQuantity returns the total quantity filled by this call.
func (b *TradeBlotter) FilledQuantity() int64 {
	var total int64
	for _, t := range b.Trades {
		total += t.Quantity
	}
	return total
}

// TotalCost returns the sum of price times quantity over all trades.
func (b *TradeBlotter) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Trades {
		total = total.Add(t.Price.Mul(decimal.NewFromInt(t.Quantity)))
	}
	return total
}

// AveragePrice returns the quantity-weighted average fill price. The
// second return value is false when no fills occurred, in which case
// the average is undefined.
func (b *TradeBlotter) AveragePrice() (decimal.Decimal, bool) {
	qty := b.FilledQuantity()
	if qty == 0 {
		return decimal.Decimal{}, false
	}
	return b.TotalCost().Div(decimal.NewFromInt(qty)), true
}
