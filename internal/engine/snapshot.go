package engine

import (
	"github.com/shopspring/decimal"
)

// SnapshotLevel is one aggregated price level in a depth snapshot:
// the price and the total remaining quantity resting there. Individual
// order identities are not exposed.
type SnapshotLevel struct {
	Price    decimal.Decimal
	Quantity int64
}

// Snapshot is an L2 depth view of one symbol at a point in time.
// Spread and Midpoint are nil when either side is empty; each VWAP is
// nil when its side contributes no levels within the requested depth.
type Snapshot struct {
	Symbol   string
	Bids     []SnapshotLevel
	Asks     []SnapshotLevel
	Spread   *decimal.Decimal
	Midpoint *decimal.Decimal
	BidVWAP  *decimal.Decimal
	AskVWAP  *decimal.Decimal
}

// DefaultDepth is the number of levels per side a snapshot includes
// when the caller does not say otherwise.
const DefaultDepth = 5

// Snapshot derives a read-only depth view of the symbol: up to depth
// levels per side, best-first, plus spread, midpoint and per-side VWAP
// over the included levels. An untouched symbol yields empty sides and
// nil derived values; so does depth <= 0. The symbol's read lock is
// held for the whole derivation, so the view is never torn by a
// concurrent match or cancel.
func (b *Book) Snapshot(symbol string, depth int) Snapshot {
	snap := Snapshot{
		Symbol: symbol,
		Bids:   []SnapshotLevel{},
		Asks:   []SnapshotLevel{},
	}

	mkt, ok := b.peekMarket(symbol)
	if !ok || depth <= 0 {
		return snap
	}

	mkt.mu.RLock()
	defer mkt.mu.RUnlock()

	snap.Bids = topLevels(mkt.bids, depth)
	snap.Asks = topLevels(mkt.asks, depth)

	if len(snap.Bids) > 0 && len(snap.Asks) > 0 {
		bestBid := snap.Bids[0].Price
		bestAsk := snap.Asks[0].Price
		spread := bestAsk.Sub(bestBid)
		midpoint := bestAsk.Add(bestBid).Div(decimal.NewFromInt(2))
		snap.Spread = &spread
		snap.Midpoint = &midpoint
	}

	snap.BidVWAP = vwap(snap.Bids)
	snap.AskVWAP = vwap(snap.Asks)
	return snap
}

// topLevels walks a side best-first and aggregates at most n levels.
func topLevels(side *bookSide, n int) []SnapshotLevel {
	levels := make([]SnapshotLevel, 0, n)
	side.ascend(func(l *level) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, SnapshotLevel{
			Price:    l.price,
			Quantity: l.totalRemaining(),
		})
		return true
	})
	return levels
}

// vwap returns the volume-weighted average price over the given
// levels, or nil when they hold no quantity.
func vwap(levels []SnapshotLevel) *decimal.Decimal {
	total := decimal.Zero
	var qty int64
	for _, l := range levels {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
		qty += l.Quantity
	}
	if qty == 0 {
		return nil
	}
	v := total.Div(decimal.NewFromInt(qty))
	return &v
}
