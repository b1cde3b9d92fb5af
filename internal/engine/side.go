package engine

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/zkhorozianbc/orderbook/internal/domain"
)

// bookSide holds one symbol's price levels for a single side. The
// B-tree orders levels best-first (bids: price descending, asks: price
// ascending) so Min() is always the best level, and the key map gives
// exact-price lookup without walking the tree. Both structures scale
// with the number of distinct price levels, not the number of orders.
type bookSide struct {
	side  domain.Side
	tree  *btree.BTreeG[*level]
	byKey map[string]*level
}

// bidLevelLess orders bid levels by price descending, so Min() returns
// the highest bid.
func bidLevelLess(a, b *level) bool {
	return a.price.GreaterThan(b.price)
}

// askLevelLess orders ask levels by price ascending, so Min() returns
// the lowest ask.
func askLevelLess(a, b *level) bool {
	return a.price.LessThan(b.price)
}

func newBookSide(side domain.Side) *bookSide {
	const degree = 32
	less := askLevelLess
	if side == domain.SideBid {
		less = bidLevelLess
	}
	return &bookSide{
		side:  side,
		tree:  btree.NewG(degree, less),
		byKey: make(map[string]*level),
	}
}

// get returns the level at the exact (normalized) price.
func (s *bookSide) get(price decimal.Decimal) (*level, bool) {
	l, ok := s.byKey[domain.PriceKey(price)]
	return l, ok
}

// getOrCreate returns the level at the exact price, creating and
// registering an empty one when absent.
func (s *bookSide) getOrCreate(price decimal.Decimal) *level {
	key := domain.PriceKey(price)
	if l, ok := s.byKey[key]; ok {
		return l
	}
	l := newLevel(s.side, price)
	s.tree.ReplaceOrInsert(l)
	s.byKey[key] = l
	return l
}

// removeLevel detaches a level from both the tree and the key map.
// Called the moment a level becomes empty; empty levels never persist.
func (s *bookSide) removeLevel(l *level) {
	s.tree.Delete(l)
	delete(s.byKey, domain.PriceKey(l.price))
}

// best returns the best-priced level: highest for bids, lowest for asks.
func (s *bookSide) best() (*level, bool) {
	return s.tree.Min()
}

// ascend walks levels best-first until fn returns false.
func (s *bookSide) ascend(fn func(*level) bool) {
	s.tree.Ascend(fn)
}
