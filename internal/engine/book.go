package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zkhorozianbc/orderbook/internal/domain"
)

// market is one symbol's fully independent state partition: a bid and
// an ask side plus the symbol's trade log, guarded by a single
// reader/writer lock. No state is shared across symbols, so markets
// never coordinate with each other.
type market struct {
	symbol string
	mu     sync.RWMutex
	bids   *bookSide
	asks   *bookSide
	trades *tradeLog
}

func newMarket(symbol string, tradeCap int) *market {
	return &market{
		symbol: symbol,
		bids:   newBookSide(domain.SideBid),
		asks:   newBookSide(domain.SideAsk),
		trades: newTradeLog(tradeCap),
	}
}

// sideFor returns the matching bookSide for a side.
func (m *market) sideFor(side domain.Side) *bookSide {
	if side == domain.SideBid {
		return m.bids
	}
	return m.asks
}

// Book aggregates per-symbol markets and the order index, and exposes
// the matching, cancellation and lookup operations.
//
// Mutating operations take the target market's write lock; read views
// and snapshots take its read lock, so concurrent readers never
// observe a partially applied mutation. The order index has its own
// lock and is only ever mutated while the owning market's write lock
// is held, keeping it transactionally consistent with the book.
type Book struct {
	mu      sync.RWMutex
	markets map[string]*market

	idxMu sync.RWMutex
	index map[uuid.UUID]*domain.Order

	seq      atomic.Uint64
	tradeCap int
}

// defaultTradeCap bounds each symbol's in-memory trade log.
const defaultTradeCap = 1024

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		markets:  make(map[string]*market),
		index:    make(map[uuid.UUID]*domain.Order),
		tradeCap: defaultTradeCap,
	}
}

// market returns the symbol's partition, creating it on first use.
// Double-checked locking keeps the fast path on the read lock.
func (b *Book) market(symbol string) *market {
	b.mu.RLock()
	mkt, ok := b.markets[symbol]
	b.mu.RUnlock()
	if ok {
		return mkt
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if mkt, ok = b.markets[symbol]; ok {
		return mkt
	}
	mkt = newMarket(symbol, b.tradeCap)
	b.markets[symbol] = mkt
	return mkt
}

// peekMarket returns the symbol's partition without creating one.
// Read-only operations use it so lookups on unseen symbols leave no
// trace in the book.
func (b *Book) peekMarket(symbol string) (*market, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	mkt, ok := b.markets[symbol]
	return mkt, ok
}

// nextSeq draws the next sequence number.
func (b *Book) nextSeq() uint64 {
	return b.seq.Add(1)
}

// Cancel removes a resting order. It fails with ErrOrderNotFound when
// the id is absent, whether it was filled, already cancelled, or never
// existed. On success the order leaves its level without disturbing
// the remaining siblings, and an emptied level leaves the side.
// Cancellation never generates trades and never partially succeeds.
func (b *Book) Cancel(id uuid.UUID) error {
	b.idxMu.RLock()
	order, ok := b.index[id]
	b.idxMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}

	mkt := b.market(order.Symbol)
	mkt.mu.Lock()
	defer mkt.mu.Unlock()

	// Re-check under the market lock: the order may have filled or
	// been cancelled since the unlocked lookup.
	b.idxMu.Lock()
	if _, ok := b.index[id]; !ok {
		b.idxMu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	delete(b.index, id)
	b.idxMu.Unlock()

	side := mkt.sideFor(order.Side)
	lvl, ok := side.get(order.Price)
	if !ok || !lvl.remove(id) {
		// The index pointed at a level that does not hold the order.
		panic(fmt.Sprintf("order index out of sync with book: %s", id))
	}
	if lvl.empty() {
		side.removeLevel(lvl)
	}
	return nil
}

// GetOrder returns a copy of the order with the given id while it
// rests on the book. The bool is false once the order has fully filled
// or been cancelled, or if it never existed. The copy is taken under
// the owning market's read lock, so Remaining and Status are always
// mutually consistent.
func (b *Book) GetOrder(id uuid.UUID) (domain.Order, bool) {
	b.idxMu.RLock()
	o, ok := b.index[id]
	b.idxMu.RUnlock()
	if !ok {
		return domain.Order{}, false
	}

	// Symbol is immutable, so it is safe to read before taking the
	// market lock. The order itself is not: the sweep mutates Remaining
	// and Status under that lock, and the order may leave the book
	// entirely before we acquire it, hence the re-check.
	mkt, ok := b.peekMarket(o.Symbol)
	if !ok {
		return domain.Order{}, false
	}
	mkt.mu.RLock()
	defer mkt.mu.RUnlock()

	b.idxMu.RLock()
	o, ok = b.index[id]
	b.idxMu.RUnlock()
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

// Orders returns a point-in-time copy of every resting order across
// all symbols, keyed by id. It holds every market's read lock for the
// duration of the copy; no mutation is in flight while it runs.
func (b *Book) Orders() map[uuid.UUID]domain.Order {
	// Holding the book lock keeps new markets from appearing while the
	// per-market locks are collected.
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, mkt := range b.markets {
		mkt.mu.RLock()
		defer mkt.mu.RUnlock()
	}

	b.idxMu.RLock()
	defer b.idxMu.RUnlock()
	out := make(map[uuid.UUID]domain.Order, len(b.index))
	for id, o := range b.index {
		out[id] = *o
	}
	return out
}

// GetLevel returns a view of the resting level at the exact price, or
// false when no such level exists. An unseen symbol simply has no
// levels; it is not an error.
func (b *Book) GetLevel(symbol string, side domain.Side, price decimal.Decimal) (PriceLevel, bool) {
	mkt, ok := b.peekMarket(symbol)
	if !ok {
		return PriceLevel{}, false
	}
	mkt.mu.RLock()
	defer mkt.mu.RUnlock()
	lvl, ok := mkt.sideFor(side).get(domain.NormalizePrice(price))
	if !ok {
		return PriceLevel{}, false
	}
	return lvl.view(symbol), true
}

// Levels returns every resting level for a symbol, best-first per
// side. An unseen symbol yields empty slices.
func (b *Book) Levels(symbol string) map[domain.Side][]PriceLevel {
	out := map[domain.Side][]PriceLevel{
		domain.SideBid: {},
		domain.SideAsk: {},
	}
	mkt, ok := b.peekMarket(symbol)
	if !ok {
		return out
	}
	mkt.mu.RLock()
	defer mkt.mu.RUnlock()
	for _, side := range []domain.Side{domain.SideBid, domain.SideAsk} {
		mkt.sideFor(side).ascend(func(l *level) bool {
			out[side] = append(out[side], l.view(symbol))
			return true
		})
	}
	return out
}

// Symbols returns every symbol the book has seen, in no particular
// order.
func (b *Book) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.markets))
	for symbol := range b.markets {
		out = append(out, symbol)
	}
	return out
}

// Trades returns up to n of the symbol's most recent trades, oldest
// first. n <= 0 returns the whole retained log, bounded by the
// per-symbol capacity.
func (b *Book) Trades(symbol string, n int) []domain.Trade {
	mkt, ok := b.peekMarket(symbol)
	if !ok {
		return []domain.Trade{}
	}
	mkt.mu.RLock()
	defer mkt.mu.RUnlock()
	return mkt.trades.recent(n)
}
