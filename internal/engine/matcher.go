package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zkhorozianbc/orderbook/internal/domain"
)

// Match crosses the incoming order against the opposite side of its
// symbol's book under price-time priority, mutating the order in
// place, and rests any unfilled remainder. It returns a blotter scoped
// to exactly this call's trades.
//
// The symbol's write lock is held for the entire sweep, so a
// concurrent snapshot never observes a half-applied fill.
func (b *Book) Match(order *domain.Order) *domain.TradeBlotter {
	mkt := b.market(order.Symbol)
	mkt.mu.Lock()
	defer mkt.mu.Unlock()

	order.Seq = b.nextSeq()
	return b.sweep(mkt, order)
}

// MatchAll threads each order through Match in input order. Later
// orders may cross against levels created by earlier ones, so the
// sequence is never reordered or parallelized.
func (b *Book) MatchAll(orders []*domain.Order) []*domain.TradeBlotter {
	blotters := make([]*domain.TradeBlotter, 0, len(orders))
	for _, o := range orders {
		blotters = append(blotters, b.Match(o))
	}
	return blotters
}

// Record is one pre-parsed order-construction record handed to the
// book by an ingestion layer. Parsing of external formats happens
// outside the engine.
type Record struct {
	Side     domain.Side
	Symbol   string
	Price    decimal.Decimal
	Quantity int64
}

// Ingest validates every record, then matches the resulting orders
// strictly in input order. Validation runs before any matching, so a
// bad record aborts the whole batch without touching the book.
func (b *Book) Ingest(records []Record) ([]*domain.TradeBlotter, error) {
	orders := make([]*domain.Order, 0, len(records))
	for i, rec := range records {
		o, err := domain.NewOrder(rec.Side, rec.Symbol, rec.Price, rec.Quantity)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		orders = append(orders, o)
	}
	return b.MatchAll(orders), nil
}

// sweep runs the matching loop against the opposite side. Strict price
// priority: a better level is fully exhausted before a worse one is
// touched. Strict FIFO within a level: the head order fills first
// regardless of size, and partial fills never skip ahead.
func (b *Book) sweep(mkt *market, incoming *domain.Order) *domain.TradeBlotter {
	opposite := mkt.sideFor(incoming.Side.Other())
	trades := []domain.Trade{}

	for incoming.Remaining > 0 {
		lvl, ok := opposite.best()
		if !ok || !incoming.Side.Crosses(incoming.Price, lvl.price) {
			break
		}

		standing := lvl.head()
		qty := incoming.Remaining
		if standing.Remaining < qty {
			qty = standing.Remaining
		}

		// Fill price is the standing order's level price; the incoming
		// side keeps any price improvement.
		t := domain.Trade{
			IncomingID: incoming.ID,
			StandingID: standing.ID,
			Price:      lvl.price,
			Quantity:   qty,
			Seq:        b.nextSeq(),
		}
		incoming.Fill(qty)
		standing.Fill(qty)
		trades = append(trades, t)
		mkt.trades.record(t)

		if standing.Remaining == 0 {
			lvl.popHead()
			b.idxMu.Lock()
			delete(b.index, standing.ID)
			b.idxMu.Unlock()
		}
		if lvl.empty() {
			opposite.removeLevel(lvl)
		}
	}

	if incoming.Remaining > 0 {
		b.rest(mkt, incoming)
	}

	return &domain.TradeBlotter{Order: incoming, Trades: trades}
}

// rest queues the unfilled remainder at the tail of its price level
// and registers it in the order index. The fresh sequence number keeps
// FIFO position and time of reaching the book the same number.
func (b *Book) rest(mkt *market, order *domain.Order) {
	order.Seq = b.nextSeq()
	lvl := mkt.sideFor(order.Side).getOrCreate(order.Price)
	lvl.append(order)

	b.idxMu.Lock()
	b.index[order.ID] = order
	b.idxMu.Unlock()
}
