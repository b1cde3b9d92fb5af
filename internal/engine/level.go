package engine

import (
	"container/list"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zkhorozianbc/orderbook/internal/domain"
)

// level is the FIFO queue of orders resting at one exact price. The
// doubly-linked list keeps arrival order; the element map gives O(1)
// removal of an arbitrary order on cancellation.
type level struct {
	side  domain.Side
	price decimal.Decimal
	queue *list.List // of *domain.Order
	elems map[uuid.UUID]*list.Element
}

func newLevel(side domain.Side, price decimal.Decimal) *level {
	return &level{
		side:  side,
		price: price,
		queue: list.New(),
		elems: make(map[uuid.UUID]*list.Element),
	}
}

// append adds an order to the tail of the queue.
func (l *level) append(o *domain.Order) {
	l.elems[o.ID] = l.queue.PushBack(o)
}

// head returns the oldest resting order, or nil when empty.
func (l *level) head() *domain.Order {
	front := l.queue.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*domain.Order)
}

// popHead removes the oldest resting order.
func (l *level) popHead() {
	front := l.queue.Front()
	if front == nil {
		return
	}
	o := front.Value.(*domain.Order)
	l.queue.Remove(front)
	delete(l.elems, o.ID)
}

// remove deletes the order with the given id, leaving the relative
// order of the remaining siblings untouched.
func (l *level) remove(id uuid.UUID) bool {
	e, ok := l.elems[id]
	if !ok {
		return false
	}
	l.queue.Remove(e)
	delete(l.elems, id)
	return true
}

func (l *level) empty() bool {
	return l.queue.Len() == 0
}

// totalRemaining sums the remaining quantity of every resting order.
func (l *level) totalRemaining() int64 {
	var total int64
	for e := l.queue.Front(); e != nil; e = e.Next() {
		total += e.Value.(*domain.Order).Remaining
	}
	return total
}

// PriceLevel is a read-only view of one resting price level. Orders
// holds resting order ids in FIFO order; individual order state is not
// exposed.
type PriceLevel struct {
	Symbol   string
	Side     domain.Side
	Price    decimal.Decimal
	Quantity int64
	Orders   []uuid.UUID
}

// view snapshots the level into its exported form.
func (l *level) view(symbol string) PriceLevel {
	ids := make([]uuid.UUID, 0, l.queue.Len())
	var total int64
	for e := l.queue.Front(); e != nil; e = e.Next() {
		o := e.Value.(*domain.Order)
		ids = append(ids, o.ID)
		total += o.Remaining
	}
	return PriceLevel{
		Symbol:   symbol,
		Side:     l.side,
		Price:    l.price,
		Quantity: total,
		Orders:   ids,
	}
}
