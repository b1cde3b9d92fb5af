package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places every price is normalized
// to at construction. Two numerically equal prices always normalize to
// the same representation, so they address the same price level.
const PriceScale = 8

// Side indicates whether an order buys (bid) or sells (ask).
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// Valid returns true for the two known sides.
func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Crosses reports whether an order on this side with the given limit
// price can trade against a resting level at levelPrice. A bid crosses
// levels at or below its limit; an ask crosses levels at or above.
func (s Side) Crosses(price, levelPrice decimal.Decimal) bool {
	if s == SideBid {
		return price.GreaterThanOrEqual(levelPrice)
	}
	return price.LessThanOrEqual(levelPrice)
}

// OrderStatus represents the fill state of an order.
type OrderStatus string

const (
	StatusQueued      OrderStatus = "queued"
	StatusPartialFill OrderStatus = "partial_fill"
	StatusFilled      OrderStatus = "filled"
)

// Order is a single buy or sell instruction together with its fill
// state. The matching engine mutates Remaining and Status in place;
// all other fields are fixed at construction, except Seq which the
// book assigns on acceptance.
type Order struct {
	ID        uuid.UUID
	Symbol    string
	Side      Side
	Price     decimal.Decimal
	Original  int64
	Remaining int64
	Status    OrderStatus
	Seq       uint64
}

// NewOrder validates and builds an order. The price is normalized to
// PriceScale decimal places. Fails with ErrInvalidOrder for an unknown
// side, empty symbol, non-positive price, or non-positive quantity.
func NewOrder(side Side, symbol string, price decimal.Decimal, quantity int64) (*Order, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, string(side))
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol must not be empty", ErrInvalidOrder)
	}
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero, got %s", ErrInvalidOrder, price)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero, got %d", ErrInvalidOrder, quantity)
	}
	return &Order{
		ID:        uuid.New(),
		Symbol:    symbol,
		Side:      side,
		Price:     NormalizePrice(price),
		Original:  quantity,
		Remaining: quantity,
		Status:    StatusQueued,
	}, nil
}

// NewBid builds a validated buy order.
func NewBid(symbol string, price decimal.Decimal, quantity int64) (*Order, error) {
	return NewOrder(SideBid, symbol, price, quantity)
}

// NewAsk builds a validated sell order.
func NewAsk(symbol string, price decimal.Decimal, quantity int64) (*Order, error) {
	return NewOrder(SideAsk, symbol, price, quantity)
}

// Fill reduces the remaining quantity by qty and recomputes the status.
// The caller guarantees 0 < qty <= Remaining.
func (o *Order) Fill(qty int64) {
	o.Remaining -= qty
	if o.Remaining == 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartialFill
	}
}

// NormalizePrice rounds a price to the book's fixed scale.
func NormalizePrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(PriceScale)
}

// PriceKey returns the canonical map key for a price. Prices must be
// normalized first; the fixed-scale rendering makes "1.5" and "1.50"
// key the same level.
func PriceKey(p decimal.Decimal) string {
	return p.StringFixed(PriceScale)
}

// ParsePrice parses a decimal price string exactly, without passing
// through binary floating point.
func ParsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: invalid price %q", ErrInvalidOrder, s)
	}
	return p, nil
}
