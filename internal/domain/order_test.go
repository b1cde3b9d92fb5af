package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewOrder_Valid(t *testing.T) {
	o, err := NewBid("AAPL", dec("150.00"), 100)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", o.Symbol)
	assert.Equal(t, SideBid, o.Side)
	assert.True(t, o.Price.Equal(dec("150.00")))
	assert.Equal(t, int64(100), o.Original)
	assert.Equal(t, int64(100), o.Remaining)
	assert.Equal(t, StatusQueued, o.Status)
	assert.NotEqual(t, o.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestNewOrder_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		side     Side
		symbol   string
		price    decimal.Decimal
		quantity int64
	}{
		{"zero quantity", SideBid, "AAPL", dec("150"), 0},
		{"negative quantity", SideAsk, "AAPL", dec("150"), -5},
		{"zero price", SideBid, "AAPL", decimal.Zero, 10},
		{"negative price", SideAsk, "AAPL", dec("-1.50"), 10},
		{"unknown side", Side("hold"), "AAPL", dec("150"), 10},
		{"empty symbol", SideBid, "", dec("150"), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.side, tt.symbol, tt.price, tt.quantity)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOrder))
		})
	}
}

func TestPriceNormalization_EqualKeys(t *testing.T) {
	a, err := NewBid("IBM", dec("1.5"), 10)
	require.NoError(t, err)
	b, err := NewBid("IBM", dec("1.50"), 10)
	require.NoError(t, err)

	assert.Equal(t, PriceKey(a.Price), PriceKey(b.Price))
	assert.True(t, a.Price.Equal(b.Price))
}

func TestOrder_FillTransitions(t *testing.T) {
	o, err := NewAsk("AAPL", dec("150"), 100)
	require.NoError(t, err)

	o.Fill(40)
	assert.Equal(t, int64(60), o.Remaining)
	assert.Equal(t, StatusPartialFill, o.Status)

	o.Fill(60)
	assert.Equal(t, int64(0), o.Remaining)
	assert.Equal(t, StatusFilled, o.Status)
}

func TestSide_Other(t *testing.T) {
	assert.Equal(t, SideAsk, SideBid.Other())
	assert.Equal(t, SideBid, SideAsk.Other())
}

func TestSide_Crosses(t *testing.T) {
	tests := []struct {
		name       string
		side       Side
		price      string
		levelPrice string
		want       bool
	}{
		{"bid above ask level", SideBid, "10.50", "10.00", true},
		{"bid at ask level", SideBid, "10.00", "10.00", true},
		{"bid below ask level", SideBid, "9.99", "10.00", false},
		{"ask below bid level", SideAsk, "9.50", "10.00", true},
		{"ask at bid level", SideAsk, "10.00", "10.00", true},
		{"ask above bid level", SideAsk, "10.01", "10.00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.side.Crosses(dec(tt.price), dec(tt.levelPrice))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("150.25")
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("150.25")))

	_, err = ParsePrice("not-a-price")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOrder))
}
