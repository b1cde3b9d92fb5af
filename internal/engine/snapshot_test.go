package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_UntouchedSymbol(t *testing.T) {
	book := NewBook()

	snap := book.Snapshot("AAPL", DefaultDepth)
	assert.Empty(t, snap.Bids)
	assert.Empty(t, snap.Asks)
	assert.Nil(t, snap.Spread)
	assert.Nil(t, snap.Midpoint)
	assert.Nil(t, snap.BidVWAP)
	assert.Nil(t, snap.AskVWAP)
}

func TestSnapshot_DerivedValues(t *testing.T) {
	book := NewBook()

	book.Match(mustBid(t, "AAPL", "100", 10))
	book.Match(mustBid(t, "AAPL", "99", 10))
	book.Match(mustAsk(t, "AAPL", "101", 7))
	book.Match(mustAsk(t, "AAPL", "102", 3))

	snap := book.Snapshot("AAPL", 5)

	require.Len(t, snap.Bids, 2)
	require.Len(t, snap.Asks, 2)
	assert.True(t, snap.Bids[0].Price.Equal(dec("100")), "best bid first")
	assert.True(t, snap.Asks[0].Price.Equal(dec("101")), "best ask first")

	require.NotNil(t, snap.Spread)
	assert.True(t, snap.Spread.Equal(dec("1")), "spread = %s", snap.Spread)

	require.NotNil(t, snap.Midpoint)
	assert.True(t, snap.Midpoint.Equal(dec("100.5")), "midpoint = %s", snap.Midpoint)

	// (100*10 + 99*10) / 20 and (101*7 + 102*3) / 10.
	require.NotNil(t, snap.BidVWAP)
	assert.True(t, snap.BidVWAP.Equal(dec("99.5")), "bid vwap = %s", snap.BidVWAP)
	require.NotNil(t, snap.AskVWAP)
	assert.True(t, snap.AskVWAP.Equal(dec("101.3")), "ask vwap = %s", snap.AskVWAP)
}

func TestSnapshot_AggregatesOrdersAtSamePrice(t *testing.T) {
	book := NewBook()

	book.Match(mustBid(t, "IBM", "3.5", 20))
	book.Match(mustBid(t, "IBM", "3.5", 5))
	book.Match(mustBid(t, "IBM", "3.50", 15))

	snap := book.Snapshot("IBM", 5)
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, int64(40), snap.Bids[0].Quantity)
}

func TestSnapshot_DepthTruncation(t *testing.T) {
	book := NewBook()

	book.Match(mustAsk(t, "AAPL", "101", 10))
	book.Match(mustAsk(t, "AAPL", "102", 10))
	book.Match(mustAsk(t, "AAPL", "103", 10))

	snap := book.Snapshot("AAPL", 2)
	require.Len(t, snap.Asks, 2)
	assert.True(t, snap.Asks[0].Price.Equal(dec("101")))
	assert.True(t, snap.Asks[1].Price.Equal(dec("102")))

	// VWAP covers only the included depth: (101*10 + 102*10) / 20.
	require.NotNil(t, snap.AskVWAP)
	assert.True(t, snap.AskVWAP.Equal(dec("101.5")), "ask vwap = %s", snap.AskVWAP)
}

func TestSnapshot_OneSidedBook(t *testing.T) {
	book := NewBook()
	book.Match(mustBid(t, "AAPL", "100", 10))

	snap := book.Snapshot("AAPL", 5)
	require.Len(t, snap.Bids, 1)
	assert.Empty(t, snap.Asks)
	assert.Nil(t, snap.Spread)
	assert.Nil(t, snap.Midpoint)
	assert.NotNil(t, snap.BidVWAP)
	assert.Nil(t, snap.AskVWAP)
}

func TestSnapshot_ZeroDepth(t *testing.T) {
	book := NewBook()
	book.Match(mustBid(t, "AAPL", "100", 10))

	snap := book.Snapshot("AAPL", 0)
	assert.Empty(t, snap.Bids)
	assert.Empty(t, snap.Asks)
	assert.Nil(t, snap.BidVWAP)
}

func TestSnapshot_ReflectsFills(t *testing.T) {
	book := NewBook()

	book.Match(mustAsk(t, "AAPL", "150", 100))
	book.Match(mustBid(t, "AAPL", "150", 30))

	snap := book.Snapshot("AAPL", 5)
	require.Len(t, snap.Asks, 1)
	assert.Equal(t, int64(70), snap.Asks[0].Quantity,
		"aggregated quantity tracks remaining, not original")
	assert.Empty(t, snap.Bids)
}

func TestSnapshot_OmitsOrderIdentity(t *testing.T) {
	book := NewBook()
	book.Match(mustBid(t, "AAPL", "100", 10))

	snap := book.Snapshot("AAPL", 5)
	require.Len(t, snap.Bids, 1)
	assert.True(t, snap.Bids[0].Price.Equal(dec("100")))
	assert.Equal(t, int64(10), snap.Bids[0].Quantity)
}
