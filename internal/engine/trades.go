package engine

import (
	"github.com/zkhorozianbc/orderbook/internal/domain"
)

// tradeLog keeps a bounded chronological record of one symbol's
// executed trades. It is recorded under the owning market's write
// lock during the sweep, so it needs no lock of its own.
type tradeLog struct {
	cap    int
	trades []domain.Trade
}

func newTradeLog(cap int) *tradeLog {
	return &tradeLog{cap: cap}
}

// record appends a trade, dropping the oldest entries once the log
// exceeds its capacity.
func (l *tradeLog) record(t domain.Trade) {
	l.trades = append(l.trades, t)
	if len(l.trades) > l.cap {
		l.trades = l.trades[len(l.trades)-l.cap:]
	}
}

// recent returns up to n of the newest trades in chronological order,
// or the whole log when n <= 0. The slice is a copy; callers cannot
// mutate the log through it.
func (l *tradeLog) recent(n int) []domain.Trade {
	if n <= 0 || n > len(l.trades) {
		n = len(l.trades)
	}
	out := make([]domain.Trade, n)
	copy(out, l.trades[len(l.trades)-n:])
	return out
}
