package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/zkhorozianbc/orderbook/internal/domain"
)

func TestProperty_CancelRemovesExactlyOneOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")

		// All bids, so nothing crosses and everything rests.
		book := NewBook()
		ids := make([]uuid.UUID, 0, n)
		for i := 0; i < n; i++ {
			price := decimal.New(rapid.Int64Range(1, 50).Draw(t, "price"), 0)
			qty := rapid.Int64Range(1, 100).Draw(t, "qty")
			o, _ := domain.NewBid("TEST", price, qty)
			book.Match(o)
			ids = append(ids, o.ID)
		}

		victim := rapid.SampledFrom(ids).Draw(t, "victim")
		if err := book.Cancel(victim); err != nil {
			t.Fatalf("cancel of resting order failed: %v", err)
		}

		if _, ok := book.GetOrder(victim); ok {
			t.Fatalf("cancelled order %s still resolvable", victim)
		}
		if err := book.Cancel(victim); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("second cancel: got %v, want ErrOrderNotFound", err)
		}

		// Every other order survives.
		for _, id := range ids {
			if id == victim {
				continue
			}
			if _, ok := book.GetOrder(id); !ok {
				t.Fatalf("cancel of %s removed unrelated order %s", victim, id)
			}
		}
	})
}

func TestProperty_SnapshotAggregationMatchesRestingOrders(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")

		book := NewBook()
		for i := 0; i < n; i++ {
			side := domain.SideBid
			if rapid.Bool().Draw(t, "isAsk") {
				side = domain.SideAsk
			}
			price := decimal.New(rapid.Int64Range(90, 110).Draw(t, "price"), 0)
			qty := rapid.Int64Range(1, 50).Draw(t, "qty")
			o, _ := domain.NewOrder(side, "TEST", price, qty)
			book.Match(o)
		}

		// Sum remaining per side and price from the resting orders.
		wantQty := make(map[domain.Side]map[string]int64)
		wantQty[domain.SideBid] = make(map[string]int64)
		wantQty[domain.SideAsk] = make(map[string]int64)
		for _, o := range book.Orders() {
			wantQty[o.Side][domain.PriceKey(o.Price)] += o.Remaining
		}

		snap := book.Snapshot("TEST", 1000)
		check := func(side domain.Side, levels []SnapshotLevel) {
			seen := make(map[string]bool)
			for _, lvl := range levels {
				key := domain.PriceKey(lvl.Price)
				if lvl.Quantity != wantQty[side][key] {
					t.Fatalf("%s level %s aggregates %d, resting orders sum to %d",
						side, lvl.Price, lvl.Quantity, wantQty[side][key])
				}
				if lvl.Quantity == 0 {
					t.Fatalf("%s level %s is empty but persists", side, lvl.Price)
				}
				seen[key] = true
			}
			for key := range wantQty[side] {
				if !seen[key] {
					t.Fatalf("%s level %s holds resting orders but is missing from the snapshot", side, key)
				}
			}
		}
		check(domain.SideBid, snap.Bids)
		check(domain.SideAsk, snap.Asks)
	})
}

func TestProperty_LevelsAreSortedBestFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 30).Draw(t, "n")

		book := NewBook()
		for i := 0; i < n; i++ {
			side := domain.SideBid
			if rapid.Bool().Draw(t, "isAsk") {
				side = domain.SideAsk
			}
			price := decimal.New(rapid.Int64Range(1, 1000).Draw(t, "price"), 0)
			o, _ := domain.NewOrder(side, "TEST", price, 10)
			book.Match(o)
		}

		levels := book.Levels("TEST")
		for i := 1; i < len(levels[domain.SideBid]); i++ {
			if !levels[domain.SideBid][i].Price.LessThan(levels[domain.SideBid][i-1].Price) {
				t.Fatalf("bid levels not strictly descending at %d", i)
			}
		}
		for i := 1; i < len(levels[domain.SideAsk]); i++ {
			if !levels[domain.SideAsk][i].Price.GreaterThan(levels[domain.SideAsk][i-1].Price) {
				t.Fatalf("ask levels not strictly ascending at %d", i)
			}
		}
	})
}
