package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/zkhorozianbc/orderbook/internal/domain"
	"github.com/zkhorozianbc/orderbook/internal/engine"
)

// maxDepth caps the per-side level count a snapshot request may ask for.
const maxDepth = 50

// maxTradeLimit caps the trade count a trades request may ask for.
const maxTradeLimit = 500

// MarketHandler handles HTTP requests for per-symbol market data.
type MarketHandler struct {
	book         *engine.Book
	defaultDepth int
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(book *engine.Book, defaultDepth int) *MarketHandler {
	return &MarketHandler{book: book, defaultDepth: defaultDepth}
}

// snapshotLevelResponse is one aggregated level in a snapshot.
type snapshotLevelResponse struct {
	Price    string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// snapshotResponse is the JSON response for GET /symbols/{symbol}/snapshot.
// Derived fields are null when the contributing side is empty.
type snapshotResponse struct {
	Symbol   string                  `json:"symbol"`
	Bids     []snapshotLevelResponse `json:"bids"`
	Asks     []snapshotLevelResponse `json:"asks"`
	Spread   *string                 `json:"spread"`
	Midpoint *string                 `json:"midpoint"`
	BidVWAP  *string                 `json:"bid_vwap"`
	AskVWAP  *string                 `json:"ask_vwap"`
}

// levelResponse is one resting level in the levels view.
type levelResponse struct {
	Price      string   `json:"price"`
	Quantity   int64    `json:"quantity"`
	OrderCount int      `json:"order_count"`
	Orders     []string `json:"orders"`
}

// ListSymbols handles GET /symbols.
func (h *MarketHandler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols := h.book.Symbols()
	sort.Strings(symbols)
	WriteJSON(w, http.StatusOK, map[string]any{"symbols": symbols})
}

// GetSnapshot handles GET /symbols/{symbol}/snapshot.
func (h *MarketHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	depth := h.defaultDepth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 || d > maxDepth {
			WriteError(w, http.StatusBadRequest, "invalid_request",
				"depth must be an integer between 0 and 50")
			return
		}
		depth = d
	}

	snap := h.book.Snapshot(symbol, depth)

	resp := snapshotResponse{
		Symbol:   snap.Symbol,
		Bids:     buildSnapshotLevels(snap.Bids),
		Asks:     buildSnapshotLevels(snap.Asks),
		Spread:   decimalString(snap.Spread),
		Midpoint: decimalString(snap.Midpoint),
		BidVWAP:  decimalString(snap.BidVWAP),
		AskVWAP:  decimalString(snap.AskVWAP),
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetLevels handles GET /symbols/{symbol}/levels.
func (h *MarketHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	levels := h.book.Levels(symbol)

	WriteJSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"bids":   buildLevelResponses(levels[domain.SideBid]),
		"asks":   buildLevelResponses(levels[domain.SideAsk]),
	})
}

// GetTrades handles GET /symbols/{symbol}/trades.
func (h *MarketHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTradeLimit {
			WriteError(w, http.StatusBadRequest, "invalid_request",
				"limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	trades := h.book.Trades(symbol, limit)
	resp := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		resp = append(resp, tradeResponse{
			IncomingOrderID: t.IncomingID.String(),
			StandingOrderID: t.StandingID.String(),
			Price:           t.Price.String(),
			Quantity:        t.Quantity,
			Sequence:        t.Seq,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"trades": resp,
	})
}

func buildSnapshotLevels(levels []engine.SnapshotLevel) []snapshotLevelResponse {
	out := make([]snapshotLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, snapshotLevelResponse{
			Price:    l.Price.String(),
			Quantity: l.Quantity,
		})
	}
	return out
}

func buildLevelResponses(levels []engine.PriceLevel) []levelResponse {
	out := make([]levelResponse, 0, len(levels))
	for _, l := range levels {
		ids := make([]string, 0, len(l.Orders))
		for _, id := range l.Orders {
			ids = append(ids, id.String())
		}
		out = append(out, levelResponse{
			Price:      l.Price.String(),
			Quantity:   l.Quantity,
			OrderCount: len(l.Orders),
			Orders:     ids,
		})
	}
	return out
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
