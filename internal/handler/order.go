package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zkhorozianbc/orderbook/internal/domain"
	"github.com/zkhorozianbc/orderbook/internal/engine"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	book     *engine.Book
	maxBatch int
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(book *engine.Book, maxBatch int) *OrderHandler {
	return &OrderHandler{book: book, maxBatch: maxBatch}
}

// submitOrderRequest is the JSON request body for POST /orders.
// Price is a JSON number or string; it is parsed as an exact decimal.
type submitOrderRequest struct {
	Side     string      `json:"side"`
	Symbol   string      `json:"symbol"`
	Price    json.Number `json:"price"`
	Quantity int64       `json:"quantity"`
}

// orderResponse is the JSON shape of an order. Prices render as
// strings to preserve exact decimals.
type orderResponse struct {
	OrderID   string `json:"order_id"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	Remaining int64  `json:"remaining_quantity"`
	Status    string `json:"status"`
	Sequence  uint64 `json:"sequence"`
}

// tradeResponse is a single trade in a blotter response.
type tradeResponse struct {
	IncomingOrderID string `json:"incoming_order_id"`
	StandingOrderID string `json:"standing_order_id"`
	Price           string `json:"price"`
	Quantity        int64  `json:"quantity"`
	Sequence        uint64 `json:"sequence"`
}

// blotterResponse is the JSON response for a matched order.
// average_price is null when no fills occurred.
type blotterResponse struct {
	Order          orderResponse   `json:"order"`
	Trades         []tradeResponse `json:"trades"`
	FilledQuantity int64           `json:"filled_quantity"`
	TotalCost      string          `json:"total_cost"`
	AveragePrice   *string         `json:"average_price"`
}

func buildOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		OrderID:   o.ID.String(),
		Symbol:    o.Symbol,
		Side:      string(o.Side),
		Price:     o.Price.String(),
		Quantity:  o.Original,
		Remaining: o.Remaining,
		Status:    string(o.Status),
		Sequence:  o.Seq,
	}
}

func buildBlotterResponse(b *domain.TradeBlotter) blotterResponse {
	trades := make([]tradeResponse, 0, len(b.Trades))
	for _, t := range b.Trades {
		trades = append(trades, tradeResponse{
			IncomingOrderID: t.IncomingID.String(),
			StandingOrderID: t.StandingID.String(),
			Price:           t.Price.String(),
			Quantity:        t.Quantity,
			Sequence:        t.Seq,
		})
	}
	resp := blotterResponse{
		Order:          buildOrderResponse(b.Order),
		Trades:         trades,
		FilledQuantity: b.FilledQuantity(),
		TotalCost:      b.TotalCost().String(),
	}
	if avg, ok := b.AveragePrice(); ok {
		s := avg.String()
		resp.AveragePrice = &s
	}
	return resp
}

// toRecord converts a request body into an engine record.
func (r submitOrderRequest) toRecord() (engine.Record, error) {
	price, err := domain.ParsePrice(r.Price.String())
	if err != nil {
		return engine.Record{}, err
	}
	return engine.Record{
		Side:     domain.Side(r.Side),
		Symbol:   r.Symbol,
		Price:    price,
		Quantity: r.Quantity,
	}, nil
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rec, err := req.toRecord()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	order, err := domain.NewOrder(rec.Side, rec.Symbol, rec.Price, rec.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	blotter := h.book.Match(order)
	WriteJSON(w, http.StatusCreated, buildBlotterResponse(blotter))
}

// submitBatchRequest is the JSON request body for POST /orders/batch.
type submitBatchRequest struct {
	Orders []submitOrderRequest `json:"orders"`
}

// SubmitBatch handles POST /orders/batch. Records are matched strictly
// in input order; any invalid record rejects the batch before matching.
func (h *OrderHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req submitBatchRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(req.Orders) == 0 {
		WriteError(w, http.StatusBadRequest, "invalid_request", "orders must not be empty")
		return
	}
	if len(req.Orders) > h.maxBatch {
		WriteError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("batch size %d exceeds maximum %d", len(req.Orders), h.maxBatch))
		return
	}

	records := make([]engine.Record, 0, len(req.Orders))
	for i, o := range req.Orders {
		rec, err := o.toRecord()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_order",
				fmt.Sprintf("record %d: %v", i, err))
			return
		}
		records = append(records, rec)
	}

	blotters, err := h.book.Ingest(records)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]blotterResponse, 0, len(blotters))
	for _, b := range blotters {
		resp = append(resp, buildBlotterResponse(b))
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"blotters": resp})
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "order_id must be a valid UUID")
		return
	}

	order, ok := h.book.GetOrder(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "order_not_found", "no resting order with that id")
		return
	}
	WriteJSON(w, http.StatusOK, buildOrderResponse(&order))
}

// CancelOrder handles DELETE /orders/{order_id}.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "order_id must be a valid UUID")
		return
	}

	if err := h.book.Cancel(id); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"order_id": id.String(),
		"status":   "cancelled",
	})
}
