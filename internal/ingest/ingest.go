// Package ingest parses tabular order streams into the pre-parsed
// records the engine accepts. It is the boundary layer: the engine
// itself never reads external formats.
package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zkhorozianbc/orderbook/internal/domain"
	"github.com/zkhorozianbc/orderbook/internal/engine"
)

// row is the wire shape of one order record. Price and quantity use
// json.Number so exact decimal strings survive parsing.
type row struct {
	Side     string      `json:"side"`
	Symbol   string      `json:"symbol"`
	Price    json.Number `json:"price"`
	Quantity json.Number `json:"quantity"`
}

// ReadNDJSON parses newline-delimited JSON order records, one object
// per line. Blank lines are skipped. A malformed line fails the whole
// read with its line number; record order is preserved.
func ReadNDJSON(r io.Reader) ([]engine.Record, error) {
	var records []engine.Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rw row
		dec := json.NewDecoder(strings.NewReader(text))
		dec.UseNumber()
		if err := dec.Decode(&rw); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", line, err)
		}
		rec, err := toRecord(rw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read order stream: %w", err)
	}
	return records, nil
}

// ReadCSV parses CSV order records. The first row is a header naming
// at least side, symbol, price and quantity, in any column order.
func ReadCSV(r io.Reader) ([]engine.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"side", "symbol", "price", "quantity"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing required column %q", required)
		}
	}

	var records []engine.Record
	line := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := toRecord(row{
			Side:     fields[cols["side"]],
			Symbol:   fields[cols["symbol"]],
			Price:    json.Number(strings.TrimSpace(fields[cols["price"]])),
			Quantity: json.Number(strings.TrimSpace(fields[cols["quantity"]])),
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// toRecord validates field shapes. Positivity checks belong to the
// engine's order construction, not here.
func toRecord(rw row) (engine.Record, error) {
	side := domain.Side(strings.ToLower(strings.TrimSpace(rw.Side)))
	if !side.Valid() {
		return engine.Record{}, fmt.Errorf("invalid side %q, expected %q or %q", rw.Side, domain.SideBid, domain.SideAsk)
	}

	symbol := strings.TrimSpace(rw.Symbol)
	if symbol == "" {
		return engine.Record{}, fmt.Errorf("symbol must not be empty")
	}

	if rw.Price.String() == "" {
		return engine.Record{}, fmt.Errorf("missing price")
	}
	price, err := decimal.NewFromString(rw.Price.String())
	if err != nil {
		return engine.Record{}, fmt.Errorf("invalid price %q", rw.Price.String())
	}

	if rw.Quantity.String() == "" {
		return engine.Record{}, fmt.Errorf("missing quantity")
	}
	quantity, err := strconv.ParseInt(rw.Quantity.String(), 10, 64)
	if err != nil {
		return engine.Record{}, fmt.Errorf("invalid quantity %q, expected an integer", rw.Quantity.String())
	}

	return engine.Record{
		Side:     side,
		Symbol:   symbol,
		Price:    price,
		Quantity: quantity,
	}, nil
}
