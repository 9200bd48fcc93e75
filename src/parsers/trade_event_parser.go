package parsers

import (
	"sort"
	"strings"
	"time"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
	"github.com/CoderJeffrey/washsale-calculator/src/utils"
)

// Column names of the Robinhood-style activity export.
const (
	ColActivityDate = "Activity Date"
	ColSettleDate   = "Settle Date"
	ColInstrument   = "Instrument"
	ColDescription  = "Description"
	ColTransCode    = "Trans Code"
	ColQuantity     = "Quantity"
	ColPrice        = "Price"
	ColAmount       = "Amount"
)

// RequiredColumns must all be present in an upload for it to be processable.
var RequiredColumns = []string{
	ColActivityDate, ColSettleDate, ColInstrument, ColDescription,
	ColTransCode, ColQuantity, ColPrice, ColAmount,
}

// KeyFunc computes the substantially-identical grouping key for a row from
// its ticker and free-text description. Injected so the option-equivalency
// policy stays a configuration choice rather than parser behavior.
type KeyFunc func(ticker, description string) string

// TradeEventParser turns a normalized row table into the typed, date-sorted
// trade event sequence the wash-sale engine consumes. Side-effect-free.
type TradeEventParser struct {
	groupKey KeyFunc
}

func NewTradeEventParser(groupKey KeyFunc) *TradeEventParser {
	return &TradeEventParser{groupKey: groupKey}
}

// Parse filters the table down to buy/sell rows of stocks or options and
// builds TradeEvents sorted ascending by date, stable on original row order.
// Returns a SchemaError when required columns are missing, or when neither
// date column yields a single parsable date across all rows.
func (p *TradeEventParser) Parse(table *models.RawTable) ([]models.TradeEvent, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{MissingColumns: missing}
	}

	events := make([]models.TradeEvent, 0, len(table.Rows))
	anyDate := false
	for i, row := range table.Rows {
		date, ok := rowDate(row)
		if !ok {
			// No required-field date; drop rather than default into a
			// zero-dated trade.
			continue
		}
		anyDate = true

		side := ParseSide(row[ColTransCode])
		ticker := strings.ToUpper(strings.TrimSpace(row[ColInstrument]))
		if side == models.SideNone || ticker == "" {
			continue
		}

		quantity := ParseQuantity(row[ColQuantity])
		if quantity < 0 {
			continue
		}

		events = append(events, models.TradeEvent{
			Date:     date,
			Ticker:   ticker,
			GroupKey: p.groupKey(ticker, row[ColDescription]),
			Side:     side,
			Quantity: quantity,
			Price:    ParseCurrency(row[ColPrice]),
			RowIndex: i,
		})
	}

	if len(table.Rows) > 0 && !anyDate {
		return nil, &SchemaError{Reason: "no usable Activity Date / Settle Date values in any row"}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// rowDate resolves the event date: first non-empty parsable source wins,
// Activity Date before Settle Date.
func rowDate(row models.RawRow) (date time.Time, ok bool) {
	for _, col := range []string{ColActivityDate, ColSettleDate} {
		if v := strings.TrimSpace(row[col]); v != "" {
			if d, parsed := utils.ParseDate(v); parsed {
				return d, true
			}
		}
	}
	return time.Time{}, false
}
