package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
)

func tradeEvent(dateStr string, side models.Side, qty, price float64, key string) models.TradeEvent {
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		panic(err)
	}
	return models.TradeEvent{
		Date:     time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		Ticker:   key,
		GroupKey: key,
		Side:     side,
		Quantity: qty,
		Price:    price,
	}
}

// Buy 10 @ $100, sell 10 @ $90 a month later, buy back 10 @ $95 within the
// +30d window: the whole $100 loss is disallowed.
func TestWashSaleFullDisallowance(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
		tradeEvent("2024-02-15", models.SideBuy, 10, 95, "AAPL"),
	}

	evals := NewWashSaleProcessor(time.Time{}).Process(events)
	rq.Len(evals, 1)

	eval := evals[0]
	rq.Equal("AAPL", eval.GroupKey)
	rq.Equal(10.0, eval.SharesSold)
	rq.InDelta(-100.0, eval.TotalPL, 1e-9)
	rq.InDelta(100.0, eval.FIFOCost, 1e-9)
	rq.Equal(0.0, eval.PreHeldAtSale)
	rq.Equal(10.0, eval.PostBuyQty)
	rq.Equal(10.0, eval.ReplacementShares)
	rq.Equal(10.0, eval.StillHeldAtRef)
	rq.Equal(100.0, eval.DisallowedLoss)
}

// Same loss sale but no repurchase inside ±30 days: nothing to report.
func TestWashSaleNoReplacement(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
	}

	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(events))
}

// FIFO across two lots: (5×50 + 5×60)/10 = 55, loss 150, fully repurchased
// and held at the reference date.
func TestWashSaleFIFOAcrossLots(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 5, 50, "TSLA"),
		tradeEvent("2024-01-10", models.SideBuy, 5, 60, "TSLA"),
		tradeEvent("2024-02-01", models.SideSell, 10, 40, "TSLA"),
		tradeEvent("2024-02-10", models.SideBuy, 10, 45, "TSLA"),
	}

	evals := NewWashSaleProcessor(time.Time{}).Process(events)
	rq.Len(evals, 1)
	rq.InDelta(55.0, evals[0].FIFOCost, 1e-9)
	rq.InDelta(-150.0, evals[0].TotalPL, 1e-9)
	rq.Equal(10.0, evals[0].ReplacementShares)
	rq.Equal(150.0, evals[0].DisallowedLoss)
}

// A sale with no prior buy lots in its group has no cost basis and never
// appears in the output.
func TestWashSaleUnmatchedSaleSkipped(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
		tradeEvent("2024-02-10", models.SideBuy, 10, 85, "AAPL"),
	}

	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(events))
}

// A profitable sale is never evaluated for disallowance, replacement
// purchases or not.
func TestWashSaleProfitSkipped(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 110, "AAPL"),
		tradeEvent("2024-02-10", models.SideBuy, 10, 105, "AAPL"),
	}

	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(events))
}

// Replacement shares bought before the sale count only while still held at
// the time of the sale.
func TestWashSalePreWindowReplacement(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-05", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-01-20", models.SideBuy, 5, 80, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
	}

	evals := NewWashSaleProcessor(time.Time{}).Process(events)
	rq.Len(evals, 1)

	eval := evals[0]
	rq.InDelta(100.0, eval.FIFOCost, 1e-9) // oldest lot covers the sale
	rq.Equal(5.0, eval.PreHeldAtSale)      // 15 bought in window, 10 disposed by the sale
	rq.Equal(0.0, eval.PostBuyQty)
	rq.Equal(5.0, eval.ReplacementShares)
	rq.Equal(5.0, eval.StillHeldAtRef)
	rq.Equal(50.0, eval.DisallowedLoss)
}

// Everything is disposed of by the end of the dataset: the still-held cap
// zeroes the disallowance.
func TestWashSaleReferenceDateCap(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
		tradeEvent("2024-02-15", models.SideBuy, 10, 95, "AAPL"),
		tradeEvent("2024-03-01", models.SideSell, 10, 200, "AAPL"), // gain, disposes all
	}

	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(events))

	// With a fixed reference date before the final disposal, the
	// replacement still counts as held.
	ref := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)
	evals := NewWashSaleProcessor(ref).Process(events)
	rq.Len(evals, 1)
	rq.Equal(100.0, evals[0].DisallowedLoss)
}

// Window boundaries are inclusive on both ends: day 30 triggers, day 31
// does not.
func TestWashSaleWindowBoundaries(t *testing.T) {
	rq := require.New(t)

	base := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-03-01", models.SideSell, 10, 90, "AAPL"),
	}

	onEdge := append(append([]models.TradeEvent{}, base...),
		tradeEvent("2024-03-31", models.SideBuy, 10, 95, "AAPL")) // sale + 30d
	rq.Len(NewWashSaleProcessor(time.Time{}).Process(onEdge), 1)

	pastEdge := append(append([]models.TradeEvent{}, base...),
		tradeEvent("2024-04-01", models.SideBuy, 10, 95, "AAPL")) // sale + 31d
	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(pastEdge))
}

// An option position and its underlying stock live in different groups, so
// a stock loss is not washed by an option repurchase under a distinct key.
func TestWashSaleGroupsAreIndependent(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
		tradeEvent("2024-02-15", models.SideBuy, 10, 1.50, "AAPL|03/15/2024|150|CALL"),
	}

	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(events))
}

// Replacement is capped by shares sold even when the window holds more buys.
func TestWashSaleReplacementCappedBySharesSold(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
		tradeEvent("2024-02-10", models.SideBuy, 25, 95, "AAPL"),
	}

	evals := NewWashSaleProcessor(time.Time{}).Process(events)
	rq.Len(evals, 1)
	rq.Equal(25.0, evals[0].PostBuyQty)
	rq.Equal(10.0, evals[0].ReplacementShares)
	rq.Equal(100.0, evals[0].DisallowedLoss)
}

// Two independent loss sales may both count the same buy lot as replacement;
// no replacement pool is allocated across sales.
func TestWashSaleSalesEvaluatedIndependently(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 20, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 5, 90, "AAPL"),
		tradeEvent("2024-02-05", models.SideSell, 5, 90, "AAPL"),
		tradeEvent("2024-02-15", models.SideBuy, 10, 95, "AAPL"),
	}

	evals := NewWashSaleProcessor(time.Time{}).Process(events)
	rq.Len(evals, 2)
	rq.Equal(5.0, evals[0].ReplacementShares)
	rq.Equal(5.0, evals[1].ReplacementShares)
}

func TestWashSaleZeroQuantitySaleSkipped(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 0, 90, "AAPL"),
	}

	rq.Empty(NewWashSaleProcessor(time.Time{}).Process(events))
}

func TestWashSaleDeterministic(t *testing.T) {
	rq := require.New(t)

	events := []models.TradeEvent{
		tradeEvent("2024-01-01", models.SideBuy, 5, 50, "TSLA"),
		tradeEvent("2024-01-01", models.SideBuy, 10, 100, "AAPL"),
		tradeEvent("2024-01-10", models.SideBuy, 5, 60, "TSLA"),
		tradeEvent("2024-02-01", models.SideSell, 10, 90, "AAPL"),
		tradeEvent("2024-02-01", models.SideSell, 10, 40, "TSLA"),
		tradeEvent("2024-02-10", models.SideBuy, 10, 45, "TSLA"),
		tradeEvent("2024-02-15", models.SideBuy, 10, 95, "AAPL"),
	}

	p := NewWashSaleProcessor(time.Time{})
	first := p.Process(events)
	second := p.Process(events)
	rq.Equal(first, second)
	rq.Len(first, 2)
}
