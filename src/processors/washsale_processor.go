package processors

import (
	"math"
	"time"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
	"github.com/CoderJeffrey/washsale-calculator/src/utils"
)

// washSalePeriodDays is the statutory window on each side of a loss sale:
// a replacement purchase within 30 days before or after triggers the rule,
// 61 calendar days total including the sale date.
const washSalePeriodDays = 30

// WashSaleProcessor evaluates loss sales against the wash-sale rule.
// Each sale's evaluation is independent: a buy lot may count as replacement
// for more than one sale. This is the per-sale conservative disallowance
// view, not a globally lot-reconciled allocation.
type WashSaleProcessor struct {
	// referenceDate is the "still held as of" date capping disallowed
	// shares (e.g. a tax-year end). Zero means the latest date present in
	// the dataset.
	referenceDate time.Time
}

func NewWashSaleProcessor(referenceDate time.Time) *WashSaleProcessor {
	return &WashSaleProcessor{referenceDate: referenceDate}
}

// SaleEvaluation is the evaluator's output for one disallowed loss sale,
// prior to report formatting. DisallowedLoss is rounded to cents and always
// positive; rounding happens nowhere earlier in the computation.
type SaleEvaluation struct {
	GroupKey          string
	Ticker            string
	SellDate          time.Time
	SharesSold        float64
	SellPrice         float64
	FIFOCost          float64
	TotalPL           float64
	PreHeldAtSale     float64
	PostBuyQty        float64
	ReplacementShares float64
	StillHeldAtRef    float64
	DisallowedLoss    float64
}

// keyedEvents pre-indexes buys and sells per grouping key so each sale's
// window filters do not rescan the full table. Slices preserve the global
// ascending date order.
type keyedEvents struct {
	buys  []models.TradeEvent
	sells []models.TradeEvent
}

// Process walks SELL events in ascending date order and returns one
// evaluation per sale with a positive disallowed loss. The event table is
// read-only; events must already be date-sorted.
func (p *WashSaleProcessor) Process(events []models.TradeEvent) []SaleEvaluation {
	index := make(map[string]*keyedEvents)
	var latest time.Time
	for _, ev := range events {
		ke, ok := index[ev.GroupKey]
		if !ok {
			ke = &keyedEvents{}
			index[ev.GroupKey] = ke
		}
		switch ev.Side {
		case models.SideBuy:
			ke.buys = append(ke.buys, ev)
		case models.SideSell:
			ke.sells = append(ke.sells, ev)
		}
		if ev.Date.After(latest) {
			latest = ev.Date
		}
	}

	referenceDate := p.referenceDate
	if referenceDate.IsZero() {
		referenceDate = latest
	}

	var evaluations []SaleEvaluation
	for _, sell := range events {
		if sell.Side != models.SideSell || sell.Quantity <= 0 {
			continue
		}
		if eval, ok := p.evaluateSale(sell, index[sell.GroupKey], referenceDate); ok {
			evaluations = append(evaluations, eval)
		}
	}
	return evaluations
}

func (p *WashSaleProcessor) evaluateSale(
	sell models.TradeEvent, ke *keyedEvents, referenceDate time.Time,
) (SaleEvaluation, bool) {

	// Cost basis: FIFO over buys dated strictly before the sale. A sale
	// with no prior lots is unmatched, not reportable.
	var priorLots []models.Lot
	for _, buy := range ke.buys {
		if buy.Date.Before(sell.Date) && buy.Quantity > 0 {
			priorLots = append(priorLots, models.Lot{
				Date: buy.Date, Quantity: buy.Quantity, Price: buy.Price,
			})
		}
	}
	if len(priorLots) == 0 {
		return SaleEvaluation{}, false
	}
	fifoCost := AverageCost(priorLots, sell.Quantity)
	if math.IsNaN(fifoCost) {
		return SaleEvaluation{}, false
	}

	perShare := sell.Price - fifoCost
	totalPL := perShare * sell.Quantity
	if totalPL >= 0 {
		// Only losses are evaluated for disallowance.
		return SaleEvaluation{}, false
	}

	windowStart := sell.Date.AddDate(0, 0, -washSalePeriodDays)
	windowEnd := sell.Date.AddDate(0, 0, washSalePeriodDays)

	// Shares from earlier-window purchases not yet disposed of at the time
	// of this sale. The sale itself falls inside the sub-window and is
	// subtracted along with any other disposals.
	preBuyQty := sumQuantity(ke.buys, windowStart, sell.Date)
	preSellQty := sumQuantity(ke.sells, windowStart, sell.Date)
	preHeldAtSale := math.Max(0, preBuyQty-preSellQty)

	postBuyQty := sumQuantity(ke.buys, sell.Date, windowEnd)

	// Replacement cannot exceed the shares actually sold.
	replacementShares := math.Min(sell.Quantity, preHeldAtSale+postBuyQty)

	// Net position for the key as of the reference date caps how much of
	// the replacement is still held.
	totalBuys := sumQuantityThrough(ke.buys, referenceDate)
	totalSells := sumQuantityThrough(ke.sells, referenceDate)
	stillHeld := math.Max(0, totalBuys-totalSells)

	disallowedShares := math.Min(replacementShares, stillHeld)
	disallowedLoss := utils.RoundFloat(math.Abs(perShare)*disallowedShares, 2)
	if disallowedLoss <= 0 {
		return SaleEvaluation{}, false
	}

	return SaleEvaluation{
		GroupKey:          sell.GroupKey,
		Ticker:            sell.Ticker,
		SellDate:          sell.Date,
		SharesSold:        sell.Quantity,
		SellPrice:         sell.Price,
		FIFOCost:          fifoCost,
		TotalPL:           totalPL,
		PreHeldAtSale:     preHeldAtSale,
		PostBuyQty:        postBuyQty,
		ReplacementShares: replacementShares,
		StillHeldAtRef:    stillHeld,
		DisallowedLoss:    disallowedLoss,
	}, true
}

// sumQuantity totals quantities over the half-open date range (after, through].
func sumQuantity(events []models.TradeEvent, after, through time.Time) float64 {
	total := 0.0
	for _, ev := range events {
		if ev.Date.After(after) && !ev.Date.After(through) {
			total += ev.Quantity
		}
	}
	return total
}

// sumQuantityThrough totals quantities for dates <= through.
func sumQuantityThrough(events []models.TradeEvent, through time.Time) float64 {
	total := 0.0
	for _, ev := range events {
		if !ev.Date.After(through) {
			total += ev.Quantity
		}
	}
	return total
}
