package processors

import (
	"math"
	"sort"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
)

// AverageCost computes the weighted-average unit cost of consuming `needed`
// units from the given lots, oldest first. This is a pure fold: no lot state
// survives between calls, since each sale re-derives its own lot view from
// buys dated strictly before it.
//
// Returns NaN when nothing could be consumed (no eligible lots, or needed
// <= 0); the caller must then treat the sale as unmatched and skip it rather
// than report a loss without a cost basis.
func AverageCost(lots []models.Lot, needed float64) float64 {
	sorted := make([]models.Lot, len(lots))
	copy(sorted, lots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	remaining := needed
	totalCost := 0.0
	takenQty := 0.0
	for _, lot := range sorted {
		take := math.Min(remaining, lot.Quantity)
		if take <= 0 {
			break
		}
		totalCost += take * lot.Price
		takenQty += take
		remaining -= take
	}

	if takenQty == 0 {
		return math.NaN()
	}
	return totalCost / takenQty
}
