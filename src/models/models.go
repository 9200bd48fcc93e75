package models

import "time"

// Side classifies a trade event as a purchase or a disposal.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	SideNone Side = "" // anything that is not a buy/sell trade (dividend, fee, transfer, ...)
)

// RawRow represents a single CSV row keyed by column header. The schema is
// not guaranteed beyond the presence of the required columns; it only lives
// for one normalization pass.
type RawRow map[string]string

// TradeEvent is the canonical unit the wash-sale pipeline operates on.
// The full event table is immutable after construction; per-sale computations
// derive filtered views instead of mutating shared state.
type TradeEvent struct {
	Date     time.Time // calendar date at midnight UTC, time-of-day irrelevant
	Ticker   string    // upper-cased trimmed instrument ticker
	GroupKey string    // substantially-identical grouping key (see processors.GroupKey)
	Side     Side
	Quantity float64 // share-equivalent units, never negative
	Price    float64 // per-unit price, sign-normalized
	RowIndex int     // original row order, used as the stable sort tie-break
}

// Lot is a BUY TradeEvent reinterpreted as available inventory for FIFO
// consumption. Lots are re-derived per sale and never reused across sale
// evaluations.
type Lot struct {
	Date     time.Time
	Quantity float64
	Price    float64
}

// WashSaleRecord is one reportable loss sale whose disallowed amount is
// positive. Immutable once emitted; lifetime is one response payload.
type WashSaleRecord struct {
	GroupKey                      string  `json:"GroupKey"`
	Ticker                        string  `json:"Ticker"`
	SellDate                      string  `json:"SellDate"` // ISO YYYY-MM-DD
	SharesSold                    float64 `json:"SharesSold"`
	Loss                          float64 `json:"Loss"`
	FIFOAvgCost                   float64 `json:"FIFO_AvgCost"`
	SellPrice                     float64 `json:"SellPrice"`
	PreReplacementStillHeldAtSale float64 `json:"PreReplacementStillHeldAtSale"`
	PostReplacementWithin30d      float64 `json:"PostReplacementWithin30d"`
	ReplacementShares             float64 `json:"ReplacementShares"`
	StillHeldAtEOY                float64 `json:"StillHeldAtEOY"`
	DisallowedLoss                float64 `json:"DisallowedLoss"`
	Note                          string  `json:"Note"`
}

// WashSaleReport is the response payload for one upload. WashSales is either
// an ordered []WashSaleRecord or a human-readable sentinel string when no
// sales qualify. This shape is the documented API contract.
type WashSaleReport struct {
	WashSales any `json:"wash_sales"`
}
