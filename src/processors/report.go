package processors

import (
	"github.com/CoderJeffrey/washsale-calculator/src/config"
	"github.com/CoderJeffrey/washsale-calculator/src/models"
	"github.com/CoderJeffrey/washsale-calculator/src/utils"
)

// WashSaleNote is the fixed explanatory string attached to every record.
const WashSaleNote = "Loss disallowed because substantially identical positions " +
	"(stock or options) within ±30 days are still held at year-end."

// Sentinels rendered instead of an empty list, per the API contract: the
// client must always get a human-readable signal, never a bare empty array.
const (
	NoTradesMessage    = "No stock or option transactions found."
	NoWashSalesMessage = "No wash sales found"
)

// AssembleRecord formats one evaluation into the external result schema.
// Money fields are rounded here and nowhere earlier: totals to cents, unit
// prices to four places.
func AssembleRecord(eval SaleEvaluation) models.WashSaleRecord {
	return models.WashSaleRecord{
		GroupKey:                      eval.GroupKey,
		Ticker:                        eval.Ticker,
		SellDate:                      eval.SellDate.Format(config.DateFormat),
		SharesSold:                    eval.SharesSold,
		Loss:                          utils.RoundFloat(eval.TotalPL, 2),
		FIFOAvgCost:                   utils.RoundFloat(eval.FIFOCost, 4),
		SellPrice:                     utils.RoundFloat(eval.SellPrice, 4),
		PreReplacementStillHeldAtSale: eval.PreHeldAtSale,
		PostReplacementWithin30d:      eval.PostBuyQty,
		ReplacementShares:             eval.ReplacementShares,
		StillHeldAtEOY:                eval.StillHeldAtRef,
		DisallowedLoss:                eval.DisallowedLoss,
		Note:                          WashSaleNote,
	}
}

// AssembleReport builds the response payload. hadTrades distinguishes "the
// file held no stock/option trades at all" from "trades existed but nothing
// qualified".
func AssembleReport(evaluations []SaleEvaluation, hadTrades bool) *models.WashSaleReport {
	if !hadTrades {
		return &models.WashSaleReport{WashSales: NoTradesMessage}
	}
	if len(evaluations) == 0 {
		return &models.WashSaleReport{WashSales: NoWashSalesMessage}
	}
	records := make([]models.WashSaleRecord, 0, len(evaluations))
	for _, eval := range evaluations {
		records = append(records, AssembleRecord(eval))
	}
	return &models.WashSaleReport{WashSales: records}
}
