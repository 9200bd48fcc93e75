package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
)

func TestAssembleRecordFormatting(t *testing.T) {
	rq := require.New(t)

	record := AssembleRecord(SaleEvaluation{
		GroupKey:          "AAPL",
		Ticker:            "AAPL",
		SellDate:          time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		SharesSold:        10,
		SellPrice:         90.123456,
		FIFOCost:          55.654321,
		TotalPL:           -345.6789,
		PreHeldAtSale:     2,
		PostBuyQty:        8,
		ReplacementShares: 10,
		StillHeldAtRef:    10,
		DisallowedLoss:    345.68,
	})

	rq.Equal("2024-02-01", record.SellDate)
	rq.Equal(-345.68, record.Loss)       // cents
	rq.Equal(55.6543, record.FIFOAvgCost) // four places for unit prices
	rq.Equal(90.1235, record.SellPrice)
	rq.Equal(345.68, record.DisallowedLoss)
	rq.Equal(WashSaleNote, record.Note)
}

func TestAssembleReportSentinels(t *testing.T) {
	rq := require.New(t)

	rq.Equal(NoTradesMessage, AssembleReport(nil, false).WashSales)
	rq.Equal(NoWashSalesMessage, AssembleReport(nil, true).WashSales)
	rq.Equal(NoWashSalesMessage, AssembleReport([]SaleEvaluation{}, true).WashSales)
}

func TestAssembleReportOrdering(t *testing.T) {
	rq := require.New(t)

	evals := []SaleEvaluation{
		{GroupKey: "AAPL", SellDate: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), DisallowedLoss: 10},
		{GroupKey: "TSLA", SellDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), DisallowedLoss: 20},
	}

	report := AssembleReport(evals, true)
	typed, ok := report.WashSales.([]models.WashSaleRecord)
	rq.True(ok)
	rq.Len(typed, 2)
	rq.Equal("AAPL", typed[0].GroupKey)
	rq.Equal("TSLA", typed[1].GroupKey)
}
