package services

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/CoderJeffrey/washsale-calculator/src/logger"
	"github.com/CoderJeffrey/washsale-calculator/src/models"
	"github.com/CoderJeffrey/washsale-calculator/src/parsers"
	"github.com/CoderJeffrey/washsale-calculator/src/processors"
	"github.com/CoderJeffrey/washsale-calculator/src/utils"
)

const ckReportByHash = "report_%s"

type uploadServiceImpl struct {
	csvParser         *parsers.CSVParser
	tradeEventParser  *parsers.TradeEventParser
	washSaleProcessor *processors.WashSaleProcessor
	reportCache       *cache.Cache
	cacheExpiry       time.Duration
}

func NewUploadService(
	csvParser *parsers.CSVParser,
	tradeEventParser *parsers.TradeEventParser,
	washSaleProcessor *processors.WashSaleProcessor,
	reportCache *cache.Cache,
	cacheExpiry time.Duration,
) UploadService {
	return &uploadServiceImpl{
		csvParser:         csvParser,
		tradeEventParser:  tradeEventParser,
		washSaleProcessor: washSaleProcessor,
		reportCache:       reportCache,
		cacheExpiry:       cacheExpiry,
	}
}

// ProcessUpload runs the full pipeline for one uploaded file: CSV → raw rows
// → typed trade events → wash-sale evaluation → report. The assembled report
// is cached by content hash; the pipeline is deterministic, so a cache hit is
// byte-identical to recomputation, and every miss parses a fresh,
// independently owned event table.
func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader) (*models.WashSaleReport, error) {
	startTime := time.Now()

	raw, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrParsingFailed, err)
	}

	cacheKey := fmt.Sprintf(ckReportByHash, utils.HashBytes(raw))
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Info("Report cache hit", "bytes", len(raw))
		return cached.(*models.WashSaleReport), nil
	}

	table, err := s.csvParser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	events, err := s.tradeEventParser.Parse(table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	evaluations := s.washSaleProcessor.Process(events)
	report := processors.AssembleReport(evaluations, len(events) > 0)

	s.reportCache.Set(cacheKey, report, s.cacheExpiry)
	logger.L.Info("Upload processed",
		"rows", len(table.Rows),
		"tradeEvents", len(events),
		"washSales", len(evaluations),
		"duration", time.Since(startTime))
	return report, nil
}
