package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
)

// Brokerage exports interleave non-trade activity with inconsistently
// formatted numbers. Normalization never fails the whole ingest on one bad
// cell: a malformed money or quantity value coerces to zero, which downstream
// quantity/price filters naturally exclude.

var trailingAlphaRe = regexp.MustCompile(`[A-Za-z]+$`)

// ParseCurrency converts a currency-formatted cell into a float64.
// Handles thousands separators, "$", parenthesized accounting negatives and
// trailing unit letters. Unparsable input yields exactly 0.0.
func ParseCurrency(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	s = strings.Trim(s, "()$ ")
	s = trailingAlphaRe.ReplaceAllString(s, "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	if neg {
		return -v
	}
	return v
}

// ParseQuantity converts a share/contract count cell into a float64.
// The literal "4S" is a vendor placeholder observed in Robinhood exports and
// maps to 0.0 before generic parsing. Unparsable input yields exactly 0.0.
func ParseQuantity(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, ",", ""), "$", ""))
	if s == "4S" {
		return 0.0
	}
	s = trailingAlphaRe.ReplaceAllString(s, "")
	if s == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// ParseSide maps a transaction code to a trade side. Any code that is not a
// buy or sell (dividends, fees, transfers, option assignments, ...) yields
// SideNone, which excludes the row downstream.
func ParseSide(code string) models.Side {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "buy":
		return models.SideBuy
	case "sell":
		return models.SideSell
	}
	return models.SideNone
}
