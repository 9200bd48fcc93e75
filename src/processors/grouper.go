package processors

import (
	"regexp"
	"strconv"
	"strings"
)

// Option is the tagged result of parsing an option description such as
// "AAPL 01/19/2024 150.00 CALL".
type Option struct {
	Underlying string
	Expiry     string // MM/DD/YYYY, as printed in the description
	Strike     float64
	Right      string // "CALL" or "PUT"
}

var optionDescRe = regexp.MustCompile(`([A-Z]+)\s+(\d{2}/\d{2}/\d{4})\s+([\d.]+)\s+(CALL|PUT)`)

// ParseOption extracts option contract terms from a free-text description.
// ok is false when the pattern does not match or the strike is not numeric.
func ParseOption(description string) (Option, bool) {
	m := optionDescRe.FindStringSubmatch(strings.ToUpper(description))
	if m == nil {
		return Option{}, false
	}
	strike, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Option{}, false
	}
	return Option{Underlying: m[1], Expiry: m[2], Strike: strike, Right: m[4]}, true
}

// Key renders the option identity as a collision-free grouping key. The
// strike is re-rendered from its numeric value so "150.00" and "150" map to
// the same key while "1.50" and "15.0" stay distinct.
func (o Option) Key() string {
	return o.Underlying + "|" + o.Expiry + "|" +
		strconv.FormatFloat(o.Strike, 'f', -1, 64) + "|" + o.Right
}

// GroupKey computes the substantially-identical grouping key for a row.
// Rows describing the same option contract (underlying, expiry, strike,
// right) track as one replacement-eligible pool regardless of how the
// broker printed the strike; stock rows pool by ticker, separate from any
// contract on that ticker. A description that mentions CALL/PUT but does
// not parse degrades to the ticker-only key, a known approximation.
func GroupKey(ticker, description string) string {
	desc := strings.ToUpper(description)
	if strings.Contains(desc, "CALL") || strings.Contains(desc, "PUT") {
		if opt, ok := ParseOption(desc); ok {
			return opt.Key()
		}
	}
	return TickerKey(ticker, description)
}

// TickerKey ignores option terms entirely and groups by instrument ticker
// alone. Used when option-equivalency grouping is switched off.
func TickerKey(ticker, _ string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
