package medicinesparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCurrencyPattern matches the taka sign, and its mojibake when a UTF-8
// file went through a Latin-1 decoder once
const DefaultCurrencyPattern = `৳|à§³`

// PriceExtractor finds a price inside a free-text package description
type PriceExtractor interface {
	ExtractPrice(packageInfo string) (float64, bool)
}

// RegexPriceExtractor extracts the first amount following a currency symbol
type RegexPriceExtractor struct {
	re *regexp.Regexp
}

// NewRegexPriceExtractor compiles an extractor for the given currency-symbol pattern.
// An empty pattern selects DefaultCurrencyPattern.
func NewRegexPriceExtractor(symbolPattern string) (*RegexPriceExtractor, error) {
	if symbolPattern == "" {
		symbolPattern = DefaultCurrencyPattern
	}

	re, err := regexp.Compile(`(?:` + symbolPattern + `)[\s\x{00A0}]*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	if err != nil {
		return nil, fmt.Errorf("invalid currency pattern %q: %w", symbolPattern, err)
	}

	return &RegexPriceExtractor{re: re}, nil
}

// ExtractPrice returns the amount and true when a positive price was found.
// Thousands separators are removed before parsing.
func (e *RegexPriceExtractor) ExtractPrice(packageInfo string) (float64, bool) {
	match := e.re.FindStringSubmatch(packageInfo)
	if len(match) < 2 {
		return 0, false
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil || price <= 0 {
		return 0, false
	}

	return price, true
}
