// Package medicinesparser provides functionality for reading and parsing medicine data from CSV exports.
package medicinesparser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medicines-api/medicinesparser/entities"
)

// MinFields is the minimum number of fields a row needs to be considered
const MinFields = 8

// MinNameLength is the minimum length of a medicine name, in characters
const MinNameLength = 2

// Options controls how a medicines CSV is parsed
type Options struct {
	Delimiter      rune
	MinFields      int
	PriceExtractor PriceExtractor
}

// DefaultOptions returns comma-delimited parsing with the taka price extractor
func DefaultOptions() Options {
	extractor, _ := NewRegexPriceExtractor(DefaultCurrencyPattern)
	return Options{
		Delimiter:      ',',
		MinFields:      MinFields,
		PriceExtractor: extractor,
	}
}

// OptionsWithCurrency returns the default options with prices matched after
// the given currency symbol pattern
func OptionsWithCurrency(symbolPattern string) (Options, error) {
	extractor, err := NewRegexPriceExtractor(symbolPattern)
	if err != nil {
		return Options{}, err
	}
	opts := DefaultOptions()
	opts.PriceExtractor = extractor
	return opts, nil
}

// ParseResult holds the parsed records in input order and the line statistics
type ParseResult struct {
	Medicines []entities.Medicine
	Stats     entities.ParseStats
}

func (o Options) withDefaults() (Options, error) {
	defaults := DefaultOptions()
	if o.Delimiter == 0 {
		o.Delimiter = defaults.Delimiter
	}
	if o.MinFields == 0 {
		o.MinFields = defaults.MinFields
	}
	if o.PriceExtractor == nil {
		o.PriceExtractor = defaults.PriceExtractor
	}

	if o.Delimiter == '"' || o.Delimiter == '\n' {
		return o, fmt.Errorf("invalid delimiter %q", o.Delimiter)
	}
	if o.MinFields < 0 {
		return o, fmt.Errorf("invalid minimum field count: %d", o.MinFields)
	}

	return o, nil
}

// ParseContent parses the full text of a medicines CSV. The first line is the
// header. Blank lines, rows with fewer than MinFields fields and rows without a
// valid name are skipped and only counted in the stats.
func ParseContent(content string, opts Options) (*ParseResult, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	content = strings.TrimPrefix(content, "\uFEFF")
	lines := strings.Split(content, "\n")

	result := &ParseResult{
		Medicines: make([]entities.Medicine, 0, len(lines)),
	}
	result.Stats.TotalLines = len(lines)

	schema := ResolveSchema(SplitLine(strings.TrimRight(lines[0], "\r"), opts.Delimiter))

	for i := 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			result.Stats.BlankLines++
			continue
		}

		row := SplitLine(line, opts.Delimiter)
		if len(row) < opts.MinFields {
			result.Stats.ShortRows++
			continue
		}

		source := schema.Map(row, i)
		price, found := opts.PriceExtractor.ExtractPrice(source.PackageInfo)

		medicine := Normalize(source, price, found)
		if !ValidName(medicine.Name) {
			result.Stats.InvalidNames++
			continue
		}

		if !found {
			result.Stats.DefaultPrices++
		}
		result.Medicines = append(result.Medicines, medicine)
	}

	result.Stats.Records = len(result.Medicines)
	return result, nil
}

// ParseFile reads and parses a medicines CSV. Only an unreadable file is an error.
func ParseFile(path string, opts Options) (*ParseResult, error) {
	content, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseContent(content, opts)
}

// Normalize builds the canonical record from a mapped row
func Normalize(source entities.SourceRow, price float64, priceFound bool) entities.Medicine {
	if !priceFound {
		price = entities.DefaultBoxPrice
	}

	return entities.Medicine{
		Name:           strings.TrimSpace(source.Name),
		Generic:        source.Generic,
		Company:        source.Manufacturer,
		Power:          source.Strength,
		Type:           strings.ToLower(withDefault(source.DosageForm, entities.DefaultType)),
		StripsPerBox:   entities.DefaultStripsPerBox,
		PiecesPerStrip: entities.DefaultPiecesPerStrip,
		BoxPrice:       price,
	}
}

// ValidName reports whether name is long enough to be kept
func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}
