// Package validation provides data validation functionality for the medicines API.
package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/medicinesparser"
	"github.com/giygas/medicines-api/medicinesparser/entities"
)

const (
	maxQueryLength = 50
	maxQueryWords  = 6
	maxLimit       = 100
	maxNameLength  = 200
	maxFieldLength = 500
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Letters and combining marks of any script (brand names mix Latin and Bengali),
	// digits and the punctuation found in product names
	queryRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-\.\+'/%(),&]+$`)

	// Dangerous patterns as strings (faster than regex for simple substring matching)
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}
)

// Compile-time check
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateMedicine checks if a medicine record is valid
func (v *DataValidatorImpl) ValidateMedicine(m *entities.Medicine) error {
	if m == nil {
		return fmt.Errorf("medicine is nil")
	}

	if !medicinesparser.ValidName(m.Name) {
		return fmt.Errorf("medicine name too short: %q", m.Name)
	}

	if utf8.RuneCountInString(m.Name) > maxNameLength {
		return fmt.Errorf("medicine name too long: %d characters", utf8.RuneCountInString(m.Name))
	}

	for field, value := range textFields(m) {
		if utf8.RuneCountInString(value) > maxFieldLength {
			return fmt.Errorf("%s too long for %q: %d characters", field, m.Name, utf8.RuneCountInString(value))
		}
	}

	if m.BoxPrice <= 0 {
		return fmt.Errorf("invalid box price for %q: %v", m.Name, m.BoxPrice)
	}

	return nil
}

// ValidateDataIntegrity rejects a dataset holding a record without a usable name.
// Other record problems are only counted by ReportDataQuality.
func (v *DataValidatorImpl) ValidateDataIntegrity(medicines []entities.Medicine) error {
	for i := range medicines {
		if !medicinesparser.ValidName(medicines[i].Name) {
			return fmt.Errorf("record %d: medicine name too short: %q", i, medicines[i].Name)
		}
	}

	return nil
}

// ReportDataQuality summarizes the dataset. Duplicates are allowed, only reported.
func (v *DataValidatorImpl) ReportDataQuality(medicines []entities.Medicine) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		TotalRecords:   len(medicines),
		DuplicateNames: []string{},
		RecordsPerType: make(map[string]int),
	}

	seen := make(map[string]int, len(medicines))
	for _, m := range medicines {
		key := strings.ToLower(m.Name)
		seen[key]++
		if seen[key] == 2 {
			report.DuplicateNames = append(report.DuplicateNames, m.Name)
		}

		if m.Generic == "" {
			report.RecordsWithoutGeneric++
		}
		if m.Company == "" {
			report.RecordsWithoutCompany++
		}
		if m.BoxPrice == entities.DefaultBoxPrice {
			report.RecordsWithDefaultBox++
		}
		if exceedsLengthLimits(&m) {
			report.RecordsOverLength++
		}
		report.RecordsPerType[m.Type]++
	}

	slices.Sort(report.DuplicateNames)
	return report
}

// ValidateQuery validates a search query. Length below the search minimum is
// not an error here: such queries just return no results.
func (v *DataValidatorImpl) ValidateQuery(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if utf8.RuneCountInString(input) > maxQueryLength {
		return fmt.Errorf("query too long: maximum %d characters", maxQueryLength)
	}

	if len(strings.Fields(input)) > maxQueryWords {
		return fmt.Errorf("search query too complex: maximum %d words allowed", maxQueryWords)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("query contains potentially dangerous content")
		}
	}

	if !queryRegex.MatchString(input) {
		return fmt.Errorf("query contains invalid characters. Only letters, numbers, spaces and - . + ' / %% ( ) , & are allowed")
	}

	if hasExcessiveRepetition(input) {
		return fmt.Errorf("query contains excessive character repetition")
	}

	return nil
}

// ValidateLimit parses a limit query parameter
func (v *DataValidatorImpl) ValidateLimit(input string, defaultLimit int) (int, error) {
	if strings.TrimSpace(input) == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("limit must be a number")
	}

	if limit < 1 || limit > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}

	return limit, nil
}

func textFields(m *entities.Medicine) map[string]string {
	return map[string]string{"generic": m.Generic, "company": m.Company, "power": m.Power, "type": m.Type}
}

// exceedsLengthLimits reports a name or text field longer than the record caps
func exceedsLengthLimits(m *entities.Medicine) bool {
	if utf8.RuneCountInString(m.Name) > maxNameLength {
		return true
	}
	for _, value := range textFields(m) {
		if utf8.RuneCountInString(value) > maxFieldLength {
			return true
		}
	}
	return false
}

// hasExcessiveRepetition reports the same rune repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	var last rune
	run := 0
	for _, r := range input {
		if r == last {
			run++
			if run > 10 {
				return true
			}
			continue
		}
		last = r
		run = 1
	}
	return false
}
