package medicinesparser

import (
	"strings"

	"github.com/giygas/medicines-api/medicinesparser/entities"
)

// SplitLine splits one CSV line into trimmed fields. A double quote toggles the
// quoted state and is dropped; the delimiter only ends a field outside quotes.
// There is no escaping: "" inside a quoted value toggles twice and yields nothing.
func SplitLine(line string, delim rune) entities.RawRow {
	fields := make(entities.RawRow, 0, 10)

	var current strings.Builder
	inQuotes := false

	for _, char := range line {
		switch {
		case char == '"':
			inQuotes = !inQuotes
		case char == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(char)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
