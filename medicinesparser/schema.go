package medicinesparser

import (
	"strconv"
	"strings"

	"github.com/giygas/medicines-api/medicinesparser/entities"
)

// Column identifies a semantic column of the medicines CSV
type Column int

const (
	ColumnID Column = iota
	ColumnName
	ColumnCategory
	ColumnDosageForm
	ColumnGeneric
	ColumnStrength
	ColumnManufacturer
	ColumnPackageInfo
	columnCount
)

// positionalLayout is the column order of the upstream export:
// brand id, brand name, type, slug (unused), dosage form, generic, strength, manufacturer, package container
var positionalLayout = [columnCount]int{
	ColumnID:           0,
	ColumnName:         1,
	ColumnCategory:     2,
	ColumnDosageForm:   4,
	ColumnGeneric:      5,
	ColumnStrength:     6,
	ColumnManufacturer: 7,
	ColumnPackageInfo:  8,
}

// headerAliases maps normalized header names to columns
var headerAliases = map[string]Column{
	"id":                ColumnID,
	"brand id":          ColumnID,
	"medicine id":       ColumnID,
	"name":              ColumnName,
	"brand":             ColumnName,
	"brand name":        ColumnName,
	"medicine name":     ColumnName,
	"type":              ColumnCategory,
	"category":          ColumnCategory,
	"dosage form":       ColumnDosageForm,
	"form":              ColumnDosageForm,
	"generic":           ColumnGeneric,
	"generic name":      ColumnGeneric,
	"strength":          ColumnStrength,
	"power":             ColumnStrength,
	"manufacturer":      ColumnManufacturer,
	"company":           ColumnManufacturer,
	"package container": ColumnPackageInfo,
	"package info":      ColumnPackageInfo,
	"package":           ColumnPackageInfo,
}

// Schema maps each semantic column to a field index (-1 when absent)
type Schema struct {
	index [columnCount]int
}

// DefaultSchema returns the positional layout used when no header is available
func DefaultSchema() Schema {
	return Schema{index: positionalLayout}
}

// ResolveSchema builds the column mapping from a header row. Columns the header
// does not name fall back to their positional index, unless that index is
// already claimed by a named column.
func ResolveSchema(header entities.RawRow) Schema {
	var s Schema
	for c := range s.index {
		s.index[c] = -1
	}

	claimed := make(map[int]bool, len(header))
	for i, name := range header {
		column, ok := headerAliases[normalizeHeader(name)]
		if !ok || s.index[column] != -1 {
			continue
		}
		s.index[column] = i
		claimed[i] = true
	}

	for c, idx := range s.index {
		if idx != -1 {
			continue
		}
		if fallback := positionalLayout[c]; !claimed[fallback] {
			s.index[c] = fallback
		}
	}

	return s
}

// Index returns the field index of a column, -1 when the column is absent
func (s Schema) Index(c Column) int {
	return s.index[c]
}

// Field returns the value of a column in row, or "" when out of bounds
func (s Schema) Field(row entities.RawRow, c Column) string {
	idx := s.index[c]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Map converts a row into a SourceRow. lineIndex is used as the ID when the
// id column is missing or not numeric.
func (s Schema) Map(row entities.RawRow, lineIndex int) entities.SourceRow {
	id, err := strconv.Atoi(s.Field(row, ColumnID))
	if err != nil || id == 0 {
		id = lineIndex
	}

	return entities.SourceRow{
		ID:           id,
		Name:         s.Field(row, ColumnName),
		Category:     withDefault(s.Field(row, ColumnCategory), entities.DefaultCategory),
		DosageForm:   withDefault(s.Field(row, ColumnDosageForm), entities.DefaultType),
		Generic:      s.Field(row, ColumnGeneric),
		Strength:     s.Field(row, ColumnStrength),
		Manufacturer: s.Field(row, ColumnManufacturer),
		PackageInfo:  s.Field(row, ColumnPackageInfo),
	}
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
