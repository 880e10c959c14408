package entities

// RawRow holds the fields of one CSV line, in column order.
type RawRow []string

// SourceRow is a CSV row mapped to named columns, before normalization.
type SourceRow struct {
	ID           int
	Name         string
	Category     string
	DosageForm   string
	Generic      string
	Strength     string
	Manufacturer string
	PackageInfo  string
}
