package medicinesparser

import (
	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/medicinesparser/entities"
)

// Compile-time check to ensure MedicinesParser implements Parser interface
var _ interfaces.Parser = (*MedicinesParser)(nil)

// MedicinesParser parses the CSV at a fixed path
type MedicinesParser struct {
	path string
	opts Options
}

// NewMedicinesParser creates a parser for the CSV at path
func NewMedicinesParser(path string, opts Options) *MedicinesParser {
	return &MedicinesParser{path: path, opts: opts}
}

// Path returns the CSV path
func (p *MedicinesParser) Path() string {
	return p.path
}

// ParseMedicines implements the Parser interface. Dropped rows are not
// logged; their counts are only kept in the returned stats.
func (p *MedicinesParser) ParseMedicines() ([]entities.Medicine, entities.ParseStats, error) {
	result, err := ParseFile(p.path, p.opts)
	if err != nil {
		return nil, entities.ParseStats{}, err
	}

	return result.Medicines, result.Stats, nil
}
