// Package export renders a medicines snapshot as a distributable artifact:
// a self-contained JavaScript module, a JSON data file or an XLSX workbook.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/xuri/excelize/v2"

	"github.com/giygas/medicines-api/medicinesparser/entities"
	"github.com/giygas/medicines-api/search"
)

// Format identifies an output artifact type
type Format string

const (
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet holding the records in XLSX exports
const SheetName = "Medicines"

// ParseFormat converts a flag or URL value into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJS, "javascript":
		return FormatJS, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatJS:
		return "text/javascript; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

// FileName returns the default artifact name for the format
func (f Format) FileName() string {
	if f == FormatJS {
		return "medicine-database.js"
	}
	return "medicines." + string(f)
}

// Write renders medicines in the given format. mode selects the search
// function embedded in JavaScript output and is ignored otherwise.
func Write(w io.Writer, format Format, medicines []entities.Medicine, mode search.Mode) error {
	switch format {
	case FormatJS:
		return WriteJS(w, medicines, mode)
	case FormatJSON:
		return WriteJSON(w, medicines)
	case FormatXLSX:
		return WriteXLSX(w, medicines)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

// WriteFile writes the artifact to path, creating the parent directory.
// The file is written to a temporary sibling first and renamed into place.
func WriteFile(path string, format Format, medicines []entities.Medicine, mode search.Mode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Write(tmp, format, medicines, mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into %s: %w", path, err)
	}
	return nil
}

// marshalIndent encodes with two-space indentation without HTML escaping,
// matching JSON.stringify(value, null, 2)
func marshalIndent(medicines []entities.Medicine) ([]byte, error) {
	if medicines == nil {
		medicines = []entities.Medicine{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(medicines); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON writes the records as an indented JSON array
func WriteJSON(w io.Writer, medicines []entities.Medicine) error {
	data, err := marshalIndent(medicines)
	if err != nil {
		return fmt.Errorf("failed to encode medicines: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteXLSX writes a workbook with a single Medicines sheet
func WriteXLSX(w io.Writer, medicines []entities.Medicine) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	headers := []string{
		"Name",
		"Generic",
		"Company",
		"Power",
		"Type",
		"Strips Per Box",
		"Pieces Per Strip",
		"Box Price",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i := range medicines {
		m := &medicines[i]
		row := i + 2
		values := []any{m.Name, m.Generic, m.Company, m.Power, m.Type, m.StripsPerBox, m.PiecesPerStrip, m.BoxPrice}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 28) // name
	_ = f.SetColWidth(SheetName, "B", "B", 36) // generic
	_ = f.SetColWidth(SheetName, "C", "C", 32) // company
	_ = f.SetColWidth(SheetName, "D", "E", 16)
	_ = f.SetColWidth(SheetName, "F", "H", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// WriteJS writes a CommonJS-compatible module holding the records as a static
// array plus a searchMedicines(query, limit) function ranking them.
func WriteJS(w io.Writer, medicines []entities.Medicine, mode search.Mode) error {
	data, err := marshalIndent(medicines)
	if err != nil {
		return fmt.Errorf("failed to encode medicines: %w", err)
	}

	loop := topKLoop
	if mode == search.FirstMatches {
		loop = firstMatchesLoop
	}

	return jsTemplate.Execute(w, struct {
		Count     int
		Medicines string
		Loop      string
		MinLength int
		Limit     int
	}{
		Count:     len(medicines),
		Medicines: string(data),
		Loop:      loop,
		MinLength: search.MinQueryLength,
		Limit:     search.DefaultLimit,
	})
}

const topKLoop = `for (let i = 0; i < comprehensiveMedicines.length; i++) {`

const firstMatchesLoop = `for (let i = 0; i < comprehensiveMedicines.length && results.length < limit; i++) {`

var jsTemplate = template.Must(template.New("js").Parse(`// Comprehensive Medicine Database - {{.Count}} medicines
// Generated from CSV data

const comprehensiveMedicines = {{.Medicines}};

// Optimized search function for large dataset
function searchMedicines(query, limit = {{.Limit}}) {
    const searchTerm = query.toLowerCase().trim();
    if (searchTerm.length < {{.MinLength}}) return [];
    if (!(limit > 0)) limit = {{.Limit}};

    const results = [];

    {{.Loop}}
        const med = comprehensiveMedicines[i];
        const name = med.name.toLowerCase();
        const nameMatch = name.includes(searchTerm);
        const genericMatch = med.generic.toLowerCase().includes(searchTerm);

        if (nameMatch || genericMatch) {
            const score = nameMatch ? (name.startsWith(searchTerm) ? 3 : 2) : 1;
            results.push({ ...med, score });
        }
    }

    return results.sort((a, b) => b.score - a.score).slice(0, limit);
}

if (typeof module !== 'undefined' && module.exports) {
    module.exports = { comprehensiveMedicines, searchMedicines };
}
`))
