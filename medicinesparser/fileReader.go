package medicinesparser

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadFile returns the content of a medicines CSV as UTF-8.
// Files that are not valid UTF-8 are decoded as Windows-1252.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read medicines file %s: %w", path, err)
	}

	if utf8.Valid(content) {
		return string(content), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode medicines file %s: %w", path, err)
	}

	return string(decoded), nil
}
