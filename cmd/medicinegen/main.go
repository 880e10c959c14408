// Command medicinegen converts a medicines CSV export into a static artifact:
// a JavaScript module with the records and a search function, a JSON file or
// an XLSX workbook.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/giygas/medicines-api/config"
	"github.com/giygas/medicines-api/export"
	"github.com/giygas/medicines-api/logging"
	"github.com/giygas/medicines-api/medicinesparser"
	"github.com/giygas/medicines-api/search"
)

const defaultOutput = "js/medicine-database.js"

// Flags holds the converter options
type Flags struct {
	In       string
	Out      string
	Format   string
	Mode     string
	Currency string
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(flags, os.Stdout); err != nil {
		logging.Error("Conversion failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags reads CLI flags, defaulting to the service's environment variables
func parseFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("medicinegen", flag.ContinueOnError)
	in := fs.String("in", envOr("MEDICINES_CSV_PATH", "data/medicines.csv"), "path to the medicines CSV")
	out := fs.String("out", defaultOutput, "path of the generated artifact")
	format := fs.String("format", string(export.FormatJS), "output format: js, json or xlsx")
	mode := fs.String("mode", envOr("SEARCH_MODE", "topk"), "search capping of the generated JavaScript: topk or first")
	currency := fs.String("currency", envOr("CURRENCY_PATTERN", medicinesparser.DefaultCurrencyPattern), "regular expression matching the currency symbol")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return Flags{In: *in, Out: *out, Format: *format, Mode: *mode, Currency: *currency}, nil
}

// run parses the CSV and writes the artifact. Malformed rows are dropped
// silently; unreadable input or unwritable output is returned.
func run(flags Flags, stdout io.Writer) error {
	format, err := export.ParseFormat(flags.Format)
	if err != nil {
		return err
	}

	mode, err := search.ParseMode(flags.Mode)
	if err != nil {
		return err
	}

	opts, err := medicinesparser.OptionsWithCurrency(flags.Currency)
	if err != nil {
		return fmt.Errorf("invalid currency pattern: %w", err)
	}

	result, err := medicinesparser.ParseFile(flags.In, opts)
	if err != nil {
		return err
	}

	if err := export.WriteFile(flags.Out, format, result.Medicines, mode); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Processed %d medicines from CSV\n", len(result.Medicines))
	fmt.Fprintf(stdout, "Medicine database created at %s\n", flags.Out)
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
