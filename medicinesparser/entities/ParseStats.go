package entities

// ParseStats counts what happened to each line of a parsed file.
type ParseStats struct {
	TotalLines    int `json:"total_lines"`
	BlankLines    int `json:"blank_lines"`
	ShortRows     int `json:"short_rows"`
	InvalidNames  int `json:"invalid_names"`
	DefaultPrices int `json:"default_prices"`
	Records       int `json:"records"`
}

