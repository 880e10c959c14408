package entities

const (
	DefaultType           = "tablet"
	DefaultCategory       = "allopathic"
	DefaultStripsPerBox   = 10
	DefaultPiecesPerStrip = 10
	DefaultBoxPrice       = 100.0
)

// Medicine is the normalized record served by the API and written to the generated artifacts.
// Field order matches the generated JavaScript array.
type Medicine struct {
	Name           string  `json:"name"`
	Generic        string  `json:"generic"`
	Company        string  `json:"company"`
	Power          string  `json:"power"`
	Type           string  `json:"type"`
	StripsPerBox   int     `json:"stripsPerBox"`
	PiecesPerStrip int     `json:"piecesPerStrip"`
	BoxPrice       float64 `json:"boxPrice"`
}
