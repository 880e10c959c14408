// Package interfaces defines core abstractions for the medicines API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/medicines-api/medicinesparser/entities"
)

// DataQualityReport provides a summary of data quality issues
type DataQualityReport struct {
	TotalRecords          int            `json:"total_records"`
	DuplicateNames        []string       `json:"duplicate_names"`
	RecordsWithoutGeneric int            `json:"records_without_generic"`
	RecordsWithoutCompany int            `json:"records_without_company"`
	RecordsWithDefaultBox int            `json:"records_with_default_price"`
	RecordsOverLength     int            `json:"records_over_length_limit"`
	RecordsPerType        map[string]int `json:"records_per_type"`
}

// DataStore defines the contract for data storage operations.
// It publishes immutable snapshots of the medicines list for concurrent readers.
type DataStore interface {
	// Data retrieval methods
	GetMedicines() []entities.Medicine
	GetParseStats() entities.ParseStats
	GetQualityReport() *DataQualityReport
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(medicines []entities.Medicine, stats entities.ParseStats, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for loading medicine records from their source file.
type Parser interface {
	// ParseMedicines reads and parses the source, returning the records in input order
	ParseMedicines() ([]entities.Medicine, entities.ParseStats, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated data reloads and staleness checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	ServeAllMedicines(w http.ResponseWriter, r *http.Request)
	ServePagedMedicines(w http.ResponseWriter, r *http.Request)
	SearchMedicines(w http.ResponseWriter, r *http.Request)
	ExportMedicines(w http.ResponseWriter, r *http.Request)
	ServeDataQuality(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
type DataValidator interface {
	// ValidateMedicine checks if a medicine record is valid
	ValidateMedicine(m *entities.Medicine) error

	// ValidateDataIntegrity rejects a dataset breaking the record name invariant
	ValidateDataIntegrity(medicines []entities.Medicine) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(medicines []entities.Medicine) *DataQualityReport

	// ValidateQuery validates a search query
	ValidateQuery(input string) error

	// ValidateLimit parses and bounds a result limit, empty means the default
	ValidateLimit(input string, defaultLimit int) (int, error)
}
