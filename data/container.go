// Package data provides thread-safe data storage for the medicines API.
// Each update publishes a new immutable snapshot; readers never see a partial dataset.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/medicinesparser/entities"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// snapshot is published as a whole and never modified afterwards
type snapshot struct {
	medicines   []entities.Medicine
	stats       entities.ParseStats
	report      *interfaces.DataQualityReport
	lastUpdated time.Time
}

// DataContainer holds the current snapshot with an atomic pointer for zero-downtime updates
type DataContainer struct {
	current         atomic.Pointer[snapshot]
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.current.Store(&snapshot{
		medicines: make([]entities.Medicine, 0),
		report:    &interfaces.DataQualityReport{RecordsPerType: map[string]int{}},
	})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetMedicines returns the published medicines. Callers must not modify the slice.
func (dc *DataContainer) GetMedicines() []entities.Medicine {
	return dc.current.Load().medicines
}

// GetParseStats returns the parse statistics of the published snapshot
func (dc *DataContainer) GetParseStats() entities.ParseStats {
	return dc.current.Load().stats
}

// GetQualityReport returns the quality report of the published snapshot
func (dc *DataContainer) GetQualityReport() *interfaces.DataQualityReport {
	return dc.current.Load().report
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	return dc.current.Load().lastUpdated
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if startTime, ok := dc.serverStartTime.Load().(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

// UpdateData atomically replaces the published snapshot
func (dc *DataContainer) UpdateData(medicines []entities.Medicine, stats entities.ParseStats, report *interfaces.DataQualityReport) {
	if medicines == nil {
		medicines = make([]entities.Medicine, 0)
	}
	if report == nil {
		report = &interfaces.DataQualityReport{RecordsPerType: map[string]int{}}
	}

	dc.current.Store(&snapshot{
		medicines:   medicines,
		stats:       stats,
		report:      report,
		lastUpdated: time.Now(),
	})
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
