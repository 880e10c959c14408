// Package health provides health checking functionality for the medicines API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/scheduler"
)

// Health status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const (
	degradedAfter  = 24 * time.Hour
	unhealthyAfter = 48 * time.Hour
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore   interfaces.DataStore
	reloadTimes []string
	now         func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore, reloadTimes []string) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:   dataStore,
		reloadTimes: reloadTimes,
		now:         time.Now,
	}
}

// HealthCheck reports the snapshot state. An empty snapshot or data older
// than 48h is unhealthy, data older than 24h is degraded.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	medicines := h.dataStore.GetMedicines()
	stats := h.dataStore.GetParseStats()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := h.now().Sub(lastUpdate)

	switch {
	case len(medicines) == 0:
		status = StatusUnhealthy
		httpStatus = http.StatusServiceUnavailable

	case dataAge > unhealthyAfter:
		status = StatusUnhealthy
		httpStatus = http.StatusServiceUnavailable

	case dataAge > degradedAfter:
		status = StatusDegraded
		httpStatus = http.StatusOK

	default:
		status = StatusHealthy
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"medicines":      len(medicines),
		"default_prices": stats.DefaultPrices,
		"is_updating":    isUpdating,
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reload time
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	return scheduler.CalculateNextUpdate(h.reloadTimes, h.now())
}
