// Package scheduler provides automated reloads of the medicines snapshot and
// staleness monitoring. It parses the source file into temporaries, validates
// the result and publishes it to the data container in one step.
package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/logging"
	"github.com/giygas/medicines-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// DefaultReloadTimes are used when no reload times are configured
var DefaultReloadTimes = []string{"06:00", "18:00"}

const (
	staleAfter         = 25 * time.Hour
	staleCheckInterval = 1 * time.Hour
	reloadTimeFormat   = "15:04"
)

// Scheduler handles data reloads and staleness monitoring using dependency injection
type Scheduler struct {
	dataStore   interfaces.DataStore
	parser      interfaces.Parser
	validator   interfaces.DataValidator
	reloadTimes []string
	scheduler   *gocron.Scheduler

	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// An empty reloadTimes falls back to DefaultReloadTimes.
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser, validator interfaces.DataValidator, reloadTimes []string) *Scheduler {
	if len(reloadTimes) == 0 {
		reloadTimes = DefaultReloadTimes
	}
	return &Scheduler{
		dataStore:   dataStore,
		parser:      parser,
		validator:   validator,
		reloadTimes: reloadTimes,
		scheduler:   gocron.NewScheduler(time.Local),
		done:        make(chan struct{}),
	}
}

// Start performs the initial load, then schedules reloads and staleness monitoring.
// A failed initial load is returned to the caller.
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(strings.Join(s.reloadTimes, ";")).Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to update data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule updates", "error", err)
		return fmt.Errorf("failed to schedule updates: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	logging.Info("Scheduler started", "reload_times", s.reloadTimes,
		"next_update", CalculateNextUpdate(s.reloadTimes, time.Now()).Format(time.RFC3339))

	return nil
}

// Stop stops scheduled reloads and the staleness monitor
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()
		close(s.done)
	})
}

// Reload runs one reload immediately
func (s *Scheduler) Reload() error {
	return s.updateData()
}

// updateData performs a complete reload. The published snapshot is only
// replaced after the new data parsed and passed integrity checks.
func (s *Scheduler) updateData() error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Update already in progress, skipping...")
		metrics.MedicinesReloadTotal.WithLabelValues(metrics.ReloadSkipped).Inc()
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info(fmt.Sprintf("Starting medicines reload at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	medicines, stats, err := s.parser.ParseMedicines()
	if err != nil {
		metrics.MedicinesReloadTotal.WithLabelValues(metrics.ReloadFailure).Inc()
		return fmt.Errorf("failed to parse medicines: %w", err)
	}

	if err := s.validator.ValidateDataIntegrity(medicines); err != nil {
		metrics.MedicinesReloadTotal.WithLabelValues(metrics.ReloadFailure).Inc()
		return fmt.Errorf("medicines failed integrity check: %w", err)
	}

	// An empty parse never replaces a populated snapshot
	if len(medicines) == 0 && len(s.dataStore.GetMedicines()) > 0 {
		metrics.MedicinesReloadTotal.WithLabelValues(metrics.ReloadFailure).Inc()
		return fmt.Errorf("parsed dataset is empty, keeping the %d published medicines", len(s.dataStore.GetMedicines()))
	}

	report := s.validator.ReportDataQuality(medicines)

	if len(report.DuplicateNames) > 0 {
		logging.Warn("Duplicate medicine names detected",
			"total", len(report.DuplicateNames),
			"names", report.DuplicateNames,
		)
	}
	if report.RecordsWithDefaultBox > 0 {
		logging.Warn("Medicines without a package price",
			"count", report.RecordsWithDefaultBox,
		)
	}
	if report.RecordsOverLength > 0 {
		logging.Warn("Medicines exceeding field length limits", "count", report.RecordsOverLength)
	}
	if report.RecordsWithoutGeneric > 0 {
		logging.Debug("Medicines without generic name", "count", report.RecordsWithoutGeneric)
	}

	s.dataStore.UpdateData(medicines, stats, report)

	elapsed := time.Since(start)
	metrics.MedicinesLoaded.Set(float64(len(medicines)))
	metrics.MedicinesReloadDuration.Observe(elapsed.Seconds())
	metrics.MedicinesReloadTotal.WithLabelValues(metrics.ReloadSuccess).Inc()

	logging.Info("Medicines reload completed",
		"duration", elapsed.String(),
		"medicine_count", len(medicines),
	)

	return nil
}

// startHealthMonitoring warns when the snapshot has not been refreshed for too long
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(staleCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				checkStaleness(s.dataStore.GetLastUpdated(), time.Now())
			}
		}
	}()
}

// checkStaleness logs a warning and reports true when lastUpdate is too old
func checkStaleness(lastUpdate, now time.Time) bool {
	if now.Sub(lastUpdate) > staleAfter {
		logging.Warn("Data hasn't been updated in over 25 hours", "last_update", lastUpdate.Format(time.RFC3339))
		return true
	}
	return false
}

// CalculateNextUpdate returns the first reload time strictly after now.
// Times are HH:MM in now's location; invalid entries are ignored. When no
// entry is valid the defaults are used.
func CalculateNextUpdate(times []string, now time.Time) time.Time {
	clocks := parseClocks(times)
	if len(clocks) == 0 {
		clocks = parseClocks(DefaultReloadTimes)
	}

	for _, c := range clocks {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), c.Hour(), c.Minute(), 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}

	first := clocks[0]
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.Hour(), first.Minute(), 0, 0, now.Location())
}

func parseClocks(times []string) []time.Time {
	clocks := make([]time.Time, 0, len(times))
	for _, t := range times {
		c, err := time.Parse(reloadTimeFormat, strings.TrimSpace(t))
		if err != nil {
			continue
		}
		clocks = append(clocks, c)
	}
	sort.Slice(clocks, func(i, j int) bool { return clocks[i].Before(clocks[j]) })
	return clocks
}
