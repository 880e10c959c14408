package scheduler

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giygas/medicines-api/interfaces"
	"github.com/giygas/medicines-api/medicinesparser/entities"
	"github.com/giygas/medicines-api/validation"
)

// mockSchedulerDataStore for testing scheduler
type mockSchedulerDataStore struct {
	mu          sync.Mutex
	medicines   []entities.Medicine
	stats       entities.ParseStats
	report      *interfaces.DataQualityReport
	lastUpdated time.Time
	updating    bool
	updateCount int
}

func (m *mockSchedulerDataStore) GetMedicines() []entities.Medicine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.medicines
}

func (m *mockSchedulerDataStore) GetParseStats() entities.ParseStats {
	return m.stats
}

func (m *mockSchedulerDataStore) GetQualityReport() *interfaces.DataQualityReport {
	return m.report
}

func (m *mockSchedulerDataStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *mockSchedulerDataStore) IsUpdating() bool {
	return m.updating
}

func (m *mockSchedulerDataStore) GetServerStartTime() time.Time {
	return time.Time{}
}

func (m *mockSchedulerDataStore) UpdateData(medicines []entities.Medicine, stats entities.ParseStats, report *interfaces.DataQualityReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medicines = medicines
	m.stats = stats
	m.report = report
	m.lastUpdated = time.Now()
	m.updateCount++
}

func (m *mockSchedulerDataStore) BeginUpdate() bool {
	if m.updating {
		return false
	}
	m.updating = true
	return true
}

func (m *mockSchedulerDataStore) EndUpdate() {
	m.updating = false
}

// mockSchedulerParser for testing scheduler
type mockSchedulerParser struct {
	parseCount int
	shouldFail bool
	medicines  []entities.Medicine
}

func (m *mockSchedulerParser) ParseMedicines() ([]entities.Medicine, entities.ParseStats, error) {
	m.parseCount++
	if m.shouldFail {
		return nil, entities.ParseStats{}, errors.New("parse failed")
	}

	medicines := m.medicines
	if medicines == nil {
		medicines = []entities.Medicine{
			{Name: "Napa", Generic: "Paracetamol", Type: "tablet", BoxPrice: 100},
			{Name: "Seclo", Generic: "Omeprazole", Type: "capsule", BoxPrice: 60},
		}
	}
	return medicines, entities.ParseStats{TotalLines: len(medicines) + 1, Records: len(medicines)}, nil
}

func newTestScheduler(store *mockSchedulerDataStore, parser *mockSchedulerParser) *Scheduler {
	return NewScheduler(store, parser, validation.NewDataValidator(), nil)
}

func TestScheduler_SuccessfulUpdate(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}
	defer scheduler.Stop()

	if store.updateCount != 1 {
		t.Errorf("Expected 1 update, got %d", store.updateCount)
	}
	if parser.parseCount != 1 {
		t.Errorf("Expected 1 parse call, got %d", parser.parseCount)
	}
	if len(store.GetMedicines()) != 2 {
		t.Errorf("Expected 2 medicines, got %d", len(store.GetMedicines()))
	}
	if store.stats.Records != 2 {
		t.Errorf("Expected parse stats to be stored, got %+v", store.stats)
	}
	if store.report == nil || store.report.TotalRecords != 2 {
		t.Errorf("Expected quality report for 2 records, got %+v", store.report)
	}
	if store.updating {
		t.Error("Expected update flag to be released")
	}
}

func TestScheduler_ParseFailure(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{shouldFail: true}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err == nil {
		t.Error("Expected error during start but got none")
	}

	if store.updateCount != 0 {
		t.Errorf("Expected 0 updates due to failure, got %d", store.updateCount)
	}
	if store.updating {
		t.Error("Expected update flag to be released after failure")
	}
}

func TestScheduler_OverLongFieldStillPublished(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{medicines: []entities.Medicine{
		{Name: "Napa", Generic: "Paracetamol", Type: "tablet", BoxPrice: 100},
		{Name: "Ace", Generic: strings.Repeat("g", 501), Type: "tablet", BoxPrice: 100},
	}}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}
	defer scheduler.Stop()

	if len(store.GetMedicines()) != 2 {
		t.Errorf("Expected both medicines published, got %d", len(store.GetMedicines()))
	}
	if store.report == nil || store.report.RecordsOverLength != 1 {
		t.Errorf("Expected the long record to be counted in the report, got %+v", store.report)
	}
}

func TestScheduler_EmptyInitialDatasetPublished(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{medicines: []entities.Medicine{}}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}
	defer scheduler.Stop()

	if store.updateCount != 1 || len(store.GetMedicines()) != 0 {
		t.Errorf("Expected an empty snapshot to be published, got %d updates", store.updateCount)
	}
}

func TestScheduler_EmptyReloadKeepsPreviousSnapshot(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}
	defer scheduler.Stop()

	parser.medicines = []entities.Medicine{}
	if err := scheduler.Reload(); err == nil {
		t.Error("Expected reload error for empty dataset")
	}
	if store.updateCount != 1 || len(store.GetMedicines()) != 2 {
		t.Errorf("Expected previous snapshot to remain published, got %d medicines", len(store.GetMedicines()))
	}
}

func TestScheduler_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}
	defer scheduler.Stop()

	previous := store.GetMedicines()

	parser.shouldFail = true
	if err := scheduler.Reload(); err == nil {
		t.Error("Expected reload error")
	}

	current := store.GetMedicines()
	if len(current) != len(previous) || current[0].Name != previous[0].Name {
		t.Error("Expected previous snapshot to remain published")
	}
}

func TestScheduler_ReloadReplacesSnapshot(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{}

	scheduler := newTestScheduler(store, parser)
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}
	defer scheduler.Stop()

	parser.medicines = []entities.Medicine{{Name: "Ace", Generic: "Paracetamol", BoxPrice: 25}}
	if err := scheduler.Reload(); err != nil {
		t.Fatalf("Unexpected reload error: %v", err)
	}

	medicines := store.GetMedicines()
	if len(medicines) != 1 || medicines[0].Name != "Ace" {
		t.Errorf("Expected snapshot to be replaced, got %+v", medicines)
	}
	if store.updateCount != 2 {
		t.Errorf("Expected 2 updates, got %d", store.updateCount)
	}
}

func TestScheduler_ConcurrentUpdatePrevention(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{}

	scheduler := newTestScheduler(store, parser)

	// Simulate an update in progress
	store.BeginUpdate()

	if err := scheduler.Start(); err != nil {
		t.Errorf("Unexpected error during start with concurrent update: %v", err)
	}
	defer scheduler.Stop()

	if store.updateCount != 0 {
		t.Errorf("Expected 0 updates due to concurrent update, got %d", store.updateCount)
	}
	if parser.parseCount != 0 {
		t.Errorf("Expected parser not to run, got %d calls", parser.parseCount)
	}
}

func TestScheduler_InvalidReloadTime(t *testing.T) {
	store := &mockSchedulerDataStore{}
	parser := &mockSchedulerParser{}

	scheduler := NewScheduler(store, parser, validation.NewDataValidator(), []string{"25:99"})
	if err := scheduler.Start(); err == nil {
		scheduler.Stop()
		t.Error("Expected scheduling error for invalid reload time")
	}
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	scheduler := newTestScheduler(&mockSchedulerDataStore{}, &mockSchedulerParser{})
	if err := scheduler.Start(); err != nil {
		t.Fatalf("Unexpected error during start: %v", err)
	}

	scheduler.Stop()
	scheduler.Stop()
}

func TestCheckStaleness(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if checkStaleness(now.Add(-2*time.Hour), now) {
		t.Error("Expected fresh data not to be stale")
	}
	if !checkStaleness(now.Add(-26*time.Hour), now) {
		t.Error("Expected 26h old data to be stale")
	}
}

func TestCalculateNextUpdate(t *testing.T) {
	loc := time.UTC
	times := []string{"18:00", "06:00"}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before first reload",
			now:  time.Date(2025, 6, 1, 3, 0, 0, 0, loc),
			want: time.Date(2025, 6, 1, 6, 0, 0, 0, loc),
		},
		{
			name: "between reloads",
			now:  time.Date(2025, 6, 1, 12, 30, 0, 0, loc),
			want: time.Date(2025, 6, 1, 18, 0, 0, 0, loc),
		},
		{
			name: "exactly at reload",
			now:  time.Date(2025, 6, 1, 6, 0, 0, 0, loc),
			want: time.Date(2025, 6, 1, 18, 0, 0, 0, loc),
		},
		{
			name: "after last reload",
			now:  time.Date(2025, 6, 1, 20, 0, 0, 0, loc),
			want: time.Date(2025, 6, 2, 6, 0, 0, 0, loc),
		},
		{
			name: "end of month",
			now:  time.Date(2025, 6, 30, 23, 0, 0, 0, loc),
			want: time.Date(2025, 7, 1, 6, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateNextUpdate(times, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("CalculateNextUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateNextUpdateFallsBackToDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	got := CalculateNextUpdate([]string{"bogus"}, now)
	want := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CalculateNextUpdate() = %v, want %v", got, want)
	}
}
