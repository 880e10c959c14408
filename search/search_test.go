package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giygas/medicines-api/medicinesparser/entities"
)

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestSearchShortQuery(t *testing.T) {
	meds := []entities.Medicine{{Name: "Ace"}, {Name: "Amodis"}}

	for _, q := range []string{"", "a", "  a  ", " "} {
		res := Search(meds, q, 10)
		assert.NotNil(t, res)
		assert.Empty(t, res, "query %q", q)
	}
}

func TestSearchRanking(t *testing.T) {
	meds := []entities.Medicine{
		{Name: "Relief Napa"},
		{Name: "Fast", Generic: "napa compound"},
		{Name: "Napa Extra"},
		{Name: "Napa"},
	}

	res := Search(meds, "napa", 10)
	assert.Equal(t, []string{"Napa Extra", "Napa", "Relief Napa", "Fast"}, names(res))
	assert.Equal(t, []int{3, 3, 2, 1}, []int{res[0].Score, res[1].Score, res[2].Score, res[3].Score})
}

func TestSearchExampleOrder(t *testing.T) {
	meds := []entities.Medicine{
		{Name: "Napa"},
		{Name: "Napa Extra"},
		{Name: "Relief Napa"},
	}

	assert.Equal(t, []string{"Napa", "Napa Extra", "Relief Napa"}, names(Search(meds, "napa", 10)))
}

func TestSearchCaseInsensitiveAndTrimmed(t *testing.T) {
	meds := []entities.Medicine{
		{Name: "SECLO", Generic: "Omeprazole"},
		{Name: "Losectil", Generic: "OMEPRAZOLE"},
	}

	res := Search(meds, "  SeClO ", 10)
	require.Len(t, res, 1)
	assert.Equal(t, ScoreNamePrefix, res[0].Score)

	res = Search(meds, "omeprazole", 10)
	assert.Equal(t, []string{"SECLO", "Losectil"}, names(res))
	for _, r := range res {
		assert.Equal(t, ScoreGeneric, r.Score)
	}
}

func TestSearchNoMatches(t *testing.T) {
	meds := []entities.Medicine{{Name: "Napa", Generic: "Paracetamol"}}
	assert.Empty(t, Search(meds, "zzz", 10))
	assert.Empty(t, Search(nil, "napa", 10))
}

func TestSearchDefaultLimit(t *testing.T) {
	meds := make([]entities.Medicine, 30)
	for i := range meds {
		meds[i] = entities.Medicine{Name: fmt.Sprintf("Napa %02d", i)}
	}

	assert.Len(t, Search(meds, "napa", 0), DefaultLimit)
	assert.Len(t, Search(meds, "napa", -3), DefaultLimit)
	assert.Len(t, Search(meds, "napa", 25), 25)
}

func TestSearchStableTies(t *testing.T) {
	meds := []entities.Medicine{
		{Name: "Ace Plus"},
		{Name: "Paracetamol", Generic: "ace"},
		{Name: "Ace"},
		{Name: "Acemol"},
	}

	res := Search(meds, "ace", 10)
	assert.Equal(t, []string{"Ace Plus", "Ace", "Acemol", "Paracetamol"}, names(res))
}

// With limit 1 the legacy mode stops at the first match even though a better
// match follows; TopK scans everything.
func TestSearchCapModes(t *testing.T) {
	meds := []entities.Medicine{
		{Name: "Relief Napa"},
		{Name: "Napa"},
	}

	legacy := Searcher{Mode: FirstMatches}.Search(meds, "napa", 1)
	require.Len(t, legacy, 1)
	assert.Equal(t, "Relief Napa", legacy[0].Name)
	assert.Equal(t, ScoreNameSubstr, legacy[0].Score)

	topK := Searcher{Mode: TopK}.Search(meds, "napa", 1)
	require.Len(t, topK, 1)
	assert.Equal(t, "Napa", topK[0].Name)
	assert.Equal(t, ScoreNamePrefix, topK[0].Score)
}

func TestSearchFirstMatchesSortsCollected(t *testing.T) {
	meds := []entities.Medicine{
		{Name: "X", Generic: "napa"},
		{Name: "Relief Napa"},
		{Name: "Napa"},
		{Name: "Napa Extra"},
	}

	res := Searcher{Mode: FirstMatches}.Search(meds, "napa", 3)
	assert.Equal(t, []string{"Napa", "Relief Napa", "X"}, names(res))
}

func TestSearchDoesNotModifyInput(t *testing.T) {
	meds := []entities.Medicine{{Name: "Relief Napa"}, {Name: "Napa"}}
	before := append([]entities.Medicine(nil), meds...)

	Search(meds, "napa", 10)
	assert.Equal(t, before, meds)
}

func TestSearchConcurrentReaders(t *testing.T) {
	meds := []entities.Medicine{{Name: "Napa"}, {Name: "Napa Extra"}, {Name: "Ace", Generic: "Paracetamol"}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				res := Search(meds, "napa", 10)
				if len(res) != 2 {
					t.Errorf("Expected 2 results, got %d", len(res))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestScore(t *testing.T) {
	m := entities.Medicine{Name: "Napa Extend", Generic: "Paracetamol"}

	assert.Equal(t, ScoreNamePrefix, Score(&m, "napa"))
	assert.Equal(t, ScoreNameSubstr, Score(&m, "extend"))
	assert.Equal(t, ScoreGeneric, Score(&m, "paracet"))
	assert.Equal(t, 0, Score(&m, "omeprazole"))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", TopK, false},
		{"topk", TopK, false},
		{"TOPK", TopK, false},
		{"first", FirstMatches, false},
		{"legacy", FirstMatches, false},
		{"fuzzy", TopK, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	assert.Equal(t, "topk", TopK.String())
	assert.Equal(t, "first", FirstMatches.String())
}

func BenchmarkSearch(b *testing.B) {
	meds := make([]entities.Medicine, 20000)
	for i := range meds {
		meds[i] = entities.Medicine{Name: fmt.Sprintf("Brand %d", i), Generic: "Paracetamol"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Search(meds, "paracet", 10)
	}
}
