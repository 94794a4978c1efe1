package workflow

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/downloader"
)

// Report gathers the states of the regions and the outcomes of the downloads.
// It is safe for concurrent use.
type Report struct {
	mu        sync.Mutex
	regions   map[string]common.RegionState
	submitted int
	results   []downloader.Result
}

// ReportSnapshot is a copy of the report
type ReportSnapshot struct {
	Regions   map[string]common.RegionState `json:"regions"`
	Pending   int                           `json:"pending"` // Regions not yet in a final state
	Submitted int                           `json:"submitted"`
	Downloads map[string]int                `json:"downloads"`
	Results   []downloader.Result           `json:"results"`
}

func NewReport() *Report {
	return &Report{regions: map[string]common.RegionState{}}
}

func (r *Report) SetRegion(id string, state common.RegionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[id] = state
}

func (r *Report) AddSubmitted(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted += n
}

func (r *Report) AddResults(results []downloader.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, results...)
}

// Snapshot returns a copy of the current report
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := ReportSnapshot{
		Regions:   make(map[string]common.RegionState, len(r.regions)),
		Submitted: r.submitted,
		Downloads: map[string]int{},
		Results:   append([]downloader.Result(nil), r.results...),
	}
	for k, v := range r.regions {
		s.Regions[k] = v
		if !v.Final() {
			s.Pending++
		}
	}
	for _, res := range r.results {
		s.Downloads[res.Status.String()]++
	}
	return s
}

// Summary returns a one-line digest of the report
func (r *Report) Summary() string {
	s := r.Snapshot()
	states := map[string]int{}
	for _, state := range s.Regions {
		states[state.String()]++
	}
	return fmt.Sprintf("regions: %s (%d pending), downloads: %s", formatCounts(states), s.Pending, formatCounts(s.Downloads))
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return "[" + strings.Join(parts, " ") + "]"
}
