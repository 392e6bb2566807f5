// Package workload holds the size presets and splits a workload across
// producer workers.
package workload

import "fmt"

// Tier names a preset workload size. The zero value selects no preset.
type Tier string

// Supported tiers
const (
	TierNone   Tier = ""
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// Totals is the pre-partition workload: records to send across all workers
// and the per-worker throughput cap (-1 for unlimited).
type Totals struct {
	NumRecords int64
	Throughput int
}

var presets = map[Tier]Totals{
	TierSmall:  {NumRecords: 60000, Throughput: 1000},
	TierMedium: {NumRecords: 600000, Throughput: 10000},
	TierLarge:  {NumRecords: 6000000, Throughput: 100000},
}

// Tiers lists the selectable tiers in ascending size
func Tiers() []Tier {
	return []Tier{TierSmall, TierMedium, TierLarge}
}

// ParseTier validates a tier name. The empty string yields TierNone.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if t == TierNone {
		return TierNone, nil
	}
	if _, ok := presets[t]; !ok {
		return TierNone, fmt.Errorf("invalid size %q: choose from small, medium, large", s)
	}
	return t, nil
}

// Preset returns the totals of the tier; ok is false for TierNone
func (t Tier) Preset() (Totals, bool) {
	p, ok := presets[t]
	return p, ok
}

// Assignment is the share of one worker
type Assignment struct {
	Worker     int
	Records    int64
	Throughput int
}

// Partition computes the share of worker threadIndex out of threadCount.
// A tier replaces totals before dividing. Records are divided with
// truncation; throughput is not divided, every worker targets the same cap.
func Partition(totals Totals, threadIndex, threadCount int, tier Tier) Assignment {
	if p, ok := tier.Preset(); ok {
		totals = p
	}
	if threadCount < 1 {
		threadCount = 1
	}

	return Assignment{
		Worker:     threadIndex,
		Records:    totals.NumRecords / int64(threadCount),
		Throughput: totals.Throughput,
	}
}

// Plan returns the assignments of all threadCount workers
func Plan(totals Totals, threadCount int, tier Tier) []Assignment {
	if threadCount < 1 {
		return nil
	}
	plan := make([]Assignment, threadCount)
	for i := range plan {
		plan[i] = Partition(totals, i, threadCount, tier)
	}
	return plan
}
