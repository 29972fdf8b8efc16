package scoring

import (
	"math"
	"time"

	"github.com/phrazzld/verba-api/internal/domain"
)

// hoursSinceLastAccess returns the hours elapsed between the record's last
// access (or the epoch when it was never accessed) and now. Clock skew that
// would produce a negative value is clamped to zero.
func hoursSinceLastAccess(record *domain.TrackingRecord, now time.Time, params *Params) float64 {
	last := params.NeverAccessedEpoch
	if record.LastAccessed != nil {
		last = *record.LastAccessed
	}
	hours := now.Sub(last).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// calculateScore applies base + weight*mistakes + hours, clamped at base.
func calculateScore(record *domain.TrackingRecord, base float64, now time.Time, params *Params) float64 {
	score := base +
		float64(record.MistakeCount())*params.MistakeWeight +
		hoursSinceLastAccess(record, now, params)
	return math.Max(score, base)
}

// calculateHealScore computes the score for a record that fell below the floor.
func calculateHealScore(record *domain.TrackingRecord, now time.Time, params *Params) float64 {
	return calculateScore(record, params.HealFloor, now, params)
}

// calculatePostAttemptScore computes the score for a record that was just
// attempted. The recorder sets LastAccessed to now before this runs, so the
// recency term is close to zero.
func calculatePostAttemptScore(record *domain.TrackingRecord, now time.Time, params *Params) float64 {
	return calculateScore(record, params.AttemptFloor, now, params)
}

// needsHeal reports whether the record's score is missing or below the floor.
func needsHeal(record *domain.TrackingRecord, params *Params) bool {
	return math.IsNaN(record.Score) || record.Score < params.HealFloor
}
