// Package srs implements the review scheduling core: generating review
// timestamps from a base interval table and adapting that table to a
// user's historical completion rate.
package srs

import (
	"errors"
	"math"
	"time"
)

// ErrNegativeRepetition is returned when a repetition count below zero is
// supplied. Negative counts would shrink or invert the interval ladder and
// schedule reviews before the anchor.
var ErrNegativeRepetition = errors.New("repetition number must not be negative")

// Config holds the tunable parameters of the scheduling core. The base
// interval table and adjustment thresholds are injectable so tests and
// deployments can substitute their own cadence.
type Config struct {
	// BaseIntervals is the ordered review cadence in hours after the anchor.
	BaseIntervals []int

	// Completion-rate thresholds (percent) for interval adjustment.
	LowCompletion  float64
	HighCompletion float64

	// Adjustment factors applied below/above the thresholds.
	ShortenFactor  float64
	LengthenFactor float64
}

// DefaultConfig returns the standard cadence: 1 hour, 1 day, 3 days,
// 1 week, 2 weeks and 1 month after the anchor.
func DefaultConfig() Config {
	return Config{
		BaseIntervals:  []int{1, 24, 72, 168, 336, 720},
		LowCompletion:  50,
		HighCompletion: 80,
		ShortenFactor:  0.8,
		LengthenFactor: 1.2,
	}
}

// ReviewPreview is one generated review occurrence, before persistence
type ReviewPreview struct {
	ReviewNumber  int       `json:"review_number"`
	ReviewDate    time.Time `json:"review_date"`
	IntervalHours float64   `json:"interval_hours"`
	Completed     bool      `json:"completed"`
	IsDeleted     bool      `json:"is_deleted"`
}

// GenerateSchedule produces one review per interval, each interval scaled
// by (1 + 0.1*repetition) and added as hours to the anchor. Review numbers
// are 1-based and dates come out strictly increasing because the interval
// table is strictly increasing and the scale factor is uniform.
func GenerateSchedule(anchor time.Time, repetition int, intervals []int) ([]ReviewPreview, error) {
	if repetition < 0 {
		return nil, ErrNegativeRepetition
	}

	scale := 1 + 0.1*float64(repetition)

	previews := make([]ReviewPreview, len(intervals))
	for i, base := range intervals {
		hours := float64(base) * scale
		previews[i] = ReviewPreview{
			ReviewNumber:  i + 1,
			ReviewDate:    anchor.Add(time.Duration(hours * float64(time.Hour))),
			IntervalHours: hours,
		}
	}

	return previews, nil
}

// CompletionRate returns the percentage of completed schedules rounded to
// one decimal place. A user with no schedules gets 0 rather than a
// division by zero.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*10) / 10
}

// OptimizeIntervals scales every base interval by a single adjustment
// factor picked from the completion rate: below LowCompletion the user is
// falling behind and intervals shorten, above HighCompletion they lengthen,
// otherwise the table is unchanged. Results are truncated to whole hours.
func (c Config) OptimizeIntervals(completionRate float64, base []int) []int {
	adjustment := 1.0
	switch {
	case completionRate < c.LowCompletion:
		adjustment = c.ShortenFactor
	case completionRate > c.HighCompletion:
		adjustment = c.LengthenFactor
	}

	optimized := make([]int, len(base))
	for i, interval := range base {
		optimized[i] = int(float64(interval) * adjustment)
	}
	return optimized
}
