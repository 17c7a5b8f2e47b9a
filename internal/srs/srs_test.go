package srs

import (
	"testing"
	"time"
)

func TestGenerateScheduleNoRepetition(t *testing.T) {
	anchor := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	intervals := DefaultConfig().BaseIntervals

	previews, err := GenerateSchedule(anchor, 0, intervals)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	if len(previews) != len(intervals) {
		t.Fatalf("expected %d reviews, got %d", len(intervals), len(previews))
	}

	for i, preview := range previews {
		if preview.ReviewNumber != i+1 {
			t.Errorf("review %d: number = %d, want %d", i, preview.ReviewNumber, i+1)
		}
		expected := anchor.Add(time.Duration(intervals[i]) * time.Hour)
		if !preview.ReviewDate.Equal(expected) {
			t.Errorf("review %d: date = %v, want %v", i+1, preview.ReviewDate, expected)
		}
		if preview.IntervalHours != float64(intervals[i]) {
			t.Errorf("review %d: interval = %v, want %v", i+1, preview.IntervalHours, float64(intervals[i]))
		}
		if preview.Completed || preview.IsDeleted {
			t.Errorf("review %d: expected fresh completion/deletion flags", i+1)
		}
	}
}

func TestGenerateScheduleScalesWithRepetition(t *testing.T) {
	anchor := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	intervals := []int{1, 24, 72}

	tests := []struct {
		name       string
		repetition int
		scale      float64
	}{
		{name: "one repetition", repetition: 1, scale: 1.1},
		{name: "three repetitions", repetition: 3, scale: 1.3},
		{name: "ten repetitions", repetition: 10, scale: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previews, err := GenerateSchedule(anchor, tt.repetition, intervals)
			if err != nil {
				t.Fatalf("GenerateSchedule() error = %v", err)
			}

			for i, preview := range previews {
				want := float64(intervals[i]) * tt.scale
				if diff := preview.IntervalHours - want; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("review %d: interval = %v, want %v", i+1, preview.IntervalHours, want)
				}
			}

			for i := 1; i < len(previews); i++ {
				if !previews[i].ReviewDate.After(previews[i-1].ReviewDate) {
					t.Errorf("review dates not strictly increasing at index %d", i)
				}
			}
		})
	}
}

func TestGenerateScheduleRejectsNegativeRepetition(t *testing.T) {
	_, err := GenerateSchedule(time.Now(), -1, DefaultConfig().BaseIntervals)
	if err != ErrNegativeRepetition {
		t.Fatalf("expected ErrNegativeRepetition, got %v", err)
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{name: "no schedules", completed: 0, total: 0, want: 0},
		{name: "seven of ten", completed: 7, total: 10, want: 70.0},
		{name: "all completed", completed: 5, total: 5, want: 100.0},
		{name: "rounds to one decimal", completed: 1, total: 3, want: 33.3},
		{name: "rounds up", completed: 2, total: 3, want: 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.completed, tt.total); got != tt.want {
				t.Errorf("CompletionRate(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

func TestOptimizeIntervals(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		rate float64
		base []int
		want []int
	}{
		{name: "low completion shortens", rate: 40, base: []int{10, 20}, want: []int{8, 16}},
		{name: "high completion lengthens", rate: 90, base: []int{10, 20}, want: []int{12, 24}},
		{name: "middle band unchanged", rate: 65, base: []int{10, 20}, want: []int{10, 20}},
		{name: "boundary 50 unchanged", rate: 50, base: []int{10, 20}, want: []int{10, 20}},
		{name: "boundary 80 unchanged", rate: 80, base: []int{10, 20}, want: []int{10, 20}},
		{name: "truncates to whole hours", rate: 90, base: []int{1, 24}, want: []int{1, 28}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.OptimizeIntervals(tt.rate, tt.base)
			if len(got) != len(tt.want) {
				t.Fatalf("length mismatch: got %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("interval %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOptimizeIntervalsDoesNotMutateBase(t *testing.T) {
	cfg := DefaultConfig()
	base := []int{10, 20}

	cfg.OptimizeIntervals(40, base)

	if base[0] != 10 || base[1] != 20 {
		t.Errorf("base table mutated: %v", base)
	}
}
