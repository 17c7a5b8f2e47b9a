package models

import "time"

// LearningItem is a unit of study material recorded by a user on a date.
// Items are immutable after creation; deleting one removes all of its
// review schedules.
type LearningItem struct {
	ID           int64
	UserID       int64
	Title        string
	Content      string
	LearningDate time.Time
	CreatedAt    time.Time
}

// ReviewSchedule is one scheduled future review of a learning item.
// Completed holds the completion timestamp, nil while outstanding.
// Soft-deleted schedules stay in storage but are excluded from reads
// and analytics.
type ReviewSchedule struct {
	ID             int64
	LearningItemID int64
	ReviewNumber   int
	ReviewDate     time.Time
	Completed      *time.Time
	IsDeleted      bool
}

// Analytics summarises a user's review history
type Analytics struct {
	TotalItems     int     `json:"total_items"`
	CompletionRate float64 `json:"completion_rate"`
}
