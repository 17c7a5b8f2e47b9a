package service

import (
	"errors"
	"fmt"
	"time"

	"learnloop/internal/models"
	"learnloop/internal/repository"
	"learnloop/internal/srs"
	"learnloop/internal/validation"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("learning item not found")
	ErrScheduleNotFound = errors.New("review schedule not found")
)

// ItemService orchestrates learning items and their review schedules:
// completion-rate analysis, interval optimization and schedule generation
// around the item CRUD.
type ItemService struct {
	itemRepo *repository.ItemRepository
	userRepo *repository.UserRepository
	srsCfg   srs.Config
}

// NewItemService creates a new item service
func NewItemService(itemRepo *repository.ItemRepository, userRepo *repository.UserRepository, srsCfg srs.Config) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		userRepo: userRepo,
		srsCfg:   srsCfg,
	}
}

// PreviewSchedule generates a review schedule from the base cadence
// without persisting anything. The repetition count stretches every
// interval by 10% per repetition.
func (s *ItemService) PreviewSchedule(learningDate time.Time, repetition int) ([]srs.ReviewPreview, error) {
	return srs.GenerateSchedule(learningDate, repetition, s.srsCfg.BaseIntervals)
}

// CreateItem persists a learning item together with its review schedules
// in one transaction. The intervals are the base cadence adjusted to the
// owner's current completion rate, recomputed fresh on every creation.
func (s *ItemService) CreateItem(userID int64, title, content string, learningDate time.Time) (*models.LearningItem, []models.ReviewSchedule, error) {
	if err := validation.ValidateTitle(title); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	analytics, err := s.Analytics(userID)
	if err != nil {
		return nil, nil, err
	}

	intervals := s.srsCfg.OptimizeIntervals(analytics.CompletionRate, s.srsCfg.BaseIntervals)

	// Fixed anchor, no repetition scaling for persisted schedules
	previews, err := srs.GenerateSchedule(learningDate, 0, intervals)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.itemRepo.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	itemID, err := s.itemRepo.CreateItem(tx, userID, title, content, learningDate)
	if err != nil {
		return nil, nil, err
	}

	schedules := make([]models.ReviewSchedule, 0, len(previews))
	for _, preview := range previews {
		scheduleID, err := s.itemRepo.CreateSchedule(tx, itemID, preview.ReviewNumber, preview.ReviewDate)
		if err != nil {
			return nil, nil, err
		}
		schedules = append(schedules, models.ReviewSchedule{
			ID:             scheduleID,
			LearningItemID: itemID,
			ReviewNumber:   preview.ReviewNumber,
			ReviewDate:     preview.ReviewDate,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit learning item: %w", err)
	}

	item := &models.LearningItem{
		ID:           itemID,
		UserID:       userID,
		Title:        title,
		Content:      content,
		LearningDate: learningDate,
		CreatedAt:    time.Now(),
	}
	return item, schedules, nil
}

// ListItems returns a user's learning items de-duplicated by id
func (s *ItemService) ListItems(userID int64) ([]models.LearningItem, error) {
	items, err := s.itemRepo.GetItemsByUser(userID)
	if err != nil {
		return nil, err
	}
	return dedupeItemsByID(items), nil
}

// DeleteItem removes a learning item and cascades to its schedules
func (s *ItemService) DeleteItem(itemID int64) error {
	deleted, err := s.itemRepo.DeleteItem(itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	return nil
}

// ListSchedules returns the non-deleted review schedules of an item
func (s *ItemService) ListSchedules(itemID int64) ([]models.ReviewSchedule, error) {
	return s.itemRepo.GetSchedulesByItem(itemID)
}

// CompleteReview stamps a schedule as completed at the current time.
// Re-completing an already-completed schedule overwrites the timestamp.
func (s *ItemService) CompleteReview(scheduleID int64) (time.Time, error) {
	completedAt := time.Now().UTC()
	updated, err := s.itemRepo.CompleteSchedule(scheduleID, completedAt)
	if err != nil {
		return time.Time{}, err
	}
	if !updated {
		return time.Time{}, ErrScheduleNotFound
	}
	return completedAt, nil
}

// DeleteReview soft-deletes a schedule, excluding it from reads and
// analytics while keeping the row in storage.
func (s *ItemService) DeleteReview(scheduleID int64) error {
	deleted, err := s.itemRepo.SoftDeleteSchedule(scheduleID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrScheduleNotFound
	}
	return nil
}

// Analytics computes a user's item count and review completion rate
func (s *ItemService) Analytics(userID int64) (*models.Analytics, error) {
	totalItems, err := s.itemRepo.CountItemsByUser(userID)
	if err != nil {
		return nil, err
	}

	total, completed, err := s.itemRepo.CountSchedulesByUser(userID)
	if err != nil {
		return nil, err
	}

	return &models.Analytics{
		TotalItems:     totalItems,
		CompletionRate: srs.CompletionRate(completed, total),
	}, nil
}

// dedupeItemsByID drops repeated ids while preserving order
func dedupeItemsByID(items []models.LearningItem) []models.LearningItem {
	seen := make(map[int64]bool, len(items))
	unique := make([]models.LearningItem, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		unique = append(unique, item)
	}
	return unique
}
