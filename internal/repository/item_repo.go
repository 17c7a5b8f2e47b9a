package repository

import (
	"database/sql"
	"fmt"
	"time"

	"learnloop/internal/database"
	"learnloop/internal/models"
)

// ItemRepository handles database operations for learning items and their
// review schedules.
type ItemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Begin starts a transaction on the underlying database
func (r *ItemRepository) Begin() (*database.Tx, error) {
	return r.db.Begin()
}

// CreateItem inserts a learning item. Pass a *database.Tx to create the
// item inside a transaction alongside its schedules.
func (r *ItemRepository) CreateItem(q database.DBTX, userID int64, title, content string, learningDate time.Time) (int64, error) {
	query := `
		INSERT INTO learning_items (user_id, title, content, learning_date)
		VALUES (?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(query, userID, title, content, learningDate)
	if err != nil {
		return 0, fmt.Errorf("failed to create learning item: %w", err)
	}
	return id, nil
}

// CreateSchedule inserts one review schedule for an item
func (r *ItemRepository) CreateSchedule(q database.DBTX, itemID int64, reviewNumber int, reviewDate time.Time) (int64, error) {
	query := `
		INSERT INTO review_schedules (learning_item_id, review_number, review_date)
		VALUES (?, ?, ?)
	`
	id, err := q.ExecReturningID(query, itemID, reviewNumber, reviewDate)
	if err != nil {
		return 0, fmt.Errorf("failed to create review schedule: %w", err)
	}
	return id, nil
}

// GetItem retrieves a learning item by ID
func (r *ItemRepository) GetItem(id int64) (*models.LearningItem, error) {
	query := `
		SELECT id, user_id, title, content, learning_date, created_at
		FROM learning_items
		WHERE id = ?
	`
	item := &models.LearningItem{}
	err := r.db.QueryRow(query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.Content,
		&item.LearningDate,
		&item.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning item: %w", err)
	}

	return item, nil
}

// GetItemsByUser retrieves all learning items owned by a user, newest
// first.
func (r *ItemRepository) GetItemsByUser(userID int64) ([]models.LearningItem, error) {
	query := `
		SELECT id, user_id, title, content, learning_date, created_at
		FROM learning_items
		WHERE user_id = ?
		ORDER BY learning_date DESC, id DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning items: %w", err)
	}
	defer rows.Close()

	var items []models.LearningItem
	for rows.Next() {
		var item models.LearningItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Title,
			&item.Content,
			&item.LearningDate,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan learning item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DeleteItem removes a learning item and all of its review schedules.
// Returns false if the item does not exist.
func (r *ItemRepository) DeleteItem(id int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM review_schedules WHERE learning_item_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete review schedules: %w", err)
	}

	result, err := tx.Exec("DELETE FROM learning_items WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete learning item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

// GetSchedulesByItem retrieves the non-deleted review schedules of an
// item in review order.
func (r *ItemRepository) GetSchedulesByItem(itemID int64) ([]models.ReviewSchedule, error) {
	query := `
		SELECT id, learning_item_id, review_number, review_date, completed, is_deleted
		FROM review_schedules
		WHERE learning_item_id = ? AND is_deleted = ?
		ORDER BY review_number
	`
	rows, err := r.db.Query(query, itemID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query review schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.ReviewSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *schedule)
	}

	return schedules, rows.Err()
}

// GetSchedule retrieves a single non-deleted review schedule by ID
func (r *ItemRepository) GetSchedule(id int64) (*models.ReviewSchedule, error) {
	query := `
		SELECT id, learning_item_id, review_number, review_date, completed, is_deleted
		FROM review_schedules
		WHERE id = ? AND is_deleted = ?
	`
	rows, err := r.db.Query(query, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query review schedule: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanSchedule(rows)
}

// CompleteSchedule stamps a review schedule as completed. Re-completing
// overwrites the previous timestamp. Returns false if the schedule does
// not exist or is soft-deleted.
func (r *ItemRepository) CompleteSchedule(id int64, completedAt time.Time) (bool, error) {
	query := `
		UPDATE review_schedules
		SET completed = ?
		WHERE id = ? AND is_deleted = ?
	`
	result, err := r.db.Exec(query, completedAt, id, false)
	if err != nil {
		return false, fmt.Errorf("failed to complete review schedule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// SoftDeleteSchedule marks a review schedule as deleted without removing
// it from storage. Returns false if the schedule does not exist or is
// already deleted. The is_deleted filter keeps the row count meaningful
// on MySQL, whose driver reports changed rows rather than matched rows.
func (r *ItemRepository) SoftDeleteSchedule(id int64) (bool, error) {
	query := `
		UPDATE review_schedules
		SET is_deleted = ?
		WHERE id = ? AND is_deleted = ?
	`
	result, err := r.db.Exec(query, true, id, false)
	if err != nil {
		return false, fmt.Errorf("failed to delete review schedule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// CountItemsByUser counts a user's learning items
func (r *ItemRepository) CountItemsByUser(userID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM learning_items WHERE user_id = ?"
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count learning items: %w", err)
	}
	return count, nil
}

// CountSchedulesByUser counts a user's non-deleted review schedules and
// how many of them are completed.
func (r *ItemRepository) CountSchedulesByUser(userID int64) (total, completed int, err error) {
	query := `
		SELECT COUNT(*), COUNT(rs.completed)
		FROM review_schedules rs
		JOIN learning_items li ON li.id = rs.learning_item_id
		WHERE li.user_id = ? AND rs.is_deleted = ?
	`
	if err := r.db.QueryRow(query, userID, false).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to count review schedules: %w", err)
	}
	return total, completed, nil
}

// DueReminder is a due review joined with its item and owner, ready for
// reminder dispatch.
type DueReminder struct {
	ScheduleID   int64
	ReviewNumber int
	ReviewDate   time.Time
	ItemTitle    string
	UserEmail    string
}

// GetDueSchedules finds outstanding, not-yet-reminded reviews that were
// due before the given moment, oldest first.
func (r *ItemRepository) GetDueSchedules(before time.Time, limit int) ([]DueReminder, error) {
	query := `
		SELECT rs.id, rs.review_number, rs.review_date, li.title, u.email
		FROM review_schedules rs
		JOIN learning_items li ON li.id = rs.learning_item_id
		JOIN users u ON u.id = li.user_id
		WHERE rs.review_date <= ? AND rs.completed IS NULL AND rs.is_deleted = ?
			AND rs.reminded_at IS NULL
		ORDER BY rs.review_date
		LIMIT ?
	`
	rows, err := r.db.Query(query, before, false, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	var due []DueReminder
	for rows.Next() {
		var d DueReminder
		if err := rows.Scan(&d.ScheduleID, &d.ReviewNumber, &d.ReviewDate, &d.ItemTitle, &d.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan due schedule: %w", err)
		}
		due = append(due, d)
	}

	return due, rows.Err()
}

// MarkScheduleReminded records that a reminder went out for a schedule,
// keeping it out of later due lookups.
func (r *ItemRepository) MarkScheduleReminded(id int64, remindedAt time.Time) error {
	query := `
		UPDATE review_schedules
		SET reminded_at = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, remindedAt, id); err != nil {
		return fmt.Errorf("failed to mark schedule reminded: %w", err)
	}
	return nil
}

// scanSchedule reads one review schedule row
func scanSchedule(rows *sql.Rows) (*models.ReviewSchedule, error) {
	schedule := &models.ReviewSchedule{}
	var completed sql.NullTime
	if err := rows.Scan(
		&schedule.ID,
		&schedule.LearningItemID,
		&schedule.ReviewNumber,
		&schedule.ReviewDate,
		&completed,
		&schedule.IsDeleted,
	); err != nil {
		return nil, fmt.Errorf("failed to scan review schedule: %w", err)
	}
	if completed.Valid {
		t := completed.Time
		schedule.Completed = &t
	}
	return schedule, nil
}
