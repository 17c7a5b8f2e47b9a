package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"learnloop/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Users      []UserBackup     `json:"users"`
	Items      []ItemBackup     `json:"learning_items"`
	Schedules  []ScheduleBackup `json:"review_schedules"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemBackup represents a learning item record for backup
type ItemBackup struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LearningDate time.Time `json:"learning_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScheduleBackup represents a review schedule record for backup.
// Soft-deleted schedules are exported too so a restore is faithful.
type ScheduleBackup struct {
	ID             int64      `json:"id"`
	LearningItemID int64      `json:"learning_item_id"`
	ReviewNumber   int        `json:"review_number"`
	ReviewDate     time.Time  `json:"review_date"`
	Completed      *time.Time `json:"completed"`
	IsDeleted      bool       `json:"is_deleted"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportItems(backup); err != nil {
		return fmt.Errorf("failed to export learning items: %w", err)
	}
	if err := s.exportSchedules(backup); err != nil {
		return fmt.Errorf("failed to export review schedules: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d users, %d learning items, %d review schedules",
		len(backup.Users), len(backup.Items), len(backup.Schedules))

	return nil
}

// Import restores a database from a backup file. All records are written
// in one transaction; a failure restores nothing.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, user := range backup.Users {
		_, err := tx.Exec(
			"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
			user.ID, user.Email, user.PasswordHash, user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", user.ID, err)
		}
	}

	for _, item := range backup.Items {
		_, err := tx.Exec(
			"INSERT INTO learning_items (id, user_id, title, content, learning_date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, item.UserID, item.Title, item.Content, item.LearningDate, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import learning item %d: %w", item.ID, err)
		}
	}

	for _, schedule := range backup.Schedules {
		var completed sql.NullTime
		if schedule.Completed != nil {
			completed = sql.NullTime{Time: *schedule.Completed, Valid: true}
		}
		_, err := tx.Exec(
			"INSERT INTO review_schedules (id, learning_item_id, review_number, review_date, completed, is_deleted) VALUES (?, ?, ?, ?, ?, ?)",
			schedule.ID, schedule.LearningItemID, schedule.ReviewNumber, schedule.ReviewDate, completed, schedule.IsDeleted,
		)
		if err != nil {
			return fmt.Errorf("failed to import review schedule %d: %w", schedule.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Imported: %d users, %d learning items, %d review schedules",
		len(backup.Users), len(backup.Items), len(backup.Schedules))

	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, email, password_hash, created_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user UserBackup
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, user)
	}
	return rows.Err()
}

func (s *BackupService) exportItems(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, title, content, learning_date, created_at FROM learning_items ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item ItemBackup
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Content, &item.LearningDate, &item.CreatedAt); err != nil {
			return err
		}
		backup.Items = append(backup.Items, item)
	}
	return rows.Err()
}

func (s *BackupService) exportSchedules(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, learning_item_id, review_number, review_date, completed, is_deleted FROM review_schedules ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var schedule ScheduleBackup
		var completed sql.NullTime
		if err := rows.Scan(&schedule.ID, &schedule.LearningItemID, &schedule.ReviewNumber, &schedule.ReviewDate, &completed, &schedule.IsDeleted); err != nil {
			return err
		}
		if completed.Valid {
			t := completed.Time
			schedule.Completed = &t
		}
		backup.Schedules = append(backup.Schedules, schedule)
	}
	return rows.Err()
}
