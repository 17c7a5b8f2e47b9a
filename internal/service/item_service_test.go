package service

import (
	"errors"
	"os"
	"testing"
	"time"

	"learnloop/internal/config"
	"learnloop/internal/database"
	"learnloop/internal/repository"
	"learnloop/internal/srs"
)

func testItemService(t *testing.T) (*ItemService, *repository.UserRepository) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	path := "test_" + t.Name() + ".db"
	cfg := &config.Config{DatabaseType: "sqlite", DatabasePath: path}
	db, err := database.Initialize(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
		os.Remove(path + "-wal")
		os.Remove(path + "-shm")
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	return NewItemService(itemRepo, userRepo, srs.DefaultConfig()), userRepo
}

func createServiceUser(t *testing.T, userRepo *repository.UserRepository, email string) int64 {
	t.Helper()
	user, err := userRepo.CreateUser(email, "hashedpass")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

// assertScheduleOffsets checks persisted review dates against expected
// whole-hour offsets from the anchor.
func assertScheduleOffsets(t *testing.T, itemService *ItemService, itemID int64, anchor time.Time, offsets []int) {
	t.Helper()

	schedules, err := itemService.ListSchedules(itemID)
	if err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	if len(schedules) != len(offsets) {
		t.Fatalf("expected %d schedules, got %d", len(offsets), len(schedules))
	}
	for i, schedule := range schedules {
		if schedule.ReviewNumber != i+1 {
			t.Errorf("schedule %d: review number = %d, want %d", i, schedule.ReviewNumber, i+1)
		}
		want := anchor.Add(time.Duration(offsets[i]) * time.Hour)
		if !schedule.ReviewDate.Equal(want) {
			t.Errorf("schedule %d: review date = %v, want %v", i, schedule.ReviewDate, want)
		}
	}
}

func TestCreateItemAdaptsIntervalsToCompletionRate(t *testing.T) {
	itemService, userRepo := testItemService(t)
	userID := createServiceUser(t, userRepo, "adaptive@example.com")
	anchor := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	// A user with no history sits at 0% completion, so the base cadence
	// shortens by 0.8 with each product truncated to whole hours.
	item, schedules, err := itemService.CreateItem(userID, "Interfaces", "Accept interfaces, return structs", anchor)
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if len(schedules) != 6 {
		t.Fatalf("expected 6 schedules, got %d", len(schedules))
	}
	assertScheduleOffsets(t, itemService, item.ID, anchor, []int{0, 19, 57, 134, 268, 576})

	// Completing every review lifts the rate to 100%, so the next item
	// lengthens the cadence by 1.2.
	for _, schedule := range schedules {
		if _, err := itemService.CompleteReview(schedule.ID); err != nil {
			t.Fatalf("CompleteReview() error = %v", err)
		}
	}

	analytics, err := itemService.Analytics(userID)
	if err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}
	if analytics.TotalItems != 1 || analytics.CompletionRate != 100.0 {
		t.Fatalf("analytics = %+v, want 1 item at 100.0", analytics)
	}

	second, _, err := itemService.CreateItem(userID, "Generics", "Type parameters", anchor)
	if err != nil {
		t.Fatalf("CreateItem() second call error = %v", err)
	}
	assertScheduleOffsets(t, itemService, second.ID, anchor, []int{1, 28, 86, 201, 403, 864})
}

func TestCreateItemKeepsBaseCadenceMidRange(t *testing.T) {
	itemService, userRepo := testItemService(t)
	userID := createServiceUser(t, userRepo, "midrange@example.com")
	anchor := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	_, schedules, err := itemService.CreateItem(userID, "Slices", "Backing arrays", anchor)
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	// 4 of 6 completed is 66.7%, between both thresholds
	for _, schedule := range schedules[:4] {
		if _, err := itemService.CompleteReview(schedule.ID); err != nil {
			t.Fatalf("CompleteReview() error = %v", err)
		}
	}

	second, _, err := itemService.CreateItem(userID, "Maps", "Iteration order", anchor)
	if err != nil {
		t.Fatalf("CreateItem() second call error = %v", err)
	}
	assertScheduleOffsets(t, itemService, second.ID, anchor, []int{1, 24, 72, 168, 336, 720})
}

func TestCreateItemRejectsWithoutPersisting(t *testing.T) {
	itemService, userRepo := testItemService(t)
	userID := createServiceUser(t, userRepo, "reject@example.com")
	anchor := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	_, _, err := itemService.CreateItem(99999, "Orphan", "", anchor)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	_, _, err = itemService.CreateItem(userID, "", "", anchor)
	if err == nil {
		t.Fatal("expected validation error for empty title")
	}

	// Neither attempt left anything behind
	items, err := itemService.ListItems(userID)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}

	analytics, err := itemService.Analytics(userID)
	if err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}
	if analytics.TotalItems != 0 || analytics.CompletionRate != 0 {
		t.Fatalf("analytics = %+v, want empty", analytics)
	}
}
