package handlers

import (
	"errors"
	"net/http"
	"time"

	"learnloop/internal/models"
	"learnloop/internal/security"
	"learnloop/internal/service"
)

// ReviewHandler exposes review schedule endpoints
type ReviewHandler struct {
	itemService *service.ItemService
	tokenSecret string
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(itemService *service.ItemService, tokenSecret string) *ReviewHandler {
	return &ReviewHandler{
		itemService: itemService,
		tokenSecret: tokenSecret,
	}
}

// ListSchedules returns the non-deleted review schedules of an item
func (h *ReviewHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseID(w, r, "itemID")
	if !ok {
		return
	}

	schedules, err := h.itemService.ListSchedules(itemID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list review schedules", err)
		return
	}

	payload := make([]map[string]interface{}, 0, len(schedules))
	for _, schedule := range schedules {
		payload = append(payload, scheduleJSON(schedule))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"schedules": payload})
}

// CompleteReview marks a review schedule as completed now. Completing an
// already-completed review overwrites the previous timestamp.
func (h *ReviewHandler) CompleteReview(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := parseID(w, r, "scheduleID")
	if !ok {
		return
	}
	h.complete(w, scheduleID)
}

// CompleteFromLink completes a review authorised by a signed token from a
// reminder email.
func (h *ReviewHandler) CompleteFromLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondWithError(w, http.StatusBadRequest, "Missing token", "", nil)
		return
	}

	scheduleID, err := security.ParseCompletionToken(h.tokenSecret, token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or expired token", "", nil)
		return
	}

	h.complete(w, scheduleID)
}

func (h *ReviewHandler) complete(w http.ResponseWriter, scheduleID int64) {
	completedAt, err := h.itemService.CompleteReview(scheduleID)
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			respondWithError(w, http.StatusNotFound, "Review schedule not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to complete review", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Review completed",
		"completed":    true,
		"completed_at": completedAt.Format(time.RFC3339),
	})
}

// DeleteReview cancels a review schedule by soft-deleting it
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := parseID(w, r, "scheduleID")
	if !ok {
		return
	}

	if err := h.itemService.DeleteReview(scheduleID); err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			respondWithError(w, http.StatusNotFound, "Review schedule not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to cancel review", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Review cancelled",
		"is_deleted": true,
	})
}

// scheduleJSON renders a review schedule for API responses
func scheduleJSON(schedule models.ReviewSchedule) map[string]interface{} {
	var completedAt interface{}
	if schedule.Completed != nil {
		completedAt = schedule.Completed.Format(time.RFC3339)
	}
	return map[string]interface{}{
		"id":            schedule.ID,
		"review_number": schedule.ReviewNumber,
		"review_date":   schedule.ReviewDate.Format(time.RFC3339),
		"completed":     schedule.Completed != nil,
		"completed_at":  completedAt,
		"is_deleted":    schedule.IsDeleted,
	}
}
