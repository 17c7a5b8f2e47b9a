package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"learnloop/internal/models"
	"learnloop/internal/service"
	"learnloop/internal/srs"
	"learnloop/internal/validation"
)

// ItemHandler exposes learning item and analytics endpoints
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

type calculateReviewsRequest struct {
	LearningDate     string `json:"learning_date"`
	RepetitionNumber int    `json:"repetition_number"`
}

// CalculateReviews previews a review schedule without persisting
// anything. Parameters come from the query string, or from a JSON body
// when the query is empty.
func (h *ItemHandler) CalculateReviews(w http.ResponseWriter, r *http.Request) {
	req := calculateReviewsRequest{
		LearningDate: r.URL.Query().Get("learning_date"),
	}
	if rep := r.URL.Query().Get("repetition_number"); rep != "" {
		n, err := strconv.Atoi(rep)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid repetition number", "", err)
			return
		}
		req.RepetitionNumber = n
	}
	if req.LearningDate == "" && r.Body != nil {
		// Ignore decode errors here; missing date is reported below
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	learningDate, err := validation.ParseISOTime("learning_date", req.LearningDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format", "", err)
		return
	}

	previews, err := h.itemService.PreviewSchedule(learningDate, req.RepetitionNumber)
	if err != nil {
		if errors.Is(err, srs.ErrNegativeRepetition) {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to calculate reviews", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"review_schedule": previews,
	})
}

type createItemRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	LearningDate string `json:"learning_date"`
	UserID       int64  `json:"user_id"`
}

// CreateLearningItem persists a learning item with a review schedule
// adapted to the owner's completion rate.
func (h *ItemHandler) CreateLearningItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	learningDate, err := validation.ParseISOTime("learning_date", req.LearningDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format", "", err)
		return
	}

	item, _, err := h.itemService.CreateItem(req.UserID, req.Title, req.Content, learningDate)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create learning item", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Learning item created",
		"item_id":       item.ID,
		"title":         item.Title,
		"learning_date": item.LearningDate.Format(time.RFC3339),
	})
}

// ListLearningItems returns a user's learning items
func (h *ItemHandler) ListLearningItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "userID")
	if !ok {
		return
	}

	items, err := h.itemService.ListItems(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list learning items", err)
		return
	}

	payload := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		payload = append(payload, itemJSON(item))
	}
	respondJSON(w, http.StatusOK, payload)
}

// DeleteLearningItem removes an item and all of its review schedules
func (h *ItemHandler) DeleteLearningItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(itemID); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Learning item not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to delete learning item", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Learning item deleted"})
}

// GetAnalytics returns a user's item count and review completion rate
func (h *ItemHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "userID")
	if !ok {
		return
	}

	analytics, err := h.itemService.Analytics(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to compute analytics", err)
		return
	}

	respondJSON(w, http.StatusOK, analytics)
}

// itemJSON renders a learning item for API responses
func itemJSON(item models.LearningItem) map[string]interface{} {
	return map[string]interface{}{
		"id":            item.ID,
		"title":         item.Title,
		"content":       item.Content,
		"learning_date": item.LearningDate.Format(time.RFC3339),
		"user_id":       item.UserID,
	}
}

// parseID reads a numeric path value, responding with a client error when
// it is not a valid id.
func parseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid id", "", err)
		return 0, false
	}
	return id, true
}
