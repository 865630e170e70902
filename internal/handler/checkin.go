package handler

import (
	"net/http"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/service"
)

type CheckinHandler struct {
	checkinService *service.CheckinService
}

func NewCheckinHandler(checkinService *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		checkinService: checkinService,
	}
}

type checkinRequest struct {
	UserID         string               `json:"user_id"`
	AchievedPoints *int                 `json:"achieved_points"`
	Date           string               `json:"date"`
	CompletedGoals model.CompletedGoals `json:"completed_goals"`
}

func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.AchievedPoints == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: user_id and achieved_points are required", "")
		return
	}
	if !authorize(w, r, req.UserID) {
		return
	}

	checkin, err := h.checkinService.Save(r.Context(), service.CheckinInput{
		UserID:         req.UserID,
		AchievedPoints: req.AchievedPoints,
		Date:           req.Date,
		CompletedGoals: req.CompletedGoals,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to insert checkin", "user_id", req.UserID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"checkin": checkin,
	})
}

func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	q := r.URL.Query()
	checkins, err := h.checkinService.List(r.Context(), userID, q.Get("from"), q.Get("to"))
	if err != nil {
		writeServiceError(w, err, "Failed to fetch checkins", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, checkins)
}

func (h *CheckinHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	stats, err := h.checkinService.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch stats", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
