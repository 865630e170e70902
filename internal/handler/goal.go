package handler

import (
	"net/http"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	list, err := h.goalService.Goals(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch goals", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"goals":   list.Goals,
	})
}

type saveGoalsRequest struct {
	Goals []model.GoalItem `json:"goals"`
}

func (h *GoalHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	var req saveGoalsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goals, err := h.goalService.Save(r.Context(), userID, req.Goals)
	if err != nil {
		writeServiceError(w, err, "Failed to save goals", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"goals":  goals,
	})
}
