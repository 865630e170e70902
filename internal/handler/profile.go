package handler

import (
	"net/http"

	"github.com/ismyyear/lockin/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

type profileResponse struct {
	Goal2026      *string `json:"goal_2026"`
	GoalPublic    bool    `json:"goal_public"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	PrimaryFocus  *string `json:"primary_focus"`
	PartnerID     *string `json:"partner_id"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	user, err := h.profileService.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch profile", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Goal2026:      user.Goal2026,
		GoalPublic:    user.GoalPublic,
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		PrimaryFocus:  user.PrimaryFocus,
		PartnerID:     user.PartnerID,
	})
}

type updateProfileRequest struct {
	Goal2026   string `json:"goal_2026"`
	GoalPublic bool   `json:"goal_public"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, req.Goal2026, req.GoalPublic)
	if err != nil {
		writeServiceError(w, err, "Failed to update profile", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"goal_2026":   user.Goal2026,
		"goal_public": user.GoalPublic,
	})
}

func (h *ProfileHandler) PublicGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.profileService.PublicGoals(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to fetch public goals")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}
