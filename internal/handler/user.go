package handler

import (
	"net/http"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type createUserRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Create syncs a freshly signed-up account from the auth provider.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !authorize(w, r, req.ID) {
		return
	}

	user, err := h.userService.Create(r.Context(), req.ID, req.Email)
	if err != nil {
		writeServiceError(w, err, "Failed to create user", "user_id", req.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"user":   user,
	})
}

type registerIntentRequest struct {
	UserID       string `json:"user_id"`
	PrimaryFocus string `json:"primary_focus"`
}

type partnerResponse struct {
	ID           string  `json:"id"`
	PrimaryFocus *string `json:"primary_focus"`
	JoinedMonth  *string `json:"joined_month"`
}

type registerIntentResponse struct {
	Status         string           `json:"status"`
	PartnerMatched bool             `json:"partnerMatched"`
	Partner        *partnerResponse `json:"partner,omitempty"`
}

func (h *UserHandler) RegisterIntent(w http.ResponseWriter, r *http.Request) {
	var req registerIntentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.PrimaryFocus == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: user_id and primary_focus are required", "")
		return
	}
	if !authorize(w, r, req.UserID) {
		return
	}

	reg, err := h.userService.RegisterIntent(r.Context(), req.UserID, req.PrimaryFocus)
	if err != nil {
		writeServiceError(w, err, "Failed to update user", "user_id", req.UserID)
		return
	}

	resp := registerIntentResponse{Status: "ok"}
	if reg.Partner != nil {
		resp.PartnerMatched = true
		resp.Partner = newPartnerResponse(reg.Partner)
	}

	writeJSON(w, http.StatusOK, resp)
}

func newPartnerResponse(u *model.User) *partnerResponse {
	return &partnerResponse{
		ID:           u.ID,
		PrimaryFocus: u.PrimaryFocus,
		JoinedMonth:  u.JoinedMonth,
	}
}
