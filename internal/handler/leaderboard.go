package handler

import (
	"net/http"
	"time"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/ismyyear/lockin/internal/service"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Weekly serves the top users over the last seven days. ?date= moves the window end.
func (h *LeaderboardHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "date must be YYYY-MM-DD")
			return
		}
		end = d
	}

	entries, err := h.leaderboardService.Weekly(r.Context(), end)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
