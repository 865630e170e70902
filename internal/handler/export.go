package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ismyyear/lockin/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export returns a presigned download link when object storage is configured
// and streams the JSON document as an attachment otherwise.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if !authorize(w, r, userID) {
		return
	}

	export, err := h.exportService.Build(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Failed to build export", "user_id", userID)
		return
	}

	if h.exportService.UploadsEnabled() {
		url, err := h.exportService.Upload(r.Context(), export)
		if err != nil {
			writeServiceError(w, err, "Failed to upload export", "user_id", userID)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="export-%s.json"`, userID))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		slog.Error("failed to stream export", "error", err, "user_id", userID)
	}
}
