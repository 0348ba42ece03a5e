package handler

import (
	"net/http"

	analysisapp "smartwallet-fraud-shield/internal/application/analysis"
)

// 8 MiB is plenty for a monthly statement export.
const maxUploadBytes = 8 << 20

// UploadHandler handles statement upload requests
type UploadHandler struct {
	analyzeBatch *analysisapp.AnalyzeBatchUseCase
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(analyzeBatch *analysisapp.AnalyzeBatchUseCase) *UploadHandler {
	return &UploadHandler{analyzeBatch: analyzeBatch}
}

// Upload handles POST /upload: a multipart form with a "file" CSV part and
// a "username" field. Every row is scored and a summary report returned.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	username := r.FormValue("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "CSV file is required")
		return
	}
	defer file.Close()

	report, err := h.analyzeBatch.Execute(r.Context(), username, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Analysis failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}
