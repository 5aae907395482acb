package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vocabgems/internal/models"
	"vocabgems/internal/repository"
)

// ProgressHandler exposes vocabulary progress records and the ingestion
// endpoint the external spaced-repetition updater writes through.
type ProgressHandler struct {
	progress *repository.ProgressRepository
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(progress *repository.ProgressRepository) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

type progressResponse struct {
	VocabularyID      string     `json:"vocabulary_id"`
	TotalEncounters   int        `json:"total_encounters"`
	CorrectEncounters int        `json:"correct_encounters"`
	State             string     `json:"state"`
	DueAt             *time.Time `json:"due_at,omitempty"`
	LastEncounteredAt time.Time  `json:"last_encountered_at"`
}

// List handles GET /api/v1/students/{id}/progress
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	if student == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}
	targetID := mux.Vars(r)["id"]
	if targetID != student.ID && student.Role != models.RoleTeacher {
		respondWithError(w, http.StatusForbidden, "Access denied", "", nil)
		return
	}

	records, err := h.progress.GetStudentProgress(targetID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress", "progress list", err)
		return
	}

	out := make([]progressResponse, 0, len(records))
	for _, p := range records {
		out = append(out, progressResponse{
			VocabularyID:      p.VocabularyID,
			TotalEncounters:   p.TotalEncounters,
			CorrectEncounters: p.CorrectEncounters,
			State:             p.State,
			DueAt:             p.DueAt,
			LastEncounteredAt: p.LastEncounteredAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type scheduleRequest struct {
	State          string     `json:"state"`
	DueAt          *time.Time `json:"due_at"`
	Difficulty     float64    `json:"difficulty"`
	Stability      float64    `json:"stability"`
	Retrievability float64    `json:"retrievability"`
}

// SetSchedule handles PUT /api/v1/students/{id}/progress/{vocabId}/schedule.
// Teacher only; this is where the scheduling pipeline writes its output.
func (h *ProgressHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["id"]
	vocabularyID := vars["vocabId"]

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	switch req.State {
	case models.ProgressStateNew, models.ProgressStateLearning, models.ProgressStateReview:
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid progress state", "", nil)
		return
	}

	if err := h.progress.SetSchedule(studentID, vocabularyID, req.State, req.DueAt,
		req.Difficulty, req.Stability, req.Retrievability); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update schedule", "set schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
