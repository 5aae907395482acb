package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vocabgems/internal/models"
	"vocabgems/internal/service"
)

// AnalyticsHandler exposes per-student analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	email     *service.EmailService
	students  StudentLookup
}

// StudentLookup resolves student profiles for report delivery.
type StudentLookup interface {
	GetStudentByID(id string) (*models.Student, error)
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, email *service.EmailService, students StudentLookup) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, email: email, students: students}
}

// requireSelfOrTeacher allows a student to read their own analytics, and a
// teacher to read anyone's.
func (h *AnalyticsHandler) requireSelfOrTeacher(w http.ResponseWriter, r *http.Request) (string, bool) {
	student := GetStudentFromContext(r.Context())
	if student == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return "", false
	}
	targetID := mux.Vars(r)["id"]
	if targetID != student.ID && student.Role != models.RoleTeacher {
		respondWithError(w, http.StatusForbidden, "Access denied", "", nil)
		return "", false
	}
	return targetID, true
}

// Summary handles GET /api/v1/students/{id}/analytics
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.requireSelfOrTeacher(w, r)
	if !ok {
		return
	}

	summary, err := h.analytics.StudentSummary(studentID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build summary", "analytics summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Daily handles GET /api/v1/students/{id}/analytics/daily?days=N
func (h *AnalyticsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.requireSelfOrTeacher(w, r)
	if !ok {
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			respondWithError(w, http.StatusBadRequest, "Invalid days parameter", "", nil)
			return
		}
		days = parsed
	}

	totals, err := h.analytics.DailyTotals(studentID, days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build daily totals", "analytics daily", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id": studentID,
		"days":       days,
		"totals":     totals,
	})
}

// SendReport handles POST /api/v1/students/{id}/report. Teacher only; emails
// the student their progress summary.
func (h *AnalyticsHandler) SendReport(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["id"]

	target, err := h.students.GetStudentByID(studentID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load student", "report lookup", err)
		return
	}
	if target == nil {
		respondWithError(w, http.StatusNotFound, "Student not found", "", nil)
		return
	}

	summary, err := h.analytics.StudentSummary(studentID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build summary", "report summary", err)
		return
	}

	if err := h.email.SendProgressReport(r.Context(), target.Email, target.DisplayName, summary); err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to send report", "report email", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "sent",
		"to":     target.Email,
	})
}
