package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"vocabgems/internal/gems"
	"vocabgems/internal/models"
	"vocabgems/internal/service"
)

// SessionHandler exposes the session lifecycle and per-attempt endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type startSessionRequest struct {
	GameType     string  `json:"game_type"`
	GameMode     string  `json:"game_mode"`
	AssignmentID *string `json:"assignment_id"`
	StartedAt    string  `json:"started_at"`
}

type sessionResponse struct {
	ID                string     `json:"id"`
	StudentID         string     `json:"student_id"`
	GameType          string     `json:"game_type"`
	GameMode          string     `json:"game_mode"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	DurationSeconds   int        `json:"duration_seconds"`
	WordsAttempted    int        `json:"words_attempted"`
	WordsCorrect      int        `json:"words_correct"`
	FinalScore        int        `json:"final_score"`
	XPEarned          int        `json:"xp_earned"`
	CompletionPercent float64    `json:"completion_percent"`
}

func toSessionResponse(s *models.GameSession) sessionResponse {
	return sessionResponse{
		ID:                s.ID,
		StudentID:         s.StudentID,
		GameType:          s.GameType,
		GameMode:          s.GameMode,
		Status:            s.Status,
		StartedAt:         s.StartedAt,
		EndedAt:           s.EndedAt,
		DurationSeconds:   s.DurationSeconds,
		WordsAttempted:    s.WordsAttempted,
		WordsCorrect:      s.WordsCorrect,
		FinalScore:        s.FinalScore,
		XPEarned:          s.XPEarned,
		CompletionPercent: s.CompletionPercent,
	}
}

// StartSession handles POST /api/v1/sessions
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	if student == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	meta := service.SessionMeta{
		StudentID:    student.ID,
		AssignmentID: req.AssignmentID,
		GameType:     req.GameType,
		GameMode:     req.GameMode,
	}
	if req.StartedAt != "" {
		startedAt, err := time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid started_at timestamp", "", err)
			return
		}
		meta.StartedAt = startedAt.UTC()
	}

	session, err := h.sessions.StartSession(meta)
	if err != nil {
		if errors.Is(err, service.ErrMissingGameType) || errors.Is(err, service.ErrMissingStudent) {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to start session", "start session", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

type attemptRequest struct {
	GameType             string  `json:"game_type"`
	VocabularyID         *string `json:"vocabulary_id"`
	WordText             string  `json:"word_text"`
	TranslationText      string  `json:"translation_text"`
	WasCorrect           bool    `json:"was_correct"`
	ResponseTimeMs       float64 `json:"response_time_ms"`
	StreakCount          int     `json:"streak_count"`
	HintUsed             bool    `json:"hint_used"`
	TypingMode           bool    `json:"typing_mode"`
	DictationMode        bool    `json:"dictation_mode"`
	MasteryLevel         *int    `json:"mastery_level"`
	MaxGemRarity         string  `json:"max_gem_rarity"`
	Difficulty           string  `json:"difficulty"`
	SkipProgressionCheck bool    `json:"skip_progression_check"`
}

type gemEventResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Track       string    `json:"track"`
	Rarity      string    `json:"rarity"`
	XPValue     int       `json:"xp_value"`
	WordText    string    `json:"word_text,omitempty"`
	BonusReason string    `json:"bonus_reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type attemptResponse struct {
	Gem *gemEventResponse `json:"gem"`
}

func toGemEventResponse(ev *models.GemEvent) *gemEventResponse {
	if ev == nil {
		return nil
	}
	return &gemEventResponse{
		ID:          ev.ID,
		SessionID:   ev.SessionID,
		Track:       string(ev.Track),
		Rarity:      string(ev.Rarity),
		XPValue:     ev.XPValue,
		WordText:    ev.WordText,
		BonusReason: ev.BonusReason,
		CreatedAt:   ev.CreatedAt,
	}
}

// authorizeSession loads the session from the path and verifies the caller
// owns it or is a teacher. On failure it writes the error response and
// returns ok=false.
func (h *SessionHandler) authorizeSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := mux.Vars(r)["id"]
	student := GetStudentFromContext(r.Context())
	if student == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return "", false
	}

	session, err := h.sessions.Session(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
			return "", false
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load session", "load session", err)
		return "", false
	}
	if session.StudentID != student.ID && student.Role != models.RoleTeacher {
		respondWithError(w, http.StatusForbidden, "Access denied", "", nil)
		return "", false
	}
	return sessionID, true
}

// RecordAttempt handles POST /api/v1/sessions/{id}/attempts
func (h *SessionHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	var req attemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	attempt := service.Attempt{
		VocabularyID:    req.VocabularyID,
		WordText:        req.WordText,
		TranslationText: req.TranslationText,
		WasCorrect:      req.WasCorrect,
		ResponseTimeMs:  req.ResponseTimeMs,
		StreakCount:     req.StreakCount,
		HintUsed:        req.HintUsed,
		TypingMode:      req.TypingMode,
		DictationMode:   req.DictationMode,
		MasteryLevel:    req.MasteryLevel,
		MaxGemRarity:    gems.GemRarity(req.MaxGemRarity),
		Difficulty:      req.Difficulty,
	}

	event, err := h.sessions.RecordAttempt(sessionID, req.GameType, attempt, req.SkipProgressionCheck)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
		case errors.Is(err, service.ErrMissingGameType):
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to record attempt", "record attempt", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, attemptResponse{Gem: toGemEventResponse(event)})
}

// StudentSessions handles GET /api/v1/students/{id}/sessions
func (h *SessionHandler) StudentSessions(w http.ResponseWriter, r *http.Request) {
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

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter", "", nil)
			return
		}
		limit = parsed
	}

	sessions, err := h.sessions.StudentSessions(targetID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load sessions", "student sessions", err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// SessionGems handles GET /api/v1/sessions/{id}/gems
func (h *SessionHandler) SessionGems(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	events, err := h.sessions.SessionGems(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load gems", "session gems", err)
		return
	}

	out := make([]gemEventResponse, 0, len(events))
	for i := range events {
		out = append(out, *toGemEventResponse(&events[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type endSessionRequest struct {
	FinalScore        int     `json:"final_score"`
	CompletionPercent float64 `json:"completion_percent"`
	DurationSeconds   int     `json:"duration_seconds"`
}

// EndSession handles POST /api/v1/sessions/{id}/end
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	var req endSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	session, err := h.sessions.EndSession(sessionID, service.SessionSummary{
		FinalScore:        req.FinalScore,
		CompletionPercent: req.CompletionPercent,
		DurationSeconds:   req.DurationSeconds,
	})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to end session", "end session", err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

type bonusRequest struct {
	GameType string `json:"game_type"`
	Rarity   string `json:"rarity"`
	Track    string `json:"track"`
	Reason   string `json:"reason"`
}

// AwardBonus handles POST /api/v1/sessions/{id}/bonus
func (h *SessionHandler) AwardBonus(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.authorizeSession(w, r)
	if !ok {
		return
	}

	var req bonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	event, err := h.sessions.AwardBonus(sessionID, req.GameType,
		gems.GemRarity(req.Rarity), req.Reason, gems.Track(req.Track))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
		case errors.Is(err, service.ErrInvalidRarity), errors.Is(err, service.ErrInvalidTrack):
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to award bonus", "award bonus", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, attemptResponse{Gem: toGemEventResponse(event)})
}
