package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"vocabgems/internal/gems"
	"vocabgems/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMissingStudent  = errors.New("student id is required")
	ErrMissingGameType = errors.New("game type is required")
	ErrInvalidRarity   = errors.New("invalid gem rarity")
	ErrInvalidTrack    = errors.New("invalid reward track")
)

// SessionStore is the session persistence the accounting service needs.
type SessionStore interface {
	CreateSession(s *models.GameSession) error
	GetSessionByID(sessionID string) (*models.GameSession, error)
	FindSessionByStartKey(studentID, gameType string, startedAt time.Time) (*models.GameSession, error)
	IncrementCounters(sessionID string, wasCorrect bool) error
	FinalizeSession(s *models.GameSession) error
	GetStudentSessions(studentID string, limit int) ([]models.GameSession, error)
}

// GemStore persists gem events and performance log entries.
type GemStore interface {
	InsertGemEvent(ev *models.GemEvent) error
	InsertPerformanceLog(entry *models.PerformanceLogEntry) error
	SumSessionXP(sessionID string) (int, error)
	GetSessionGemEvents(sessionID string) ([]models.GemEvent, error)
}

// EncounterRecorder feeds the spaced-repetition state. Both correct and
// incorrect attempts go through it.
type EncounterRecorder interface {
	RecordEncounter(studentID, vocabularyID string, wasCorrect bool, now time.Time) error
}

// XPLedger receives the student's XP at session end.
type XPLedger interface {
	AddXP(studentID string, amount int) error
}

// SessionMeta describes a session being started.
type SessionMeta struct {
	StudentID    string
	AssignmentID *string
	GameType     string
	GameMode     string
	StartedAt    time.Time // zero means now
}

// Attempt is one practice event as reported by a game client. ResponseTimeMs
// is a float because client timing glitches can produce NaN or negative
// values; those are sanitized, never rejected.
type Attempt struct {
	VocabularyID    *string
	WordText        string
	TranslationText string
	WasCorrect      bool
	ResponseTimeMs  float64
	StreakCount     int
	HintUsed        bool
	TypingMode      bool
	DictationMode   bool
	MasteryLevel    *int
	MaxGemRarity    gems.GemRarity
	Difficulty      string
}

// SessionSummary carries the caller's end-of-session figures. XP is never
// taken from the caller; it is derived from persisted gem events.
type SessionSummary struct {
	FinalScore        int
	CompletionPercent float64
	DurationSeconds   int // 0 means derive from the stored start timestamp
}

// SessionService orchestrates session lifecycle and per-attempt accounting:
// every attempt is logged and counted, correct attempts earn an Activity gem,
// and gate-approved attempts additionally earn a Mastery gem.
type SessionService struct {
	sessions    SessionStore
	gemEvents   GemStore
	progress    EncounterRecorder
	students    XPLedger
	gate        *ProgressionGate
	maxDuration time.Duration
}

// NewSessionService creates a new session accounting service.
func NewSessionService(sessions SessionStore, gemEvents GemStore, progress EncounterRecorder, students XPLedger, gate *ProgressionGate, maxDuration time.Duration) *SessionService {
	if maxDuration <= 0 {
		maxDuration = 4 * time.Hour
	}
	return &SessionService{
		sessions:    sessions,
		gemEvents:   gemEvents,
		progress:    progress,
		students:    students,
		gate:        gate,
		maxDuration: maxDuration,
	}
}

// StartSession creates a session row with zeroed counters. A duplicate start
// call for the same student/game/timestamp (client-side re-render) reuses the
// existing session instead of erroring.
func (s *SessionService) StartSession(meta SessionMeta) (*models.GameSession, error) {
	if meta.StudentID == "" {
		return nil, ErrMissingStudent
	}
	if meta.GameType == "" {
		return nil, ErrMissingGameType
	}

	startedAt := meta.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	if existing, err := s.sessions.FindSessionByStartKey(meta.StudentID, meta.GameType, startedAt); err == nil && existing != nil {
		return existing, nil
	}

	session := &models.GameSession{
		ID:           uuid.NewString(),
		StudentID:    meta.StudentID,
		AssignmentID: meta.AssignmentID,
		GameType:     meta.GameType,
		GameMode:     meta.GameMode,
		Status:       models.SessionInProgress,
		StartedAt:    startedAt,
	}

	if err := s.sessions.CreateSession(session); err != nil {
		// Likely lost a race with a duplicate start call; reuse its row.
		if existing, findErr := s.sessions.FindSessionByStartKey(meta.StudentID, meta.GameType, startedAt); findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// RecordAttempt funnels one practice event through counting, scheduling,
// classification, and persistence.
//
// Steps run strictly in order: counters and performance log first, then the
// spaced-repetition update (its failure escalates), then reward
// classification. Gem event writes are best-effort and never fail the
// attempt. The returned event is the Mastery gem when one was granted, else
// the Activity gem, else nil.
func (s *SessionService) RecordAttempt(sessionID, gameType string, attempt Attempt, skipProgressionCheck bool) (*models.GemEvent, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	if gameType == "" {
		return nil, ErrMissingGameType
	}

	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	now := time.Now().UTC()
	responseMs := sanitizeResponseTime(attempt.ResponseTimeMs)

	// The counters and the performance log are the system of record for
	// accuracy reporting; they move on every attempt, reward or not.
	if err := s.sessions.IncrementCounters(sessionID, attempt.WasCorrect); err != nil {
		log.Printf("[session] failed to increment counters for session %s: %v", sessionID, err)
	}

	logEntry := &models.PerformanceLogEntry{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		StudentID:      session.StudentID,
		VocabularyID:   attempt.VocabularyID,
		WordText:       attempt.WordText,
		WasCorrect:     attempt.WasCorrect,
		ResponseTimeMs: responseMs,
		StreakCount:    attempt.StreakCount,
		HintUsed:       attempt.HintUsed,
		CreatedAt:      now,
	}
	if err := s.gemEvents.InsertPerformanceLog(logEntry); err != nil {
		log.Printf("[session] failed to append performance log for session %s: %v", sessionID, err)
	}

	// Scheduling state moves on every attempt, correct or not, and a failure
	// here is a hard failure: losing it silently corrupts the vocabulary
	// mastery pipeline.
	if attempt.VocabularyID != nil && !skipProgressionCheck {
		if err := s.progress.RecordEncounter(session.StudentID, *attempt.VocabularyID, attempt.WasCorrect, now); err != nil {
			return nil, fmt.Errorf("record encounter for item %s: %w", *attempt.VocabularyID, err)
		}
	}

	if !attempt.WasCorrect {
		return nil, nil
	}

	ctx := gems.PerformanceContext{
		ResponseTimeMs: responseMs,
		StreakCount:    attempt.StreakCount,
		HintUsed:       attempt.HintUsed,
		TypingMode:     attempt.TypingMode,
		DictationMode:  attempt.DictationMode,
		MasteryLevel:   attempt.MasteryLevel,
		MaxGemRarity:   attempt.MaxGemRarity,
	}

	activityEvent := s.buildGemEvent(session, gameType, attempt, gems.TrackActivity,
		gems.ClassifyActivity(gameType, ctx), responseMs, now)
	if err := s.gemEvents.InsertGemEvent(activityEvent); err != nil {
		log.Printf("[session] failed to persist activity gem for session %s: %v", sessionID, err)
	}

	if attempt.VocabularyID == nil || skipProgressionCheck {
		return activityEvent, nil
	}

	decision := s.gate.CanProgress(session.StudentID, *attempt.VocabularyID, now)
	if !decision.Allowed {
		return activityEvent, nil
	}

	ctx.IsFirstTime = decision.Phase == PhaseNew
	masteryEvent := s.buildGemEvent(session, gameType, attempt, gems.TrackMastery,
		gems.ClassifyMastery(gameType, ctx), responseMs, now)
	if err := s.gemEvents.InsertGemEvent(masteryEvent); err != nil {
		log.Printf("[session] failed to persist mastery gem for session %s: %v", sessionID, err)
	}

	return masteryEvent, nil
}

// EndSession closes a session: duration is derived from the stored start
// timestamp when the caller doesn't supply one (values past the configured
// bound are treated as clock skew and recorded as zero), total XP is summed
// from persisted gem events, and the student's profile XP is bumped.
//
// The session only transitions to completed when the completion percentage
// reaches 100; ending early leaves it in_progress.
func (s *SessionService) EndSession(sessionID string, summary SessionSummary) (*models.GameSession, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	now := time.Now().UTC()

	duration := summary.DurationSeconds
	if duration <= 0 {
		duration = int(now.Sub(session.StartedAt).Seconds())
	}
	if duration < 0 || duration > int(s.maxDuration.Seconds()) {
		duration = 0
	}

	totalXP, err := s.gemEvents.SumSessionXP(sessionID)
	if err != nil {
		log.Printf("[session] failed to sum XP for session %s: %v", sessionID, err)
		totalXP = 0
	}

	session.EndedAt = &now
	session.DurationSeconds = duration
	session.FinalScore = summary.FinalScore
	session.XPEarned = totalXP
	session.CompletionPercent = summary.CompletionPercent
	if summary.CompletionPercent >= 100 {
		session.Status = models.SessionCompleted
	}

	if err := s.sessions.FinalizeSession(session); err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}

	if totalXP > 0 {
		if err := s.students.AddXP(session.StudentID, totalXP); err != nil {
			log.Printf("[session] failed to propagate XP to student %s: %v", session.StudentID, err)
		}
	}

	return session, nil
}

// Session loads a single session by id.
func (s *SessionService) Session(sessionID string) (*models.GameSession, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// StudentSessions lists a student's most recent sessions.
func (s *SessionService) StudentSessions(studentID string, limit int) ([]models.GameSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.sessions.GetStudentSessions(studentID, limit)
}

// SessionGems lists the gem events a session has earned so far.
func (s *SessionService) SessionGems(sessionID string) ([]models.GemEvent, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.gemEvents.GetSessionGemEvents(sessionID)
}

// AwardBonus grants a bonus gem outside the normal classification path, e.g.
// an end-of-game achievement. The rarity and track are validated upfront so
// the write targets the right shape the first time.
func (s *SessionService) AwardBonus(sessionID, gameType string, rarity gems.GemRarity, reason string, track gems.Track) (*models.GemEvent, error) {
	if !rarity.IsValid() {
		return nil, ErrInvalidRarity
	}
	if !track.IsValid() {
		return nil, ErrInvalidTrack
	}

	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	event := &models.GemEvent{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		StudentID:   session.StudentID,
		Track:       track,
		Rarity:      rarity,
		XPValue:     gems.XPForTrack(rarity, track),
		GameType:    gameType,
		GameMode:    session.GameMode,
		BonusReason: reason,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.gemEvents.InsertGemEvent(event); err != nil {
		log.Printf("[session] failed to persist bonus gem for session %s: %v", sessionID, err)
	}

	return event, nil
}

func (s *SessionService) buildGemEvent(session *models.GameSession, gameType string, attempt Attempt, track gems.Track, rarity gems.GemRarity, responseMs int, now time.Time) *models.GemEvent {
	return &models.GemEvent{
		ID:              uuid.NewString(),
		SessionID:       session.ID,
		StudentID:       session.StudentID,
		Track:           track,
		Rarity:          rarity,
		XPValue:         gems.XPForTrack(rarity, track),
		VocabularyID:    attempt.VocabularyID,
		WordText:        attempt.WordText,
		TranslationText: attempt.TranslationText,
		ResponseTimeMs:  responseMs,
		StreakCount:     attempt.StreakCount,
		HintUsed:        attempt.HintUsed,
		GameType:        gameType,
		GameMode:        session.GameMode,
		Difficulty:      attempt.Difficulty,
		CreatedAt:       now,
	}
}

// sanitizeResponseTime corrects timing glitches to zero instead of rejecting
// the attempt; a learner's answer is never lost to a clock problem.
func sanitizeResponseTime(ms float64) int {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		return 0
	}
	return int(math.Round(ms))
}
