package repository

import (
	"database/sql"
	"time"

	"vocabgems/internal/database"
	"vocabgems/internal/models"
)

// SessionRepository handles game session database operations.
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, student_id, assignment_id, game_type, game_mode, status,
	       started_at, ended_at, duration_seconds, words_attempted, words_correct,
	       final_score, xp_earned, completion_percent`

// CreateSession inserts a new session row.
func (r *SessionRepository) CreateSession(s *models.GameSession) error {
	query := `
		INSERT INTO game_sessions (id, student_id, assignment_id, game_type, game_mode,
		                           status, started_at, completion_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, s.ID, s.StudentID, s.AssignmentID, s.GameType,
		s.GameMode, s.Status, s.StartedAt, s.CompletionPercent)
	return err
}

// GetSessionByID retrieves a session by ID. Returns nil when not found.
func (r *SessionRepository) GetSessionByID(sessionID string) (*models.GameSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM game_sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRow(query, sessionID))
}

// FindSessionByStartKey looks up a session by its dedup key. Duplicate client
// start calls for the same student/game/timestamp reuse the existing row.
func (r *SessionRepository) FindSessionByStartKey(studentID, gameType string, startedAt time.Time) (*models.GameSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM game_sessions
		WHERE student_id = ? AND game_type = ? AND started_at = ?
	`
	return r.scanSession(r.db.QueryRow(query, studentID, gameType, startedAt))
}

// IncrementCounters bumps the session's attempted counter, and the correct
// counter when wasCorrect. Last-writer-wins increments; see the session
// service for the concurrency caveats.
func (r *SessionRepository) IncrementCounters(sessionID string, wasCorrect bool) error {
	correctInc := 0
	if wasCorrect {
		correctInc = 1
	}
	query := `
		UPDATE game_sessions
		SET words_attempted = words_attempted + 1,
		    words_correct = words_correct + ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, correctInc, sessionID)
	return err
}

// FinalizeSession writes the end-of-session aggregates.
func (r *SessionRepository) FinalizeSession(s *models.GameSession) error {
	query := `
		UPDATE game_sessions
		SET status = ?, ended_at = ?, duration_seconds = ?, final_score = ?,
		    xp_earned = ?, completion_percent = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, s.Status, s.EndedAt, s.DurationSeconds,
		s.FinalScore, s.XPEarned, s.CompletionPercent, s.ID)
	return err
}

// GetStudentSessions retrieves recent sessions for a student.
func (r *SessionRepository) GetStudentSessions(studentID string, limit int) ([]models.GameSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM game_sessions
		WHERE student_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		s, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// GetStudentSessionStats returns session count and attempted/correct word
// totals for a student. Zero values for students with no sessions.
func (r *SessionRepository) GetStudentSessionStats(studentID string) (sessions, attempted, correct int, err error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(words_attempted), 0), COALESCE(SUM(words_correct), 0)
		FROM game_sessions
		WHERE student_id = ?
	`
	err = r.db.QueryRow(query, studentID).Scan(&sessions, &attempted, &correct)
	return sessions, attempted, correct, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *SessionRepository) scanSession(row *sql.Row) (*models.GameSession, error) {
	s, err := scanSessionRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func scanSessionRow(row rowScanner) (*models.GameSession, error) {
	s := &models.GameSession{}
	var assignmentID sql.NullString
	var endedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&assignmentID,
		&s.GameType,
		&s.GameMode,
		&s.Status,
		&s.StartedAt,
		&endedAt,
		&s.DurationSeconds,
		&s.WordsAttempted,
		&s.WordsCorrect,
		&s.FinalScore,
		&s.XPEarned,
		&s.CompletionPercent,
	)
	if err != nil {
		return nil, err
	}

	if assignmentID.Valid {
		s.AssignmentID = &assignmentID.String
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return s, nil
}
