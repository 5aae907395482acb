package repository

import (
	"database/sql"
	"time"

	"vocabgems/internal/database"
	"vocabgems/internal/gems"
	"vocabgems/internal/models"
)

// GemRepository handles gem event and performance log database operations.
type GemRepository struct {
	db *database.DB
}

// NewGemRepository creates a new gem repository.
func NewGemRepository(db *database.DB) *GemRepository {
	return &GemRepository{db: db}
}

// InsertGemEvent persists one awarded gem. Gem events are immutable facts;
// there is no update path.
func (r *GemRepository) InsertGemEvent(ev *models.GemEvent) error {
	query := `
		INSERT INTO gem_events (id, session_id, student_id, track, rarity, xp_value,
		                        vocabulary_id, word_text, translation_text,
		                        response_time_ms, streak_count, hint_used,
		                        game_type, game_mode, difficulty, bonus_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		ev.ID, ev.SessionID, ev.StudentID, string(ev.Track), string(ev.Rarity),
		ev.XPValue, ev.VocabularyID, ev.WordText, ev.TranslationText,
		ev.ResponseTimeMs, ev.StreakCount, ev.HintUsed,
		ev.GameType, ev.GameMode, ev.Difficulty, ev.BonusReason, ev.CreatedAt)
	return err
}

// InsertPerformanceLog appends one attempt record, correct or not.
func (r *GemRepository) InsertPerformanceLog(entry *models.PerformanceLogEntry) error {
	query := `
		INSERT INTO session_performance_log (id, session_id, student_id, vocabulary_id,
		                                     word_text, was_correct, response_time_ms,
		                                     streak_count, hint_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		entry.ID, entry.SessionID, entry.StudentID, entry.VocabularyID,
		entry.WordText, entry.WasCorrect, entry.ResponseTimeMs,
		entry.StreakCount, entry.HintUsed, entry.CreatedAt)
	return err
}

// SumSessionXP totals the XP of all gem events persisted for a session. The
// session's final XP is derived from this, never from caller-supplied values.
func (r *GemRepository) SumSessionXP(sessionID string) (int, error) {
	query := `SELECT COALESCE(SUM(xp_value), 0) FROM gem_events WHERE session_id = ?`
	var total int
	err := r.db.QueryRow(query, sessionID).Scan(&total)
	return total, err
}

// GetSessionGemEvents retrieves all gem events for a session in insertion order.
func (r *GemRepository) GetSessionGemEvents(sessionID string) ([]models.GemEvent, error) {
	query := `
		SELECT id, session_id, student_id, track, rarity, xp_value, vocabulary_id,
		       word_text, translation_text, response_time_ms, streak_count, hint_used,
		       game_type, game_mode, difficulty, bonus_reason, created_at
		FROM gem_events
		WHERE session_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGemEvents(rows)
}

// GetStudentTrackRarityTotals groups a student's gem events by track and
// rarity. Students with no events get an empty slice.
func (r *GemRepository) GetStudentTrackRarityTotals(studentID string) ([]models.TrackRarityTotal, error) {
	query := `
		SELECT track, rarity, COUNT(*), COALESCE(SUM(xp_value), 0)
		FROM gem_events
		WHERE student_id = ?
		GROUP BY track, rarity
	`
	rows, err := r.db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.TrackRarityTotal
	for rows.Next() {
		var t models.TrackRarityTotal
		var track, rarity string
		if err := rows.Scan(&track, &rarity, &t.Count, &t.XP); err != nil {
			return nil, err
		}
		t.Track = gems.Track(track)
		t.Rarity = gems.GemRarity(rarity)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// GetStudentGemEventsSince retrieves a student's gem events created at or
// after the given moment. Day bucketing happens in the analytics service,
// where it is dialect-independent.
func (r *GemRepository) GetStudentGemEventsSince(studentID string, since time.Time) ([]models.GemEvent, error) {
	query := `
		SELECT id, session_id, student_id, track, rarity, xp_value, vocabulary_id,
		       word_text, translation_text, response_time_ms, streak_count, hint_used,
		       game_type, game_mode, difficulty, bonus_reason, created_at
		FROM gem_events
		WHERE student_id = ? AND created_at >= ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, studentID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGemEvents(rows)
}

func scanGemEvents(rows *sql.Rows) ([]models.GemEvent, error) {
	var events []models.GemEvent
	for rows.Next() {
		var ev models.GemEvent
		var track, rarity string
		var vocabularyID sql.NullString
		err := rows.Scan(
			&ev.ID, &ev.SessionID, &ev.StudentID, &track, &rarity, &ev.XPValue,
			&vocabularyID, &ev.WordText, &ev.TranslationText,
			&ev.ResponseTimeMs, &ev.StreakCount, &ev.HintUsed,
			&ev.GameType, &ev.GameMode, &ev.Difficulty, &ev.BonusReason, &ev.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ev.Track = gems.Track(track)
		ev.Rarity = gems.GemRarity(rarity)
		if vocabularyID.Valid {
			ev.VocabularyID = &vocabularyID.String
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
