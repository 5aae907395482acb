package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"vocabgems/internal/database"
)

// BackupData is the complete portable export of the database. It carries the
// same shape across all supported dialects so an export from one backend can
// be imported into another.
type BackupData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Students   []StudentBackup  `json:"students"`
	Sessions   []SessionBackup  `json:"sessions"`
	GemEvents  []GemEventBackup `json:"gem_events"`
	Progress   []ProgressBackup `json:"vocabulary_progress"`
}

// StudentBackup is one student row in a backup.
type StudentBackup struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	DisplayName   string    `json:"display_name"`
	Role          string    `json:"role"`
	TotalXP       int       `json:"total_xp"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SessionBackup is one game session row in a backup.
type SessionBackup struct {
	ID                string     `json:"id"`
	StudentID         string     `json:"student_id"`
	AssignmentID      *string    `json:"assignment_id"`
	GameType          string     `json:"game_type"`
	GameMode          string     `json:"game_mode"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at"`
	DurationSeconds   int        `json:"duration_seconds"`
	WordsAttempted    int        `json:"words_attempted"`
	WordsCorrect      int        `json:"words_correct"`
	FinalScore        int        `json:"final_score"`
	XPEarned          int        `json:"xp_earned"`
	CompletionPercent float64    `json:"completion_percent"`
}

// GemEventBackup is one gem event row in a backup.
type GemEventBackup struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	StudentID       string    `json:"student_id"`
	Track           string    `json:"track"`
	Rarity          string    `json:"rarity"`
	XPValue         int       `json:"xp_value"`
	VocabularyID    *string   `json:"vocabulary_id"`
	WordText        string    `json:"word_text"`
	TranslationText string    `json:"translation_text"`
	ResponseTimeMs  int       `json:"response_time_ms"`
	StreakCount     int       `json:"streak_count"`
	HintUsed        bool      `json:"hint_used"`
	GameType        string    `json:"game_type"`
	GameMode        string    `json:"game_mode"`
	Difficulty      string    `json:"difficulty"`
	BonusReason     string    `json:"bonus_reason"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProgressBackup is one vocabulary progress row in a backup.
type ProgressBackup struct {
	StudentID         string     `json:"student_id"`
	VocabularyID      string     `json:"vocabulary_id"`
	TotalEncounters   int        `json:"total_encounters"`
	CorrectEncounters int        `json:"correct_encounters"`
	State             string     `json:"state"`
	DueAt             *time.Time `json:"due_at"`
	Difficulty        float64    `json:"difficulty"`
	Stability         float64    `json:"stability"`
	Retrievability    float64    `json:"retrievability"`
	LastEncounteredAt time.Time  `json:"last_encountered_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// BackupService exports and restores the full dataset as JSON.
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service.
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file.
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
	}

	if err := s.exportStudents(backup); err != nil {
		return fmt.Errorf("failed to export students: %w", err)
	}
	if err := s.exportSessions(backup); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if err := s.exportGemEvents(backup); err != nil {
		return fmt.Errorf("failed to export gem events: %w", err)
	}
	if err := s.exportProgress(backup); err != nil {
		return fmt.Errorf("failed to export vocabulary progress: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d students, %d sessions, %d gem events, %d progress rows",
		len(backup.Students), len(backup.Sessions), len(backup.GemEvents), len(backup.Progress))

	return nil
}

// Import restores a database from a backup file.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// The whole import is one transaction: a half-restored database is worse
	// than a failed restore.
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	// Referential order: students first, then sessions, then their events.
	if err := s.importStudents(tx, backup.Students); err != nil {
		return fmt.Errorf("failed to import students: %w", err)
	}
	if err := s.importSessions(tx, backup.Sessions); err != nil {
		return fmt.Errorf("failed to import sessions: %w", err)
	}
	if err := s.importGemEvents(tx, backup.GemEvents); err != nil {
		return fmt.Errorf("failed to import gem events: %w", err)
	}
	if err := s.importProgress(tx, backup.Progress); err != nil {
		return fmt.Errorf("failed to import vocabulary progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportStudents(backup *BackupData) error {
	query := `SELECT id, email, password_hash, display_name, role, total_xp,
		oauth_provider, oauth_subject, created_at, updated_at
		FROM students ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st StudentBackup
		if err := rows.Scan(&st.ID, &st.Email, &st.PasswordHash, &st.DisplayName,
			&st.Role, &st.TotalXP, &st.OAuthProvider, &st.OAuthSubject,
			&st.CreatedAt, &st.UpdatedAt); err != nil {
			return err
		}
		backup.Students = append(backup.Students, st)
	}
	return rows.Err()
}

func (s *BackupService) exportSessions(backup *BackupData) error {
	query := `SELECT id, student_id, assignment_id, game_type, game_mode, status,
		started_at, ended_at, duration_seconds, words_attempted, words_correct,
		final_score, xp_earned, completion_percent
		FROM game_sessions ORDER BY started_at, id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sb SessionBackup
		if err := rows.Scan(&sb.ID, &sb.StudentID, &sb.AssignmentID, &sb.GameType,
			&sb.GameMode, &sb.Status, &sb.StartedAt, &sb.EndedAt,
			&sb.DurationSeconds, &sb.WordsAttempted, &sb.WordsCorrect,
			&sb.FinalScore, &sb.XPEarned, &sb.CompletionPercent); err != nil {
			return err
		}
		backup.Sessions = append(backup.Sessions, sb)
	}
	return rows.Err()
}

func (s *BackupService) exportGemEvents(backup *BackupData) error {
	query := `SELECT id, session_id, student_id, track, rarity, xp_value,
		vocabulary_id, word_text, translation_text, response_time_ms,
		streak_count, hint_used, game_type, game_mode, difficulty,
		bonus_reason, created_at
		FROM gem_events ORDER BY created_at, id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ev GemEventBackup
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.StudentID, &ev.Track,
			&ev.Rarity, &ev.XPValue, &ev.VocabularyID, &ev.WordText,
			&ev.TranslationText, &ev.ResponseTimeMs, &ev.StreakCount,
			&ev.HintUsed, &ev.GameType, &ev.GameMode, &ev.Difficulty,
			&ev.BonusReason, &ev.CreatedAt); err != nil {
			return err
		}
		backup.GemEvents = append(backup.GemEvents, ev)
	}
	return rows.Err()
}

func (s *BackupService) exportProgress(backup *BackupData) error {
	query := `SELECT student_id, vocabulary_id, total_encounters, correct_encounters,
		state, due_at, difficulty, stability, retrievability,
		last_encountered_at, created_at, updated_at
		FROM vocabulary_progress ORDER BY student_id, vocabulary_id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProgressBackup
		if err := rows.Scan(&p.StudentID, &p.VocabularyID, &p.TotalEncounters,
			&p.CorrectEncounters, &p.State, &p.DueAt, &p.Difficulty,
			&p.Stability, &p.Retrievability, &p.LastEncounteredAt,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Progress = append(backup.Progress, p)
	}
	return rows.Err()
}

func (s *BackupService) importStudents(exec database.DBTX, students []StudentBackup) error {
	log.Printf("Importing %d students...", len(students))
	query := `INSERT INTO students (id, email, password_hash, display_name, role,
		total_xp, oauth_provider, oauth_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, st := range students {
		if _, err := exec.Exec(query, st.ID, st.Email, st.PasswordHash,
			st.DisplayName, st.Role, st.TotalXP, st.OAuthProvider,
			st.OAuthSubject, st.CreatedAt, st.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import student %s: %w", st.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSessions(exec database.DBTX, sessions []SessionBackup) error {
	log.Printf("Importing %d sessions...", len(sessions))
	query := `INSERT INTO game_sessions (id, student_id, assignment_id, game_type,
		game_mode, status, started_at, ended_at, duration_seconds,
		words_attempted, words_correct, final_score, xp_earned, completion_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, sb := range sessions {
		if _, err := exec.Exec(query, sb.ID, sb.StudentID, sb.AssignmentID,
			sb.GameType, sb.GameMode, sb.Status, sb.StartedAt, sb.EndedAt,
			sb.DurationSeconds, sb.WordsAttempted, sb.WordsCorrect,
			sb.FinalScore, sb.XPEarned, sb.CompletionPercent); err != nil {
			return fmt.Errorf("failed to import session %s: %w", sb.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGemEvents(exec database.DBTX, events []GemEventBackup) error {
	log.Printf("Importing %d gem events...", len(events))
	query := `INSERT INTO gem_events (id, session_id, student_id, track, rarity,
		xp_value, vocabulary_id, word_text, translation_text, response_time_ms,
		streak_count, hint_used, game_type, game_mode, difficulty, bonus_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, ev := range events {
		if _, err := exec.Exec(query, ev.ID, ev.SessionID, ev.StudentID, ev.Track,
			ev.Rarity, ev.XPValue, ev.VocabularyID, ev.WordText,
			ev.TranslationText, ev.ResponseTimeMs, ev.StreakCount, ev.HintUsed,
			ev.GameType, ev.GameMode, ev.Difficulty, ev.BonusReason,
			ev.CreatedAt); err != nil {
			return fmt.Errorf("failed to import gem event %s: %w", ev.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importProgress(exec database.DBTX, rows []ProgressBackup) error {
	log.Printf("Importing %d progress rows...", len(rows))
	query := `INSERT INTO vocabulary_progress (student_id, vocabulary_id,
		total_encounters, correct_encounters, state, due_at, difficulty,
		stability, retrievability, last_encountered_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, p := range rows {
		if _, err := exec.Exec(query, p.StudentID, p.VocabularyID,
			p.TotalEncounters, p.CorrectEncounters, p.State, p.DueAt,
			p.Difficulty, p.Stability, p.Retrievability, p.LastEncounteredAt,
			p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import progress for %s/%s: %w",
				p.StudentID, p.VocabularyID, err)
		}
	}
	return nil
}
