package repository

import (
	"database/sql"
	"time"

	"vocabgems/internal/database"
	"vocabgems/internal/models"
)

// ProgressRepository handles vocabulary progress database operations. The
// Progression Gate reads these records. Encounter bookkeeping is the only
// write path owned by this service; the spaced-repetition scheduler owns the
// difficulty/stability/retrievability math.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetProgress retrieves the progress record for one student/item pair.
// Returns nil when the item has never been encountered.
func (r *ProgressRepository) GetProgress(studentID, vocabularyID string) (*models.VocabularyProgress, error) {
	query := `
		SELECT student_id, vocabulary_id, total_encounters, correct_encounters,
		       state, due_at, difficulty, stability, retrievability,
		       last_encountered_at, created_at, updated_at
		FROM vocabulary_progress
		WHERE student_id = ? AND vocabulary_id = ?
	`

	p := &models.VocabularyProgress{}
	var dueAt sql.NullTime

	err := r.db.QueryRow(query, studentID, vocabularyID).Scan(
		&p.StudentID,
		&p.VocabularyID,
		&p.TotalEncounters,
		&p.CorrectEncounters,
		&p.State,
		&dueAt,
		&p.Difficulty,
		&p.Stability,
		&p.Retrievability,
		&p.LastEncounteredAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if dueAt.Valid {
		p.DueAt = &dueAt.Time
	}
	return p, nil
}

// RecordEncounter upserts the encounter counters for one attempt. Update
// first, insert when no row exists; the insert can lose a race with a
// concurrent first encounter, in which case one retry of the update wins.
// The UPDATE/INSERT split keeps the query portable across all three dialects.
func (r *ProgressRepository) RecordEncounter(studentID, vocabularyID string, wasCorrect bool, now time.Time) error {
	correctInc := 0
	if wasCorrect {
		correctInc = 1
	}

	updated, err := r.bumpEncounter(studentID, vocabularyID, correctInc, now)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}

	insert := `
		INSERT INTO vocabulary_progress (student_id, vocabulary_id, total_encounters,
		                                 correct_encounters, state, last_encountered_at,
		                                 created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(insert, studentID, vocabularyID, correctInc,
		models.ProgressStateNew, now, now, now); err == nil {
		return nil
	}

	// Lost the insert race; the row exists now.
	if _, err := r.bumpEncounter(studentID, vocabularyID, correctInc, now); err != nil {
		return err
	}
	return nil
}

func (r *ProgressRepository) bumpEncounter(studentID, vocabularyID string, correctInc int, now time.Time) (bool, error) {
	update := `
		UPDATE vocabulary_progress
		SET total_encounters = total_encounters + 1,
		    correct_encounters = correct_encounters + ?,
		    last_encountered_at = ?,
		    updated_at = ?
		WHERE student_id = ? AND vocabulary_id = ?
	`
	result, err := r.db.Exec(update, correctInc, now, now, studentID, vocabularyID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetSchedule writes the scheduler-owned fields of a progress record. This is
// the ingestion path for the external spaced-repetition updater and the
// backup importer.
func (r *ProgressRepository) SetSchedule(studentID, vocabularyID, state string, dueAt *time.Time, difficulty, stability, retrievability float64) error {
	query := `
		UPDATE vocabulary_progress
		SET state = ?, due_at = ?, difficulty = ?, stability = ?,
		    retrievability = ?, updated_at = ?
		WHERE student_id = ? AND vocabulary_id = ?
	`
	_, err := r.db.Exec(query, state, dueAt, difficulty, stability,
		retrievability, time.Now().UTC(), studentID, vocabularyID)
	return err
}

// GetStudentProgress retrieves all progress records for a student.
func (r *ProgressRepository) GetStudentProgress(studentID string) ([]models.VocabularyProgress, error) {
	query := `
		SELECT student_id, vocabulary_id, total_encounters, correct_encounters,
		       state, due_at, difficulty, stability, retrievability,
		       last_encountered_at, created_at, updated_at
		FROM vocabulary_progress
		WHERE student_id = ?
		ORDER BY vocabulary_id
	`
	rows, err := r.db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.VocabularyProgress
	for rows.Next() {
		var p models.VocabularyProgress
		var dueAt sql.NullTime
		err := rows.Scan(
			&p.StudentID, &p.VocabularyID, &p.TotalEncounters, &p.CorrectEncounters,
			&p.State, &dueAt, &p.Difficulty, &p.Stability, &p.Retrievability,
			&p.LastEncounteredAt, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if dueAt.Valid {
			p.DueAt = &dueAt.Time
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
