package repository

import (
	"database/sql"
	"time"

	"vocabgems/internal/database"
	"vocabgems/internal/models"
)

// StudentRepository handles student profile database operations.
type StudentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, email, password_hash, display_name, role, total_xp,
	       oauth_provider, oauth_subject, created_at, updated_at`

// CreateStudent inserts a new student profile.
func (r *StudentRepository) CreateStudent(s *models.Student) error {
	query := `
		INSERT INTO students (id, email, password_hash, display_name, role,
		                      oauth_provider, oauth_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.db.Exec(query, s.ID, s.Email, s.PasswordHash, s.DisplayName,
		s.Role, s.OAuthProvider, s.OAuthSubject, s.CreatedAt, s.UpdatedAt)
	return err
}

// GetStudentByID retrieves a student by ID. Returns nil when not found.
func (r *StudentRepository) GetStudentByID(id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`
	return r.scanStudent(r.db.QueryRow(query, id))
}

// GetStudentByEmail retrieves a student by email. Returns nil when not found.
func (r *StudentRepository) GetStudentByEmail(email string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = ?`
	return r.scanStudent(r.db.QueryRow(query, email))
}

// GetStudentByOAuth retrieves a student by OAuth identity. Returns nil when
// not found.
func (r *StudentRepository) GetStudentByOAuth(provider, subject string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE oauth_provider = ? AND oauth_subject = ?`
	return r.scanStudent(r.db.QueryRow(query, provider, subject))
}

// AddXP increments a student's running XP total.
func (r *StudentRepository) AddXP(studentID string, amount int) error {
	query := `
		UPDATE students
		SET total_xp = total_xp + ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, amount, time.Now().UTC(), studentID)
	return err
}

// LinkOAuth attaches an OAuth identity to an existing student.
func (r *StudentRepository) LinkOAuth(studentID, provider, subject string) error {
	query := `
		UPDATE students
		SET oauth_provider = ?, oauth_subject = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, provider, subject, time.Now().UTC(), studentID)
	return err
}

func (r *StudentRepository) scanStudent(row *sql.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID,
		&s.Email,
		&s.PasswordHash,
		&s.DisplayName,
		&s.Role,
		&s.TotalXP,
		&s.OAuthProvider,
		&s.OAuthSubject,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
