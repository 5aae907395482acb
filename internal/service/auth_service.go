package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vocabgems/internal/models"
	"vocabgems/internal/security"
	"vocabgems/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// StudentAccountStore is the profile storage the auth service needs.
type StudentAccountStore interface {
	CreateStudent(s *models.Student) error
	GetStudentByID(id string) (*models.Student, error)
	GetStudentByEmail(email string) (*models.Student, error)
	GetStudentByOAuth(provider, subject string) (*models.Student, error)
	LinkOAuth(studentID, provider, subject string) error
}

// AuthService handles registration, login, and OAuth sign-in. Successful
// authentication yields a signed token; there is no server-side session state.
type AuthService struct {
	students StudentAccountStore
	tokens   *security.TokenIssuer
}

// NewAuthService creates a new auth service.
func NewAuthService(students StudentAccountStore, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{students: students, tokens: tokens}
}

// Register creates a new student account.
func (s *AuthService) Register(email, password, displayName, role string) (*models.Student, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateName(displayName); err != nil {
		return nil, "", err
	}
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, "", fmt.Errorf("unknown role %q", role)
	}

	existing, err := s.students.GetStudentByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing student: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(displayName),
		Role:         role,
	}
	if err := s.students.CreateStudent(student); err != nil {
		return nil, "", fmt.Errorf("failed to create student: %w", err)
	}

	token, err := s.tokens.Issue(student.ID, student.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return student, token, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(email, password string) (*models.Student, string, error) {
	student, err := s.students.GetStudentByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, student.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(student.ID, student.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return student, token, nil
}

// OAuthLogin signs in (or signs up) a student via an OAuth identity. A new
// account gets an unguessable random password hash so password login stays
// closed until the student sets one.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.Student, string, error) {
	if provider == "" || subject == "" {
		return nil, "", errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}

	student, err := s.students.GetStudentByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup oauth student: %w", err)
	}

	if student == nil {
		existing, err := s.students.GetStudentByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to check existing student: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, "", ErrEmailTaken
			}
			if err := s.students.LinkOAuth(existing.ID, provider, subject); err != nil {
				return nil, "", fmt.Errorf("failed to link oauth provider: %w", err)
			}
			student = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			randomHash, err := security.HashPassword(uuid.NewString())
			if err != nil {
				return nil, "", fmt.Errorf("failed to generate oauth password hash: %w", err)
			}
			student = &models.Student{
				ID:            uuid.NewString(),
				Email:         email,
				PasswordHash:  randomHash,
				DisplayName:   name,
				Role:          models.RoleStudent,
				OAuthProvider: provider,
				OAuthSubject:  subject,
			}
			if err := s.students.CreateStudent(student); err != nil {
				return nil, "", fmt.Errorf("failed to create oauth student: %w", err)
			}
		}
	}

	token, err := s.tokens.Issue(student.ID, student.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return student, token, nil
}

// ValidateToken resolves a token to its student profile.
func (s *AuthService) ValidateToken(token string) (*models.Student, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetStudentByID(claims.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, security.ErrInvalidToken
	}
	return student, nil
}
