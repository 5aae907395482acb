package service

import (
	"errors"
	"testing"
	"time"

	"vocabgems/internal/models"
	"vocabgems/internal/security"
)

type fakeStudentStore struct {
	byEmail map[string]*models.Student
	byOAuth map[string]*models.Student
	created []*models.Student
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{
		byEmail: make(map[string]*models.Student),
		byOAuth: make(map[string]*models.Student),
	}
}

func (f *fakeStudentStore) CreateStudent(s *models.Student) error {
	f.created = append(f.created, s)
	f.byEmail[s.Email] = s
	if s.OAuthProvider != "" {
		f.byOAuth[s.OAuthProvider+"/"+s.OAuthSubject] = s
	}
	return nil
}

func (f *fakeStudentStore) GetStudentByID(id string) (*models.Student, error) {
	for _, s := range f.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) GetStudentByEmail(email string) (*models.Student, error) {
	return f.byEmail[email], nil
}

func (f *fakeStudentStore) GetStudentByOAuth(provider, subject string) (*models.Student, error) {
	return f.byOAuth[provider+"/"+subject], nil
}

func (f *fakeStudentStore) LinkOAuth(studentID, provider, subject string) error {
	for _, s := range f.byEmail {
		if s.ID == studentID {
			s.OAuthProvider = provider
			s.OAuthSubject = subject
			f.byOAuth[provider+"/"+subject] = s
		}
	}
	return nil
}

func newAuthService(store *fakeStudentStore) *AuthService {
	return NewAuthService(store, security.NewTokenIssuer("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeStudentStore()
	svc := newAuthService(store)

	student, token, err := svc.Register("lea@example.com", "password123", "Léa Dupont", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected a token on registration")
	}
	if student.Role != models.RoleStudent {
		t.Errorf("role = %q, want default %q", student.Role, models.RoleStudent)
	}
	if student.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}

	loggedIn, token, err := svc.Login("lea@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != student.ID || token == "" {
		t.Errorf("login returned student %q, want %q with a token", loggedIn.ID, student.ID)
	}

	if _, _, err := svc.Login("lea@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStudentStore()
	svc := newAuthService(store)

	if _, _, err := svc.Register("lea@example.com", "password123", "Léa Dupont", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Register("lea@example.com", "different456", "Someone Else", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want %v", err, ErrEmailTaken)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(newFakeStudentStore())

	tests := []struct {
		name     string
		email    string
		password string
		display  string
		role     string
	}{
		{"bad email", "not-an-email", "password123", "Léa", ""},
		{"short password", "lea@example.com", "short", "Léa", ""},
		{"empty name", "lea@example.com", "password123", "", ""},
		{"unknown role", "lea@example.com", "password123", "Léa", "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Register(tt.email, tt.password, tt.display, tt.role); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestOAuthLoginCreatesAccount(t *testing.T) {
	store := newFakeStudentStore()
	svc := newAuthService(store)

	student, token, err := svc.OAuthLogin("google", "sub-123", "lea@example.com", "Léa Dupont")
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if student.OAuthProvider != "google" || student.OAuthSubject != "sub-123" {
		t.Errorf("oauth identity = %q/%q", student.OAuthProvider, student.OAuthSubject)
	}

	// Second sign-in resolves the same account.
	again, _, err := svc.OAuthLogin("google", "sub-123", "lea@example.com", "")
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if again.ID != student.ID {
		t.Errorf("second sign-in resolved %q, want %q", again.ID, student.ID)
	}
	if len(store.created) != 1 {
		t.Errorf("accounts created = %d, want 1", len(store.created))
	}
}

func TestOAuthLoginLinksExistingAccount(t *testing.T) {
	store := newFakeStudentStore()
	svc := newAuthService(store)

	registered, _, err := svc.Register("lea@example.com", "password123", "Léa Dupont", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	linked, _, err := svc.OAuthLogin("google", "sub-123", "lea@example.com", "")
	if err != nil {
		t.Fatalf("OAuthLogin: %v", err)
	}
	if linked.ID != registered.ID {
		t.Errorf("linked %q, want existing account %q", linked.ID, registered.ID)
	}
	if linked.OAuthProvider != "google" {
		t.Errorf("provider = %q, want google", linked.OAuthProvider)
	}
}

func TestValidateTokenRoundtrip(t *testing.T) {
	store := newFakeStudentStore()
	svc := newAuthService(store)

	student, token, err := svc.Register("lea@example.com", "password123", "Léa Dupont", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resolved, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if resolved.ID != student.ID {
		t.Errorf("resolved %q, want %q", resolved.ID, student.ID)
	}

	if _, err := svc.ValidateToken("garbage"); !errors.Is(err, security.ErrInvalidToken) {
		t.Errorf("err = %v, want %v", err, security.ErrInvalidToken)
	}
}
