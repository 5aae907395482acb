package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vocabgems/internal/models"
	"vocabgems/internal/security"
	"vocabgems/internal/service"
)

type fakeAccountStore struct {
	byID    map[string]*models.Student
	byEmail map[string]*models.Student
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		byID:    make(map[string]*models.Student),
		byEmail: make(map[string]*models.Student),
	}
}

func (f *fakeAccountStore) CreateStudent(s *models.Student) error {
	f.byID[s.ID] = s
	f.byEmail[s.Email] = s
	return nil
}

func (f *fakeAccountStore) GetStudentByID(id string) (*models.Student, error) {
	return f.byID[id], nil
}

func (f *fakeAccountStore) GetStudentByEmail(email string) (*models.Student, error) {
	return f.byEmail[email], nil
}

func (f *fakeAccountStore) GetStudentByOAuth(provider, subject string) (*models.Student, error) {
	return nil, nil
}

func (f *fakeAccountStore) LinkOAuth(studentID, provider, subject string) error {
	return nil
}

func newTestMiddleware(t *testing.T) (*Middleware, *service.AuthService) {
	t.Helper()
	issuer := security.NewTokenIssuer("test-secret", time.Hour)
	authService := service.NewAuthService(newFakeAccountStore(), issuer)
	limiter := security.NewRateLimiter(100, time.Minute)
	return NewMiddleware(authService, limiter), authService
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(r); got != tt.want {
				t.Errorf("bearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	mw, authService := newTestMiddleware(t)

	registered, token, err := authService.Register("maya@example.com", "password123", "Maya Chen", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	var seen *models.Student
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen = GetStudentFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if seen == nil || seen.ID != registered.ID {
			t.Errorf("context student = %+v, want ID %s", seen, registered.ID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		handler(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		handler(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestRequireTeacher(t *testing.T) {
	mw, authService := newTestMiddleware(t)

	_, studentToken, err := authService.Register("maya@example.com", "password123", "Maya Chen", models.RoleStudent)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, teacherToken, err := authService.Register("ito@example.com", "password123", "Ms Ito", models.RoleTeacher)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	handler := mw.RequireTeacher(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("student role forbidden", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("Authorization", "Bearer "+studentToken)
		w := httptest.NewRecorder()
		handler(w, r)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("teacher role allowed", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("Authorization", "Bearer "+teacherToken)
		w := httptest.NewRecorder()
		handler(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestRateLimit(t *testing.T) {
	issuer := security.NewTokenIssuer("test-secret", time.Hour)
	authService := service.NewAuthService(newFakeAccountStore(), issuer)
	mw := NewMiddleware(authService, security.NewRateLimiter(2, time.Minute))

	handler := mw.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want %d", codes[2], http.StatusTooManyRequests)
	}
}
