package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/oauth2"

	"vocabgems/internal/models"
	"vocabgems/internal/service"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	authService *service.AuthService
	googleOAuth *oauth2.Config
	userInfoURL string
}

// NewAuthHandler creates a new auth handler. googleOAuth may be nil when the
// Google sign-in flow is not configured.
func NewAuthHandler(authService *service.AuthService, googleOAuth *oauth2.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		googleOAuth: googleOAuth,
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Student studentResponse `json:"student"`
}

type studentResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	TotalXP     int    `json:"total_xp"`
}

func toStudentResponse(s *models.Student) studentResponse {
	return studentResponse{
		ID:          s.ID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Role:        s.Role,
		TotalXP:     s.TotalXP,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	student, token, err := h.authService.Register(req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Email already taken", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Student: toStudentResponse(student)})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	student, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Login failed", "login", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Student: toStudentResponse(student)})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	student := GetStudentFromContext(r.Context())
	if student == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}
	writeJSON(w, http.StatusOK, toStudentResponse(student))
}
