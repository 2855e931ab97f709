package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type account struct {
	password string
	user     models.User
}

// AuthServer fakes the auth service, including /api/users.
type AuthServer struct {
	*httptest.Server

	mu            sync.Mutex
	accounts      map[string]*account
	refreshTokens map[string]int64
	calls         map[string]int
	nextID        int64

	rejectValidate bool
	rejectRefresh  bool
	logoutStatus   int
}

func NewAuthServer(t testing.TB) *AuthServer {
	t.Helper()

	s := &AuthServer{
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]int64),
		calls:         make(map[string]int),
		nextID:        1,
	}

	r := chi.NewRouter()
	r.Use(s.count)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/register", s.register)
		r.Post("/register/full", s.register)
		r.Post("/refresh", s.refresh)
		r.Post("/validate", s.validate)
		r.Post("/logout", s.logout)
	})
	r.Route("/api/users/{id}", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.getUser)
		r.Put("/", s.updateUser)
		r.Get("/fitness-summary", s.fitnessSummary)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *AuthServer) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// Calls returns how many requests hit path.
func (s *AuthServer) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls counts every request received.
func (s *AuthServer) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// RejectValidate makes /validate answer 400 even for good tokens.
func (s *AuthServer) RejectValidate(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectValidate = v
}

// RejectRefresh makes /refresh answer 400.
func (s *AuthServer) RejectRefresh(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectRefresh = v
}

// LogoutStatus sets the status /logout answers with; 0 means 200.
func (s *AuthServer) LogoutStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutStatus = status
}

// AddUser registers an account directly and returns the stored user.
func (s *AuthServer) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.accounts[strings.ToLower(u.Email)] = &account{password: password, user: u}
	return u
}

// IssueTokens mints a valid access/refresh pair for an existing user.
func (s *AuthServer) IssueTokens(u models.User) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(u)
}

func (s *AuthServer) issueLocked(u models.User) (string, string) {
	access := MintToken(u.ID, u.Email, AccessTokenTTL)
	refresh := MintToken(u.ID, u.Email, 7*AccessTokenTTL)
	s.refreshTokens[refresh] = u.ID
	return access, refresh
}

// User returns the stored profile for email.
func (s *AuthServer) User(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return models.User{}, false
	}
	return a.user, true
}

func (s *AuthServer) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[req.Email]
	if !ok || a.password != req.Password {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	s.writeAuth(w, "Login successful", a.user)
}

func (s *AuthServer) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterFullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(req.Email)
	if _, exists := s.accounts[email]; exists {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	u := models.User{
		ID:              s.nextID,
		Username:        req.Username,
		Email:           email,
		DateOfBirth:     req.DateOfBirth,
		HeightCm:        req.HeightCm,
		CurrentWeightKg: req.CurrentWeightKg,
		TargetWeightKg:  req.TargetWeightKg,
	}
	if req.ActivityLevel != "" {
		u.ActivityLevel = models.Ptr(req.ActivityLevel)
	}
	if req.Gender != "" {
		u.Gender = models.Ptr(req.Gender)
	}
	if req.FitnessGoal != "" {
		u.FitnessGoal = models.Ptr(req.FitnessGoal)
	}
	if req.PreferredUnits != "" {
		u.PreferredUnits = models.Ptr(req.PreferredUnits)
	}
	s.nextID++
	s.accounts[email] = &account{password: req.Password, user: u}
	s.writeAuth(w, "User registered successfully", u)
}

func (s *AuthServer) writeAuth(w http.ResponseWriter, msg string, u models.User) {
	access, refresh := s.issueLocked(u)
	writeJSON(w, http.StatusOK, models.AuthResult{
		Message:      msg,
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(AccessTokenTTL.Seconds()),
	})
}

func (s *AuthServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rejectRefresh {
		writeError(w, http.StatusBadRequest, "Invalid or expired refresh token")
		return
	}
	claims, err := ParseToken(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired refresh token")
		return
	}
	if _, ok := s.refreshTokens[req.RefreshToken]; !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired refresh token")
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResult{
		Message:     "Token refreshed successfully",
		AccessToken: MintToken(claims.UserID, claims.Subject, AccessTokenTTL),
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenTTL.Seconds()),
	})
}

func (s *AuthServer) validate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reject := s.rejectValidate
	s.mu.Unlock()

	tok, err := bearerToken(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, err := ParseToken(tok)
	if reject || err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Token is invalid or expired", "valid": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Token is valid",
		"userId":  claims.UserID,
		"email":   claims.Subject,
		"valid":   true,
	})
}

func (s *AuthServer) logout(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	status := s.logoutStatus
	s.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		writeError(w, status, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *AuthServer) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		claims, err := ParseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id != claims.UserID {
			writeError(w, http.StatusForbidden, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *AuthServer) findByID(id int64) *account {
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}

func (s *AuthServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByID(id)
	if a == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{Message: "User retrieved", User: a.user})
}

func (s *AuthServer) updateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByID(id)
	if a == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	a.user = patch.Apply(a.user)
	writeJSON(w, http.StatusOK, models.UserResponse{Message: "Profile updated successfully", User: a.user})
}

func (s *AuthServer) fitnessSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findByID(id)
	if a == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	u := a.user
	sum := models.FitnessSummary{
		UserID:         u.ID,
		Name:           u.Username,
		Age:            u.Age,
		BMI:            u.BMI,
		CurrentWeight:  u.CurrentWeightKg,
		TargetWeight:   u.TargetWeightKg,
		DailyCalories:  u.DailyCalories,
		DailyProtein:   u.DailyProtein,
		DailyCarbs:     u.DailyCarbs,
		DailyFat:       u.DailyFat,
		DailyWater:     u.DailyWater,
		WeeklyWorkouts: u.WeeklyWorkouts,
	}
	if u.CurrentWeightKg != nil && u.TargetWeightKg != nil {
		sum.WeightDifference = models.Ptr(*u.TargetWeightKg - *u.CurrentWeightKg)
	}
	if u.FitnessGoal != nil {
		sum.FitnessGoal = *u.FitnessGoal
	}
	if u.ActivityLevel != nil {
		sum.ActivityLevel = *u.ActivityLevel
	}
	writeJSON(w, http.StatusOK, sum)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
