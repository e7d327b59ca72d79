// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/vendorhub/vendorhub/internal/audit"
	"github.com/vendorhub/vendorhub/internal/database"
	"github.com/vendorhub/vendorhub/internal/logging"
	"github.com/vendorhub/vendorhub/internal/metrics"
	"github.com/vendorhub/vendorhub/internal/middleware"
	"github.com/vendorhub/vendorhub/internal/models"
	"github.com/vendorhub/vendorhub/internal/validation"
)

// dummyHash is compared against when the email is unknown so that login
// latency does not reveal whether an account exists.
const dummyHash = "$2a$12$K4GbN1mVMo6u0527iItF1uYa5y1RAgiCCp5DdVCPPhuVLqGcUigXi"

// ErrInvalidCredentials is returned when email or password is wrong.
// Callers must not distinguish the two cases in responses.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Handlers implements the authentication endpoints.
type Handlers struct {
	db         *database.DB
	sessions   *SessionManager
	lockout    *LockoutManager
	auditLog   *audit.Logger
	bcryptCost int

	// loginLimiter throttles the login endpoint globally, on top of the
	// per-IP limit applied at the router.
	loginLimiter *rate.Limiter
}

// NewHandlers creates the authentication handlers.
func NewHandlers(db *database.DB, sessions *SessionManager, lockout *LockoutManager, auditLog *audit.Logger, bcryptCost int) *Handlers {
	return &Handlers{
		db:           db,
		sessions:     sessions,
		lockout:      lockout,
		auditLog:     auditLog,
		bcryptCost:   bcryptCost,
		loginLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 20),
	}
}

// loginRequest is the POST /login body.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// signupRequest is the POST /signup body.
type signupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     int    `json:"role" validate:"required"`
}

// Login handles POST /login. A session is created only after the bcrypt
// check passes; a failed login leaves no session and no audit record.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow() {
		respondMessage(w, http.StatusTooManyRequests, "Too many login attempts, try again shortly")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if locked, remaining := h.lockout.CheckLocked(req.Email); locked {
		metrics.AuthAttemptsTotal.WithLabelValues("locked_out").Inc()
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(remaining.Seconds())))
		respondMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("Account temporarily locked. Try again in %v", remaining.Round(time.Second)))
		return
	}

	user, err := h.verify(r, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			h.lockout.RecordFailedAttempt(req.Email)
			respondMessage(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		logging.Error().Err(err).Msg("Login failed against user store")
		respondMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.lockout.RecordSuccessfulLogin(req.Email)
	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()

	session := NewSession(user, h.sessions.TTL())
	if err := h.sessions.Store().Create(r.Context(), session); err != nil {
		logging.Error().Err(err).Msg("Failed to persist session")
		respondMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}
	h.sessions.SetSessionCookie(w, session)

	h.auditLog.Log(&audit.Event{
		Action:      audit.ActionLogin,
		Outcome:     audit.OutcomeSuccess,
		Actor:       audit.ActorFromUser(user.ID, user.Username, user.Role.Name()),
		Source:      audit.SourceFromRequest(r),
		Description: "User logged in",
		RequestID:   middleware.GetRequestID(r.Context()),
	})

	respondJSON(w, http.StatusOK, models.LoginResponse{
		Success:     true,
		Role:        user.Role,
		RoleName:    user.Role.Name(),
		RedirectURL: user.Role.LandingPage(),
	})
}

// verify checks credentials with a constant-time bcrypt comparison.
func (h *Handlers) verify(r *http.Request, email, password string) (*models.User, error) {
	user, err := h.db.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			// Equalize timing with a real comparison.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Role.Valid() {
		// A row with a role outside the closed set never gets a session.
		logging.Warn().Int64("user_id", user.ID).Int("role", int(user.Role)).Msg("Rejecting login for unknown role")
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// VerifyCredentials re-checks a password for an already authenticated
// user. Destructive endpoints call this so a hijacked session alone is
// not enough to destroy data.
func (h *Handlers) VerifyCredentials(r *http.Request, email, password string) (*models.User, error) {
	return h.verify(r, email, password)
}

// Signup handles POST /signup.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	role, ok := models.ParseRoleID(req.Role)
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		logging.Error().Err(err).Msg("Password hashing failed")
		respondMessage(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	_, err = h.db.CreateUser(r.Context(), &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			respondMessage(w, http.StatusBadRequest, "Email already registered")
			return
		}
		logging.Error().Err(err).Msg("User insert failed")
		respondMessage(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("User registered successfully"))
}

// Logout handles GET /logout: destroy the session, clear the cookie,
// send the browser back to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := SessionFromContext(r.Context()); session != nil {
		if err := h.sessions.Store().Delete(r.Context(), session.ID); err != nil {
			logging.Error().Err(err).Msg("Session delete failed during logout")
		}
	}
	h.sessions.ClearSessionCookie(w)
	http.Redirect(w, r, "/login.html", http.StatusFound)
}

// CheckSession handles GET /api/check-session. It is reachable without a
// session; the response distinguishes the two cases.
func (h *Handlers) CheckSession(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		respondJSON(w, http.StatusOK, models.CheckSessionResponse{LoggedIn: false})
		return
	}

	respondJSON(w, http.StatusOK, models.CheckSessionResponse{
		LoggedIn: true,
		User: &models.SessionUser{
			ID:       session.UserID,
			Username: session.Username,
			Email:    session.Email,
			Role:     session.Role,
			RoleName: session.Role.Name(),
		},
	})
}

// respondJSON writes a JSON response body.
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Error encoding response")
	}
}

// respondMessage writes the {"message": ...} error body.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.MessageResponse{Message: message})
}
