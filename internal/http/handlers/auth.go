package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"adstudio/internal/auth"
	"adstudio/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Credential string `json:"credential"`
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to register")
		return
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.error(w, http.StatusBadRequest, "email_taken", "User with this email already exists")
			return
		}
		a.Logger.Error().Err(err).Msg("create user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to register")
		return
	}
	a.respondWithToken(w, http.StatusCreated, user)
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}
	user, err := a.Users.GetByEmail(r.Context(), req.Email)
	if err != nil || !user.HasPassword() {
		a.error(w, http.StatusBadRequest, "invalid_credentials", "Invalid credentials")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_credentials", "Invalid credentials")
		return
	}
	a.respondWithToken(w, http.StatusOK, user)
}

func (a *App) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if a.Google == nil {
		a.error(w, http.StatusServiceUnavailable, "not_configured", "federated login is not configured")
		return
	}
	var req googleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Credential == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "credential required")
		return
	}
	identity, err := a.Google.Verify(r.Context(), req.Credential)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("google credential rejected")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid google credential")
		return
	}
	user, err := a.Users.UpsertByGoogleSub(r.Context(), &domain.User{
		ID:        uuid.NewString(),
		Email:     identity.Email,
		GoogleSub: identity.Sub,
		CreatedAt: time.Now(),
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("upsert google user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign in")
		return
	}
	a.respondWithToken(w, http.StatusOK, user)
}

func (a *App) respondWithToken(w http.ResponseWriter, status int, user *domain.User) {
	token, err := a.Tokens.Sign(user.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, status, authResponse{
		Token: token,
		User:  userDTO{ID: user.ID, Email: user.Email},
	})
}
