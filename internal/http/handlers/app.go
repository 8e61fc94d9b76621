package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"adstudio/internal/auth"
	"adstudio/internal/domain"
	"adstudio/internal/generate"
	"adstudio/internal/middleware"
	"adstudio/internal/providers/image"
)

// App is the handler container; main wires its dependencies.
type App struct {
	Logger    zerolog.Logger
	Users     domain.UserStore
	Videos    domain.VideoStore
	Tokens    *auth.TokenIssuer
	Google    auth.GoogleVerifier // nil when federated login is not configured
	Editor    image.Editor        // nil when the edit provider is not configured
	Generator *generate.Service
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
