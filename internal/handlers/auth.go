package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ecotrack-backend/internal/apperr"
	"ecotrack-backend/internal/auth"

	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for login requests.
type TokenIssuer interface {
	Issue(creds auth.Credentials) (string, error)
}

type AuthHandler struct {
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthHandler(tokens TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		log:    log,
	}
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// --- POST /api/login ---
// Demo trust model: any non-empty username/password pair gets a token.

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password required", "invalid request body")
		return
	}

	token, err := h.tokens.Issue(creds)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, "Username and password required", "")
			return
		}
		h.log.Error("sign access token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	h.log.Info("access token issued", zap.String("username", creds.Username))
	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
