package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"procure-notify/internal/handler/http/requestid"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

const tokenTTL = 1 * time.Hour

// TokenHandler authenticates against the provider and issues an HS256 JWT
// carrying the caller's identity and role.
func TokenHandler(provider *EnvProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RecordAuthRequest("unknown", "failure")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		role, err := provider.Authenticate(r.Context(), Credentials{
			Username: req.Email,
			Password: req.Password,
		})
		if err != nil {
			logger.Warn("authentication failed",
				slog.String("reason", "invalid_credentials"),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			RecordAuthRequest("unknown", "failure")
			RecordAuthDuration("unknown", time.Since(start).Seconds())
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		secret := []byte(os.Getenv("JWT_SECRET"))
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  req.Email,
			"role": role,
			"exp":  time.Now().Add(tokenTTL).Unix(),
		})

		signed, err := token.SignedString(secret)
		if err != nil {
			logger.Error("token generation failed",
				slog.String("error", err.Error()))
			RecordAuthRequest(role, "failure")
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}

		logger.Info("authentication successful",
			slog.String("user", req.Email),
			slog.String("role", role),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordAuthRequest(role, "success")
		RecordAuthDuration(role, time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tokenResponse{Token: signed}); err != nil {
			logger.Error("failed to encode token response",
				slog.String("error", err.Error()))
		}
	}
}
