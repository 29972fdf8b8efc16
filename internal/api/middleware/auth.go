package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/redact"
	"github.com/phrazzld/verba-api/internal/service/auth"
)

// AuthMiddleware authenticates requests by access token.
type AuthMiddleware struct {
	jwtService auth.JWTService
	revoker    auth.Revoker
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil revoker disables
// the revocation check.
func NewAuthMiddleware(jwtService auth.JWTService, revoker auth.Revoker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		revoker:    revoker,
	}
}

// Authenticate reads the access token from the Authorization header, or
// from the session cookie when the header is absent. Valid, unrevoked
// tokens put the user ID and claims into the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, problem := tokenFromRequest(r)
		if problem != "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, problem)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
				return
			}
			if revoked {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token revoked")
				return
			}
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = context.WithValue(ctx, shared.ClaimsContextKey, claims)
		log := logger.FromContextOrDefault(ctx, slog.Default()).With(slog.String("user_id", claims.UserID.String()))
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest returns the access token, or a client message saying
// why none could be read.
func tokenFromRequest(r *http.Request) (token, problem string) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", "Invalid authorization format"
		}
		return token, ""
	}
	if cookie, err := r.Cookie(shared.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, ""
	}
	return "", "Authorization header required"
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
