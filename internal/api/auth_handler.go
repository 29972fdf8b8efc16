package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/config"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/service/auth"
)

// AuthHandler handles registration, login, token refresh and logout.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
	revoker     auth.Revoker
	authConfig  *config.AuthConfig
	logger      *slog.Logger
	timeFunc    func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	revoker auth.Revoker,
	authConfig *config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		revoker:     revoker,
		authConfig:  authConfig,
		logger:      logger.With(slog.String("component", "auth_handler")),
		timeFunc:    time.Now,
	}
}

// WithTimeFunc replaces the clock used for expiry timestamps.
func (h *AuthHandler) WithTimeFunc(now func() time.Time) *AuthHandler {
	h.timeFunc = now
	return h
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	h.issueTokens(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login. The access token is returned in the
// body and set as the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Debug("login rejected", slog.String("username", req.Username))
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.issueTokens(w, r, http.StatusOK, user)
}

// RefreshToken handles POST /api/auth/refresh by rotating the token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		log.Debug("refresh token rejected", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if revoked, err := h.revoker.IsRevoked(r.Context(), claims.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	} else if revoked {
		HandleAPIError(w, r, auth.ErrInvalidRefreshToken, "")
		return
	}

	pair, err := h.generatePair(r, claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	// The old refresh token must not be usable twice.
	if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt); err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	h.setSessionCookie(w, pair.access)
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		ExpiresAt:    pair.expiresAt,
	})
}

// Logout handles POST /api/auth/logout. It revokes the presented access
// token until it expires and clears the session cookie. The route sits
// behind the auth middleware, so the claims are always present.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := r.Context().Value(shared.ClaimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	h.clearSessionCookie(w)
	log.Debug("user logged out", slog.String("user_id", claims.UserID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

type tokenPair struct {
	access    string
	refresh   string
	expiresAt string
}

func (h *AuthHandler) generatePair(r *http.Request, userID uuid.UUID) (*tokenPair, error) {
	access, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	expiresAt := h.timeFunc().Add(h.accessLifetime()).UTC().Format(time.RFC3339)
	return &tokenPair{access: access, refresh: refresh, expiresAt: expiresAt}, nil
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	pair, err := h.generatePair(r, user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	h.setSessionCookie(w, pair.access)
	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       user.ID,
		Username:     user.Username,
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		ExpiresAt:    pair.expiresAt,
	})
}

func (h *AuthHandler) accessLifetime() time.Duration {
	return time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.accessLifetime().Seconds()),
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
