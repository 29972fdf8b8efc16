package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/config"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/service/auth"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			LogLevel:       "error",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth: config.AuthConfig{
			JWTSecret:                   "test-secret-that-is-at-least-32-characters",
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 120,
			BCryptCost:                  4,
			LoginRatePerMinute:          1,
			LoginBurst:                  2,
		},
		Game: config.GameConfig{
			DefaultPoolLimit:        500,
			MaxPoolLimit:            1000,
			DefaultTimeLimitSeconds: 300,
		},
	}
}

// stubUsers resolves a single known user. Unimplemented methods panic
// through the embedded nil interface.
type stubUsers struct {
	service.UserService
	user *domain.User
}

func (s *stubUsers) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	if s.user != nil && s.user.Username == username {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUsers) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

type stubVocabulary struct {
	service.VocabularyService
	owner    uuid.UUID
	imported []service.WordInput
	summary  *service.ImportSummary
}

func (s *stubVocabulary) ListWords(context.Context, uuid.UUID) ([]*domain.Word, error) {
	return nil, nil
}

func (s *stubVocabulary) ImportWords(
	_ context.Context,
	userID uuid.UUID,
	rows []service.WordInput,
) (*service.ImportSummary, error) {
	s.owner = userID
	s.imported = rows
	return s.summary, nil
}

type stubConjugations struct {
	service.ConjugationService
	imported []domain.ConjugationParams
}

func (s *stubConjugations) ImportConjugations(
	_ context.Context,
	_ uuid.UUID,
	rows []domain.ConjugationParams,
) (*service.ImportSummary, error) {
	s.imported = rows
	return &service.ImportSummary{Created: len(rows)}, nil
}

// newTestApplication builds an application without a database.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	cfg := testConfig()
	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	user := &domain.User{ID: uuid.New(), Username: "alice"}
	return &application{
		config:       cfg,
		logger:       discardLogger,
		jwtService:   jwtService,
		revoker:      auth.NewMemoryRevoker(),
		userService:  &stubUsers{user: user},
		vocabulary:   &stubVocabulary{summary: &service.ImportSummary{}},
		conjugations: &stubConjugations{},
	}
}
