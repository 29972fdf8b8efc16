package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/api/shared"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockVocabularyService struct {
	addFn    func(ctx context.Context, userID uuid.UUID, in service.WordInput) (*domain.Word, bool, error)
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error)
	getFn    func(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error)
	updateFn func(ctx context.Context, userID, wordID uuid.UUID, in service.WordInput) (*domain.Word, error)
	deleteFn func(ctx context.Context, userID, wordID uuid.UUID) error
	importFn func(ctx context.Context, userID uuid.UUID, rows []service.WordInput) (*service.ImportSummary, error)
}

func (m *mockVocabularyService) AddWord(
	ctx context.Context,
	userID uuid.UUID,
	in service.WordInput,
) (*domain.Word, bool, error) {
	return m.addFn(ctx, userID, in)
}

func (m *mockVocabularyService) ListWords(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	return m.listFn(ctx, userID)
}

func (m *mockVocabularyService) GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error) {
	return m.getFn(ctx, userID, wordID)
}

func (m *mockVocabularyService) UpdateWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	in service.WordInput,
) (*domain.Word, error) {
	return m.updateFn(ctx, userID, wordID, in)
}

func (m *mockVocabularyService) DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error {
	return m.deleteFn(ctx, userID, wordID)
}

func (m *mockVocabularyService) ImportWords(
	ctx context.Context,
	userID uuid.UUID,
	rows []service.WordInput,
) (*service.ImportSummary, error) {
	return m.importFn(ctx, userID, rows)
}

type mockConjugationService struct {
	addFn    func(ctx context.Context, userID uuid.UUID, p domain.ConjugationParams) (*domain.Conjugation, bool, error)
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error)
	getFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error)
	updateFn func(ctx context.Context, userID, id uuid.UUID, p domain.ConjugationParams) (*domain.Conjugation, error)
	deleteFn func(ctx context.Context, userID, id uuid.UUID) error
	importFn func(ctx context.Context, userID uuid.UUID, rows []domain.ConjugationParams) (*service.ImportSummary, error)
}

func (m *mockConjugationService) AddConjugation(
	ctx context.Context,
	userID uuid.UUID,
	p domain.ConjugationParams,
) (*domain.Conjugation, bool, error) {
	return m.addFn(ctx, userID, p)
}

func (m *mockConjugationService) ListConjugations(ctx context.Context, userID uuid.UUID) ([]*domain.Conjugation, error) {
	return m.listFn(ctx, userID)
}

func (m *mockConjugationService) GetConjugation(ctx context.Context, userID, id uuid.UUID) (*domain.Conjugation, error) {
	return m.getFn(ctx, userID, id)
}

func (m *mockConjugationService) UpdateConjugation(
	ctx context.Context,
	userID, id uuid.UUID,
	p domain.ConjugationParams,
) (*domain.Conjugation, error) {
	return m.updateFn(ctx, userID, id, p)
}

func (m *mockConjugationService) DeleteConjugation(ctx context.Context, userID, id uuid.UUID) error {
	return m.deleteFn(ctx, userID, id)
}

func (m *mockConjugationService) ImportConjugations(
	ctx context.Context,
	userID uuid.UUID,
	rows []domain.ConjugationParams,
) (*service.ImportSummary, error) {
	return m.importFn(ctx, userID, rows)
}

type mockGameService struct {
	startWordsFn func(ctx context.Context, userID uuid.UUID, req service.WordGameRequest) (*service.WordGame, error)
	startConjFn  func(ctx context.Context, userID uuid.UUID, req service.ConjugationGameRequest) (*service.ConjugationGame, error)
	endWordsFn   func(ctx context.Context, userID uuid.UUID, meta domain.RunMetadata, outcomes []domain.Outcome) (*service.RunRecord, error)
	endConjFn    func(ctx context.Context, userID uuid.UUID, meta domain.RunMetadata, outcomes []domain.Outcome) (*service.RunRecord, error)
}

func (m *mockGameService) StartWordGame(
	ctx context.Context,
	userID uuid.UUID,
	req service.WordGameRequest,
) (*service.WordGame, error) {
	return m.startWordsFn(ctx, userID, req)
}

func (m *mockGameService) StartConjugationGame(
	ctx context.Context,
	userID uuid.UUID,
	req service.ConjugationGameRequest,
) (*service.ConjugationGame, error) {
	return m.startConjFn(ctx, userID, req)
}

func (m *mockGameService) EndWordGame(
	ctx context.Context,
	userID uuid.UUID,
	meta domain.RunMetadata,
	outcomes []domain.Outcome,
) (*service.RunRecord, error) {
	return m.endWordsFn(ctx, userID, meta, outcomes)
}

func (m *mockGameService) EndConjugationGame(
	ctx context.Context,
	userID uuid.UUID,
	meta domain.RunMetadata,
	outcomes []domain.Outcome,
) (*service.RunRecord, error) {
	return m.endConjFn(ctx, userID, meta, outcomes)
}

type mockStatsService struct {
	getFn func(ctx context.Context, userID uuid.UUID, r service.StatsRange) (*service.Stats, error)
}

func (m *mockStatsService) GetStats(ctx context.Context, userID uuid.UUID, r service.StatsRange) (*service.Stats, error) {
	return m.getFn(ctx, userID, r)
}

type mockUserService struct {
	registerFn     func(ctx context.Context, username, password string) (*domain.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	getFn          func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *mockUserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return m.registerFn(ctx, username, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return m.authenticateFn(ctx, username, password)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.getFn(ctx, userID)
}

func (m *mockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, nil
}

var (
	_ service.VocabularyService  = (*mockVocabularyService)(nil)
	_ service.ConjugationService = (*mockConjugationService)(nil)
	_ service.GameService        = (*mockGameService)(nil)
	_ service.StatsService       = (*mockStatsService)(nil)
	_ service.UserService        = (*mockUserService)(nil)
)

// newJSONRequest builds a request with a JSON body, an authenticated user
// and optional chi path parameters.
func newJSONRequest(
	t *testing.T,
	method, target string,
	body any,
	userID uuid.UUID,
	params map[string]string,
) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = shared.WithUserID(ctx, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
