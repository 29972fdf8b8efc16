package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresGameRunStore_Create(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := NewPostgresGameRunStore(db, nil)

	attempted, correct := 10, 8
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()

	word, err := domain.NewGameRun(userID, domain.KindWord, domain.RunMetadata{
		TotalAttempted: &attempted, TotalCorrect: &correct, TimeLimitSeconds: 60, GameType: "translation",
	}, now)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO word_game_runs").
		WithArgs(word.ID, userID, "translation", 60, false, false, 10, 8, []string{}, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Create(context.Background(), word))

	conj, err := domain.NewGameRun(userID, domain.KindConjugation, domain.RunMetadata{
		TotalAttempted: &attempted, TotalCorrect: &correct, Tenses: []string{"présent"}, Groups: []int{1},
	}, now)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO conjugation_game_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Create(context.Background(), conj))
}

func TestPostgresGameRunStore_List(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := NewPostgresGameRunStore(db, nil)

	userID := uuid.New()
	since := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM conjugation_game_runs\s+WHERE user_id = \$1 AND created_at >= \$2`).
		WithArgs(userID, since).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "mode", "time_limit_seconds", "zen_mode", "ungraded",
			"total_attempted", "total_correct", "correct_answers", "tenses", "verb_groups",
			"pronominal_mode", "created_at",
		}).AddRow(uuid.NewString(), userID.String(), "irregular", int64(300), false, true,
			int64(12), int64(9), int64(9), "{présent,imparfait}", "{1,3}", "both", since.Add(time.Hour)))

	runs, err := s.List(context.Background(), userID, domain.KindConjugation, since)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, domain.KindConjugation, run.Kind)
	assert.True(t, run.Ungraded)
	assert.Equal(t, []string{"présent", "imparfait"}, run.Tenses)
	assert.Equal(t, []int{1, 3}, run.Groups)
	assert.Equal(t, 300, run.TimeLimitSeconds)
}
