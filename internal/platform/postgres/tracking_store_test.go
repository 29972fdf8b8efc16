package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresTrackingStore_RecordAttempt(t *testing.T) {
	t.Parallel()

	userID, itemID := uuid.New(), uuid.New()
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	cols := []string{"word_id", "user_id", "total_attempts", "mistake_timestamps", "last_accessed", "score"}

	t.Run("incorrect attempt returns the appended mistake", func(t *testing.T) {
		t.Parallel()

		db, mock := newMock(t)
		s := NewPostgresTrackingStore(db, nil)

		mock.ExpectQuery(`UPDATE word_tracking\s+SET total_attempts = total_attempts \+ 1`).
			WithArgs(userID, itemID, false, at).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(itemID.String(), userID.String(), int64(1), `{"2025-03-14 09:26:53+00"}`, at, 5.0))

		rec, err := s.RecordAttempt(context.Background(), userID, domain.KindWord, itemID, false, at)
		require.NoError(t, err)
		assert.Equal(t, domain.KindWord, rec.Kind)
		assert.Equal(t, 1, rec.TotalAttempts)
		require.Len(t, rec.MistakeTimestamps, 1)
		assert.True(t, at.Equal(rec.MistakeTimestamps[0]))
		require.NotNil(t, rec.LastAccessed)
		assert.True(t, at.Equal(*rec.LastAccessed))
	})

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()

		db, mock := newMock(t)
		s := NewPostgresTrackingStore(db, nil)

		mock.ExpectQuery("UPDATE conjugation_tracking").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := s.RecordAttempt(context.Background(), userID, domain.KindConjugation, itemID, true, at)
		assert.ErrorIs(t, err, store.ErrTrackingNotFound)
	})

	t.Run("unknown kind never reaches the database", func(t *testing.T) {
		t.Parallel()

		db, _ := newMock(t)
		s := NewPostgresTrackingStore(db, nil)

		_, err := s.RecordAttempt(context.Background(), userID, domain.ItemKind("phrase"), itemID, true, at)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPostgresTrackingStore_ListBelowFloor(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := NewPostgresTrackingStore(db, nil)

	userID := uuid.New()
	cols := []string{"word_id", "user_id", "total_attempts", "mistake_timestamps", "last_accessed", "score"}

	mock.ExpectQuery(`FROM word_tracking\s+WHERE user_id = \$1 AND \(score IS NULL OR score < \$2\)[\s\S]*FOR UPDATE`).
		WithArgs(userID, 1.0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), userID.String(), int64(0), "{}", nil, nil).
			AddRow(uuid.NewString(), userID.String(), int64(4), "{}", time.Now(), 0.5))

	records, err := s.ListBelowFloor(context.Background(), userID, domain.KindWord, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Nil(t, records[0].LastAccessed)
	assert.Zero(t, records[0].Score, "NULL score reads as 0")
	assert.Empty(t, records[0].MistakeTimestamps)
	assert.InDelta(t, 0.5, records[1].Score, 1e-9)
}

func TestPostgresTrackingStore_CheckIntegrity(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := NewPostgresTrackingStore(db, nil)

	userID := uuid.New()
	mock.ExpectQuery(`FROM conjugation_tracking t`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"orphaned", "untracked"}).AddRow(int64(2), int64(0)))

	report, err := s.CheckIntegrity(context.Background(), userID, domain.KindConjugation)
	require.NoError(t, err)
	assert.Equal(t, 2, report.OrphanedTracking)
	assert.Zero(t, report.UntrackedItems)
	assert.False(t, report.Consistent())
}

func TestPostgresTrackingStore_UpdateScore(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := NewPostgresTrackingStore(db, nil)

	userID, itemID := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE word_tracking SET score = \$3 WHERE user_id = \$1 AND word_id = \$2`).
		WithArgs(userID, itemID, 7.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateScore(context.Background(), userID, domain.KindWord, itemID, 7))

	mock.ExpectExec("UPDATE word_tracking").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.UpdateScore(context.Background(), userID, domain.KindWord, itemID, 7), store.ErrTrackingNotFound)
}

func TestPostgresTrackingStore_Create(t *testing.T) {
	t.Parallel()

	db, mock := newMock(t)
	s := NewPostgresTrackingStore(db, nil)

	rec := &domain.TrackingRecord{
		ItemID: uuid.New(),
		UserID: uuid.New(),
		Kind:   domain.KindConjugation,
		Score:  5,
	}

	mock.ExpectExec(`INSERT INTO conjugation_tracking \(conjugation_id`).
		WithArgs(rec.ItemID, rec.UserID, 0, []time.Time{}, nil, 5.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Create(context.Background(), rec))
}
