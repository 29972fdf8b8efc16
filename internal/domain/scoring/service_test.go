package scoring

import (
	"testing"
	"time"

	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Recompute(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Recompute(nil, true, now)
		assert.ErrorIs(t, err, ErrNilRecord)
	})

	t.Run("incorrect attempt scenario", func(t *testing.T) {
		t.Parallel()
		record := &domain.TrackingRecord{
			TotalAttempts:     1,
			MistakeTimestamps: []time.Time{now},
			LastAccessed:      timePtr(now),
		}
		score, err := PostAttempt(svc, record, now)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, score, 1e-9)
	})

	t.Run("correct attempt scenario", func(t *testing.T) {
		t.Parallel()
		record := &domain.TrackingRecord{
			TotalAttempts: 1,
			LastAccessed:  timePtr(now),
		}
		score, err := PostAttempt(svc, record, now)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, score, 1e-9)
	})

	t.Run("heal is idempotent under a fixed clock", func(t *testing.T) {
		t.Parallel()
		record := &domain.TrackingRecord{
			TotalAttempts:     3,
			MistakeTimestamps: make([]time.Time, 2),
			LastAccessed:      timePtr(now.Add(-90 * time.Minute)),
			Score:             0.5,
		}
		require.True(t, svc.NeedsHeal(record))

		first, err := Heal(svc, record, now)
		require.NoError(t, err)
		record.Score = first
		assert.InDelta(t, 6.5, first, 1e-9) // 1 + 2*2 + 1.5
		assert.False(t, svc.NeedsHeal(record))

		second, err := Heal(svc, record, now)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestService_Accessors(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	assert.Equal(t, 1.0, svc.HealFloor())
	assert.Equal(t, 5.0, svc.InitialScore())
	assert.False(t, svc.NeedsHeal(nil))

	params, err := NewParams(ParamsConfig{HealFloor: 2, AttemptFloor: 3})
	require.NoError(t, err)
	custom := NewServiceWithParams(params)
	assert.Equal(t, 2.0, custom.HealFloor())

	assert.Equal(t, 1.0, NewServiceWithParams(nil).HealFloor())
}
