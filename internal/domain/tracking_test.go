package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTrackingRecord_Validate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	valid := TrackingRecord{
		ItemID:            uuid.New(),
		UserID:            uuid.New(),
		Kind:              KindWord,
		TotalAttempts:     2,
		MistakeTimestamps: []time.Time{now},
		Score:             5,
	}
	assert.NoError(t, valid.Validate())

	tooManyMistakes := valid
	tooManyMistakes.MistakeTimestamps = []time.Time{now, now, now}
	assert.ErrorIs(t, tooManyMistakes.Validate(), ErrValidation)

	negative := valid
	negative.TotalAttempts = -1
	assert.ErrorIs(t, negative.Validate(), ErrValidation)

	noKind := valid
	noKind.Kind = ""
	assert.ErrorIs(t, noKind.Validate(), ErrValidation)
}

func TestTrackingRecord_Accuracy(t *testing.T) {
	t.Parallel()

	r := TrackingRecord{TotalAttempts: 4, MistakeTimestamps: make([]time.Time, 1)}
	assert.InDelta(t, 0.75, r.Accuracy(), 1e-9)
	assert.Equal(t, 1, r.MistakeCount())

	var fresh TrackingRecord
	assert.Zero(t, fresh.Accuracy())
	assert.Zero(t, fresh.MistakeCount())
}

func TestDataIntegrityError(t *testing.T) {
	t.Parallel()

	err := &DataIntegrityError{Kind: KindConjugation, OrphanedTracking: 2, UntrackedItems: 1}
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Contains(t, err.Error(), "conjugation")
	assert.Contains(t, err.Error(), "2 orphaned")
}
