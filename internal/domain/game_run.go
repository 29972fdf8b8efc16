package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of a single attempt reported at the end of a game.
type Outcome struct {
	ItemID  uuid.UUID
	Correct bool
}

// RunMetadata is the client-reported summary of a finished game.
// The count fields are pointers so that a missing value can be told
// apart from zero.
type RunMetadata struct {
	TotalAttempted   *int
	TotalCorrect     *int
	TimeLimitSeconds int
	ZenMode          bool
	Ungraded         bool

	// Word games
	GameType      string
	PartsOfSpeech []string

	// Conjugation games
	Mode           string
	CorrectAnswers int
	Tenses         []string
	Groups         []int
	PronominalMode string
}

// GameRun is the immutable record of one completed game session.
type GameRun struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Kind             ItemKind
	TimeLimitSeconds int
	ZenMode          bool
	Ungraded         bool
	TotalAttempted   int
	TotalCorrect     int

	GameType      string
	PartsOfSpeech []string

	Mode           string
	CorrectAnswers int
	Tenses         []string
	Groups         []int
	PronominalMode string

	CreatedAt time.Time
}

// Accuracy returns the share of attempted items answered correctly.
func (r *GameRun) Accuracy() float64 {
	if r.TotalAttempted <= 0 {
		return 0
	}
	return float64(r.TotalCorrect) / float64(r.TotalAttempted)
}

// NewGameRun validates the metadata and builds a run record stamped at now.
func NewGameRun(userID uuid.UUID, kind ItemKind, meta RunMetadata, now time.Time) (*GameRun, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if !kind.Valid() {
		return nil, NewValidationError("kind", "is not a known item kind", nil)
	}
	if meta.TotalAttempted == nil {
		return nil, NewValidationError("total_attempts", "is required", nil)
	}
	if meta.TotalCorrect == nil {
		return nil, NewValidationError("score", "is required", nil)
	}
	if *meta.TotalAttempted < 0 {
		return nil, NewValidationError("total_attempts", "cannot be negative", nil)
	}
	if *meta.TotalCorrect < 0 {
		return nil, NewValidationError("score", "cannot be negative", nil)
	}
	if meta.TimeLimitSeconds < 0 {
		return nil, NewValidationError("time_limit", "cannot be negative", nil)
	}
	if meta.CorrectAnswers < 0 {
		return nil, NewValidationError("correct_answers", "cannot be negative", nil)
	}

	return &GameRun{
		ID:               uuid.New(),
		UserID:           userID,
		Kind:             kind,
		TimeLimitSeconds: meta.TimeLimitSeconds,
		ZenMode:          meta.ZenMode,
		Ungraded:         meta.Ungraded,
		TotalAttempted:   *meta.TotalAttempted,
		TotalCorrect:     *meta.TotalCorrect,
		GameType:         meta.GameType,
		PartsOfSpeech:    meta.PartsOfSpeech,
		Mode:             meta.Mode,
		CorrectAnswers:   meta.CorrectAnswers,
		Tenses:           meta.Tenses,
		Groups:           meta.Groups,
		PronominalMode:   meta.PronominalMode,
		CreatedAt:        now.UTC(),
	}, nil
}
