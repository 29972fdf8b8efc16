package scoring

import (
	"errors"
	"time"

	"github.com/phrazzld/verba-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord = errors.New("tracking record cannot be nil")
)

// Service defines the interface for priority scoring operations
type Service interface {
	// Recompute returns the new score for a record. When heal is true the
	// heal formula is used, otherwise the post-attempt formula.
	Recompute(record *domain.TrackingRecord, heal bool, now time.Time) (float64, error)

	// NeedsHeal reports whether a record must be healed before a session.
	NeedsHeal(record *domain.TrackingRecord) bool

	// HealFloor returns the lowest score a record may hold before a session.
	HealFloor() float64

	// InitialScore returns the score assigned to new tracking records.
	InitialScore() float64
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Recompute implements the Service interface
func (s *defaultService) Recompute(record *domain.TrackingRecord, heal bool, now time.Time) (float64, error) {
	if record == nil {
		return 0, ErrNilRecord
	}

	if heal {
		return calculateHealScore(record, now, s.params), nil
	}
	return calculatePostAttemptScore(record, now, s.params), nil
}

// NeedsHeal implements the Service interface
func (s *defaultService) NeedsHeal(record *domain.TrackingRecord) bool {
	if record == nil {
		return false
	}
	return needsHeal(record, s.params)
}

// HealFloor implements the Service interface
func (s *defaultService) HealFloor() float64 {
	return s.params.HealFloor
}

// InitialScore implements the Service interface
func (s *defaultService) InitialScore() float64 {
	return s.params.InitialScore
}

// Heal is a convenience wrapper around Recompute with the heal formula.
func Heal(s Service, record *domain.TrackingRecord, now time.Time) (float64, error) {
	return s.Recompute(record, true, now)
}

// PostAttempt is a convenience wrapper around Recompute with the post-attempt formula.
func PostAttempt(s Service, record *domain.TrackingRecord, now time.Time) (float64, error) {
	return s.Recompute(record, false, now)
}
