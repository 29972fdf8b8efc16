package scoring

import (
	"fmt"
	"time"
)

// Params defines all configurable parameters for priority scoring
type Params struct {
	// HealFloor is the lowest score a record may hold before a session.
	// Records below it are recomputed with the heal formula.
	HealFloor float64

	// AttemptFloor is the base and lower bound of the post-attempt formula.
	AttemptFloor float64

	// MistakeWeight is the score added per recorded mistake.
	MistakeWeight float64

	// InitialScore is assigned to newly created tracking records.
	InitialScore float64

	// NeverAccessedEpoch stands in for last_accessed on records that
	// have never been played, so dormant records get a large boost.
	NeverAccessedEpoch time.Time
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	HealFloor          float64
	AttemptFloor       float64
	MistakeWeight      float64
	InitialScore       float64
	NeverAccessedEpoch time.Time
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		HealFloor:          1,
		AttemptFloor:       3,
		MistakeWeight:      2,
		InitialScore:       5,
		NeverAccessedEpoch: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values in config keep the defaults.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if config.HealFloor > 0 {
		params.HealFloor = config.HealFloor
	}
	if config.AttemptFloor > 0 {
		params.AttemptFloor = config.AttemptFloor
	}
	if config.MistakeWeight > 0 {
		params.MistakeWeight = config.MistakeWeight
	}
	if config.InitialScore > 0 {
		params.InitialScore = config.InitialScore
	}
	if !config.NeverAccessedEpoch.IsZero() {
		params.NeverAccessedEpoch = config.NeverAccessedEpoch.UTC()
	}

	if params.AttemptFloor < params.HealFloor {
		return nil, fmt.Errorf(
			"attempt floor %.2f cannot be lower than heal floor %.2f",
			params.AttemptFloor,
			params.HealFloor,
		)
	}
	if params.InitialScore < params.HealFloor {
		return nil, fmt.Errorf(
			"initial score %.2f cannot be lower than heal floor %.2f",
			params.InitialScore,
			params.HealFloor,
		)
	}

	return params, nil
}
