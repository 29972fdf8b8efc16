package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verb groups follow the French convention of three conjugation groups.
const (
	MinVerbGroup = 1
	MaxVerbGroup = 3
)

// Conjugation is a single conjugated form of a verb owned by a user.
type Conjugation struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Verb        string    `json:"verb"`
	Person      string    `json:"person"`
	Tense       string    `json:"tense"`
	Conjugation string    `json:"conjugation"`
	Irregular   bool      `json:"irregular"`
	Pronominal  bool      `json:"pronominal"`
	VerbGroup   int       `json:"verb_group"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConjugationParams carries the editable fields of a conjugation.
type ConjugationParams struct {
	Verb        string
	Person      string
	Tense       string
	Conjugation string
	Irregular   bool
	Pronominal  bool
	VerbGroup   int
}

// normalize lowercases and trims the text fields.
func (p ConjugationParams) normalize() ConjugationParams {
	p.Verb = normalizeConjugationText(p.Verb)
	p.Person = normalizeConjugationText(p.Person)
	p.Tense = normalizeConjugationText(p.Tense)
	p.Conjugation = normalizeConjugationText(p.Conjugation)
	return p
}

// NewConjugation creates a new Conjugation from params.
// Returns an error if validation fails.
func NewConjugation(userID uuid.UUID, params ConjugationParams) (*Conjugation, error) {
	now := time.Now().UTC()
	c := &Conjugation{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.apply(params.normalize())

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Update replaces the editable fields of the conjugation.
func (c *Conjugation) Update(params ConjugationParams) error {
	c.apply(params.normalize())
	c.UpdatedAt = time.Now().UTC()
	return c.Validate()
}

func (c *Conjugation) apply(p ConjugationParams) {
	c.Verb = p.Verb
	c.Person = p.Person
	c.Tense = p.Tense
	c.Conjugation = p.Conjugation
	c.Irregular = p.Irregular
	c.Pronominal = p.Pronominal
	c.VerbGroup = p.VerbGroup
}

// Validate checks if the Conjugation has valid data.
func (c *Conjugation) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if c.Verb == "" {
		return NewValidationError("verb", "cannot be empty", ErrEmptyContent)
	}
	if c.Person == "" {
		return NewValidationError("person", "cannot be empty", ErrEmptyContent)
	}
	if c.Tense == "" {
		return NewValidationError("tense", "cannot be empty", ErrEmptyContent)
	}
	if c.Conjugation == "" {
		return NewValidationError("conjugation", "cannot be empty", ErrEmptyContent)
	}
	if c.VerbGroup < MinVerbGroup || c.VerbGroup > MaxVerbGroup {
		return NewValidationError("verb_group", "must be between 1 and 3", nil)
	}
	return nil
}

func normalizeConjugationText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
