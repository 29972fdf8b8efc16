package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultArticle is stored when a word has no grammatical article.
const DefaultArticle = "none"

// Word is a vocabulary entry owned by a user.
type Word struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Word         string    `json:"word"`
	Translations []string  `json:"translations"`
	PartOfSpeech string    `json:"part_of_speech"`
	Article      string    `json:"article"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewWord creates a new Word with normalized fields and a fresh ID.
// Returns an error if validation fails.
func NewWord(userID uuid.UUID, word string, translations []string, partOfSpeech, article string) (*Word, error) {
	now := time.Now().UTC()
	w := &Word{
		ID:           uuid.New(),
		UserID:       userID,
		Word:         strings.TrimSpace(word),
		Translations: NormalizeTranslations(translations),
		PartOfSpeech: strings.TrimSpace(partOfSpeech),
		Article:      normalizeArticle(article),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	return w, nil
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if w.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if w.Word == "" {
		return NewValidationError("word", "cannot be empty", ErrEmptyContent)
	}
	if len(w.Translations) == 0 {
		return NewValidationError("translations", "must contain at least one entry", ErrEmptyContent)
	}
	return nil
}

// MergeTranslations appends translations not already present on the word
// and reports whether anything changed. Comparison is case-insensitive.
func (w *Word) MergeTranslations(translations []string) bool {
	seen := make(map[string]struct{}, len(w.Translations))
	for _, t := range w.Translations {
		seen[strings.ToLower(t)] = struct{}{}
	}

	changed := false
	for _, t := range NormalizeTranslations(translations) {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		w.Translations = append(w.Translations, t)
		changed = true
	}

	if changed {
		w.UpdatedAt = time.Now().UTC()
	}
	return changed
}

// Update replaces the editable fields of the word.
func (w *Word) Update(word string, translations []string, partOfSpeech, article string) error {
	w.Word = strings.TrimSpace(word)
	w.Translations = NormalizeTranslations(translations)
	w.PartOfSpeech = strings.TrimSpace(partOfSpeech)
	w.Article = normalizeArticle(article)
	w.UpdatedAt = time.Now().UTC()
	return w.Validate()
}

// NormalizeTranslations trims entries and drops blanks and duplicates,
// keeping the first occurrence of each.
func NormalizeTranslations(translations []string) []string {
	out := make([]string, 0, len(translations))
	seen := make(map[string]struct{}, len(translations))
	for _, t := range translations {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeArticle(article string) string {
	article = strings.TrimSpace(article)
	if article == "" {
		return DefaultArticle
	}
	return article
}
