package api

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/service"
)

var validate = validator.New()

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for register and login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UserResponse describes the authenticated user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// WordRequest is the body of word create and update requests. Translation
// is accepted alongside Translations for single-translation clients.
type WordRequest struct {
	Word         string   `json:"word"           validate:"required,max=255"`
	Translations []string `json:"translations"`
	Translation  string   `json:"translation"`
	PartOfSpeech string   `json:"part_of_speech" validate:"max=50"`
	Article      string   `json:"article"        validate:"max=20"`
}

// Validate requires at least one translation between the two fields.
func (r WordRequest) Validate() error {
	if strings.TrimSpace(r.Word) == "" {
		return domain.NewValidationError("word", "is required", domain.ErrEmptyContent)
	}
	if len(domain.NormalizeTranslations(r.allTranslations())) == 0 {
		return domain.NewValidationError("translations", "must contain at least one entry", domain.ErrEmptyContent)
	}
	return validate.Struct(r)
}

func (r WordRequest) allTranslations() []string {
	if r.Translation == "" {
		return r.Translations
	}
	return append(append([]string(nil), r.Translations...), r.Translation)
}

func (r WordRequest) toInput() service.WordInput {
	return service.WordInput{
		Word:         r.Word,
		Translations: r.allTranslations(),
		PartOfSpeech: r.PartOfSpeech,
		Article:      r.Article,
	}
}

// WordResponse is the client view of a word.
type WordResponse struct {
	ID           uuid.UUID `json:"id"`
	Word         string    `json:"word"`
	Translations []string  `json:"translations"`
	PartOfSpeech string    `json:"part_of_speech"`
	Article      string    `json:"article"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AddWordResponse reports whether AddWord created or merged the word.
type AddWordResponse struct {
	Word    WordResponse `json:"word"`
	Created bool         `json:"created"`
}

// ImportWordsRequest is the body of a bulk word import.
type ImportWordsRequest struct {
	Words []WordRequest `json:"words" validate:"required,min=1,max=5000"`
}

// ConjugationRequest is the body of conjugation create and update requests.
type ConjugationRequest struct {
	Verb        string `json:"verb"        validate:"required,max=100"`
	Person      string `json:"person"      validate:"required,max=50"`
	Tense       string `json:"tense"       validate:"required,max=100"`
	Conjugation string `json:"conjugation" validate:"required,max=255"`
	Irregular   bool   `json:"irregular"`
	Pronominal  bool   `json:"pronominal"`
	VerbGroup   int    `json:"verb_group"  validate:"gte=1,lte=3"`
}

func (r ConjugationRequest) toParams() domain.ConjugationParams {
	return domain.ConjugationParams{
		Verb:        r.Verb,
		Person:      r.Person,
		Tense:       r.Tense,
		Conjugation: r.Conjugation,
		Irregular:   r.Irregular,
		Pronominal:  r.Pronominal,
		VerbGroup:   r.VerbGroup,
	}
}

// ConjugationResponse is the client view of a conjugation.
type ConjugationResponse struct {
	ID          uuid.UUID `json:"id"`
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

// AddConjugationResponse reports whether the conjugation was created.
type AddConjugationResponse struct {
	Conjugation ConjugationResponse `json:"conjugation"`
	Created     bool                `json:"created"`
}

// ImportConjugationsRequest is the body of a bulk conjugation import.
type ImportConjugationsRequest struct {
	Conjugations []ConjugationRequest `json:"conjugations" validate:"required,min=1,max=5000"`
}

// StartWordGameRequest selects the words of a vocabulary game.
type StartWordGameRequest struct {
	PartsOfSpeech []string `json:"parts_of_speech"`
	Limit         *int     `json:"limit"`
	TimeLimit     *int     `json:"time_limit"`
}

// StartWordGameResponse carries the drawn words.
type StartWordGameResponse struct {
	Words     []WordResponse `json:"words"`
	TimeLimit int            `json:"time_limit"`
}

// StartConjugationGameRequest selects the conjugations of a conjugation game.
type StartConjugationGameRequest struct {
	Mode           string   `json:"mode"`
	Tenses         []string `json:"tenses"`
	Groups         []int    `json:"groups"`
	PronominalMode string   `json:"pronominal_mode"`
	Limit          *int     `json:"limit"`
	TimeLimit      *int     `json:"time_limit"`
}

// StartConjugationGameResponse carries the drawn conjugations.
type StartConjugationGameResponse struct {
	Conjugations []ConjugationResponse `json:"conjugations"`
	TimeLimit    int                   `json:"time_limit"`
}

// WordResult is one answered word.
type WordResult struct {
	WordID  uuid.UUID `json:"word_id" validate:"required"`
	Correct *bool     `json:"correct" validate:"required"`
}

// EndWordGameRequest is the client's summary of a vocabulary game.
type EndWordGameRequest struct {
	Results       []WordResult `json:"results"         validate:"dive"`
	TotalAttempts *int         `json:"total_attempts"`
	Score         *int         `json:"score"`
	TimeLimit     int          `json:"time_limit"`
	GameType      string       `json:"game_type"       validate:"max=50"`
	PartsOfSpeech []string     `json:"parts_of_speech"`
	ZenMode       bool         `json:"zen_mode"`
	Ungraded      bool         `json:"ungraded"`
}

// ConjugationResult is one answered conjugation.
type ConjugationResult struct {
	ID      uuid.UUID `json:"id"      validate:"required"`
	Correct *bool     `json:"correct" validate:"required"`
}

// EndConjugationGameRequest is the client's summary of a conjugation game.
type EndConjugationGameRequest struct {
	Results        []ConjugationResult `json:"results"         validate:"dive"`
	TotalAttempts  *int                `json:"total_attempts"`
	Score          *int                `json:"score"`
	CorrectAnswers *int                `json:"correct_answers"`
	TimeLimit      int                 `json:"time_limit"`
	Mode           string              `json:"mode"            validate:"max=20"`
	Tenses         []string            `json:"tenses"`
	Groups         []int               `json:"groups"`
	PronominalMode string              `json:"pronominal_mode" validate:"max=20"`
	ZenMode        bool                `json:"zen_mode"`
	Ungraded       bool                `json:"ungraded"`
}

// EndGameResponse reports what a finished game changed.
type EndGameResponse struct {
	RunID   uuid.UUID   `json:"run_id"`
	Updated int         `json:"updated"`
	Skipped []uuid.UUID `json:"skipped"`
}

func wordToResponse(w *domain.Word) WordResponse {
	return WordResponse{
		ID:           w.ID,
		Word:         w.Word,
		Translations: w.Translations,
		PartOfSpeech: w.PartOfSpeech,
		Article:      w.Article,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func wordsToResponse(words []*domain.Word) []WordResponse {
	out := make([]WordResponse, 0, len(words))
	for _, w := range words {
		out = append(out, wordToResponse(w))
	}
	return out
}

func conjugationToResponse(c *domain.Conjugation) ConjugationResponse {
	return ConjugationResponse{
		ID:          c.ID,
		Verb:        c.Verb,
		Person:      c.Person,
		Tense:       c.Tense,
		Conjugation: c.Conjugation,
		Irregular:   c.Irregular,
		Pronominal:  c.Pronominal,
		VerbGroup:   c.VerbGroup,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func conjugationsToResponse(cs []*domain.Conjugation) []ConjugationResponse {
	out := make([]ConjugationResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, conjugationToResponse(c))
	}
	return out
}

func runToResponse(rec *service.RunRecord) EndGameResponse {
	skipped := rec.Skipped
	if skipped == nil {
		skipped = []uuid.UUID{}
	}
	return EndGameResponse{
		RunID:   rec.Run.ID,
		Updated: len(rec.Updated),
		Skipped: skipped,
	}
}
