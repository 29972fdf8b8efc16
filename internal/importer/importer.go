package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/xuri/excelize/v2"
)

// DefaultStartRow skips a single header row.
const DefaultStartRow = 2

// translationSeparator splits the translations cell.
const translationSeparator = ";"

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options selects the rows to read from a file.
type Options struct {
	Path     string
	Sheet    string // xlsx only; empty means the first sheet
	StartRow int    // 1-based; values below 1 mean DefaultStartRow
}

// RowError reports a row that could not be parsed.
type RowError struct {
	Row int // 1-based row number in the file
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Word columns: A=word, B=translations, C=part of speech, D=article.
const (
	colWord = iota
	colTranslations
	colPartOfSpeech
	colArticle
)

// Conjugation columns: A=verb, B=person, C=tense, D=conjugation,
// E=irregular, F=pronominal, G=group.
const (
	colVerb = iota
	colPerson
	colTense
	colConjugation
	colIrregular
	colPronominal
	colGroup
)

// Words is the parsed content of a word file.
type Words struct {
	Rows     []service.WordInput
	Lines    []int // file row of each entry in Rows
	Problems []*RowError
}

// Conjugations is the parsed content of a conjugation file.
type Conjugations struct {
	Rows     []domain.ConjugationParams
	Lines    []int
	Problems []*RowError
}

// Line returns the file row of the i-th parsed entry, or 0 when i is out
// of range.
func (w *Words) Line(i int) int { return lineAt(w.Lines, i) }

// Line returns the file row of the i-th parsed entry, or 0 when i is out
// of range.
func (c *Conjugations) Line(i int) int { return lineAt(c.Lines, i) }

func lineAt(lines []int, i int) int {
	if i < 0 || i >= len(lines) {
		return 0
	}
	return lines[i]
}

// ReadWords parses word rows. Blank rows are skipped silently; rows that
// fail to parse are reported in Problems.
func ReadWords(opts Options) (*Words, error) {
	rows, err := readRows(opts)
	if err != nil {
		return nil, err
	}

	out := &Words{}
	for _, r := range rows {
		word := cell(r.cells, colWord)
		if word == "" {
			out.Problems = append(out.Problems, &RowError{Row: r.number, Err: errors.New("word is empty")})
			continue
		}
		out.Rows = append(out.Rows, service.WordInput{
			Word:         word,
			Translations: splitTranslations(cell(r.cells, colTranslations)),
			PartOfSpeech: cell(r.cells, colPartOfSpeech),
			Article:      cell(r.cells, colArticle),
		})
		out.Lines = append(out.Lines, r.number)
	}
	return out, nil
}

// ReadConjugations parses conjugation rows. Flags accept the usual boolean
// spellings plus yes/no, oui/non and x. An empty flag cell is false.
func ReadConjugations(opts Options) (*Conjugations, error) {
	rows, err := readRows(opts)
	if err != nil {
		return nil, err
	}

	out := &Conjugations{}
	for _, r := range rows {
		p, err := parseConjugation(r.cells)
		if err != nil {
			out.Problems = append(out.Problems, &RowError{Row: r.number, Err: err})
			continue
		}
		out.Rows = append(out.Rows, p)
		out.Lines = append(out.Lines, r.number)
	}
	return out, nil
}

func parseConjugation(cells []string) (domain.ConjugationParams, error) {
	irregular, err := parseFlag(cell(cells, colIrregular))
	if err != nil {
		return domain.ConjugationParams{}, fmt.Errorf("irregular: %w", err)
	}
	pronominal, err := parseFlag(cell(cells, colPronominal))
	if err != nil {
		return domain.ConjugationParams{}, fmt.Errorf("pronominal: %w", err)
	}
	group, err := strconv.Atoi(cell(cells, colGroup))
	if err != nil {
		return domain.ConjugationParams{}, fmt.Errorf("group: %q is not a number", cell(cells, colGroup))
	}

	return domain.ConjugationParams{
		Verb:        cell(cells, colVerb),
		Person:      cell(cells, colPerson),
		Tense:       cell(cells, colTense),
		Conjugation: cell(cells, colConjugation),
		Irregular:   irregular,
		Pronominal:  pronominal,
		VerbGroup:   group,
	}, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "f", "false", "n", "no", "non":
		return false, nil
	case "1", "t", "true", "y", "yes", "oui", "x":
		return true, nil
	default:
		return false, fmt.Errorf("%q is not a yes/no value", s)
	}
}

func splitTranslations(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, translationSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type row struct {
	number int
	cells  []string
}

// readRows returns the non-blank rows at or after the start row.
func readRows(opts Options) ([]row, error) {
	start := opts.StartRow
	if start < 1 {
		start = DefaultStartRow
	}

	var (
		raw [][]string
		err error
	)
	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".xlsx", ".xlsm":
		raw, err = readExcel(opts.Path, opts.Sheet)
	case ".csv":
		raw, err = readCSV(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(opts.Path))
	}
	if err != nil {
		return nil, err
	}

	var rows []row
	for i, cells := range raw {
		number := i + 1
		if number < start || blank(cells) {
			continue
		}
		rows = append(rows, row{number: number, cells: cells})
	}
	return rows, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return parseCSV(file)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
