package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/verba-api/internal/domain"
	"github.com/phrazzld/verba-api/internal/platform/logger"
	"github.com/phrazzld/verba-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// StatsRange bounds the period a stats report covers.
type StatsRange string

const (
	RangeAll   StatsRange = "all"
	RangeWeek  StatsRange = "week"
	RangeMonth StatsRange = "month"
)

// topItems is the length of the best and worst item lists.
const topItems = 5

// ParseRange parses a range query value. Empty means all.
func ParseRange(s string) (StatsRange, error) {
	switch StatsRange(strings.ToLower(strings.TrimSpace(s))) {
	case "", RangeAll:
		return RangeAll, nil
	case RangeWeek:
		return RangeWeek, nil
	case RangeMonth:
		return RangeMonth, nil
	default:
		return "", domain.NewValidationError("range", fmt.Sprintf("must be one of all, week, month (got %q)", s), nil)
	}
}

// Since returns the start of the range relative to now. All yields the zero time.
func (r StatsRange) Since(now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// OverallStats summarises a range.
type OverallStats struct {
	WordsAdded             int     `json:"wordsAdded"`
	ConjugationsAdded      int     `json:"conjugationsAdded"`
	WordGamesPlayed        int     `json:"wordGamesPlayed"`
	ConjugationGamesPlayed int     `json:"conjugationGamesPlayed"`
	AverageAccuracy        float64 `json:"averageAccuracy"`
	MostFrequentFormat     string  `json:"mostFrequentFormat"`
}

// GrowthPoint is the running total of items added up to a day.
type GrowthPoint struct {
	Date                   string `json:"date"`
	CumulativeWords        int    `json:"cumulativeWords"`
	CumulativeConjugations int    `json:"cumulativeConjugations"`
}

// GradedRun is the accuracy of one graded game.
type GradedRun struct {
	RunDate  time.Time `json:"run_date"`
	Accuracy float64   `json:"accuracy"`
}

// UngradedRun is the pace of one ungraded game.
type UngradedRun struct {
	RunDate   time.Time `json:"run_date"`
	Score     int       `json:"score"`
	TimeLimit int       `json:"time_limit"`
	Ratio     float64   `json:"ratio"`
}

// ItemStat is the record of one practised item.
type ItemStat struct {
	ID            uuid.UUID `json:"id"`
	Label         string    `json:"label"`
	Detail        string    `json:"detail"`
	TotalAttempts int       `json:"total_attempts"`
	Mistakes      int       `json:"mistakes"`
	Accuracy      float64   `json:"accuracy"`
}

// Stats is the full report for one owner and range.
type Stats struct {
	OverallStats      OverallStats  `json:"overallStats"`
	CumulativeGrowth  []GrowthPoint `json:"cumulativeGrowth"`
	GradedWordRuns    []GradedRun   `json:"gradedWordRuns"`
	GradedConjRuns    []GradedRun   `json:"gradedConjRuns"`
	UngradedWordRuns  []UngradedRun `json:"ungradedWordRuns"`
	UngradedConjRuns  []UngradedRun `json:"ungradedConjRuns"`
	BestWords         []ItemStat    `json:"bestWords"`
	WorstWords        []ItemStat    `json:"worstWords"`
	BestConjugations  []ItemStat    `json:"bestConjugations"`
	WorstConjugations []ItemStat    `json:"worstConjugations"`
}

// StatsService builds read-only progress reports.
type StatsService interface {
	// GetStats reports on the owner's activity within the range.
	GetStats(ctx context.Context, userID uuid.UUID, r StatsRange) (*Stats, error)
}

type statsServiceImpl struct {
	statsStore store.StatsStore
	runStore   store.GameRunStore
	now        func() time.Time
	logger     *slog.Logger
}

var _ StatsService = (*statsServiceImpl)(nil)

// NewStatsService creates a new StatsService.
// A nil now defaults to time.Now.
func NewStatsService(
	statsStore store.StatsStore,
	runStore store.GameRunStore,
	now func() time.Time,
	logger *slog.Logger,
) (StatsService, error) {
	if statsStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "statsStore cannot be nil"}
	}
	if runStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "runStore cannot be nil"}
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statsServiceImpl{
		statsStore: statsStore,
		runStore:   runStore,
		now:        now,
		logger:     logger.With(slog.String("component", "stats_service")),
	}, nil
}

// GetStats implements StatsService.GetStats
// The aggregate reads are independent and run concurrently.
func (s *statsServiceImpl) GetStats(ctx context.Context, userID uuid.UUID, r StatsRange) (*Stats, error) {
	since := r.Since(s.now().UTC())

	var (
		wordsAdded, conjugationsAdded int
		daily                         []store.DailyAdditions
		wordRuns, conjRuns            []*domain.GameRun
		wordItems, conjItems          []store.ItemPerformance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		wordsAdded, err = s.statsStore.CountItems(gctx, userID, domain.KindWord, since)
		return err
	})
	g.Go(func() (err error) {
		conjugationsAdded, err = s.statsStore.CountItems(gctx, userID, domain.KindConjugation, since)
		return err
	})
	g.Go(func() (err error) {
		daily, err = s.statsStore.DailyAdditions(gctx, userID, since)
		return err
	})
	g.Go(func() (err error) {
		wordRuns, err = s.runStore.List(gctx, userID, domain.KindWord, since)
		return err
	})
	g.Go(func() (err error) {
		conjRuns, err = s.runStore.List(gctx, userID, domain.KindConjugation, since)
		return err
	})
	g.Go(func() (err error) {
		wordItems, err = s.statsStore.AttemptedItems(gctx, userID, domain.KindWord, since)
		return err
	})
	g.Go(func() (err error) {
		conjItems, err = s.statsStore.AttemptedItems(gctx, userID, domain.KindConjugation, since)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("range", string(r)))
		return nil, NewServiceError("get_stats", "failed to load stats", err)
	}

	stats := &Stats{
		OverallStats: OverallStats{
			WordsAdded:             wordsAdded,
			ConjugationsAdded:      conjugationsAdded,
			WordGamesPlayed:        len(wordRuns),
			ConjugationGamesPlayed: len(conjRuns),
			AverageAccuracy:        averageAccuracy(wordRuns, conjRuns),
			MostFrequentFormat:     mostFrequentFormat(wordRuns, conjRuns),
		},
		CumulativeGrowth: cumulativeGrowth(daily),
		GradedWordRuns:   gradedRuns(wordRuns),
		GradedConjRuns:   gradedRuns(conjRuns),
		UngradedWordRuns: ungradedRuns(wordRuns),
		UngradedConjRuns: ungradedRuns(conjRuns),
	}
	stats.BestWords, stats.WorstWords = bestAndWorst(wordItems)
	stats.BestConjugations, stats.WorstConjugations = bestAndWorst(conjItems)
	return stats, nil
}

// correctCount is the per-run correct total used for accuracy and pace.
// Conjugation runs report it as correct answers.
func correctCount(run *domain.GameRun) int {
	if run.Kind == domain.KindConjugation {
		return run.CorrectAnswers
	}
	return run.TotalCorrect
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// averageAccuracy pools the correct and attempted totals of every graded run.
func averageAccuracy(runLists ...[]*domain.GameRun) float64 {
	var correct, attempted int
	for _, runs := range runLists {
		for _, run := range runs {
			if run.Ungraded {
				continue
			}
			correct += correctCount(run)
			attempted += run.TotalAttempted
		}
	}
	return round2(percent(correct, attempted))
}

func formatLabel(run *domain.GameRun) string {
	zen := "Non-Zen"
	if run.ZenMode {
		zen = "Zen"
	}
	if run.Kind == domain.KindConjugation {
		return fmt.Sprintf("Conjugation, %ds, %s", run.TimeLimitSeconds, zen)
	}
	return fmt.Sprintf("Vocabulary (%s), %ds, %s", run.GameType, run.TimeLimitSeconds, zen)
}

// mostFrequentFormat returns the label played most often. Ties go to the
// label seen first.
func mostFrequentFormat(runLists ...[]*domain.GameRun) string {
	counts := make(map[string]int)
	var order []string
	for _, runs := range runLists {
		for _, run := range runs {
			label := formatLabel(run)
			if counts[label] == 0 {
				order = append(order, label)
			}
			counts[label]++
		}
	}

	best, bestCount := "N/A", 0
	for _, label := range order {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best
}

func cumulativeGrowth(days []store.DailyAdditions) []GrowthPoint {
	points := make([]GrowthPoint, 0, len(days))
	var words, conjugations int
	for _, d := range days {
		words += d.Words
		conjugations += d.Conjugations
		points = append(points, GrowthPoint{
			Date:                   d.Day.UTC().Format(time.DateOnly),
			CumulativeWords:        words,
			CumulativeConjugations: conjugations,
		})
	}
	return points
}

func gradedRuns(runs []*domain.GameRun) []GradedRun {
	out := make([]GradedRun, 0, len(runs))
	for _, run := range runs {
		if run.Ungraded {
			continue
		}
		out = append(out, GradedRun{
			RunDate:  run.CreatedAt,
			Accuracy: percent(correctCount(run), run.TotalAttempted),
		})
	}
	return out
}

func ungradedRuns(runs []*domain.GameRun) []UngradedRun {
	out := make([]UngradedRun, 0)
	for _, run := range runs {
		if !run.Ungraded {
			continue
		}
		score := correctCount(run)
		ratio := 0.0
		if run.TimeLimitSeconds > 0 {
			ratio = float64(score) / float64(run.TimeLimitSeconds)
		}
		out = append(out, UngradedRun{
			RunDate:   run.CreatedAt,
			Score:     score,
			TimeLimit: run.TimeLimitSeconds,
			Ratio:     ratio,
		})
	}
	return out
}

// bestAndWorst ranks items by accuracy and by mistakes, breaking ties on
// attempts, and keeps the top entries of each.
func bestAndWorst(items []store.ItemPerformance) (best, worst []ItemStat) {
	stats := make([]ItemStat, 0, len(items))
	for _, item := range items {
		stats = append(stats, ItemStat{
			ID:            item.ItemID,
			Label:         item.Label,
			Detail:        item.Detail,
			TotalAttempts: item.TotalAttempts,
			Mistakes:      item.Mistakes,
			Accuracy:      round2(item.Accuracy() * 100),
		})
	}

	best = slices.Clone(stats)
	slices.SortStableFunc(best, func(a, b ItemStat) int {
		return cmp.Or(cmp.Compare(b.Accuracy, a.Accuracy), cmp.Compare(b.TotalAttempts, a.TotalAttempts))
	})
	worst = slices.Clone(stats)
	slices.SortStableFunc(worst, func(a, b ItemStat) int {
		return cmp.Or(cmp.Compare(b.Mistakes, a.Mistakes), cmp.Compare(b.TotalAttempts, a.TotalAttempts))
	})

	return best[:min(topItems, len(best))], worst[:min(topItems, len(worst))]
}
