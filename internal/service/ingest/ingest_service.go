// Package ingest implements the ranking-ingestion pipeline: it loads a dirty
// ranking CSV, filters it to the target year, links institution names against
// the school registry and rewrites the (source, year) batch in the store.
package ingest

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/domain/dto"
	"github.com/ougirez/rankuni/internal/pkg/constants"
	"github.com/ougirez/rankuni/internal/pkg/logger"
	"github.com/ougirez/rankuni/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

// MetricWriteMode decides what happens to prior metric rows of the same
// (source, year) batch. The original pipeline accumulated them across re-runs
// and relied on the store rejecting duplicates, which it mostly doesn't;
// replace mode clears them first, matching ranking-entry semantics.
type MetricWriteMode string

const (
	MetricWriteAccumulate MetricWriteMode = "accumulate"
	MetricWriteReplace    MetricWriteMode = "replace"
)

type RunOptions struct {
	FilePath string `validate:"required"`
	Source   string `validate:"required"`
	Year     int    `validate:"required,gte=1900,lte=2100"`

	// FilterYear is the year rows must carry inside the CSV when the file
	// holds several years of history. Zero means same as Year.
	FilterYear int `validate:"omitempty,gte=1900,lte=2100"`

	MetricWriteMode   MetricWriteMode `validate:"omitempty,oneof=accumulate replace"`
	LowMatchThreshold int             `validate:"gte=0"`
}

type Service struct {
	store    store.Store
	validate *validator.Validate
}

func NewService(store store.Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
	}
}

// Run executes one ingestion batch: parse, filter, match, replace, report.
// Row-level problems degrade to skip counters; only argument, file, registry
// and batch-delete failures abort the run.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if err := s.validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid run options: %w", err)
	}

	if opts.FilterYear == 0 {
		opts.FilterYear = opts.Year
	}
	if opts.MetricWriteMode == "" {
		opts.MetricWriteMode = MetricWriteAccumulate
	}
	if opts.LowMatchThreshold == 0 {
		opts.LowMatchThreshold = constants.DefaultLowMatchThreshold
	}

	fmt.Printf("Reading rankings from %s for source %s (%d)...\n", opts.FilePath, opts.Source, opts.Year)

	var (
		headers []string
		records []dto.RawRecord
		matcher *Matcher
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		headers, records, err = LoadRecords(opts.FilePath)
		if err != nil {
			return fmt.Errorf("LoadRecords: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		schools, err := s.store.ListSchools(egCtx)
		if err != nil {
			return fmt.Errorf("store.ListSchools: %w", err)
		}
		matcher = NewMatcher(schools)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	fmt.Printf("Parsed %d records. Beginning matching process...\n", len(records))

	// Clear the batch before any insert so a re-run fully replaces it.
	deleted, err := s.store.DeleteRankingEntries(ctx, opts.Source, opts.Year)
	if err != nil {
		return nil, fmt.Errorf("store.DeleteRankingEntries: %w", err)
	}
	logger.Infof(ctx, "cleared %d existing %s %d entries", deleted, opts.Source, opts.Year)

	if opts.MetricWriteMode == MetricWriteReplace {
		deletedMetrics, err := s.store.DeleteMetrics(ctx, opts.Source, opts.Year)
		if err != nil {
			return nil, fmt.Errorf("store.DeleteMetrics: %w", err)
		}
		logger.Infof(ctx, "cleared %d existing %s %d ranking metrics", deletedMetrics, opts.Source, opts.Year)
	}

	resolver := NewFieldResolver(headers)
	report := &Report{
		Source: opts.Source,
		Year:   opts.Year,
		Parsed: len(records),
	}

	for _, rec := range records {
		resolved, outcome := resolver.Resolve(rec, opts.FilterYear)
		switch outcome {
		case SkippedYearMismatch:
			report.SkippedYearMismatch++
			continue
		case SkippedUnparseable:
			report.SkippedUnparseable++
			continue
		}

		schoolID, matchType := matcher.Match(resolved.Name)

		entry := &domain.RankingEntry{
			Name:              resolved.Name,
			Country:           resolved.Country,
			Rank:              resolved.Rank,
			Score:             resolved.Score,
			Year:              opts.Year,
			Source:            opts.Source,
			SchoolID:          schoolID,
			EducationRank:     resolved.SubRanks.Education,
			EmployabilityRank: resolved.SubRanks.Employment,
			FacultyRank:       resolved.SubRanks.Faculty,
			ResearchRank:      resolved.SubRanks.Research,
		}

		// A handful of bad rows must not fail a whole import.
		if err := s.store.InsertRankingEntry(ctx, entry); err != nil {
			logger.Warnf(ctx, "insert ranking entry %q: %s", resolved.Name, err.Error())
			report.SkippedWriteConflict++
			continue
		}
		report.Created++

		if schoolID != nil {
			logger.Debugf(ctx, "matched %q via %s", resolved.Name, matchType)
			s.mirrorMetrics(ctx, *schoolID, resolved, opts)
			report.Matched++
		}

		if report.Created%50 == 0 {
			fmt.Print(".")
		}
	}

	report.LowMatch = report.Matched < opts.LowMatchThreshold && report.Parsed > 0

	fmt.Printf("\n\nIngestion Complete.\n")
	fmt.Printf("Ranking Entries processed: %d\n", report.Created)
	fmt.Printf("Matched to DB Schools: %d\n", report.Matched)

	if report.LowMatch {
		logger.Warnf(ctx, "low match rate: %d of %d records matched; ensure school names in the CSV match the registry",
			report.Matched, report.Parsed)
	}

	return report, nil
}

// mirrorMetrics writes the matched entry's rank, plus any sub-ranks the
// source provided, into the generic metrics table. Best effort: a failed
// metric write is logged and forgotten, it never fails the record.
func (s *Service) mirrorMetrics(ctx context.Context, schoolID string, rec *dto.ResolvedRecord, opts RunOptions) {
	s.createMetric(ctx, schoolID, fmt.Sprintf("Global Ranking (%s)", opts.Source), rec.Rank, opts)

	for _, sub := range []struct {
		topic string
		val   *int
	}{
		{"Education", rec.SubRanks.Education},
		{"Employment", rec.SubRanks.Employment},
		{"Faculty", rec.SubRanks.Faculty},
		{"Research", rec.SubRanks.Research},
	} {
		if sub.val != nil {
			s.createMetric(ctx, schoolID, fmt.Sprintf("Rank - %s (%s)", sub.topic, opts.Source), *sub.val, opts)
		}
	}
}

func (s *Service) createMetric(ctx context.Context, schoolID, name string, value int, opts RunOptions) {
	metric := &domain.Metric{
		SchoolID: schoolID,
		Category: domain.MetricCategoryRankings,
		Name:     name,
		Value:    float64(value),
		Year:     opts.Year,
		Source:   opts.Source,
	}

	if err := s.store.InsertMetric(ctx, metric); err != nil {
		logger.Debugf(ctx, "insert metric %q: %s", name, err.Error())
	}
}
