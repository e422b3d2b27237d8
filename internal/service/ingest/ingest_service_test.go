package ingest_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ougirez/rankuni/internal/domain"
	"github.com/ougirez/rankuni/internal/service/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStore keeps everything in slices so pipeline behavior can be asserted
// without a database.
type fakeStore struct {
	schools []*domain.School
	entries []*domain.RankingEntry
	metrics []*domain.Metric

	failInsertName string
	listErr        error
}

func (f *fakeStore) ListSchools(_ context.Context) ([]*domain.School, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.schools, nil
}

func (f *fakeStore) DeleteRankingEntries(_ context.Context, source string, year domain.Year) (int64, error) {
	kept := f.entries[:0]
	var deleted int64
	for _, e := range f.entries {
		if e.Source == source && e.Year == year {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return deleted, nil
}

func (f *fakeStore) InsertRankingEntry(_ context.Context, entry *domain.RankingEntry) error {
	if f.failInsertName != "" && entry.Name == f.failInsertName {
		return errors.New("duplicate key value violates unique constraint")
	}
	clone := *entry
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeStore) DeleteMetrics(_ context.Context, source string, year domain.Year) (int64, error) {
	kept := f.metrics[:0]
	var deleted int64
	for _, m := range f.metrics {
		if m.Source == source && m.Year == year && m.Category == domain.MetricCategoryRankings {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.metrics = kept
	return deleted, nil
}

func (f *fakeStore) InsertMetric(_ context.Context, metric *domain.Metric) error {
	clone := *metric
	f.metrics = append(f.metrics, &clone)
	return nil
}

func (f *fakeStore) Counts(_ context.Context) (*domain.StoreCounts, error) {
	return &domain.StoreCounts{
		Schools:        int64(len(f.schools)),
		Metrics:        int64(len(f.metrics)),
		RankingEntries: int64(len(f.entries)),
	}, nil
}

func (f *fakeStore) CountSchoolsByCountry(_ context.Context) ([]*domain.CountrySchoolCount, error) {
	byCountry := map[string]int64{}
	for _, s := range f.schools {
		byCountry[s.Country]++
	}
	out := make([]*domain.CountrySchoolCount, 0, len(byCountry))
	for c, n := range byCountry {
		out = append(out, &domain.CountrySchoolCount{Country: c, Count: n})
	}
	return out, nil
}

func harvardRegistry() []*domain.School {
	return []*domain.School{
		{ID: "s-harvard", Name: "Harvard University", Country: "US"},
		{ID: "s-stanford", Name: "Stanford University", Country: "US"},
	}
}

func TestRunEndToEnd(t *testing.T) {
	ctx := context.Background()

	Convey("Given a one-row CSV and a registry containing the school", t, func() {
		path := writeTempCSV(t, "institution,world_rank,score\nHarvard University,1,100.0\n")
		st := &fakeStore{schools: harvardRegistry()}
		svc := ingest.NewService(st)

		Convey("When running the pipeline", func() {
			report, err := svc.Run(ctx, ingest.RunOptions{
				FilePath:          path,
				Source:            "TEST",
				Year:              2024,
				LowMatchThreshold: 1,
			})

			Convey("Then one matched entry and its global-ranking metric exist", func() {
				So(err, ShouldBeNil)
				So(report.Parsed, ShouldEqual, 1)
				So(report.Created, ShouldEqual, 1)
				So(report.Matched, ShouldEqual, 1)
				So(report.LowMatch, ShouldBeFalse)

				So(st.entries, ShouldHaveLength, 1)
				entry := st.entries[0]
				So(entry.Name, ShouldEqual, "Harvard University")
				So(entry.Rank, ShouldEqual, 1)
				So(*entry.Score, ShouldEqual, 100.0)
				So(entry.Source, ShouldEqual, "TEST")
				So(entry.Year, ShouldEqual, 2024)
				So(entry.SchoolID, ShouldNotBeNil)
				So(*entry.SchoolID, ShouldEqual, "s-harvard")

				So(st.metrics, ShouldHaveLength, 1)
				metric := st.metrics[0]
				So(metric.Name, ShouldEqual, "Global Ranking (TEST)")
				So(metric.Category, ShouldEqual, domain.MetricCategoryRankings)
				So(metric.Value, ShouldEqual, 1.0)
				So(metric.SchoolID, ShouldEqual, "s-harvard")
			})
		})
	})

	Convey("Given the same CSV but an empty registry", t, func() {
		path := writeTempCSV(t, "institution,world_rank,score\nHarvard University,1,100.0\n")
		st := &fakeStore{}
		svc := ingest.NewService(st)

		Convey("When running the pipeline", func() {
			report, err := svc.Run(ctx, ingest.RunOptions{FilePath: path, Source: "TEST", Year: 2024})

			Convey("Then the entry persists unmatched and no metric is written", func() {
				So(err, ShouldBeNil)
				So(report.Created, ShouldEqual, 1)
				So(report.Matched, ShouldEqual, 0)
				So(report.LowMatch, ShouldBeTrue)

				So(st.entries, ShouldHaveLength, 1)
				So(st.entries[0].SchoolID, ShouldBeNil)
				So(st.metrics, ShouldBeEmpty)
			})
		})
	})
}

func TestRunBatchReplacement(t *testing.T) {
	ctx := context.Background()

	Convey("Given a 3-row CSV ingested twice for the same source and year", t, func() {
		content := "institution,world_rank\nHarvard University,1\nStanford University,2\nUnknown College,3\n"
		path := writeTempCSV(t, content)
		st := &fakeStore{schools: harvardRegistry()}
		svc := ingest.NewService(st)

		opts := ingest.RunOptions{FilePath: path, Source: "TEST", Year: 2024, LowMatchThreshold: 1}

		first, err := svc.Run(ctx, opts)
		So(err, ShouldBeNil)
		So(first.Created, ShouldEqual, 3)
		So(st.entries, ShouldHaveLength, 3)

		Convey("When re-running the identical batch", func() {
			second, err := svc.Run(ctx, opts)

			Convey("Then the entry set is replaced, not doubled", func() {
				So(err, ShouldBeNil)
				So(second.Created, ShouldEqual, 3)
				So(st.entries, ShouldHaveLength, 3)
			})
		})

		Convey("When re-running for a different year", func() {
			opts2 := opts
			opts2.Year = 2025
			_, err := svc.Run(ctx, opts2)

			Convey("Then the earlier batch is untouched", func() {
				So(err, ShouldBeNil)
				So(st.entries, ShouldHaveLength, 6)
			})
		})
	})
}

func TestRunYearFilter(t *testing.T) {
	ctx := context.Background()

	Convey("Given a CSV holding two years of history", t, func() {
		content := "year,institution,world_rank\n2012,Harvard University,1\n2024,Harvard University,2\n"
		path := writeTempCSV(t, content)
		st := &fakeStore{schools: harvardRegistry()}
		svc := ingest.NewService(st)

		Convey("When ingesting with filter year 2024", func() {
			report, err := svc.Run(ctx, ingest.RunOptions{FilePath: path, Source: "TEST", Year: 2024, LowMatchThreshold: 1})

			Convey("Then only the 2024 row survives", func() {
				So(err, ShouldBeNil)
				So(report.SkippedYearMismatch, ShouldEqual, 1)
				So(st.entries, ShouldHaveLength, 1)
				So(st.entries[0].Rank, ShouldEqual, 2)
			})
		})

		Convey("When the CSV year override differs from the batch year", func() {
			report, err := svc.Run(ctx, ingest.RunOptions{
				FilePath:          path,
				Source:            "TEST",
				Year:              2024,
				FilterYear:        2012,
				LowMatchThreshold: 1,
			})

			Convey("Then the 2012 row is ingested but tagged with the batch year", func() {
				So(err, ShouldBeNil)
				So(report.Created, ShouldEqual, 1)
				So(st.entries[0].Rank, ShouldEqual, 1)
				So(st.entries[0].Year, ShouldEqual, 2024)
			})
		})
	})
}

func TestRunMetricModes(t *testing.T) {
	ctx := context.Background()
	content := "institution,world_rank\nHarvard University,1\n"

	Convey("Given accumulate mode (the historical behavior)", t, func() {
		path := writeTempCSV(t, content)
		st := &fakeStore{schools: harvardRegistry()}
		svc := ingest.NewService(st)
		opts := ingest.RunOptions{FilePath: path, Source: "TEST", Year: 2024, LowMatchThreshold: 1}

		Convey("When the batch runs twice", func() {
			_, err := svc.Run(ctx, opts)
			So(err, ShouldBeNil)
			_, err = svc.Run(ctx, opts)
			So(err, ShouldBeNil)

			Convey("Then metrics pile up while entries are replaced", func() {
				So(st.entries, ShouldHaveLength, 1)
				So(st.metrics, ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given replace mode", t, func() {
		path := writeTempCSV(t, content)
		st := &fakeStore{schools: harvardRegistry()}
		svc := ingest.NewService(st)
		opts := ingest.RunOptions{
			FilePath:          path,
			Source:            "TEST",
			Year:              2024,
			MetricWriteMode:   ingest.MetricWriteReplace,
			LowMatchThreshold: 1,
		}

		Convey("When the batch runs twice", func() {
			_, err := svc.Run(ctx, opts)
			So(err, ShouldBeNil)
			_, err = svc.Run(ctx, opts)
			So(err, ShouldBeNil)

			Convey("Then metrics follow batch-replacement semantics too", func() {
				So(st.metrics, ShouldHaveLength, 1)
			})
		})
	})
}

func TestRunSubRankMetrics(t *testing.T) {
	ctx := context.Background()

	Convey("Given a source with per-topic rank columns", t, func() {
		content := "institution,world_rank,quality_of_education,publications\nHarvard University,1,5,9\n"
		path := writeTempCSV(t, content)
		st := &fakeStore{schools: harvardRegistry()}
		svc := ingest.NewService(st)

		Convey("When ingesting", func() {
			_, err := svc.Run(ctx, ingest.RunOptions{FilePath: path, Source: "CWUR", Year: 2024, LowMatchThreshold: 1})

			Convey("Then each populated sub-rank mirrors into its own metric", func() {
				So(err, ShouldBeNil)

				entry := st.entries[0]
				So(*entry.EducationRank, ShouldEqual, 5)
				So(*entry.ResearchRank, ShouldEqual, 9)
				So(entry.FacultyRank, ShouldBeNil)

				names := make([]string, 0, len(st.metrics))
				for _, m := range st.metrics {
					names = append(names, m.Name)
				}
				So(names, ShouldContain, "Global Ranking (CWUR)")
				So(names, ShouldContain, "Rank - Education (CWUR)")
				So(names, ShouldContain, "Rank - Research (CWUR)")
				So(names, ShouldHaveLength, 3)
			})
		})
	})
}

func TestRunDegradedPaths(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store that rejects one entry", t, func() {
		content := "institution,world_rank\nHarvard University,1\nStanford University,2\n"
		path := writeTempCSV(t, content)
		st := &fakeStore{schools: harvardRegistry(), failInsertName: "Stanford University"}
		svc := ingest.NewService(st)

		Convey("When ingesting", func() {
			report, err := svc.Run(ctx, ingest.RunOptions{FilePath: path, Source: "TEST", Year: 2024, LowMatchThreshold: 1})

			Convey("Then the conflict is counted and the run still completes", func() {
				So(err, ShouldBeNil)
				So(report.Created, ShouldEqual, 1)
				So(report.SkippedWriteConflict, ShouldEqual, 1)
				So(st.entries, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a missing input file", t, func() {
		svc := ingest.NewService(&fakeStore{})
		_, err := svc.Run(ctx, ingest.RunOptions{
			FilePath: filepath.Join(t.TempDir(), "nope.csv"),
			Source:   "TEST",
			Year:     2024,
		})

		So(err, ShouldNotBeNil)
	})

	Convey("Given a registry read failure", t, func() {
		path := writeTempCSV(t, "institution,world_rank\nHarvard University,1\n")
		svc := ingest.NewService(&fakeStore{listErr: errors.New("connection refused")})
		_, err := svc.Run(ctx, ingest.RunOptions{FilePath: path, Source: "TEST", Year: 2024})

		So(err, ShouldNotBeNil)
	})

	Convey("Given options missing the source label", t, func() {
		svc := ingest.NewService(&fakeStore{})
		_, err := svc.Run(ctx, ingest.RunOptions{FilePath: "whatever.csv", Year: 2024})

		So(err, ShouldNotBeNil)
	})
}
