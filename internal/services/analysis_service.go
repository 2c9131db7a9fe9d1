package services

import (
	"context"
	"fmt"

	"estateBack/internal/analysis"
	"estateBack/internal/models"
)

type AnalysisService struct {
	Crawled CrawledStore
	Limits  Limits
}

// Report fetches a fresh capped snapshot and aggregates it. Nothing is cached
// between calls.
func (s *AnalysisService) Report(ctx context.Context, kind analysis.Kind) (models.Report, error) {
	filter, ok := analysis.Filter(kind)
	if !ok {
		return models.Report{}, fmt.Errorf("%w: unknown report %q", models.ErrValidation, kind)
	}
	snapshot, err := s.Crawled.FindCrawled(ctx, filter, s.Limits.withDefaults().SnapshotCap)
	if err != nil {
		return models.Report{}, fmt.Errorf("fetch %s snapshot: %w", kind, err)
	}
	report, _ := analysis.Build(kind, snapshot)
	return report, nil
}
