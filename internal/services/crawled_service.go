package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"estateBack/internal/models"
	"estateBack/internal/pricing"
	"estateBack/internal/search"
	"estateBack/internal/view"
)

type CrawledService struct {
	Crawled CrawledStore
	Logger  Logger
	Limits  Limits
	Now     func() time.Time
}

// CrawledSearch combines the storage predicates with the ordering and window.
// Page > 0 selects page mode.
type CrawledSearch struct {
	SearchTerm  string
	Ward        string
	Direction   string
	StreetWidth string
	Sort        string
	Order       string
	StartIndex  int
	Limit       int
	Page        int
}

func (s *CrawledService) Search(ctx context.Context, req CrawledSearch) (search.Result, error) {
	limits := s.Limits.withDefaults()
	snapshot, err := s.Crawled.FindCrawled(ctx, models.CrawledFilter{
		SearchTerm:  req.SearchTerm,
		Ward:        req.Ward,
		Direction:   req.Direction,
		StreetWidth: req.StreetWidth,
		NewestFirst: true,
	}, limits.SnapshotCap)
	if err != nil {
		return search.Result{}, fmt.Errorf("fetch crawled snapshot: %w", err)
	}
	return search.Run(snapshot, search.Request{
		Sort:       req.Sort,
		Order:      req.Order,
		StartIndex: req.StartIndex,
		Limit:      req.Limit,
		Page:       req.Page,
		PageSize:   limits.PageSize,
		Cap:        limits.SnapshotCap,
	}), nil
}

func (s *CrawledService) Get(ctx context.Context, id string) (models.CrawledListing, error) {
	return s.Crawled.GetCrawled(ctx, id)
}

// View returns the card form of a crawled listing.
func (s *CrawledService) View(ctx context.Context, id string) (models.ListingView, error) {
	c, err := s.Crawled.GetCrawled(ctx, id)
	if err != nil {
		return models.ListingView{}, err
	}
	return view.FromCrawled(c), nil
}

// Update applies the admin whitelist. Numeric values that do not coerce are
// skipped rather than rejected, matching how the crawler data is read.
func (s *CrawledService) Update(ctx context.Context, actor Actor, id string, p models.CrawledPatch) (models.CrawledListing, error) {
	if !actor.IsAdmin() {
		return models.CrawledListing{}, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	u := models.CrawledUpdate{
		Title:       trimmed(p.Title),
		Brief:       p.Brief,
		Address:     trimmed(p.Address),
		StreetWidth: trimmed(p.StreetWidth),
		SizeText:    trimmed(p.SizeText),
		Direction:   trimmed(p.Direction),
		PriceText:   trimmed(p.PriceText),
		Image:       trimmed(p.Image),
		UpdatedAt:   now,
	}
	if v, ok := pricing.Coerce(p.AreaM2); ok {
		u.AreaM2 = &v
	} else if p.AreaM2 != nil {
		s.logger().Infof("crawled %s: skipping non-numeric area_m2 %v", id, p.AreaM2)
	}
	if v, ok := pricing.Coerce(p.PriceValue); ok {
		u.PriceValue = &v
	} else if p.PriceValue != nil {
		s.logger().Infof("crawled %s: skipping non-numeric price_value %v", id, p.PriceValue)
	}
	return s.Crawled.UpdateCrawled(ctx, id, u)
}

func (s *CrawledService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	return s.Crawled.DeleteCrawled(ctx, id)
}

func (s *CrawledService) logger() Logger {
	if s.Logger == nil {
		return nopLogger{}
	}
	return s.Logger
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
