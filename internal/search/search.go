package search

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"

	"estateBack/internal/models"
	"estateBack/internal/pricing"
)

const (
	DefaultPageSize = 20
	DefaultCap      = 800
)

// Request selects the ordering and window over a snapshot. Page > 0 switches to
// page mode; otherwise StartIndex and Limit are used.
type Request struct {
	Sort       string
	Order      string
	StartIndex int
	Limit      int
	Page       int
	PageSize   int
	Cap        int
}

// Result is the window. Total, TotalPages and PageSize are only set in page mode.
type Result struct {
	Listings   []models.CrawledListing
	Paged      bool
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// SortsByPrice reports whether sort names the price key.
func SortsByPrice(sort string) bool {
	switch strings.TrimSpace(sort) {
	case "regularPrice", "price", "price_value":
		return true
	}
	return false
}

type keyed struct {
	key     float64
	listing models.CrawledListing
}

// Run orders the snapshot and cuts the requested window. The snapshot slice is
// not reordered.
func Run(snapshot []models.CrawledListing, req Request) Result {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	limitCap := req.Cap
	if limitCap <= 0 {
		limitCap = DefaultCap
	}
	if len(snapshot) > limitCap {
		snapshot = snapshot[:limitCap]
	}

	byPrice := SortsByPrice(req.Sort)
	rows := make([]keyed, len(snapshot))
	for i, l := range snapshot {
		rows[i] = keyed{key: sortKey(l, byPrice), listing: l}
	}

	asc := strings.EqualFold(req.Order, "asc")
	slices.SortStableFunc(rows, func(a, b keyed) int {
		c := compare(a.key, b.key)
		if !asc {
			c = -c
		}
		return c
	})

	if req.Page > 0 {
		total := len(rows)
		start := (req.Page - 1) * pageSize
		return Result{
			Listings:   window(rows, start, pageSize),
			Paged:      true,
			Total:      total,
			Page:       req.Page,
			PageSize:   pageSize,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		}
	}

	limit := req.Limit
	if limit <= 0 || limit > pageSize {
		limit = pageSize
	}
	start := req.StartIndex
	if start < 0 {
		start = 0
	}
	return Result{Listings: window(rows, start, limit)}
}

func sortKey(l models.CrawledListing, byPrice bool) float64 {
	if byPrice {
		return pricing.Normalize(l.PriceValue, l.PriceText, l.AreaM2)
	}
	if l.CrawledAt == nil || l.CrawledAt.IsZero() {
		return 0
	}
	return float64(l.CrawledAt.UnixMilli())
}

func window(rows []keyed, start, size int) []models.CrawledListing {
	out := []models.CrawledListing{}
	if start >= len(rows) {
		return out
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	for _, r := range rows[start:end] {
		out = append(out, r.listing)
	}
	return out
}

func compare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
