package analysis

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"

	"estateBack/internal/address"
	"estateBack/internal/models"
	"estateBack/internal/pricing"
	"estateBack/internal/streetwidth"
)

// KeyFunc maps a listing to its group. key identifies the group, label is what
// the report shows. ok is false when the listing has no usable key.
type KeyFunc func(models.CrawledListing) (key, label string, ok bool)

// Order is the fixed sort rule of a report type.
type Order int

const (
	ByAverageDesc Order = iota
	ByCountDesc
)

// ByWard groups by the ward parsed from the address.
func ByWard(l models.CrawledListing) (string, string, bool) {
	w, ok := address.Ward(l.Address)
	return w, w, ok
}

// ByDirection groups case-insensitively by the direction text.
func ByDirection(l models.CrawledListing) (string, string, bool) {
	label := strings.TrimSpace(l.Direction)
	if label == "" {
		return "", "", false
	}
	return strings.ToLower(label), label, true
}

// ByStreetWidth groups by street width bucket.
func ByStreetWidth(l models.CrawledListing) (string, string, bool) {
	b := streetwidth.Bucket(l.StreetWidth)
	return b, b, true
}

type group struct {
	label  string
	count  int
	area   float64
	price  float64
	ratios []float64
}

// Aggregate groups snapshot with key and summarises every group. Prices go
// through pricing.Normalize so per-m² quotes are compared as totals.
func Aggregate(snapshot []models.CrawledListing, key KeyFunc, order Order) models.Report {
	index := make(map[string]int)
	var groups []*group
	var report models.Report

	for _, l := range snapshot {
		k, label, ok := key(l)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, &group{label: label})
		}
		g := groups[i]

		area, hasArea := pricing.Coerce(l.AreaM2)
		if !hasArea || area < 0 {
			area = 0
		}
		total := pricing.Normalize(l.PriceValue, l.PriceText, l.AreaM2)

		g.count++
		g.area += area
		g.price += total
		if r, ok := pricing.PricePerArea(total, area); ok {
			g.ratios = append(g.ratios, r)
		}

		report.Total++
		report.GlobalTotalArea += area
		report.GlobalTotalPrice += total
	}

	report.Groups = make([]models.ReportGroup, 0, len(groups))
	for _, g := range groups {
		report.Groups = append(report.Groups, models.ReportGroup{
			Key:                 g.label,
			Count:               g.count,
			Percentage:          round2(100 * float64(g.count) / float64(report.Total)),
			TotalArea:           round2(g.area),
			TotalPrice:          round2(g.price),
			AveragePricePerArea: mean(g.ratios),
		})
	}
	report.GlobalTotalArea = round2(report.GlobalTotalArea)
	report.GlobalTotalPrice = round2(report.GlobalTotalPrice)

	switch order {
	case ByAverageDesc:
		slices.SortStableFunc(report.Groups, func(a, b models.ReportGroup) int {
			return compareDesc(deref(a.AveragePricePerArea), deref(b.AveragePricePerArea))
		})
	case ByCountDesc:
		slices.SortStableFunc(report.Groups, func(a, b models.ReportGroup) int {
			return b.Count - a.Count
		})
	}
	return report
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	m := round2(sum / float64(len(vals)))
	return &m
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
