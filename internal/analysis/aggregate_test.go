package analysis

import (
	"math"
	"testing"

	"estateBack/internal/models"
	"estateBack/internal/streetwidth"
)

func f(v float64) *float64 { return &v }

func crawled(addr, dir, width string, price, area *float64, priceText string) models.CrawledListing {
	return models.CrawledListing{
		Address:     addr,
		Direction:   dir,
		StreetWidth: width,
		PriceValue:  price,
		AreaM2:      area,
		PriceText:   priceText,
	}
}

func TestWardReport(t *testing.T) {
	snapshot := []models.CrawledListing{
		crawled("Kiệt 12, Phường hòa khánh bắc, Liên Chiểu", "", "", f(2000), f(100), "2 tỷ"),
		crawled("Phường Hải Châu 1, Hải Châu", "", "", f(68), f(50), "68 triệu /m2"),
		crawled("phường hòa khánh bắc, Liên Chiểu", "", "", f(1000), f(100), ""),
		crawled("Hòa Vang, Đà Nẵng", "", "", f(500), f(100), ""),
		crawled("Phường An Hải Bắc", "", "", nil, f(80), ""),
	}
	report := Aggregate(snapshot, ByWard, ByAverageDesc)

	if report.Total != 4 {
		t.Fatalf("expected 4 grouped listings got %d", report.Total)
	}
	if len(report.Groups) != 3 {
		t.Fatalf("expected 3 groups got %d", len(report.Groups))
	}

	first := report.Groups[0]
	if first.Key != "Phường Hải Châu 1" {
		t.Fatalf("expected highest average first, got %q", first.Key)
	}
	if first.TotalPrice != 3400 || first.AveragePricePerArea == nil || *first.AveragePricePerArea != 68 {
		t.Fatalf("unexpected per-m2 group %+v", first)
	}

	second := report.Groups[1]
	if second.Key != "Phường Hòa Khánh Bắc" || second.Count != 2 {
		t.Fatalf("unexpected second group %+v", second)
	}
	if second.TotalArea != 200 || second.TotalPrice != 3000 || *second.AveragePricePerArea != 15 {
		t.Fatalf("unexpected accumulation %+v", second)
	}
	if second.Percentage != 50 {
		t.Fatalf("expected 50%% got %v", second.Percentage)
	}

	last := report.Groups[2]
	if last.AveragePricePerArea != nil {
		t.Fatalf("expected nil average without prices, got %v", *last.AveragePricePerArea)
	}
}

func TestPercentagesSumToHundred(t *testing.T) {
	snapshot := []models.CrawledListing{
		crawled("", "Đông", "", f(1), f(1), ""),
		crawled("", "đông", "", f(1), f(1), ""),
		crawled("", "Tây", "", f(1), f(1), ""),
		crawled("", "Nam", "", f(1), f(1), ""),
		crawled("", "Bắc", "", f(1), f(1), ""),
		crawled("", "Tây Bắc", "", f(1), f(1), ""),
		crawled("", "Đông Nam", "", f(1), f(1), ""),
	}
	report := Aggregate(snapshot, ByDirection, ByCountDesc)
	var sum float64
	for _, g := range report.Groups {
		sum += g.Percentage
	}
	if math.Abs(sum-100) > 0.05 {
		t.Fatalf("expected percentages to sum to ~100 got %v", sum)
	}
	if report.Groups[0].Key != "Đông" || report.Groups[0].Count != 2 {
		t.Fatalf("expected case-insensitive direction group with first-seen label, got %+v", report.Groups[0])
	}
}

func TestCountOrderIsStable(t *testing.T) {
	snapshot := []models.CrawledListing{
		crawled("", "", "3m", f(1), f(1), ""),
		crawled("", "", "12m", f(1), f(1), ""),
		crawled("", "", "5m", f(1), f(1), ""),
		crawled("", "", "5,5m", f(1), f(1), ""),
	}
	report := Aggregate(snapshot, ByStreetWidth, ByCountDesc)
	want := []string{streetwidth.Bucket4To6, streetwidth.BucketUnder4, streetwidth.BucketOver10}
	if len(report.Groups) != len(want) {
		t.Fatalf("expected %d groups got %d", len(want), len(report.Groups))
	}
	for i, key := range want {
		if report.Groups[i].Key != key {
			t.Fatalf("position %d: expected %q got %q", i, key, report.Groups[i].Key)
		}
	}
}

func TestAggregateDoesNotMutateSnapshot(t *testing.T) {
	price := f(68)
	snapshot := []models.CrawledListing{crawled("Phường Thạc Gián", "", "", price, f(50), "68 triệu/m2")}
	Aggregate(snapshot, ByWard, ByAverageDesc)
	if *snapshot[0].PriceValue != 68 || snapshot[0].PriceText != "68 triệu/m2" {
		t.Fatalf("snapshot mutated: %+v", snapshot[0])
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil, ByWard, ByAverageDesc)
	if report.Total != 0 || len(report.Groups) != 0 || report.Groups == nil {
		t.Fatalf("unexpected empty report %+v", report)
	}
}

func TestBuild(t *testing.T) {
	if _, ok := Build("price", nil); ok {
		t.Fatal("expected unknown kind to fail")
	}
	for _, kind := range []Kind{Wards, Directions, StreetWidth} {
		if _, ok := Filter(kind); !ok {
			t.Fatalf("missing filter for %s", kind)
		}
		if _, ok := Build(kind, nil); !ok {
			t.Fatalf("missing definition for %s", kind)
		}
	}
}
