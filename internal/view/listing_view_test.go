package view

import (
	"strings"
	"testing"

	"estateBack/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestFromUser(t *testing.T) {
	cases := []struct {
		name      string
		listing   models.UserListing
		wantPrice string
		wantInfo  string
		wantImage string
	}{
		{
			name: "rent with offer uses discount",
			listing: models.UserListing{
				ID: "a1", Name: "Flat", Type: models.ListingTypeRent, Offer: true,
				RegularPrice: 1500, DiscountPrice: 1200, Bedrooms: 2, Bathrooms: 1,
				ImageURLs: []string{"https://img/1.jpg"},
			},
			wantPrice: "$1,200 / month",
			wantInfo:  "2 beds • 1 bath",
			wantImage: "https://img/1.jpg",
		},
		{
			name: "sale without images falls back to placeholder",
			listing: models.UserListing{
				ID: "a2", Name: "House", Type: models.ListingTypeSale,
				RegularPrice: 250000, DiscountPrice: 240000, Bedrooms: 0, Bathrooms: 3,
			},
			wantPrice: "$250,000",
			wantInfo:  "0 bed • 3 baths",
			wantImage: PlaceholderImage,
		},
		{
			name: "blank image urls are skipped",
			listing: models.UserListing{
				ID: "a3", Name: "Studio", Type: models.ListingTypeRent,
				RegularPrice: 400, Bedrooms: 1, Bathrooms: 1,
				ImageURLs: []string{"", "  ", "https://img/a.jpg", ""},
			},
			wantPrice: "$400 / month",
			wantInfo:  "1 bed • 1 bath",
			wantImage: "https://img/a.jpg",
		},
		{
			name: "only blank image urls fall back to placeholder",
			listing: models.UserListing{
				ID: "a4", Name: "Loft", Type: models.ListingTypeSale,
				RegularPrice: 90000, Bedrooms: 1, Bathrooms: 2,
				ImageURLs: []string{"", " "},
			},
			wantPrice: "$90,000",
			wantInfo:  "1 bed • 2 baths",
			wantImage: PlaceholderImage,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := FromUser(tc.listing)
			for _, img := range v.Images {
				if strings.TrimSpace(img) == "" {
					t.Fatalf("blank image in %q", v.Images)
				}
			}
			if v.Price != tc.wantPrice {
				t.Fatalf("expected price %q got %q", tc.wantPrice, v.Price)
			}
			if v.Info != tc.wantInfo {
				t.Fatalf("expected info %q got %q", tc.wantInfo, v.Info)
			}
			if len(v.Images) == 0 || v.Images[0] != tc.wantImage {
				t.Fatalf("expected first image %q got %v", tc.wantImage, v.Images)
			}
			if v.Origin != models.SourceUser || v.DetailPath != "/listing/"+tc.listing.ID {
				t.Fatalf("unexpected origin/path %q %q", v.Origin, v.DetailPath)
			}
		})
	}
}

func TestFromCrawledPriceFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		listing models.CrawledListing
		want    string
	}{
		{"price text wins", models.CrawledListing{PriceText: "3.4 tỷ", PriceValue: floatPtr(3.4), Price: "x"}, "3.4 tỷ"},
		{"price value formatted", models.CrawledListing{PriceValue: floatPtr(3400)}, "3.400 đ"},
		{"raw price last", models.CrawledListing{Price: "Thỏa thuận"}, "Thỏa thuận"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromCrawled(tc.listing).Price; got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestFromCrawledInfoAndImages(t *testing.T) {
	v := FromCrawled(models.CrawledListing{
		ID:          "c1",
		Title:       "Nhà mặt tiền",
		AreaText:    "100 m²",
		StreetWidth: "7,5m",
		Direction:   "Đông Nam",
		Image:       "https://img/full.jpg",
		Thumbnail:   "https://img/thumb.jpg",
		Source:      "alonhadat",
	})
	if v.Info != "100 m² • 7,5m • Đông Nam" {
		t.Fatalf("unexpected info %q", v.Info)
	}
	if len(v.Images) != 1 || v.Images[0] != "https://img/thumb.jpg" {
		t.Fatalf("expected thumbnail first, got %v", v.Images)
	}
	if v.DetailPath != "/crawl/c1" || v.Origin != models.SourceCrawled {
		t.Fatalf("unexpected origin/path %q %q", v.Origin, v.DetailPath)
	}

	empty := FromCrawled(models.CrawledListing{ID: "c2"})
	if empty.Name != "Listing" || empty.Images[0] != PlaceholderImage || empty.Info != "" {
		t.Fatalf("unexpected empty view %+v", empty)
	}
}
