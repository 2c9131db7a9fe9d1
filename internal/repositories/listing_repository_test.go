package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"estateBack/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := OpenDB(ctx, DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := EnsureSchema(ctx, db, DriverSQLite); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func sampleListing(id, owner, status string, price float64, created time.Time) models.UserListing {
	return models.UserListing{
		ID:           id,
		Name:         "Apartment " + id,
		Description:  "near the beach",
		Address:      "12 Võ Nguyên Giáp, Phường Phước Mỹ",
		RegularPrice: price,
		Bedrooms:     2,
		Bathrooms:    1,
		Type:         models.ListingTypeRent,
		ImageURLs:    []string{"https://img/" + id},
		UserRef:      owner,
		Status:       status,
		Source:       models.SourceUser,
		CreatedAt:    created,
	}
}

func TestListingRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := &ListingRepository{DB: newTestDB(t), Driver: DriverSQLite}
	now := time.Now().UTC().Truncate(time.Second)

	area := 55.5
	l := sampleListing("l1", "u1", "pending", 1200, now)
	l.AreaM2 = &area
	if _, err := repo.InsertListing(ctx, l); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetListing(ctx, "l1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != l.Name || got.UserRef != "u1" || got.Version != 1 {
		t.Fatalf("unexpected listing %+v", got)
	}
	if got.AreaM2 == nil || *got.AreaM2 != area {
		t.Fatalf("expected area %v got %v", area, got.AreaM2)
	}
	if len(got.ImageURLs) != 1 || got.ImageURLs[0] != "https://img/l1" {
		t.Fatalf("unexpected images %v", got.ImageURLs)
	}

	got.Name = "Renamed"
	updated, err := repo.UpdateListing(ctx, got, got.Version)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Version != 2 || updated.UpdatedAt == nil {
		t.Fatalf("unexpected update result %+v", updated)
	}

	if _, err := repo.UpdateListing(ctx, got, 1); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}
	if _, err := repo.UpdateListing(ctx, got, 0); err != nil {
		t.Fatalf("unversioned update should apply: %v", err)
	}

	approved, err := repo.SetListingStatus(ctx, "l1", "rejected", "blurry")
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if approved.Status != "rejected" || approved.RejectReason != "blurry" || approved.Name != "Renamed" {
		t.Fatalf("unexpected status change %+v", approved)
	}

	if err := repo.DeleteListing(ctx, "l1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetListing(ctx, "l1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.DeleteListing(ctx, "l1"); !errors.Is(err, models.ErrListingNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := repo.SetListingStatus(ctx, "missing", "approved", ""); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found on status change, got %v", err)
	}
}

func TestListingRepositoryFind(t *testing.T) {
	ctx := context.Background()
	repo := &ListingRepository{DB: newTestDB(t), Driver: DriverSQLite}
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []models.UserListing{
		sampleListing("a", "u1", "approved", 300, base),
		sampleListing("b", "u1", "approved", 100, base.Add(time.Hour)),
		sampleListing("c", "u2", "pending", 200, base.Add(2*time.Hour)),
		sampleListing("d", "u2", "approved", 400, base.Add(3*time.Hour)),
	}
	fixtures[1].Offer = true
	fixtures[3].Type = models.ListingTypeSale
	fixtures[3].Name = "Villa by the river"
	fixtures[0].Name = "Loft_1 with 1000 sq ft"
	fixtures[1].Name = "Loft 1 by the park"
	fixtures[2].Name = "100% furnished flat"
	for _, l := range fixtures {
		if _, err := repo.InsertListing(ctx, l); err != nil {
			t.Fatalf("insert %s: %v", l.ID, err)
		}
	}

	yes := true
	cases := []struct {
		name   string
		filter models.ListingFilter
		want   []string
	}{
		{"newest first by default", models.ListingFilter{}, []string{"d", "c", "b", "a"}},
		{"approved only", models.ListingFilter{Status: "approved"}, []string{"d", "b", "a"}},
		{"price ascending", models.ListingFilter{Status: "approved", Sort: "regularPrice", Order: "asc"}, []string{"b", "a", "d"}},
		{"offer", models.ListingFilter{Offer: &yes}, []string{"b"}},
		{"type", models.ListingFilter{Type: models.ListingTypeSale}, []string{"d"}},
		{"owner", models.ListingFilter{UserRef: "u2"}, []string{"d", "c"}},
		{"search term is case-insensitive", models.ListingFilter{SearchTerm: "VILLA"}, []string{"d"}},
		{"percent in search term is literal", models.ListingFilter{SearchTerm: "100%"}, []string{"c"}},
		{"underscore in search term is literal", models.ListingFilter{SearchTerm: "t_1"}, []string{"a"}},
		{"plain term matches both lofts", models.ListingFilter{SearchTerm: "LOFT"}, []string{"b", "a"}},
		{"window", models.ListingFilter{Limit: 2, Offset: 1}, []string{"c", "b"}},
		{"window past the end", models.ListingFilter{Limit: 2, Offset: 10}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.FindListings(ctx, tc.filter)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d listings got %d", len(tc.want), len(got))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Fatalf("position %d: expected %s got %s", i, id, got[i].ID)
				}
			}
		})
	}

	n, err := repo.CountListings(ctx, models.ListingFilter{Status: "approved"})
	if err != nil || n != 3 {
		t.Fatalf("expected 3 approved got %d (%v)", n, err)
	}

}

func TestRebind(t *testing.T) {
	q := "UPDATE listings SET status = ? WHERE id = ? AND version = ?"
	if got := rebind(DriverPostgres, q); got != "UPDATE listings SET status = $1 WHERE id = $2 AND version = $3" {
		t.Fatalf("unexpected rebind %q", got)
	}
	if got := rebind(DriverMySQL, q); got != q {
		t.Fatalf("mysql query should be unchanged, got %q", got)
	}
}
