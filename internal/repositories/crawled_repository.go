package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estateBack/internal/models"
	"estateBack/internal/pricing"
)

// CrawledRepository reads harvested listings from MongoDB. Documents are
// written by the crawler, so numeric and date fields are decoded loosely and
// coerced once here.
type CrawledRepository struct {
	Collection *mongo.Collection
}

// crawledDocument mirrors the stored document. Fields the crawler has been
// seen to write with mixed types are decoded as interface{}.
type crawledDocument struct {
	ID          interface{} `bson:"_id"`
	ListingID   interface{} `bson:"listing_id"`
	Source      string      `bson:"source"`
	URL         string      `bson:"url"`
	Title       string      `bson:"title"`
	Brief       string      `bson:"brief"`
	Address     string      `bson:"address"`
	AreaM2      interface{} `bson:"area_m2"`
	AreaText    string      `bson:"area_text"`
	StreetWidth string      `bson:"street_width"`
	SizeText    string      `bson:"size_text"`
	Direction   string      `bson:"direction"`
	PriceText   string      `bson:"price_text"`
	PriceValue  interface{} `bson:"price_value"`
	Price       interface{} `bson:"price"`
	PostedTime  string      `bson:"posted_time"`
	Image       string      `bson:"image"`
	Thumbnail   string      `bson:"thumbnail"`
	CrawledAt   interface{} `bson:"crawled_at"`
	UpdatedAt   interface{} `bson:"updated_at"`
}

func (d crawledDocument) toModel() models.CrawledListing {
	return models.CrawledListing{
		ID:          idString(d.ID),
		ExternalID:  looseString(d.ListingID),
		Source:      d.Source,
		URL:         d.URL,
		Title:       d.Title,
		Brief:       d.Brief,
		Address:     d.Address,
		AreaM2:      coercePtr(d.AreaM2),
		AreaText:    d.AreaText,
		StreetWidth: d.StreetWidth,
		SizeText:    d.SizeText,
		Direction:   d.Direction,
		PriceText:   d.PriceText,
		PriceValue:  coercePtr(d.PriceValue),
		Price:       looseString(d.Price),
		PostedTime:  d.PostedTime,
		Image:       d.Image,
		Thumbnail:   d.Thumbnail,
		CrawledAt:   looseTime(d.CrawledAt),
		UpdatedAt:   looseTime(d.UpdatedAt),
	}
}

func (r *CrawledRepository) FindCrawled(ctx context.Context, f models.CrawledFilter, limit int) ([]models.CrawledListing, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if f.NewestFirst {
		opts.SetSort(bson.D{{Key: "crawled_at", Value: -1}, {Key: "_id", Value: -1}})
	}
	cur, err := r.Collection.Find(ctx, crawledQuery(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	listings := []models.CrawledListing{}
	for cur.Next(ctx) {
		var doc crawledDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode crawled listing: %w", err)
		}
		listings = append(listings, doc.toModel())
	}
	return listings, cur.Err()
}

func (r *CrawledRepository) GetCrawled(ctx context.Context, id string) (models.CrawledListing, error) {
	var doc crawledDocument
	err := r.Collection.FindOne(ctx, bson.M{"_id": idFilter(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CrawledListing{}, fmt.Errorf("%w: %s", models.ErrCrawledNotFound, id)
	}
	if err != nil {
		return models.CrawledListing{}, err
	}
	return doc.toModel(), nil
}

// UpdateCrawled applies the whitelisted $set and returns the updated document.
func (r *CrawledRepository) UpdateCrawled(ctx context.Context, id string, u models.CrawledUpdate) (models.CrawledListing, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc crawledDocument
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": idFilter(id)}, bson.M{"$set": crawledSet(u)}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CrawledListing{}, fmt.Errorf("%w: %s", models.ErrCrawledNotFound, id)
	}
	if err != nil {
		return models.CrawledListing{}, err
	}
	return doc.toModel(), nil
}

func (r *CrawledRepository) DeleteCrawled(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": idFilter(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", models.ErrCrawledNotFound, id)
	}
	return nil
}

func (r *CrawledRepository) CountCrawled(ctx context.Context, f models.CrawledFilter) (int, error) {
	n, err := r.Collection.CountDocuments(ctx, crawledQuery(f))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func crawledQuery(f models.CrawledFilter) bson.M {
	query := bson.M{}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		rx := containsRegex(term)
		query["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"address": rx},
			bson.M{"brief": rx},
		}
	}
	substrings := []struct {
		field, value string
	}{
		{"address", f.Ward},
		{"direction", f.Direction},
		{"street_width", f.StreetWidth},
	}
	for _, s := range substrings {
		if v := strings.TrimSpace(s.value); v != "" {
			query[s.field] = bson.M{"$regex": regexp.QuoteMeta(v), "$options": "i"}
		}
	}

	required := []struct {
		field string
		on    bool
	}{
		{"address", f.RequireAddress},
		{"direction", f.RequireDirection},
		{"street_width", f.RequireStreetWidth},
	}
	grouping := false
	for _, r := range required {
		if !r.on {
			continue
		}
		grouping = true
		cond, _ := query[r.field].(bson.M)
		if cond == nil {
			cond = bson.M{}
		}
		cond["$exists"] = true
		cond["$nin"] = bson.A{nil, ""}
		query[r.field] = cond
	}
	if grouping {
		query["price_value"] = bson.M{"$exists": true, "$nin": bson.A{nil, ""}}
		query["area_m2"] = bson.M{"$exists": true, "$nin": bson.A{nil, ""}}
	}
	return query
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func crawledSet(u models.CrawledUpdate) bson.M {
	set := bson.M{"updated_at": u.UpdatedAt}
	strs := []struct {
		field string
		value *string
	}{
		{"title", u.Title},
		{"brief", u.Brief},
		{"address", u.Address},
		{"street_width", u.StreetWidth},
		{"size_text", u.SizeText},
		{"direction", u.Direction},
		{"price_text", u.PriceText},
		{"image", u.Image},
	}
	for _, s := range strs {
		if s.value != nil {
			set[s.field] = *s.value
		}
	}
	if u.AreaM2 != nil {
		set["area_m2"] = *u.AreaM2
	}
	if u.PriceValue != nil {
		set["price_value"] = *u.PriceValue
	}
	return set
}

// idFilter matches both ObjectID and plain string ids.
func idFilter(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$in": bson.A{oid, id}}
	}
	return id
}

func idString(v interface{}) string {
	switch x := v.(type) {
	case primitive.ObjectID:
		return x.Hex()
	default:
		return looseString(v)
	}
}

func looseString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func coercePtr(v interface{}) *float64 {
	f, ok := pricing.Coerce(v)
	if !ok {
		return nil
	}
	return &f
}

var crawledTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

func looseTime(v interface{}) *time.Time {
	var t time.Time
	switch x := v.(type) {
	case primitive.DateTime:
		t = x.Time().UTC()
	case time.Time:
		t = x
	case string:
		for _, layout := range crawledTimeLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(x)); err == nil {
				t = parsed
				break
			}
		}
	case int64:
		t = time.UnixMilli(x).UTC()
	}
	if t.IsZero() {
		return nil
	}
	return &t
}
