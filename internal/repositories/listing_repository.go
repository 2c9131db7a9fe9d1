package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"estateBack/internal/models"
)

type ListingRepository struct {
	DB     *sql.DB
	Driver string
}

const listingColumns = `id, name, description, address, regular_price, discount_price, bathrooms, bedrooms,
	furnished, parking, type, offer, image_urls, user_ref, status, reject_reason, source,
	area_m2, price_text, direction, street_width, version, created_at, updated_at`

// sortColumns whitelists the client sort keys.
var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"created_at":   "created_at",
	"regularPrice": "regular_price",
	"price":        "regular_price",
	"updatedAt":    "updated_at",
}

func (r *ListingRepository) q(query string) string {
	return rebind(r.Driver, query)
}

func (r *ListingRepository) InsertListing(ctx context.Context, l models.UserListing) (models.UserListing, error) {
	imagesJSON, err := json.Marshal(nonNilStrings(l.ImageURLs))
	if err != nil {
		return models.UserListing{}, fmt.Errorf("failed to marshal images: %w", err)
	}
	if l.Version == 0 {
		l.Version = 1
	}
	query := `INSERT INTO listings (` + listingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.DB.ExecContext(ctx, r.q(query),
		l.ID, l.Name, l.Description, l.Address, l.RegularPrice, l.DiscountPrice, l.Bathrooms, l.Bedrooms,
		l.Furnished, l.Parking, l.Type, l.Offer, string(imagesJSON), l.UserRef, l.Status, l.RejectReason, l.Source,
		nullFloat(l.AreaM2), l.PriceText, l.Direction, l.StreetWidth, l.Version, l.CreatedAt, nullTime(l.UpdatedAt),
	)
	if err != nil {
		return models.UserListing{}, err
	}
	return l, nil
}

func (r *ListingRepository) GetListing(ctx context.Context, id string) (models.UserListing, error) {
	row := r.DB.QueryRowContext(ctx, r.q(`SELECT `+listingColumns+` FROM listings WHERE id = ?`), id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserListing{}, fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	if err != nil {
		return models.UserListing{}, err
	}
	return l, nil
}

// UpdateListing writes every mutable column. When expectedVersion is positive
// the write only applies to that version.
func (r *ListingRepository) UpdateListing(ctx context.Context, l models.UserListing, expectedVersion int) (models.UserListing, error) {
	imagesJSON, err := json.Marshal(nonNilStrings(l.ImageURLs))
	if err != nil {
		return models.UserListing{}, fmt.Errorf("failed to marshal images: %w", err)
	}
	updatedAt := time.Now().UTC()
	query := `UPDATE listings
		SET name = ?, description = ?, address = ?, regular_price = ?, discount_price = ?, bathrooms = ?, bedrooms = ?,
			furnished = ?, parking = ?, type = ?, offer = ?, image_urls = ?, user_ref = ?, status = ?, reject_reason = ?,
			area_m2 = ?, price_text = ?, direction = ?, street_width = ?, version = version + 1, updated_at = ?
		WHERE id = ?`
	args := []interface{}{
		l.Name, l.Description, l.Address, l.RegularPrice, l.DiscountPrice, l.Bathrooms, l.Bedrooms,
		l.Furnished, l.Parking, l.Type, l.Offer, string(imagesJSON), l.UserRef, l.Status, l.RejectReason,
		nullFloat(l.AreaM2), l.PriceText, l.Direction, l.StreetWidth, updatedAt, l.ID,
	}
	if expectedVersion > 0 {
		query += ` AND version = ?`
		args = append(args, expectedVersion)
	}
	res, err := r.DB.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return models.UserListing{}, err
	}
	if err := r.checkAffected(ctx, res, l.ID, expectedVersion); err != nil {
		return models.UserListing{}, err
	}
	return r.GetListing(ctx, l.ID)
}

// SetListingStatus updates only the moderation fields.
func (r *ListingRepository) SetListingStatus(ctx context.Context, id, status, reason string) (models.UserListing, error) {
	res, err := r.DB.ExecContext(ctx,
		r.q(`UPDATE listings SET status = ?, reject_reason = ?, version = version + 1, updated_at = ? WHERE id = ?`),
		status, reason, time.Now().UTC(), id,
	)
	if err != nil {
		return models.UserListing{}, err
	}
	if err := r.checkAffected(ctx, res, id, 0); err != nil {
		return models.UserListing{}, err
	}
	return r.GetListing(ctx, id)
}

func (r *ListingRepository) checkAffected(ctx context.Context, res sql.Result, id string, expectedVersion int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetListing(ctx, id); err != nil {
		return err
	}
	if expectedVersion > 0 {
		return fmt.Errorf("%w: listing %s is no longer at version %d", models.ErrConflict, id, expectedVersion)
	}
	return nil
}

func (r *ListingRepository) DeleteListing(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, r.q(`DELETE FROM listings WHERE id = ?`), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrListingNotFound, id)
	}
	return nil
}

func (r *ListingRepository) FindListings(ctx context.Context, f models.ListingFilter) ([]models.UserListing, error) {
	where, args := listingWhere(f)

	column, ok := sortColumns[f.Sort]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		order = "ASC"
	}

	query := `SELECT ` + listingColumns + ` FROM listings` + where + ` ORDER BY ` + column + ` ` + order + `, id ASC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, max(f.Offset, 0))
	}

	rows, err := r.DB.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.UserListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *ListingRepository) CountListings(ctx context.Context, f models.ListingFilter) (int, error) {
	where, args := listingWhere(f)
	var n int
	if err := r.DB.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM listings`+where), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// likeEscaper makes a search term match literally. "!" is used as the escape
// character because MySQL treats a backslash specially inside string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func listingWhere(f models.ListingFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		conds = append(conds, "LOWER(name) LIKE ? ESCAPE '!'")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	}
	boolConds := []struct {
		column string
		value  *bool
	}{
		{"offer", f.Offer},
		{"furnished", f.Furnished},
		{"parking", f.Parking},
	}
	for _, c := range boolConds {
		if c.value != nil {
			conds = append(conds, c.column+" = ?")
			args = append(args, *c.value)
		}
	}
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.UserRef != "" {
		conds = append(conds, "user_ref = ?")
		args = append(args, f.UserRef)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (models.UserListing, error) {
	var l models.UserListing
	var description, address, imagesJSON, rejectReason, priceText, direction, streetWidth sql.NullString
	var area sql.NullFloat64
	var updatedAt sql.NullTime
	err := row.Scan(
		&l.ID, &l.Name, &description, &address, &l.RegularPrice, &l.DiscountPrice, &l.Bathrooms, &l.Bedrooms,
		&l.Furnished, &l.Parking, &l.Type, &l.Offer, &imagesJSON, &l.UserRef, &l.Status, &rejectReason, &l.Source,
		&area, &priceText, &direction, &streetWidth, &l.Version, &l.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.UserListing{}, err
	}
	l.Description = description.String
	l.Address = address.String
	l.RejectReason = rejectReason.String
	l.PriceText = priceText.String
	l.Direction = direction.String
	l.StreetWidth = streetWidth.String
	if area.Valid {
		l.AreaM2 = &area.Float64
	}
	if updatedAt.Valid {
		l.UpdatedAt = &updatedAt.Time
	}
	l.ImageURLs = []string{}
	if imagesJSON.Valid && imagesJSON.String != "" {
		if err := json.Unmarshal([]byte(imagesJSON.String), &l.ImageURLs); err != nil {
			return models.UserListing{}, fmt.Errorf("failed to decode images json: %w", err)
		}
	}
	return l, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
