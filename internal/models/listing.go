package models

import "time"

const (
	SourceUser    = "user"
	SourceCrawled = "crawled"

	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// UserListing is a listing submitted by an account holder. UserRef, Status and
// RejectReason are assigned by the system and never taken from client payloads.
type UserListing struct {
	ID            string     `json:"_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Address       string     `json:"address"`
	RegularPrice  float64    `json:"regularPrice"`
	DiscountPrice float64    `json:"discountPrice"`
	Bathrooms     int        `json:"bathrooms"`
	Bedrooms      int        `json:"bedrooms"`
	Furnished     bool       `json:"furnished"`
	Parking       bool       `json:"parking"`
	Type          string     `json:"type"`
	Offer         bool       `json:"offer"`
	ImageURLs     []string   `json:"imageUrls"`
	UserRef       string     `json:"userRef"`
	Status        string     `json:"status"`
	RejectReason  string     `json:"rejectReason"`
	Source        string     `json:"source"`
	AreaM2        *float64   `json:"areaM2,omitempty"`
	PriceText     string     `json:"priceText,omitempty"`
	Direction     string     `json:"direction,omitempty"`
	StreetWidth   string     `json:"streetWidth,omitempty"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ListingInput is the client-writable part of a user listing. It has no
// ownership, moderation, id or timestamp fields, so those are dropped on decode.
type ListingInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Address       string   `json:"address"`
	RegularPrice  float64  `json:"regularPrice"`
	DiscountPrice float64  `json:"discountPrice"`
	Bathrooms     int      `json:"bathrooms"`
	Bedrooms      int      `json:"bedrooms"`
	Furnished     bool     `json:"furnished"`
	Parking       bool     `json:"parking"`
	Type          string   `json:"type"`
	Offer         bool     `json:"offer"`
	ImageURLs     []string `json:"imageUrls"`
	AreaM2        *float64 `json:"areaM2,omitempty"`
	PriceText     string   `json:"priceText,omitempty"`
	Direction     string   `json:"direction,omitempty"`
	StreetWidth   string   `json:"streetWidth,omitempty"`
}

// ListingPatch is a partial update. Nil fields are left untouched. Status and
// RejectReason are honoured for admins only.
type ListingPatch struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Address       *string   `json:"address,omitempty"`
	RegularPrice  *float64  `json:"regularPrice,omitempty"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	Bathrooms     *int      `json:"bathrooms,omitempty"`
	Bedrooms      *int      `json:"bedrooms,omitempty"`
	Furnished     *bool     `json:"furnished,omitempty"`
	Parking       *bool     `json:"parking,omitempty"`
	Type          *string   `json:"type,omitempty"`
	Offer         *bool     `json:"offer,omitempty"`
	ImageURLs     *[]string `json:"imageUrls,omitempty"`
	AreaM2        *float64  `json:"areaM2,omitempty"`
	PriceText     *string   `json:"priceText,omitempty"`
	Direction     *string   `json:"direction,omitempty"`
	StreetWidth   *string   `json:"streetWidth,omitempty"`
	Status        *string   `json:"status,omitempty"`
	RejectReason  *string   `json:"rejectReason,omitempty"`
	Version       int       `json:"version,omitempty"`
}

// StatusChangeRequest is the body of the admin moderation endpoint.
type StatusChangeRequest struct {
	Status       string  `json:"status"`
	RejectReason *string `json:"rejectReason,omitempty"`
}

// ListingFilter describes a query over user listings. Zero values mean "any".
type ListingFilter struct {
	SearchTerm string
	Offer      *bool
	Furnished  *bool
	Parking    *bool
	Type       string
	Status     string
	UserRef    string
	Sort       string
	Order      string
	Limit      int
	Offset     int
}

// AdminListings is returned by the combined admin overview.
type AdminListings struct {
	UserListings    []UserListing    `json:"userListings"`
	CrawledListings []CrawledListing `json:"crawledListings"`
}

// Moderation event types.
const (
	EventListingCreated = "listing.created"
	EventListingUpdated = "listing.updated"
	EventListingStatus  = "listing.status"
	EventListingDeleted = "listing.deleted"
)

// ModerationEvent is broadcast to admin dashboards when a listing enters,
// moves through or leaves the review queue.
type ModerationEvent struct {
	Type         string    `json:"type"`
	ListingID    string    `json:"listingId"`
	UserRef      string    `json:"userRef,omitempty"`
	Status       string    `json:"status,omitempty"`
	RejectReason string    `json:"rejectReason,omitempty"`
	ActorID      string    `json:"actorId,omitempty"`
	At           time.Time `json:"at"`
}

// ListingStats summarizes the moderation queue.
type ListingStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Crawled  int `json:"crawled"`
}
