package models

import "time"

// CrawledListing is a harvested listing after its loose source fields have been
// coerced. Nil numeric pointers mean the source value was absent or unparseable.
type CrawledListing struct {
	ID          string     `json:"_id"`
	ExternalID  string     `json:"listing_id,omitempty"`
	Source      string     `json:"source,omitempty"`
	URL         string     `json:"url,omitempty"`
	Title       string     `json:"title"`
	Brief       string     `json:"brief,omitempty"`
	Address     string     `json:"address"`
	AreaM2      *float64   `json:"area_m2"`
	AreaText    string     `json:"area_text,omitempty"`
	StreetWidth string     `json:"street_width,omitempty"`
	SizeText    string     `json:"size_text,omitempty"`
	Direction   string     `json:"direction,omitempty"`
	PriceText   string     `json:"price_text,omitempty"`
	PriceValue  *float64   `json:"price_value"`
	Price       string     `json:"price,omitempty"`
	PostedTime  string     `json:"posted_time,omitempty"`
	Image       string     `json:"image,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	CrawledAt   *time.Time `json:"crawled_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// CrawledPatch holds the admin-editable whitelist. Raw numeric inputs stay
// loose until the service coerces them.
type CrawledPatch struct {
	Title       *string `json:"title,omitempty"`
	Brief       *string `json:"brief,omitempty"`
	Address     *string `json:"address,omitempty"`
	AreaM2      any     `json:"area_m2,omitempty"`
	StreetWidth *string `json:"street_width,omitempty"`
	SizeText    *string `json:"size_text,omitempty"`
	Direction   *string `json:"direction,omitempty"`
	PriceText   *string `json:"price_text,omitempty"`
	PriceValue  any     `json:"price_value,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// CrawledUpdate is the coerced form of CrawledPatch handed to storage.
type CrawledUpdate struct {
	Title       *string
	Brief       *string
	Address     *string
	AreaM2      *float64
	StreetWidth *string
	SizeText    *string
	Direction   *string
	PriceText   *string
	PriceValue  *float64
	Image       *string
	UpdatedAt   time.Time
}

// CrawledFilter holds the substring predicates pushed down to storage.
type CrawledFilter struct {
	SearchTerm  string
	Ward        string
	Direction   string
	StreetWidth string

	// RequireAddress, RequireDirection and RequireStreetWidth restrict the
	// snapshot to documents carrying a non-empty grouping field, plus
	// price_value and area_m2.
	RequireAddress     bool
	RequireDirection   bool
	RequireStreetWidth bool

	NewestFirst bool
}
