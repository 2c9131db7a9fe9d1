package models

// ReportGroup is one bucket of an aggregation report.
type ReportGroup struct {
	Key                 string   `json:"key"`
	Count               int      `json:"count"`
	Percentage          float64  `json:"percentage"`
	TotalArea           float64  `json:"totalArea"`
	TotalPrice          float64  `json:"totalPrice"`
	AveragePricePerArea *float64 `json:"averagePricePerArea"`
}

type Report struct {
	Total            int           `json:"total"`
	GlobalTotalArea  float64       `json:"globalTotalArea"`
	GlobalTotalPrice float64       `json:"globalTotalPrice"`
	Groups           []ReportGroup `json:"groups"`
}

// ListingView is the presentation model shared by both listing origins.
type ListingView struct {
	ID          string   `json:"id"`
	Origin      string   `json:"origin"`
	DetailPath  string   `json:"detailPath"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	Price       string   `json:"price,omitempty"`
	Images      []string `json:"images"`
	Info        string   `json:"info,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Feed is the home page payload.
type Feed struct {
	UserListings    []ListingView `json:"userListings"`
	CrawledListings []ListingView `json:"crawledListings"`
}

// CrawledPage is the page-mode search response.
type CrawledPage struct {
	Listings   []CrawledListing `json:"listings"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}
