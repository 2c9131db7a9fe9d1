package analysis

import "estateBack/internal/models"

// Kind names one of the report endpoints.
type Kind string

const (
	Wards       Kind = "wards"
	Directions  Kind = "directions"
	StreetWidth Kind = "street-width"
)

type definition struct {
	key    KeyFunc
	order  Order
	filter models.CrawledFilter
}

var definitions = map[Kind]definition{
	Wards:       {key: ByWard, order: ByAverageDesc, filter: models.CrawledFilter{RequireAddress: true}},
	Directions:  {key: ByDirection, order: ByCountDesc, filter: models.CrawledFilter{RequireDirection: true}},
	StreetWidth: {key: ByStreetWidth, order: ByCountDesc, filter: models.CrawledFilter{RequireStreetWidth: true}},
}

// Filter returns the storage predicate a snapshot for kind must be fetched with.
func Filter(kind Kind) (models.CrawledFilter, bool) {
	d, ok := definitions[kind]
	return d.filter, ok
}

// Build runs the report kind over snapshot.
func Build(kind Kind, snapshot []models.CrawledListing) (models.Report, bool) {
	d, ok := definitions[kind]
	if !ok {
		return models.Report{}, false
	}
	return Aggregate(snapshot, d.key, d.order), true
}
