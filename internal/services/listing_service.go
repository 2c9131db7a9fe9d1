package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"estateBack/internal/models"
	"estateBack/internal/moderation"
	"estateBack/internal/view"
)

type ListingService struct {
	Listings ListingStore
	Crawled  CrawledStore
	Events   EventPublisher
	Logger   Logger
	Limits   Limits
	Now      func() time.Time
}

// ListingSearch is the public search over approved user listings.
type ListingSearch struct {
	SearchTerm string
	Offer      *bool
	Furnished  *bool
	Parking    *bool
	Type       string
	Sort       string
	Order      string
	Limit      int
	StartIndex int
}

func (s *ListingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ListingService) logger() Logger {
	if s.Logger == nil {
		return nopLogger{}
	}
	return s.Logger
}

func (s *ListingService) publish(ctx context.Context, evType string, l models.UserListing, actor Actor) {
	if s.Events == nil {
		return
	}
	ev := models.ModerationEvent{
		Type:         evType,
		ListingID:    l.ID,
		UserRef:      l.UserRef,
		Status:       l.Status,
		RejectReason: l.RejectReason,
		ActorID:      actor.ID,
		At:           s.now(),
	}
	if err := s.Events.PublishModeration(ctx, ev); err != nil {
		s.logger().Errorf("publish %s for listing %s: %v", evType, l.ID, err)
	}
}

func validateListing(l models.UserListing) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if l.Type != models.ListingTypeSale && l.Type != models.ListingTypeRent {
		return fmt.Errorf("%w: type must be %q or %q", models.ErrValidation, models.ListingTypeSale, models.ListingTypeRent)
	}
	if l.RegularPrice < 0 || l.DiscountPrice < 0 || l.Bedrooms < 0 || l.Bathrooms < 0 {
		return fmt.Errorf("%w: prices and room counts must not be negative", models.ErrValidation)
	}
	if l.Offer && l.DiscountPrice >= l.RegularPrice {
		return fmt.Errorf("%w: discount price must be lower than regular price", models.ErrValidation)
	}
	if l.AreaM2 != nil && *l.AreaM2 < 0 {
		return fmt.Errorf("%w: area must not be negative", models.ErrValidation)
	}
	return nil
}

// Create stores a new listing owned by actor. It always starts pending.
func (s *ListingService) Create(ctx context.Context, actor Actor, in models.ListingInput) (models.UserListing, error) {
	if actor.ID == "" {
		return models.UserListing{}, fmt.Errorf("%w: sign in to create listings", models.ErrForbidden)
	}
	l := models.UserListing{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Address:       in.Address,
		RegularPrice:  in.RegularPrice,
		DiscountPrice: in.DiscountPrice,
		Bathrooms:     in.Bathrooms,
		Bedrooms:      in.Bedrooms,
		Furnished:     in.Furnished,
		Parking:       in.Parking,
		Type:          in.Type,
		Offer:         in.Offer,
		ImageURLs:     in.ImageURLs,
		UserRef:       actor.ID,
		Status:        moderation.StatusPending,
		Source:        models.SourceUser,
		AreaM2:        in.AreaM2,
		PriceText:     in.PriceText,
		Direction:     in.Direction,
		StreetWidth:   in.StreetWidth,
		Version:       1,
		CreatedAt:     s.now(),
	}
	if err := validateListing(l); err != nil {
		return models.UserListing{}, err
	}
	created, err := s.Listings.InsertListing(ctx, l)
	if err != nil {
		return models.UserListing{}, fmt.Errorf("insert listing: %w", err)
	}
	s.publish(ctx, models.EventListingCreated, created, actor)
	return created, nil
}

// moderationRole maps the caller to its role on listing l.
func moderationRole(actor Actor, l models.UserListing) (string, error) {
	switch {
	case actor.IsAdmin():
		return moderation.RoleAdmin, nil
	case actor.ID != "" && actor.ID == l.UserRef:
		return moderation.RoleOwner, nil
	}
	return "", fmt.Errorf("%w: you can only update your own listings", models.ErrForbidden)
}

// Update applies a partial edit. Owner edits send the listing back to review;
// admin edits may move it between statuses.
func (s *ListingService) Update(ctx context.Context, actor Actor, id string, p models.ListingPatch) (models.UserListing, error) {
	current, err := s.Listings.GetListing(ctx, id)
	if err != nil {
		return models.UserListing{}, err
	}
	role, err := moderationRole(actor, current)
	if err != nil {
		return models.UserListing{}, err
	}

	next := applyPatch(current, p)
	state, err := moderation.Decide(role, moderation.State{Status: current.Status, RejectReason: current.RejectReason}, p.Status, p.RejectReason)
	if err != nil {
		return models.UserListing{}, err
	}
	next.Status = state.Status
	next.RejectReason = state.RejectReason
	// ownership never changes through an update
	next.UserRef = current.UserRef

	if err := validateListing(next); err != nil {
		return models.UserListing{}, err
	}
	updated, err := s.Listings.UpdateListing(ctx, next, p.Version)
	if err != nil {
		return models.UserListing{}, err
	}
	s.publish(ctx, models.EventListingUpdated, updated, actor)
	return updated, nil
}

func applyPatch(l models.UserListing, p models.ListingPatch) models.UserListing {
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.RegularPrice != nil {
		l.RegularPrice = *p.RegularPrice
	}
	if p.DiscountPrice != nil {
		l.DiscountPrice = *p.DiscountPrice
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Furnished != nil {
		l.Furnished = *p.Furnished
	}
	if p.Parking != nil {
		l.Parking = *p.Parking
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Offer != nil {
		l.Offer = *p.Offer
	}
	if p.ImageURLs != nil {
		l.ImageURLs = append([]string(nil), (*p.ImageURLs)...)
	}
	if p.AreaM2 != nil {
		area := *p.AreaM2
		l.AreaM2 = &area
	}
	if p.PriceText != nil {
		l.PriceText = *p.PriceText
	}
	if p.Direction != nil {
		l.Direction = *p.Direction
	}
	if p.StreetWidth != nil {
		l.StreetWidth = *p.StreetWidth
	}
	return l
}

// ChangeStatus is the admin moderation endpoint.
func (s *ListingService) ChangeStatus(ctx context.Context, actor Actor, id string, req models.StatusChangeRequest) (models.UserListing, error) {
	if !actor.IsAdmin() {
		return models.UserListing{}, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	current, err := s.Listings.GetListing(ctx, id)
	if err != nil {
		return models.UserListing{}, err
	}
	state, err := moderation.DecideStatusChange(moderation.State{Status: current.Status, RejectReason: current.RejectReason}, req.Status, req.RejectReason)
	if err != nil {
		return models.UserListing{}, err
	}
	updated, err := s.Listings.SetListingStatus(ctx, id, state.Status, state.RejectReason)
	if err != nil {
		return models.UserListing{}, err
	}
	s.logger().Infof("listing %s moved %s -> %s by %s", id, current.Status, updated.Status, actor.ID)
	s.publish(ctx, models.EventListingStatus, updated, actor)
	return updated, nil
}

// Delete removes a listing. Only its owner or an admin may do so.
func (s *ListingService) Delete(ctx context.Context, actor Actor, id string) error {
	l, err := s.Listings.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && (actor.ID == "" || actor.ID != l.UserRef) {
		return fmt.Errorf("%w: you can only delete your own listings", models.ErrForbidden)
	}
	if err := s.Listings.DeleteListing(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, models.EventListingDeleted, l, actor)
	return nil
}

func (s *ListingService) Get(ctx context.Context, id string) (models.UserListing, error) {
	return s.Listings.GetListing(ctx, id)
}

// Search lists approved user listings.
func (s *ListingService) Search(ctx context.Context, req ListingSearch) ([]models.UserListing, error) {
	limits := s.Limits.withDefaults()
	limit := req.Limit
	if limit <= 0 {
		limit = limits.UserSearchLimit
	}
	if limit > limits.SnapshotCap {
		limit = limits.SnapshotCap
	}
	t := req.Type
	if t == "all" {
		t = ""
	}
	return s.Listings.FindListings(ctx, models.ListingFilter{
		SearchTerm: req.SearchTerm,
		Offer:      req.Offer,
		Furnished:  req.Furnished,
		Parking:    req.Parking,
		Type:       t,
		Status:     moderation.StatusApproved,
		Sort:       req.Sort,
		Order:      req.Order,
		Limit:      limit,
		Offset:     req.StartIndex,
	})
}

// ByStatus is the admin review queue. An empty status means pending.
func (s *ListingService) ByStatus(ctx context.Context, actor Actor, status string) ([]models.UserListing, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	if strings.TrimSpace(status) == "" {
		status = moderation.StatusPending
	}
	status, err := moderation.Parse(status)
	if err != nil {
		return nil, err
	}
	return s.Listings.FindListings(ctx, models.ListingFilter{
		Status: status,
		Limit:  s.Limits.withDefaults().AdminStatusLimit,
	})
}

// AdminOverview returns the newest user listings of every status together with
// the newest crawled listings.
func (s *ListingService) AdminOverview(ctx context.Context, actor Actor) (models.AdminListings, error) {
	if !actor.IsAdmin() {
		return models.AdminListings{}, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	limit := s.Limits.withDefaults().AdminAllLimit
	user, err := s.Listings.FindListings(ctx, models.ListingFilter{Limit: limit})
	if err != nil {
		return models.AdminListings{}, err
	}
	crawled, err := s.Crawled.FindCrawled(ctx, models.CrawledFilter{NewestFirst: true}, limit)
	if err != nil {
		return models.AdminListings{}, err
	}
	return models.AdminListings{UserListings: user, CrawledListings: crawled}, nil
}

// OwnerListings lists every listing of userID, any status. Callers must be
// the owner or an admin.
func (s *ListingService) OwnerListings(ctx context.Context, actor Actor, userID string) ([]models.UserListing, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, fmt.Errorf("%w: you can only view your own listings", models.ErrForbidden)
	}
	return s.Listings.FindListings(ctx, models.ListingFilter{UserRef: userID})
}

// Feed builds the home page: newest approved user listings and newest crawled
// listings, both as cards.
func (s *ListingService) Feed(ctx context.Context) (models.Feed, error) {
	size := s.Limits.withDefaults().FeedSize
	user, err := s.Listings.FindListings(ctx, models.ListingFilter{Status: moderation.StatusApproved, Limit: size})
	if err != nil {
		return models.Feed{}, err
	}
	feed := models.Feed{
		UserListings:    make([]models.ListingView, 0, len(user)),
		CrawledListings: []models.ListingView{},
	}
	for _, l := range user {
		feed.UserListings = append(feed.UserListings, view.FromUser(l))
	}
	if s.Crawled == nil {
		return feed, nil
	}
	crawled, err := s.Crawled.FindCrawled(ctx, models.CrawledFilter{NewestFirst: true}, size)
	if err != nil {
		return models.Feed{}, err
	}
	for _, c := range crawled {
		feed.CrawledListings = append(feed.CrawledListings, view.FromCrawled(c))
	}
	return feed, nil
}

// Stats counts user listings per moderation status and the crawled listings.
func (s *ListingService) Stats(ctx context.Context, actor Actor) (models.ListingStats, error) {
	if !actor.IsAdmin() {
		return models.ListingStats{}, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	return s.countAll(ctx)
}

func (s *ListingService) countAll(ctx context.Context) (models.ListingStats, error) {
	var st models.ListingStats
	counts := map[string]*int{
		moderation.StatusPending:  &st.Pending,
		moderation.StatusApproved: &st.Approved,
		moderation.StatusRejected: &st.Rejected,
	}
	for status, dst := range counts {
		n, err := s.Listings.CountListings(ctx, models.ListingFilter{Status: status})
		if err != nil {
			return models.ListingStats{}, fmt.Errorf("count %s listings: %w", status, err)
		}
		*dst = n
	}
	if s.Crawled == nil {
		return st, nil
	}
	n, err := s.Crawled.CountCrawled(ctx, models.CrawledFilter{})
	if err != nil {
		return models.ListingStats{}, fmt.Errorf("count crawled listings: %w", err)
	}
	st.Crawled = n
	return st, nil
}

// QueueStats is Stats for internal callers such as the queue monitor.
func (s *ListingService) QueueStats(ctx context.Context) (models.ListingStats, error) {
	return s.countAll(ctx)
}
