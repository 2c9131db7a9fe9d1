package services

import (
	"context"
	"time"

	"estateBack/internal/models"
	"estateBack/utils"
)

// ListingStore persists user listings.
type ListingStore interface {
	FindListings(ctx context.Context, f models.ListingFilter) ([]models.UserListing, error)
	GetListing(ctx context.Context, id string) (models.UserListing, error)
	InsertListing(ctx context.Context, l models.UserListing) (models.UserListing, error)
	UpdateListing(ctx context.Context, l models.UserListing, expectedVersion int) (models.UserListing, error)
	SetListingStatus(ctx context.Context, id, status, reason string) (models.UserListing, error)
	DeleteListing(ctx context.Context, id string) error
	CountListings(ctx context.Context, f models.ListingFilter) (int, error)
}

// CrawledStore reads and edits harvested listings.
type CrawledStore interface {
	FindCrawled(ctx context.Context, f models.CrawledFilter, limit int) ([]models.CrawledListing, error)
	GetCrawled(ctx context.Context, id string) (models.CrawledListing, error)
	UpdateCrawled(ctx context.Context, id string, u models.CrawledUpdate) (models.CrawledListing, error)
	DeleteCrawled(ctx context.Context, id string) error
	CountCrawled(ctx context.Context, f models.CrawledFilter) (int, error)
}

// UserStore persists accounts. DeleteUser also removes the user's listings
// atomically and reports how many were removed.
type UserStore interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateUser(ctx context.Context, u models.User) (models.User, error)
	DeleteUser(ctx context.Context, id string) (int64, error)
}

type SessionStore interface {
	SaveSession(ctx context.Context, token string, s models.Session) error
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type EventPublisher interface {
	PublishModeration(ctx context.Context, ev models.ModerationEvent) error
}

type ImageSigner interface {
	PresignUpload(folder, filename string) (utils.UploadAuth, error)
}

type TokenIssuer interface {
	NewJWT(userID, role string, ttl time.Duration) (string, error)
	NewRefreshToken() (string, error)
}

// Logger provides minimal logging required by the services.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Actor is the authenticated caller.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Limits bounds the working sets read per request.
type Limits struct {
	SnapshotCap      int
	PageSize         int
	FeedSize         int
	UserSearchLimit  int
	AdminStatusLimit int
	AdminAllLimit    int
}

// DefaultLimits are used for zero fields.
var DefaultLimits = Limits{
	SnapshotCap:      800,
	PageSize:         20,
	FeedSize:         12,
	UserSearchLimit:  9,
	AdminStatusLimit: 200,
	AdminAllLimit:    100,
}

func (l Limits) withDefaults() Limits {
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&l.SnapshotCap, DefaultLimits.SnapshotCap)
	fill(&l.PageSize, DefaultLimits.PageSize)
	fill(&l.FeedSize, DefaultLimits.FeedSize)
	fill(&l.UserSearchLimit, DefaultLimits.UserSearchLimit)
	fill(&l.AdminStatusLimit, DefaultLimits.AdminStatusLimit)
	fill(&l.AdminAllLimit, DefaultLimits.AdminAllLimit)
	return l
}
