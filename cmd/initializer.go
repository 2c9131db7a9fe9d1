package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"estateBack/internal/config"
	"estateBack/internal/handlers"
	"estateBack/internal/repositories"
	"estateBack/internal/services"
	"estateBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	tokens      *utils.Manager
	eventRepo   *repositories.EventRepository
	userService *services.UserService

	listingService *services.ListingService

	listingHandler  *handlers.ListingHandler
	crawledHandler  *handlers.CrawledHandler
	analysisHandler *handlers.AnalysisHandler
	userHandler     *handlers.UserHandler
	imageHandler    *handlers.ImageHandler

	hub *ModerationHub
}

type appDeps struct {
	db        *sql.DB
	crawled   *mongo.Collection
	rdb       *redis.Client
	tokens    *utils.Manager
	presigner *utils.Presigner
}

// logAdapter lets services log through the application loggers.
type logAdapter struct {
	info *log.Logger
	err  *log.Logger
}

func (l logAdapter) Infof(format string, args ...interface{}) {
	l.info.Output(2, fmt.Sprintf(format, args...))
}

func (l logAdapter) Errorf(format string, args ...interface{}) {
	l.err.Output(2, fmt.Sprintf(format, args...))
}

func initializeApp(cfg config.Config, deps appDeps, errorLog, infoLog *log.Logger) *application {
	logger := logAdapter{info: infoLog, err: errorLog}
	limits := services.Limits{
		SnapshotCap:      cfg.Listings.SnapshotCap,
		PageSize:         cfg.Listings.PageSize,
		FeedSize:         cfg.Listings.FeedSize,
		UserSearchLimit:  cfg.Listings.UserSearchLimit,
		AdminStatusLimit: cfg.Listings.AdminStatusLimit,
		AdminAllLimit:    cfg.Listings.AdminAllLimit,
	}

	// Repositories
	listingRepo := &repositories.ListingRepository{DB: deps.db, Driver: cfg.Database.Driver}
	userRepo := &repositories.UserRepository{DB: deps.db, Driver: cfg.Database.Driver}
	crawledRepo := &repositories.CrawledRepository{Collection: deps.crawled}
	sessionRepo := &repositories.SessionRepository{RDB: deps.rdb}
	eventRepo := &repositories.EventRepository{RDB: deps.rdb}

	// Services
	listingService := &services.ListingService{
		Listings: listingRepo,
		Crawled:  crawledRepo,
		Events:   eventRepo,
		Logger:   logger,
		Limits:   limits,
	}
	crawledService := &services.CrawledService{Crawled: crawledRepo, Logger: logger, Limits: limits}
	analysisService := &services.AnalysisService{Crawled: crawledRepo, Limits: limits}
	userService := &services.UserService{
		Users:      userRepo,
		Sessions:   sessionRepo,
		Tokens:     deps.tokens,
		Logger:     logger,
		AdminEmail: cfg.Auth.AdminEmail,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	}
	imageService := &services.ImageService{}
	if deps.presigner != nil {
		imageService.Signer = deps.presigner
	}

	// Handlers
	return &application{
		errorLog:       errorLog,
		infoLog:        infoLog,
		tokens:         deps.tokens,
		eventRepo:      eventRepo,
		userService:    userService,
		listingService: listingService,

		listingHandler:  &handlers.ListingHandler{Service: listingService, ErrorLog: errorLog},
		crawledHandler:  &handlers.CrawledHandler{Service: crawledService, ErrorLog: errorLog},
		analysisHandler: &handlers.AnalysisHandler{Service: analysisService, ErrorLog: errorLog},
		userHandler:     &handlers.UserHandler{Service: userService, Listings: listingService, ErrorLog: errorLog},
		imageHandler:    &handlers.ImageHandler{Service: imageService, ErrorLog: errorLog},

		hub: NewModerationHub(infoLog, errorLog),
	}
}
