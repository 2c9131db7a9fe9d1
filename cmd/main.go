package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estateBack/internal/config"
	"estateBack/internal/repositories"
	"estateBack/utils"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	addrFlag := flag.String("addr", "", "HTTP network address (overrides config)")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		errorLog.Fatal(err)
	}
	addr := cfg.Server.Address
	if *addrFlag != "" {
		addr = *addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.OpenDB(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer db.Close()
	if err := repositories.EnsureSchema(ctx, db, cfg.Database.Driver); err != nil {
		errorLog.Fatal(err)
	}
	infoLog.Printf("Connected to %s database", cfg.Database.Driver)

	mongoClient, err := openMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		errorLog.Fatal(err)
	}
	defer mongoClient.Disconnect(context.Background())
	crawled := mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		errorLog.Fatalf("redis ping: %v", err)
	}

	tokens, err := utils.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		errorLog.Fatal(err)
	}
	presigner, err := utils.NewPresigner(utils.StorageConfig{
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		TTL:       cfg.PresignTTL(),
	})
	if err != nil {
		errorLog.Printf("image uploads disabled: %v", err)
		presigner = nil
	}

	app := initializeApp(cfg, appDeps{
		db:        db,
		crawled:   crawled,
		rdb:       rdb,
		tokens:    tokens,
		presigner: presigner,
	}, errorLog, infoLog)

	events, err := app.eventRepo.SubscribeModeration(ctx)
	if err != nil {
		errorLog.Printf("moderation feed disabled: %v", err)
	}
	go app.hub.Run(ctx, events)
	startQueueMonitor(ctx, app.listingService, infoLog, errorLog)

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Refresh-Token"},
		ExposedHeaders:   []string{"Authorization"},
	})

	srv := &http.Server{
		Addr:         addr,
		ErrorLog:     errorLog,
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errorLog.Printf("shutdown: %v", err)
		}
	}()

	infoLog.Printf("Starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errorLog.Fatal(err)
	}
	infoLog.Print("Server stopped")
}

func openMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
