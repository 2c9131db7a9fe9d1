package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPath = "config/config.yaml"

	defaultAddress          = ":4000"
	defaultDriver           = "mysql"
	defaultMongoDatabase    = "estate"
	defaultMongoCollection  = "alonhadat_da_nang"
	defaultRedisAddr        = "localhost:6379"
	defaultAccessTTLMinutes = 15
	defaultRefreshTTLHours  = 24 * 7
	defaultSnapshotCap      = 800
	defaultPageSize         = 20
	defaultFeedSize         = 12
	defaultUserSearchLimit  = 9
	defaultAdminStatusLimit = 200
	defaultAdminAllLimit    = 100
	defaultPresignMinutes   = 15
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Mongo struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"mongo"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret        string `yaml:"jwt_secret"`
		AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
		RefreshTTLHours  int    `yaml:"refresh_ttl_hours"`
		AdminEmail       string `yaml:"admin_email"`
	} `yaml:"auth"`
	Storage struct {
		Region         string `yaml:"region"`
		Bucket         string `yaml:"bucket"`
		Endpoint       string `yaml:"endpoint"`
		AccessKey      string `yaml:"access_key"`
		SecretKey      string `yaml:"secret_key"`
		PresignMinutes int    `yaml:"presign_minutes"`
	} `yaml:"storage"`
	Listings struct {
		SnapshotCap      int `yaml:"snapshot_cap"`
		PageSize         int `yaml:"page_size"`
		FeedSize         int `yaml:"feed_size"`
		UserSearchLimit  int `yaml:"user_search_limit"`
		AdminStatusLimit int `yaml:"admin_status_limit"`
		AdminAllLimit    int `yaml:"admin_all_limit"`
	} `yaml:"listings"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// AccessTTL is the lifetime of an access token.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTTLMinutes) * time.Minute
}

// RefreshTTL is the lifetime of a refresh session.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTTLHours) * time.Hour
}

// PresignTTL is how long an image upload URL stays valid.
func (c Config) PresignTTL() time.Duration {
	return time.Duration(c.Storage.PresignMinutes) * time.Minute
}

// Load reads .env, the YAML file at path and environment overrides, in that
// order. A missing file at DefaultPath is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	var cfg Config
	cfg.Server.Address = defaultAddress
	cfg.Database.Driver = defaultDriver
	cfg.Mongo.Database = defaultMongoDatabase
	cfg.Mongo.Collection = defaultMongoCollection
	cfg.Redis.Addr = defaultRedisAddr
	cfg.Auth.AccessTTLMinutes = defaultAccessTTLMinutes
	cfg.Auth.RefreshTTLHours = defaultRefreshTTLHours
	cfg.Storage.PresignMinutes = defaultPresignMinutes
	cfg.Listings.SnapshotCap = defaultSnapshotCap
	cfg.Listings.PageSize = defaultPageSize
	cfg.Listings.FeedSize = defaultFeedSize
	cfg.Listings.UserSearchLimit = defaultUserSearchLimit
	cfg.Listings.AdminStatusLimit = defaultAdminStatusLimit
	cfg.Listings.AdminAllLimit = defaultAdminAllLimit
	return cfg
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Address = ":" + strings.TrimPrefix(v, ":")
	}
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Mongo.URI, "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGO_DATABASE")
	setString(&cfg.Mongo.Collection, "MONGO_COLLECTION")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Storage.Region, "AWS_REGION")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"REDIS_DB", &cfg.Redis.DB},
		{"ACCESS_TTL_MINUTES", &cfg.Auth.AccessTTLMinutes},
		{"REFRESH_TTL_HOURS", &cfg.Auth.RefreshTTLHours},
		{"PRESIGN_MINUTES", &cfg.Storage.PresignMinutes},
		{"SNAPSHOT_CAP", &cfg.Listings.SnapshotCap},
		{"PAGE_SIZE", &cfg.Listings.PageSize},
		{"FEED_SIZE", &cfg.Listings.FeedSize},
	}
	for _, e := range ints {
		v, err := readIntEnv(e.name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", e.name, err)
		}
		if v != nil {
			*e.dst = *v
		}
	}
	return nil
}

// Validate checks the values the service cannot start without.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "pgx", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Listings.SnapshotCap <= 0 || c.Listings.PageSize <= 0 || c.Listings.FeedSize <= 0 {
		return fmt.Errorf("listing limits must be positive")
	}
	if c.Listings.PageSize > c.Listings.SnapshotCap {
		return fmt.Errorf("page size must be <= snapshot cap")
	}
	if c.Auth.AccessTTLMinutes <= 0 || c.Auth.RefreshTTLHours <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
