package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Places    PlacesConfig
	Gemini    GeminiConfig
	S3        S3Config
	Directory DirectoryConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the document store backend: memory, postgres or mongo.
type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
	PlaceTTL time.Duration
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// PlacesConfig configures the Google Places / Geocoding client.
type PlacesConfig struct {
	APIKey    string
	BaseURL   string
	Language  string
	Region    string
	Timeout   time.Duration
	PageDelay time.Duration // wait before a next_page_token becomes valid
	MaxPages  int
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	ConversationTTL time.Duration
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// DirectoryConfig holds directory-wide defaults.
type DirectoryConfig struct {
	Timezone        string
	DefaultCountry  string
	DefaultCity     string
	CategoryTimeout time.Duration
}

type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

type SchedulerConfig struct {
	CampaignSweepSpec string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "guialocal"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "guialocal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "guialocal"),
			Timeout:  parseDuration(getEnv("MONGO_TIMEOUT", "10s"), 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			PlaceTTL: parseDuration(getEnv("REDIS_PLACES_TTL", "6h"), 6*time.Hour),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Places: PlacesConfig{
			APIKey:    getEnv("GOOGLE_PLACES_API_KEY", ""),
			BaseURL:   getEnv("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api"),
			Language:  getEnv("GOOGLE_PLACES_LANGUAGE", "pt-BR"),
			Region:    getEnv("GOOGLE_PLACES_REGION", "br"),
			Timeout:   parseDuration(getEnv("GOOGLE_PLACES_TIMEOUT", "10s"), 10*time.Second),
			PageDelay: parseDuration(getEnv("GOOGLE_PLACES_PAGE_DELAY", "2s"), 2*time.Second),
			MaxPages:  getEnvInt("GOOGLE_PLACES_MAX_PAGES", 3),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			ConversationTTL: parseDuration(getEnv("CHAT_CONVERSATION_TTL", "30m"), 30*time.Minute),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "sa-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "guialocal-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Directory: DirectoryConfig{
			Timezone:        getEnv("DIRECTORY_TIMEZONE", "America/Sao_Paulo"),
			DefaultCountry:  getEnv("DIRECTORY_DEFAULT_COUNTRY", "Brasil"),
			DefaultCity:     getEnv("DIRECTORY_DEFAULT_CITY", ""),
			CategoryTimeout: parseDuration(getEnv("DIRECTORY_CATEGORY_TIMEOUT", "2s"), 2*time.Second),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 20),
			Interval: parseDuration(getEnv("RATE_LIMIT_INTERVAL", "1m"), time.Minute),
		},
		Scheduler: SchedulerConfig{
			CampaignSweepSpec: getEnv("CAMPAIGN_SWEEP_SPEC", "*/15 * * * *"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "postgres", "mongo":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if _, err := time.LoadLocation(c.Directory.Timezone); err != nil {
		return fmt.Errorf("invalid DIRECTORY_TIMEZONE %q: %w", c.Directory.Timezone, err)
	}
	if c.Places.MaxPages < 1 {
		c.Places.MaxPages = 1
	}
	return nil
}

// Location returns the business-local time zone used for open/closed checks.
func (c *DirectoryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
