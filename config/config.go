package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StoreBackend     string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	HTTPAddr string

	LogLevel      string
	LogFormat     string
	LogNoColor    bool
	FluentEnabled bool
	FluentHost    string
	FluentPort    int

	ChromeBin         string
	NavTimeoutTrains  time.Duration
	NavTimeoutFlights time.Duration
	PageWaitTimeout   time.Duration
	SettleTrains      time.Duration
	SettleFlights     time.Duration
	SelectorsFile     string

	OLXEndpoint  string
	OLXPageSize  int
	OLXMaxPages  int
	PageDelayMin time.Duration
	PageDelayMax time.Duration

	MaxRetries int
	RetryDelay time.Duration
	MaxTrains  int
	MaxFlights int

	FlightTTL     time.Duration
	TrainTTL      time.Duration
	ClassifiedTTL time.Duration

	SearchMemoSize int
	SearchMemoTTL  time.Duration

	WarmConcurrency int
	WarmInterval    time.Duration

	CSVOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		StoreBackend:     getEnv("STORE_BACKEND", "postgres"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "travel_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogNoColor:    getEnvBool("LOG_NO_COLOR", false),
		FluentEnabled: getEnvBool("FLUENT_ENABLED", false),
		FluentHost:    getEnv("FLUENT_HOST", "localhost"),
		FluentPort:    getEnvInt("FLUENT_PORT", 24224),

		ChromeBin:         getEnv("CHROME_BIN", ""),
		NavTimeoutTrains:  getEnvDuration("NAV_TIMEOUT_TRAINS", 30*time.Second),
		NavTimeoutFlights: getEnvDuration("NAV_TIMEOUT_FLIGHTS", 45*time.Second),
		PageWaitTimeout:   getEnvDuration("PAGE_WAIT_TIMEOUT", 15*time.Second),
		SettleTrains:      getEnvDuration("SETTLE_TRAINS", 2*time.Second),
		SettleFlights:     getEnvDuration("SETTLE_FLIGHTS", 5*time.Second),
		SelectorsFile:     getEnv("SELECTORS_FILE", ""),

		OLXEndpoint:  getEnv("OLX_ENDPOINT", "https://www.olx.in/api/relevance/v2/search"),
		OLXPageSize:  getEnvInt("OLX_PAGE_SIZE", 40),
		OLXMaxPages:  getEnvInt("OLX_MAX_PAGES", 3),
		PageDelayMin: getEnvDuration("PAGE_DELAY_MIN", 1500*time.Millisecond),
		PageDelayMax: getEnvDuration("PAGE_DELAY_MAX", 2500*time.Millisecond),

		MaxRetries: getEnvInt("MAX_RETRIES", 2),
		RetryDelay: getEnvDuration("RETRY_DELAY", 2*time.Second),
		MaxTrains:  getEnvInt("MAX_TRAINS", 30),
		MaxFlights: getEnvInt("MAX_FLIGHTS", 20),

		FlightTTL:     getEnvDuration("FLIGHT_CACHE_TTL", 6*time.Hour),
		TrainTTL:      getEnvDuration("TRAIN_CACHE_TTL", 12*time.Hour),
		ClassifiedTTL: getEnvDuration("CLASSIFIED_CACHE_TTL", 24*time.Hour),

		SearchMemoSize: getEnvInt("SEARCH_MEMO_SIZE", 256),
		SearchMemoTTL:  getEnvDuration("SEARCH_MEMO_TTL", 5*time.Minute),

		WarmConcurrency: getEnvInt("WARM_CONCURRENCY", 1),
		WarmInterval:    getEnvDuration("WARM_INTERVAL", 5*time.Second),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/raw_scrape.csv"),
	}
}

// Validate reports every incoherent setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be postgres or memory, got %q", c.StoreBackend))
	}
	if c.OLXPageSize <= 0 {
		errs = append(errs, errors.New("OLX_PAGE_SIZE must be positive"))
	}
	if c.OLXMaxPages <= 0 {
		errs = append(errs, errors.New("OLX_MAX_PAGES must be positive"))
	}
	if c.PageDelayMax < c.PageDelayMin {
		errs = append(errs, errors.New("PAGE_DELAY_MAX must not be below PAGE_DELAY_MIN"))
	}
	if c.FlightTTL <= 0 || c.TrainTTL <= 0 || c.ClassifiedTTL <= 0 {
		errs = append(errs, errors.New("cache TTLs must be positive"))
	}
	if c.MaxRetries < 1 {
		errs = append(errs, errors.New("MAX_RETRIES must be at least 1"))
	}
	if c.SearchMemoSize <= 0 {
		errs = append(errs, errors.New("SEARCH_MEMO_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or bare milliseconds ("1500").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
