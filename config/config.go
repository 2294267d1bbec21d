package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Synonym is one ordered alias substitution applied to product names before
// fingerprinting. Substitutions run in list order, each pass operating on the
// already-substituted text, so earlier rules can feed later ones.
type Synonym struct {
	From string
	To   string
}

// Config holds all pipeline configuration. It is immutable after Load and
// passed into each stage at construction.
type Config struct {
	InputPath  string
	OutputPath string

	USDToEURRate        float64
	MinPriceEUR         float64
	MaxPriceMultiplier  float64
	PriceScaleThreshold float64

	Synonyms  []Synonym
	Stopwords []string

	MaxWorkers int

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLiteOutputPath string
}

// DefaultSynonyms is the shipped alias list. Order matters and is part of
// the contract: overlapping patterns resolve by list position, nothing else.
func DefaultSynonyms() []Synonym {
	return []Synonym{
		{"ps5", "playstation 5"},
		{"ps4", "playstation 4"},
		{"s21", "galaxy s21"},
		{"macbook", "apple macbook"},
		{"playstation5", "playstation 5"},
	}
}

// DefaultStopwords is the shipped marketing-noise token set, removed from
// product names as whole tokens before fingerprinting.
func DefaultStopwords() []string {
	return []string{"edition", "eur", "promo", "soldes", "offre", "vente", "version", "limitée"}
}

// Load reads the .env file and returns a populated Config struct.
// Input/output paths and the exchange rate come from CLI flags and are set
// by the caller after Load.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		USDToEURRate:        getEnvFloat("USD_TO_EUR_RATE", 1.10),
		MinPriceEUR:         getEnvFloat("MIN_PRICE_EUR", 5.0),
		MaxPriceMultiplier:  getEnvFloat("MAX_PRICE_MULTIPLIER", 10.0),
		PriceScaleThreshold: getEnvFloat("PRICE_SCALE_THRESHOLD", 10000.0),

		Synonyms:  DefaultSynonyms(),
		Stopwords: DefaultStopwords(),

		MaxWorkers: getEnvInt("MAX_WORKERS", 4),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "catalogue"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "catalogue123"),
		PostgresDB:       getEnv("POSTGRES_DB", "catalogue_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLiteOutputPath: getEnv("SQLITE_OUTPUT_PATH", ""),
	}
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

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
