package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DateFormat is the ISO format used for all dates the service emits or reads
// from the environment.
const DateFormat = "2006-01-02"

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64
	AllowedOrigins     []string

	// ReferenceDate fixes the "still held as of" date the wash-sale engine
	// caps disallowed shares against (e.g. a tax-year end). Zero means the
	// latest date present in the uploaded dataset is used.
	ReferenceDate time.Time

	// OptionGrouping controls whether an option contract is grouped with
	// positions sharing its underlying/expiry/strike/right when matching
	// substantially identical replacements. On by default.
	OptionGrouping bool

	// ResultCacheExpiry bounds how long an assembled report is kept for
	// repeated identical uploads.
	ResultCacheExpiry time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found. Relying on OS environment variables and defaults.")
	} else {
		log.Println(".env file loaded successfully.")
	}

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	var referenceDate time.Time
	if refStr := getEnv("REFERENCE_DATE", ""); refStr != "" {
		referenceDate, err = time.Parse(DateFormat, refStr)
		if err != nil {
			log.Printf("WARNING: Invalid REFERENCE_DATE '%s' (want YYYY-MM-DD). Falling back to latest dataset date. Error: %v", refStr, err)
			referenceDate = time.Time{}
		}
	}

	optionGrouping := true
	if ogStr := getEnv("OPTION_GROUPING", "true"); ogStr != "" {
		optionGrouping, err = strconv.ParseBool(ogStr)
		if err != nil {
			log.Printf("WARNING: Invalid OPTION_GROUPING value '%s'. Using default true. Error: %v", ogStr, err)
			optionGrouping = true
		}
	}

	cacheExpiryStr := getEnv("RESULT_CACHE_EXPIRY", "15m")
	cacheExpiry, err := time.ParseDuration(cacheExpiryStr)
	if err != nil {
		log.Printf("WARNING: Invalid RESULT_CACHE_EXPIRY format '%s'. Using default 15m. Error: %v", cacheExpiryStr, err)
		cacheExpiry = 15 * time.Minute
	}

	origins := strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,
		AllowedOrigins:     origins,
		ReferenceDate:      referenceDate,
		OptionGrouping:     optionGrouping,
		ResultCacheExpiry:  cacheExpiry,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, OptionGrouping=%t",
		Cfg.Port, Cfg.LogLevel, Cfg.OptionGrouping)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
