package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"flowpulse-docparse/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort       string
	MaxFileSize      int64
	LogLevel         string
	LogFormat        string
	SupabaseURL      string
	SupabaseKey      string
	TesseractPath    string
	TesseractLang    string
	TessdataDir      string
	ExtractTimeout   time.Duration
	BatchConcurrency int
	AllowedOrigins   []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:       getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:      getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "json"),
		SupabaseURL:      getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:      getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		TesseractPath:    getEnvOrDefault("TESSERACT_PATH", "tesseract"),
		TesseractLang:    getEnvOrDefault("TESSERACT_LANG", "eng"),
		TessdataDir:      getEnvOrDefault("TESSDATA_PREFIX", ""),
		ExtractTimeout:   getEnvDurationOrDefault("EXTRACT_TIMEOUT", 2*time.Minute),
		BatchConcurrency: getEnvIntOrDefault("BATCH_CONCURRENCY", 4),
		AllowedOrigins:   getEnvListOrDefault("CORS_ALLOWED_ORIGINS", nil),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// SupabaseEnabled reports whether persistence and auth go through Supabase.
func (c *AppConfig) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

func (c *AppConfig) GetTesseractPath() string {
	return c.TesseractPath
}

func (c *AppConfig) GetTesseractLang() string {
	return c.TesseractLang
}

func (c *AppConfig) GetTessdataDir() string {
	return c.TessdataDir
}

// GetExtractTimeout bounds a single extraction. Zero disables the deadline.
func (c *AppConfig) GetExtractTimeout() time.Duration {
	return c.ExtractTimeout
}

func (c *AppConfig) GetBatchConcurrency() int {
	return c.BatchConcurrency
}

// GetAllowedOrigins returns the CORS origins; nil means the router defaults.
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
