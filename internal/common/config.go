package common

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Uploads UploadConfig
	Extract ExtractConfig
	Gemini  GeminiConfig
}

// AppConfig holds server-related configuration
type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	MaxUploadMB        int
}

// UploadConfig holds upload-directory configuration
type UploadConfig struct {
	Dir           string
	Watch         bool
	WatchDebounce time.Duration
}

// ExtractConfig holds text-extraction configuration
type ExtractConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	Timeout       time.Duration
	CacheTTL      time.Duration
}

// GeminiConfig holds chat-responder configuration
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	Grounding string // "once" | "always"
}

// LoadConfig loads configuration from the environment, reading .env first
// when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "docchat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 25),
		},
		Uploads: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "data/uploaded_docs"),
			Watch:         getEnvAsBool("WATCH_UPLOADS", false),
			WatchDebounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
		Extract: ExtractConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			Timeout:       getEnvAsDuration("EXTRACT_TIMEOUT", 2*time.Minute),
			CacheTTL:      getEnvAsDuration("EXTRACT_CACHE_TTL", 30*time.Minute),
		},
		Gemini: GeminiConfig{
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			BaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1"),
			Model:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:   getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
			Grounding: getEnv("GROUNDING_MODE", "once"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.App.Port == "" {
		return NewAppError("CONFIG_ERROR", "APP_PORT is required", ErrInvalidInput)
	}
	if g := c.Gemini.Grounding; g != "once" && g != "always" {
		return NewAppError("CONFIG_ERROR", "GROUNDING_MODE must be \"once\" or \"always\"", ErrInvalidInput)
	}
	return nil
}
