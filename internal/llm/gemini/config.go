package gemini

import (
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Grounding strategies: resend the document text on every turn (the costly
// but robust variant) or prime the conversation with it once.
const (
	GroundOnce   = "once"
	GroundAlways = "always"
)

// Config for the Gemini client.
type Config struct {
	APIKey    string // if empty, falls back to env GEMINI_API_KEY
	BaseURL   string // default https://generativelanguage.googleapis.com/v1
	Model     string // e.g., "gemini-1.5-flash"
	Timeout   time.Duration
	Grounding string // GroundOnce | GroundAlways
}

// Client talks to the Gemini generateContent API and keeps one isolated
// conversational context per document.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger

	mu    sync.Mutex
	convs map[string][]chatContent // keyed by document name
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.Grounding == "" {
		cfg.Grounding = GroundOnce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		log:   logger,
		convs: make(map[string][]chatContent),
	}
}
