package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every secret and knob the pipeline needs. It is built once
// at startup and handed by pointer into each client constructor; nothing in
// the business logic reads the environment directly.
type Config struct {
	ListenAddr string `json:"listen_addr"`
	DataDir    string `json:"data_dir"`
	IndexDir   string `json:"index_dir"`

	TelegramBotToken string `json:"telegram_bot_token"`

	ChartBaseURL  string `json:"chart_base_url"`
	ChartAPIKey   string `json:"chart_api_key"`
	ChartInterval string `json:"chart_interval"`

	OCRBaseURL string `json:"ocr_base_url"`
	OCRAPIKey  string `json:"ocr_api_key"`

	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`
	FinnhubAPIKey      string `json:"finnhub_api_key"`

	DeepSeekAPIKey  string        `json:"deepseek_api_key"`
	DeepSeekModel   string        `json:"deepseek_model"`
	AnalysisTimeout time.Duration `json:"analysis_timeout"`

	NewsLimit    int    `json:"news_limit"`
	NewsLanguage string `json:"news_language"`

	CacheEnabled bool `json:"cache_enabled"`
	Debug        bool `json:"debug"`
}

func Load() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ListenAddr: ":5000",
		DataDir:    filepath.Join(currentDir, "data"),
		IndexDir:   filepath.Join(currentDir, "data", "sentiment_index"),

		ChartBaseURL:  "https://api.chartimage.com/v1",
		ChartInterval: "4h",

		OCRBaseURL: "https://api.ocr.space",

		DeepSeekModel:   "deepseek-chat",
		AnalysisTimeout: 120 * time.Second,

		NewsLimit:    3,
		NewsLanguage: "en",

		CacheEnabled: true,
		Debug:        false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
		c.IndexDir = filepath.Join(val, "sentiment_index")
	}
	if val := os.Getenv("INDEX_DIR"); val != "" {
		c.IndexDir = val
	}

	if val := os.Getenv("TELEGRAM_BOT_TOKEN"); val != "" {
		c.TelegramBotToken = val
	}

	if val := os.Getenv("CHART_BASE_URL"); val != "" {
		c.ChartBaseURL = val
	}
	if val := os.Getenv("CHARTIMAGE_API_KEY"); val != "" {
		c.ChartAPIKey = val
	}
	if val := os.Getenv("CHART_INTERVAL"); val != "" {
		c.ChartInterval = val
	}

	if val := os.Getenv("OCR_BASE_URL"); val != "" {
		c.OCRBaseURL = val
	}
	if val := os.Getenv("OCR_SPACE_API_KEY"); val != "" {
		c.OCRAPIKey = val
	}

	if val := os.Getenv("ALPHA_VANTAGE_API_KEY"); val != "" {
		c.AlphaVantageAPIKey = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}

	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_MODEL"); val != "" {
		c.DeepSeekModel = val
	}
	if val := os.Getenv("ANALYSIS_TIMEOUT_SECONDS"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			c.AnalysisTimeout = time.Duration(secs) * time.Second
		}
	}

	if val := os.Getenv("NEWS_LIMIT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.NewsLimit = n
		}
	}
	if val := os.Getenv("NEWS_LANGUAGE"); val != "" {
		c.NewsLanguage = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("TICKERLENS_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// ValidateForServe checks the secrets the webhook server cannot run without.
// The pipeline degrades per stage when optional keys are missing, but without
// a bot token nothing could ever be delivered.
func (c *Config) ValidateForServe() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	return nil
}

// EnsureDirectories creates the data directories used by the market data
// cache and the sentiment index.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.IndexDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
