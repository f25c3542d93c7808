package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"site-assistant/models"
)

type Config struct {
	// Server configuration
	Port             string
	CORSAllowOrigins string

	// Admin configuration
	AdminToken     string
	AdminTokenHash string

	// Completion provider configuration
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Business context storage
	ContextStore string
	ContextFile  string
	MongoURI     string
	DatabaseName string

	// Assistant persona
	AssistantName string
	BusinessName  string

	// Site scraping configuration
	SiteBaseURL           string
	SiteSources           []models.TopicSource
	SiteCacheTTL          time.Duration
	SiteFetchTimeout      time.Duration
	SiteUserAgent         string
	SiteCacheWarmInterval time.Duration
}

const (
	ContextStoreFile  = "file"
	ContextStoreMongo = "mongo"

	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var defaultTopicPaths = map[models.Topic]string{
	models.TopicShipping: "/policies/shipping-policy",
	models.TopicRefund:   "/policies/refund-policy",
	models.TopicPrivacy:  "/policies/privacy-policy",
	models.TopicTerms:    "/policies/terms-of-service",
	models.TopicFAQs:     "/pages/faqs",
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", "3001"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),

		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		ContextStore: strings.ToLower(getEnv("CONTEXT_STORE", ContextStoreFile)),
		ContextFile:  getEnv("CONTEXT_FILE", "context.txt"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("MONGO_DB_NAME", "site_assistant"),

		AssistantName: getEnv("ASSISTANT_NAME", "Ava"),
		BusinessName:  getEnv("BUSINESS_NAME", "our store"),

		SiteBaseURL:           strings.TrimRight(getEnv("SITE_BASE_URL", "https://example-shop.com"), "/"),
		SiteCacheTTL:          getEnvDuration("SITE_CACHE_TTL", time.Hour),
		SiteFetchTimeout:      getEnvDuration("SITE_FETCH_TIMEOUT", 15*time.Second),
		SiteUserAgent:         getEnv("SITE_USER_AGENT", DefaultUserAgent),
		SiteCacheWarmInterval: getEnvDuration("SITE_CACHE_WARM_INTERVAL", 0),
	}

	cfg.SiteSources = buildSiteSources(cfg.SiteBaseURL)

	// Validate required configuration
	if cfg.AdminToken == "" && cfg.AdminTokenHash == "" {
		slog.Warn("ADMIN_TOKEN not set, admin endpoints will reject every request")
	}
	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY not set")
	}
	if cfg.ContextStore != ContextStoreFile && cfg.ContextStore != ContextStoreMongo {
		slog.Warn("Unknown CONTEXT_STORE, falling back to file", "value", cfg.ContextStore)
		cfg.ContextStore = ContextStoreFile
	}

	return cfg
}

// buildSiteSources resolves the page URL of every topic. SITE_<TOPIC>_URL
// overrides the default path under the base URL.
func buildSiteSources(baseURL string) []models.TopicSource {
	sources := make([]models.TopicSource, 0, len(models.AllTopics))
	for _, topic := range models.AllTopics {
		url := baseURL + defaultTopicPaths[topic]
		if override := os.Getenv("SITE_" + strings.ToUpper(string(topic)) + "_URL"); override != "" {
			url = override
		}
		sources = append(sources, models.TopicSource{Topic: topic, URL: url})
	}
	return sources
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}
