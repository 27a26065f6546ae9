package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string
	Store   StoreConfig
	Cache   CacheConfig
	Feed    FeedConfig
	Suggest SuggestConfig
}

type StoreConfig struct {
	Path        string
	DatabaseURL string
}

type CacheConfig struct {
	MaxEntries int
	MaxBytes   int
	TTL        time.Duration
}

type FeedConfig struct {
	HTTPTimeout time.Duration
	FTPMaxIdle  int
	FTPIdleTTL  time.Duration
	S3          S3Config
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type SuggestConfig struct {
	Enabled bool
	Model   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:    *port,
		Env:     env,
		Store:   loadStoreConfig(),
		Cache:   loadCacheConfig(),
		Feed:    loadFeedConfig(env),
		Suggest: loadSuggestConfig(),
	}, nil
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Path:        firstNonEmpty(strings.TrimSpace(os.Getenv("INTEGRATION_STORE_PATH")), "tmp/integrations.json"),
		DatabaseURL: strings.TrimSpace(os.Getenv("INTEGRATION_STORE_PG_DSN")),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		MaxEntries: envInt("DOC_CACHE_MAX_ENTRIES", 64),
		MaxBytes:   envInt("DOC_CACHE_MAX_BYTES", 128<<20),
		TTL:        envDuration("DOC_CACHE_TTL", 5*time.Minute),
	}
}

func loadFeedConfig(env string) FeedConfig {
	return FeedConfig{
		HTTPTimeout: envDuration("HTTP_FETCH_TIMEOUT", 30*time.Second),
		FTPMaxIdle:  envInt("FTP_MAX_IDLE", 4),
		FTPIdleTTL:  envDuration("FTP_IDLE_TTL", 2*time.Minute),
		S3:          loadS3Config(env),
	}
}

func loadS3Config(env string) S3Config {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return localS3Config()
	}
	endpoint := strings.TrimSpace(os.Getenv("FEED_S3_ENDPOINT"))
	return S3Config{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		UseSSL:    envBool("FEED_S3_USE_SSL", true),
	}
}

func loadSuggestConfig() SuggestConfig {
	return SuggestConfig{
		Enabled: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "",
		Model:   firstNonEmpty(strings.TrimSpace(os.Getenv("SUGGEST_MODEL")), "gemini-2.0-flash"),
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
