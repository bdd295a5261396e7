package config

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	RunAddress         string
	DatabaseURI        string
	RedisAddress       string
	MarketplaceAddress string
	MarketplaceAPIKey  string
	SecretKey          string
	PollInterval       time.Duration
	SnapshotTTL        time.Duration
	Logger             *zap.SugaredLogger
}

func NewConfig() *Config {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stdout", "server.log"}

	logger := zap.Must(logCfg.Build())

	cfg := &Config{}
	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "HTTP server address")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "DB connection string")
	flag.StringVar(&cfg.RedisAddress, "redis", "", "Redis address for the snapshot cache")
	flag.StringVar(&cfg.MarketplaceAddress, "m", "", "Marketplace API address")
	flag.StringVar(&cfg.MarketplaceAPIKey, "k", "", "Marketplace API key")
	flag.StringVar(&cfg.SecretKey, "s", "secret", "Token signing key")
	flag.DurationVar(&cfg.PollInterval, "p", 5*time.Second, "Order refresh interval")
	flag.DurationVar(&cfg.SnapshotTTL, "ttl", 24*time.Hour, "Snapshot cache TTL")
	flag.Parse()

	cfg.Logger = logger.Sugar()

	ReadServerEnvironment(cfg)

	return cfg
}

func ReadServerEnvironment(cfg *Config) {
	if runAddress := os.Getenv("RUN_ADDRESS"); runAddress != "" {
		cfg.RunAddress = runAddress
	}

	if databaseURI := os.Getenv("DATABASE_URI"); databaseURI != "" {
		cfg.DatabaseURI = databaseURI
	}

	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.RedisAddress = redisAddress
	}

	if marketplaceAddress := os.Getenv("MARKETPLACE_ADDRESS"); marketplaceAddress != "" {
		cfg.MarketplaceAddress = marketplaceAddress
	}

	if apiKey := os.Getenv("MARKETPLACE_API_KEY"); apiKey != "" {
		cfg.MarketplaceAPIKey = apiKey
	}

	if secretKey := os.Getenv("SECRET_KEY"); secretKey != "" {
		cfg.SecretKey = secretKey
	}

	if pollInterval := os.Getenv("POLL_INTERVAL"); pollInterval != "" {
		if d, err := time.ParseDuration(pollInterval); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
}
