package config

import (
	"time"

	"main/utils"
)

type DatabaseConfig struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	RetryWrites     bool
	UseTransactions bool
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: utils.GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second),
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "habitbot"),
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		UseTransactions: utils.GetEnvAsBool("MONGO_TRANSACTIONS", true),
	}
}

type RedisConfig struct {
	URL      string
	StatsTTL time.Duration
}

func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:      utils.GetEnvAsString("REDIS_URL", ""),
		StatsTTL: utils.GetEnvAsDuration("STATS_CACHE_TTL", 5*time.Minute),
	}
}

type BotConfig struct {
	Token         string
	UpdateTimeout int
	Debug         bool
}

func LoadBotConfig() BotConfig {
	return BotConfig{
		Token:         utils.GetEnvAsString("BOT_TOKEN", ""),
		UpdateTimeout: utils.GetEnvAsInt("BOT_UPDATE_TIMEOUT", 60),
		Debug:         utils.GetEnvAsBool("BOT_DEBUG", false),
	}
}
