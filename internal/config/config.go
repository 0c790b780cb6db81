// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	YouTube   YouTubeConfig
	Sync      SyncConfig
	Sentiment SentimentConfig
	RabbitMQ  RabbitMQConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Server    ServerConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// YouTubeConfig contains YouTube Data API configuration.
type YouTubeConfig struct {
	APIKey      string
	QuotaBuffer int
}

// SyncConfig controls the ingestion pipeline.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type SyncConfig struct {
	JobPollInterval      time.Duration
	MaxVideos            int
	CommentsPerVideo     int
	FetchCommentsOnSync  bool
	NightlySweepInterval time.Duration
	HistoryRetentionDays int
}

// SentimentConfig controls the sentiment analysis pipeline.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type SentimentConfig struct {
	ServiceURL   string
	PollInterval time.Duration
	BatchSize    int
	Workers      int
	QueueDepth   int
	Timeout      time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration.
// Leaving Host empty disables sync-event publishing.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "channel_insights")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// YouTube API
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("youtube.quotabuffer", 100)

	// Sync pipeline
	viper.SetDefault("sync.jobpollinterval", 3*time.Second)
	viper.SetDefault("sync.maxvideos", 0)
	viper.SetDefault("sync.commentspervideo", 100)
	viper.SetDefault("sync.fetchcommentsonsync", true)
	viper.SetDefault("sync.nightlysweepinterval", 24*time.Hour)
	viper.SetDefault("sync.historyretentiondays", 60)

	// Sentiment pipeline
	viper.SetDefault("sentiment.serviceurl", "http://localhost:5000")
	viper.SetDefault("sentiment.pollinterval", 60*time.Second)
	viper.SetDefault("sentiment.batchsize", 50)
	viper.SetDefault("sentiment.workers", 5)
	viper.SetDefault("sentiment.queuedepth", 10)
	viper.SetDefault("sentiment.timeout", 60*time.Second)

	// RabbitMQ (optional)
	viper.SetDefault("rabbitmq.host", "")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "channel.sync")
	viper.SetDefault("rabbitmq.queue", "channel.sync.completed")
	viper.SetDefault("rabbitmq.routingkey", "sync.completed")

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
