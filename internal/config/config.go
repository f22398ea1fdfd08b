package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Log    LogConfig
	Queue  QueueConfig
	Layout LayoutConfig
	Relay  RelayConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type QueueConfig struct {
	// RefreshInterval controls how often the ranked queue is re-broadcast; 0 disables it
	RefreshInterval time.Duration
}

type LayoutConfig struct {
	File string
}

type RelayConfig struct {
	Buffer  int
	Timeout time.Duration
	Redis   RedisConfig
	NATS    NATSConfig
	MQTT    MQTTConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type NATSConfig struct {
	URL     string
	Name    string
	Subject string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "5000"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Queue: QueueConfig{
			RefreshInterval: parseDuration(getEnv("QUEUE_REFRESH_INTERVAL", "1m"), time.Minute),
		},
		Layout: LayoutConfig{
			File: getEnv("BED_LAYOUT_FILE", ""),
		},
		Relay: RelayConfig{
			Buffer:  parseInt(getEnv("RELAY_BUFFER", "256"), 256),
			Timeout: parseDuration(getEnv("RELAY_TIMEOUT", "2s"), 2*time.Second),
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", ""),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
				Channel:  getEnv("REDIS_CHANNEL", "bedflow"),
			},
			NATS: NATSConfig{
				URL:     getEnv("NATS_URL", ""),
				Name:    getEnv("NATS_NAME", "bedflow"),
				Subject: getEnv("NATS_SUBJECT", "bedflow"),
			},
			MQTT: MQTTConfig{
				Broker:   getEnv("MQTT_BROKER", ""),
				ClientID: getEnv("MQTT_CLIENT_ID", "bedflow"),
				Username: getEnv("MQTT_USERNAME", ""),
				Password: getEnv("MQTT_PASSWORD", ""),
				Topic:    getEnv("MQTT_TOPIC", "bedflow"),
				QoS:      byte(parseInt(getEnv("MQTT_QOS", "1"), 1)),
			},
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration < 0 {
		fmt.Printf("Warning: Invalid duration format '%s', using default %s\n", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using default %d\n", s, fallback)
		return fallback
	}
	return n
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
