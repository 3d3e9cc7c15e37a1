package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type AuthConfig struct {
	ServiceURL string `yaml:"service_url"`
	SecretKey  string `yaml:"secret_key"`
}

type WebSocketConfig struct {
	AllowedOrigin  string          `yaml:"allowed_origin"`
	MaxMessageSize int64           `yaml:"max_message_size"`
	Reconnect      ReconnectConfig `yaml:"reconnect"`
}

// ReconnectConfig is handed to clients verbatim (GET /ws/config) so they can
// back off consistently across app versions.
type ReconnectConfig struct {
	DelayMS     int `yaml:"delay_ms" json:"delayMs"`
	MaxDelayMS  int `yaml:"max_delay_ms" json:"maxDelayMs"`
	MaxAttempts int `yaml:"max_attempts" json:"maxAttempts"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     8003,
			BasePath: "/api/live",
			Env:      "dev",
			LogLevel: "debug",
		},
		Redis: RedisConfig{
			Host:    "localhost",
			Port:    6379,
			DB:      0,
			Channel: "live:events",
		},
		WebSocket: WebSocketConfig{
			AllowedOrigin:  "*",
			MaxMessageSize: 8192,
			Reconnect: ReconnectConfig{
				DelayMS:     1000,
				MaxDelayMS:  30000,
				MaxAttempts: 10,
			},
		},
	}

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if p, err := strconv.Atoi(redisPort); err == nil {
			cfg.Redis.Port = p
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.DB = db
		}
	}
	if channel := os.Getenv("REDIS_CHANNEL"); channel != "" {
		cfg.Redis.Channel = channel
	}
	if authURL := os.Getenv("AUTH_SERVICE_URL"); authURL != "" {
		cfg.Auth.ServiceURL = authURL
	}
	if secretKey := os.Getenv("SECRET_KEY"); secretKey != "" {
		cfg.Auth.SecretKey = secretKey
	}
	if origin := os.Getenv("WS_ALLOWED_ORIGIN"); origin != "" {
		cfg.WebSocket.AllowedOrigin = origin
	}
	if size := os.Getenv("WS_MAX_MESSAGE_SIZE"); size != "" {
		if s, err := strconv.ParseInt(size, 10, 64); err == nil {
			cfg.WebSocket.MaxMessageSize = s
		}
	}
	if delay := os.Getenv("WS_RECONNECT_DELAY_MS"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil {
			cfg.WebSocket.Reconnect.DelayMS = d
		}
	}
	if maxDelay := os.Getenv("WS_RECONNECT_MAX_DELAY_MS"); maxDelay != "" {
		if d, err := strconv.Atoi(maxDelay); err == nil {
			cfg.WebSocket.Reconnect.MaxDelayMS = d
		}
	}
	if attempts := os.Getenv("WS_RECONNECT_MAX_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			cfg.WebSocket.Reconnect.MaxAttempts = a
		}
	}

	return cfg, nil
}
