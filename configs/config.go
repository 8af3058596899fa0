package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration defines the structure for application settings.
type Configuration struct {
	ServerPort      string `yaml:"serverPort"`
	JWTSecret       string `yaml:"jwtSecret"`
	JWTTTLHours     int    `yaml:"jwtTTLHours"`
	DBPath          string `yaml:"dbPath"`
	FrontendBaseURL string `yaml:"frontendBaseURL"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Events EventsConfig `yaml:"events"`
	Push   PushConfig   `yaml:"push"`

	RateLimit struct {
		SubmissionsPerMinute int `yaml:"submissionsPerMinute"`
		Burst                int `yaml:"burst"`
	} `yaml:"rateLimit"`
}

// EventsConfig selects how record-created events reach the reactive handlers.
type EventsConfig struct {
	Backend            string        `yaml:"backend"` // "inline" or "redis"
	RedisAddr          string        `yaml:"redisAddr"`
	RedisPassword      string        `yaml:"redisPassword"`
	RedisDB            int           `yaml:"redisDB"`
	IssueStream        string        `yaml:"issueStream"`
	NotificationStream string        `yaml:"notificationStream"`
	ConsumerGroup      string        `yaml:"consumerGroup"`
	ConsumerName       string        `yaml:"consumerName"`
	BlockTimeout       time.Duration `yaml:"blockTimeout"`
}

// PushConfig configures the FCM HTTP v1 client. An empty ProjectID disables
// real delivery and pushes are only logged.
type PushConfig struct {
	BaseURL     string        `yaml:"baseURL"`
	ProjectID   string        `yaml:"projectID"`
	AccessToken string        `yaml:"accessToken"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

const (
	EventsBackendInline = "inline"
	EventsBackendRedis  = "redis"
)

const (
	defaultJWTSecret       = "janakural"             // Default JWT secret, used if env var is not set.
	envJWTSecretKey        = "JWT_SECRET_KEY"        // Environment variable name for the JWT secret.
	defaultServerPort      = "8080"                  // Default server port.
	envServerPortKey       = "SERVER_PORT"           // Environment variable name for the server port.
	defaultFrontendBaseURL = "http://localhost:3000" // Deep links in push notifications point here.
	envFrontendBaseURLKey  = "FRONTEND_BASE_URL"
	defaultDBPath          = "data/janakural.db"
	envDBPathKey           = "SQLITE_DB_PATH"
	envConfigFileKey       = "CONFIG_FILE"
)

// Default returns the built-in configuration before any file or environment overrides.
func Default() Configuration {
	var cfg Configuration
	cfg.ServerPort = defaultServerPort
	cfg.JWTSecret = defaultJWTSecret
	cfg.JWTTTLHours = 24
	cfg.DBPath = defaultDBPath
	cfg.FrontendBaseURL = defaultFrontendBaseURL
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Events = EventsConfig{
		Backend:            EventsBackendInline,
		RedisAddr:          "localhost:6379",
		IssueStream:        "janakural:issues:created",
		NotificationStream: "janakural:notifications:created",
		ConsumerGroup:      "janakural-triggers",
		ConsumerName:       "worker-1",
		BlockTimeout:       5 * time.Second,
	}
	cfg.Push = PushConfig{
		BaseURL:     "https://fcm.googleapis.com",
		Concurrency: 8,
		Timeout:     10 * time.Second,
	}
	cfg.RateLimit.SubmissionsPerMinute = 30
	cfg.RateLimit.Burst = 10
	return cfg
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Configuration, error) {
	cfg := Default()

	if path := os.Getenv(envConfigFileKey); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	}

	cfg.ServerPort = getEnv(envServerPortKey, cfg.ServerPort)
	cfg.JWTSecret = getEnv(envJWTSecretKey, cfg.JWTSecret)
	cfg.DBPath = getEnv(envDBPathKey, cfg.DBPath)
	cfg.FrontendBaseURL = getEnv(envFrontendBaseURLKey, cfg.FrontendBaseURL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Events.Backend = getEnv("EVENTS_BACKEND", cfg.Events.Backend)
	cfg.Events.RedisAddr = getEnv("REDIS_ADDR", cfg.Events.RedisAddr)
	cfg.Events.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Events.RedisPassword)
	cfg.Events.ConsumerName = getEnv("EVENTS_CONSUMER_NAME", cfg.Events.ConsumerName)

	cfg.Push.ProjectID = getEnv("FCM_PROJECT_ID", cfg.Push.ProjectID)
	cfg.Push.AccessToken = getEnv("FCM_ACCESS_TOKEN", cfg.Push.AccessToken)
	cfg.Push.BaseURL = getEnv("FCM_BASE_URL", cfg.Push.BaseURL)

	var err error
	if cfg.Events.RedisDB, err = getEnvInt("REDIS_DB", cfg.Events.RedisDB); err != nil {
		return cfg, err
	}
	if cfg.Push.Concurrency, err = getEnvInt("FCM_CONCURRENCY", cfg.Push.Concurrency); err != nil {
		return cfg, err
	}
	if cfg.RateLimit.SubmissionsPerMinute, err = getEnvInt("SUBMISSIONS_PER_MINUTE", cfg.RateLimit.SubmissionsPerMinute); err != nil {
		return cfg, err
	}

	if cfg.Events.Backend != EventsBackendInline && cfg.Events.Backend != EventsBackendRedis {
		return cfg, fmt.Errorf("无效的事件后端: %q (可选 inline, redis)", cfg.Events.Backend)
	}
	return cfg, nil
}

// Warnings lists settings that are acceptable for development but not production.
func (c Configuration) Warnings() []string {
	var warnings []string
	if c.JWTSecret == defaultJWTSecret {
		warnings = append(warnings, envJWTSecretKey+" is not set, using the default JWT secret")
	}
	if c.Push.ProjectID == "" {
		warnings = append(warnings, "FCM_PROJECT_ID is not set, push notifications will only be logged")
	}
	return warnings
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
