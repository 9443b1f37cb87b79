package config

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/joho/godotenv"

	"orbital-sim/backend/internal/game"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Logging    LoggingConfig
	Redis      RedisConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	HTTPAddr          string
	GRPCAddr          string
	Environment       string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	BroadcastInterval time.Duration // Период рассылки снимков по WebSocket
	ShutdownTimeout   time.Duration
}

type SimulationConfig struct {
	TPS             int
	Timestep        float64 // лет за тик
	MinTimestep     float64
	StartRunning    bool
	CometEveryTicks uint64
	RandomSeed      uint64 // 0: от текущего времени
	JournalSize     int
	AsteroidCount   int
	LogEveryTicks   uint64
}

type LoggingConfig struct {
	Level  string
	Prefix string
}

type RedisConfig struct {
	Enabled         bool
	URL             string
	Host            string
	Port            string
	Password        string
	DB              int
	Channel         string
	PublishInterval time.Duration
}

type AuthConfig struct {
	JWTSecret string // пусто: управляющие эндпоинты открыты
	Issuer    string
}

type RateLimitConfig struct {
	Enabled             bool
	RequestsPerSecond   float64
	BurstSize           int
	WSCommandsPerSecond float64
	WSCommandBurst      int
}

type CORSConfig struct {
	AllowedOrigins []string
	Debug          bool
}

// Load читает .env (если есть) и переменные окружения
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("[Config] no .env file found, using system environment variables")
	}

	config := load()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func load() *Config {
	return &Config{
		Server:     loadServerConfig(),
		Simulation: loadSimulationConfig(),
		Logging:    loadLoggingConfig(),
		Redis:      loadRedisConfig(),
		Auth:       loadAuthConfig(),
		RateLimit:  loadRateLimitConfig(),
		CORS:       loadCORSConfig(),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:          GetEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:          GetEnv("GRPC_ADDR", ":9090"),
		Environment:       GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		BroadcastInterval: getEnvDuration("BROADCAST_INTERVAL", 50*time.Millisecond),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TPS:             getEnvInt("SIM_TPS", 60),
		Timestep:        getEnvFloat("SIM_TIMESTEP", 0.001),
		MinTimestep:     getEnvFloat("SIM_MIN_TIMESTEP", 1e-6),
		StartRunning:    getEnvBool("SIM_START_RUNNING", true),
		CometEveryTicks: getEnvUint("SIM_COMET_EVERY_TICKS", 1800),
		RandomSeed:      getEnvUint("SIM_RANDOM_SEED", 0),
		JournalSize:     getEnvInt("SIM_JOURNAL_SIZE", 500),
		AsteroidCount:   getEnvInt("SIM_ASTEROID_COUNT", 200),
		LogEveryTicks:   getEnvUint("SIM_LOG_EVERY_TICKS", 600),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  GetEnv("LOG_LEVEL", "info"),
		Prefix: GetEnv("LOG_PREFIX", "[orbital] "),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:         getEnvBool("REDIS_ENABLED", false),
		URL:             GetEnv("REDIS_URL", ""),
		Host:            GetEnv("REDIS_HOST", "localhost"),
		Port:            GetEnv("REDIS_PORT", "6379"),
		Password:        GetEnv("REDIS_PASSWORD", ""),
		DB:              getEnvInt("REDIS_DB", 0),
		Channel:         GetEnv("REDIS_CHANNEL", "orbital:snapshots"),
		PublishInterval: getEnvDuration("REDIS_PUBLISH_INTERVAL", time.Second),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: GetEnv("AUTH_JWT_SECRET", ""),
		Issuer:    GetEnv("AUTH_JWT_ISSUER", "orbital-sim"),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:             getEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond:   getEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:           getEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		WSCommandsPerSecond: getEnvFloat("WS_COMMANDS_PER_SECOND", 5),
		WSCommandBurst:      getEnvInt("WS_COMMAND_BURST", 10),
	}
}

func loadCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		Debug:          getEnvBool("CORS_DEBUG", false),
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}

	if c.Simulation.TPS <= 0 {
		return fmt.Errorf("SIM_TPS must be positive, got %d", c.Simulation.TPS)
	}

	if math.IsNaN(c.Simulation.Timestep) || math.IsInf(c.Simulation.Timestep, 0) || c.Simulation.Timestep < 0 {
		return fmt.Errorf("SIM_TIMESTEP must be finite and non-negative, got %g", c.Simulation.Timestep)
	}

	if c.Simulation.MinTimestep < 0 {
		return fmt.Errorf("SIM_MIN_TIMESTEP must be non-negative")
	}

	if c.Simulation.AsteroidCount < 0 {
		return fmt.Errorf("SIM_ASTEROID_COUNT must be non-negative")
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters long")
	}

	if c.Redis.Enabled && c.Redis.URL == "" && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_URL or REDIS_HOST is required when REDIS_ENABLED=true")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("rate limit must have positive rate and burst")
	}

	return nil
}

// AuthEnabled включена ли проверка JWT
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// Debug включен ли подробный лог
func (c *Config) Debug() bool {
	return c.Logging.Level == "debug"
}

// SimulationConfig конфигурация симуляции с учетом переопределений окружения
func (c *Config) SimulationConfig() game.SimulationConfig {
	sim := game.DefaultSimulationConfig()
	sim.Timestep = c.Simulation.Timestep
	sim.MinTimestep = c.Simulation.MinTimestep
	sim.StartRunning = c.Simulation.StartRunning
	sim.CometEveryTicks = c.Simulation.CometEveryTicks
	sim.JournalSize = c.Simulation.JournalSize
	sim.LogEvery = c.Simulation.LogEveryTicks
	sim.Debug = c.Debug()
	sim.Seeds.Belt.Count = c.Simulation.AsteroidCount

	sim.RandomSeed = c.Simulation.RandomSeed
	if sim.RandomSeed == 0 {
		sim.RandomSeed = uint64(time.Now().UnixNano())
	}
	return sim
}
