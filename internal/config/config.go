package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"true"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	BoardSize       int           `yaml:"board-size" env-default:"15"`
	TargetN         int           `yaml:"target-n" env-default:"5"`
	MaxPlayers      int           `yaml:"max-players" env-default:"4"`
	RestartDelay    time.Duration `yaml:"restart-delay" env-default:"2s"`
	AIDelayMin      time.Duration `yaml:"ai-delay-min" env-default:"400ms"`
	AIDelayMax      time.Duration `yaml:"ai-delay-max" env-default:"900ms"`
	RoomTTL         time.Duration `yaml:"room-ttl" env-default:"5m"`
	CleanupInterval time.Duration `yaml:"cleanup-interval" env-default:"30s"`
	SnapshotTTL     time.Duration `yaml:"snapshot-ttl" env-default:"1h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Level maps LogLevel to a slog level. Unknown values log at info.
func (that *Config) Level() slog.Level {
	switch strings.ToLower(that.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
