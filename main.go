package main

import (
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/ginyuforce-backend/internal"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/config"
)

const (
	configPathEnv     = "CONFIG_PATH"
	defaultConfigPath = "config.yml"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "server stopped after panic: %v\n", err)
			os.Exit(1)
		}
	}()

	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultConfigPath
	}

	conf := config.MustLoad(path)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.Level()}))
	logger.Info("config loaded", "path", path, "boardSize", conf.Game.BoardSize, "redis", conf.Redis.Enabled)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}
