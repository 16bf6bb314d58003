package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/bot"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/config"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/repository"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/repository/storage"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/usecase"
	"github.com/rocketscienceinc/ginyuforce-backend/transport/rest"
	"github.com/rocketscienceinc/ginyuforce-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var (
		snapshots repository.SnapshotRepository
		lookup    rest.SnapshotFunc
	)

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		snapshots = repository.NewSnapshotRepository(redisStorage, conf.Game.SnapshotTTL)
		lookup = snapshots.GetByID
	}

	seed := time.Now().UnixNano()
	hub := websocket.NewHub(logger)
	rooms := repository.NewRoomRepository()

	manager := usecase.NewGameManager(logger, conf.Game, rooms, snapshots, hub, usecase.TimerScheduler{}, rand.New(rand.NewSource(seed)))
	if lookup == nil {
		lookup = manager.Snapshot
	}

	manager.SetAI(bot.NewAgent(logger, manager, rand.New(rand.NewSource(seed+1))))

	go manager.RunJanitor(ctx, conf.Game.RoomTTL, conf.Game.CleanupInterval)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, lookup)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, manager, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
