package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/michiganhackers/photo-assassin-backend/internal/config"
	"github.com/michiganhackers/photo-assassin-backend/internal/evidence"
	"github.com/michiganhackers/photo-assassin-backend/internal/notifier"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
	"github.com/michiganhackers/photo-assassin-backend/internal/service"
	"github.com/michiganhackers/photo-assassin-backend/internal/usecase"
	"github.com/michiganhackers/photo-assassin-backend/transport/rest"
	"github.com/michiganhackers/photo-assassin-backend/transport/websocket"
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

	evidenceStore, err := evidence.NewDiskStore(conf.Evidence.Dir, conf.Evidence.BaseURL)
	if err != nil {
		return fmt.Errorf("could not open evidence store: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage)
	userRepo := repository.NewUserRepository(redisStorage)
	pictureRepo := repository.NewPictureRepository(redisStorage)

	eventNotifier := notifier.NewRedisNotifier(redisStorage)
	authService := service.NewAuthService(conf.JWTSecretKey)

	gameManager := usecase.NewGameManager(
		logger,
		redisStorage,
		gameRepo,
		userRepo,
		pictureRepo,
		evidenceStore,
		eventNotifier,
		conf.Game.MinPlayers,
	)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameManager, authService, conf.Evidence.Dir)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, authService, redisStorage)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
