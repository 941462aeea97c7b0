package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/michiganhackers/photo-assassin-backend/internal/notifier"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
	"github.com/michiganhackers/photo-assassin-backend/internal/service"
)

// Server pushes a user's notification events (game started, vote
// requested) over a websocket. Each connection subscribes to the user's
// pub/sub channel, so events published after a transaction commits reach
// every device the user has connected.
type Server struct {
	logger *slog.Logger
	auth   service.AuthService
	store  *storage.RedisStorage

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, auth service.AuthService, store *storage.RedisStorage) *Server {
	return &Server{
		logger: logger,
		auth:   auth,
		store:  store,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// Start - starts the websocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleEvents(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleEvents(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleEvents")

	userID, err := that.auth.VerifyToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	pubsub := that.store.Connection.Subscribe(ctx, notifier.UserChannel(userID))
	defer pubsub.Close()

	log.Info("event feed connected", "user", userID)

	// Drain client frames so pings are answered and closes are noticed.
	connClosed := make(chan struct{})
	go func() {
		defer close(connClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-connClosed:
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}

			if err = conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Error("failed to push event", "user", userID, "error", err)
				return
			}
		}
	}
}
