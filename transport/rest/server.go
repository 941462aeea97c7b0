package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/michiganhackers/photo-assassin-backend/internal/service"
	"github.com/michiganhackers/photo-assassin-backend/internal/usecase"
)

type Server struct {
	logger  *slog.Logger
	manager *usecase.GameManager
	auth    service.AuthService

	evidenceDir string
}

func New(logger *slog.Logger, manager *usecase.GameManager, auth service.AuthService, evidenceDir string) *Server {
	return &Server{
		logger:  logger,
		manager: manager,
		auth:    auth,

		evidenceDir: evidenceDir,
	}
}

// Start - starts the HTTP API server.
func (that *Server) Start(port string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)

	mux.Handle("POST /games", that.authenticated(that.handleCreateGame))
	mux.Handle("GET /games/{gameID}", that.authenticated(that.handleGetGame))
	mux.Handle("POST /games/{gameID}/join", that.authenticated(that.handleJoinGame))
	mux.Handle("POST /games/{gameID}/leave", that.authenticated(that.handleLeaveGame))
	mux.Handle("POST /games/{gameID}/start", that.authenticated(that.handleStartGame))
	mux.Handle("POST /snipes", that.authenticated(that.handleSubmitSnipe))
	mux.Handle("POST /games/{gameID}/snipes/{snipeID}/votes", that.authenticated(that.handleSubmitVote))

	mux.Handle("GET /evidence/", http.StripPrefix("/evidence/", http.FileServer(http.Dir(that.evidenceDir))))

	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(that.withRequestID(mux))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
