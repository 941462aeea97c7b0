package rest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
)

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

type createGameRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request, userID string) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", apperror.ErrInvalidArgument))
		return
	}

	game, err := that.manager.CreateGame(r.Context(), userID, req.Name, req.Capacity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"gameID": game.ID})
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request, _ string) {
	game, err := that.manager.GetGame(r.Context(), r.PathValue("gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleJoinGame(w http.ResponseWriter, r *http.Request, userID string) {
	gameID := r.PathValue("gameID")

	if err := that.manager.JoinGame(r.Context(), userID, gameID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"gameID": gameID})
}

func (that *Server) handleLeaveGame(w http.ResponseWriter, r *http.Request, userID string) {
	gameID := r.PathValue("gameID")

	if err := that.manager.LeaveGame(r.Context(), userID, gameID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"gameID": gameID})
}

func (that *Server) handleStartGame(w http.ResponseWriter, r *http.Request, userID string) {
	game, err := that.manager.StartGame(r.Context(), userID, r.PathValue("gameID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"gameID": game.ID})
}

type submitSnipeRequest struct {
	GameIDs     []string `json:"gameIDs"`
	ImageBase64 string   `json:"imageBase64"`
}

type gameSnipeResponse struct {
	GameID  string `json:"gameID"`
	SnipeID string `json:"snipeID,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type submitSnipeResponse struct {
	PictureID string              `json:"pictureID"`
	Games     []gameSnipeResponse `json:"games"`
}

func (that *Server) handleSubmitSnipe(w http.ResponseWriter, r *http.Request, userID string) {
	var req submitSnipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", apperror.ErrInvalidArgument))
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: image is not valid base64", apperror.ErrInvalidArgument))
		return
	}

	pictureID, results, err := that.manager.SubmitSnipe(r.Context(), userID, req.GameIDs, image)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := submitSnipeResponse{PictureID: pictureID, Games: make([]gameSnipeResponse, 0, len(results))}
	for _, result := range results {
		gameResp := gameSnipeResponse{GameID: result.GameID, SnipeID: result.SnipeID, OK: result.Err == nil}
		if result.Err != nil {
			gameResp.Error = result.Err.Error()
		}
		resp.Games = append(resp.Games, gameResp)
	}

	writeJSON(w, http.StatusOK, resp)
}

type submitVoteRequest struct {
	Vote *bool `json:"vote"`
}

func (that *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request, userID string) {
	var req submitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Vote == nil {
		writeError(w, fmt.Errorf("%w: vote must be a boolean", apperror.ErrInvalidArgument))
		return
	}

	err := that.manager.SubmitVote(r.Context(), userID, r.PathValue("gameID"), r.PathValue("snipeID"), *req.Vote)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromError(err), map[string]string{"error": err.Error()})
}

// statusFromError - maps the apperror taxonomy onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrFailedPrecondition):
		return http.StatusPreconditionFailed
	case errors.Is(err, apperror.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
