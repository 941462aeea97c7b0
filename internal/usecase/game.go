package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
	"github.com/michiganhackers/photo-assassin-backend/internal/evidence"
	"github.com/michiganhackers/photo-assassin-backend/internal/notifier"
	"github.com/michiganhackers/photo-assassin-backend/internal/pkg"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
	"github.com/michiganhackers/photo-assassin-backend/internal/ring"
)

// errWatchSetChanged signals that the set of keys discovered before the
// transaction no longer matches what the transaction read, so the caller
// re-discovers and retries.
var errWatchSetChanged = errors.New("watched key set changed")

const maxDiscoveryAttempts = 3

// GameManager drives the game lifecycle: creation, membership, ring
// construction, snipe submission and vote resolution. All state changes go
// through optimistic transactions on the storage layer; notifications and
// evidence binaries are touched only outside transactions.
type GameManager struct {
	logger *slog.Logger

	store       *storage.RedisStorage
	gameRepo    repository.GameRepository
	userRepo    repository.UserRepository
	pictureRepo repository.PictureRepository

	evidence evidence.Store
	notifier notifier.Notifier

	minPlayers int
}

func NewGameManager(
	logger *slog.Logger,
	store *storage.RedisStorage,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	pictureRepo repository.PictureRepository,
	evidenceStore evidence.Store,
	eventNotifier notifier.Notifier,
	minPlayers int,
) *GameManager {
	return &GameManager{
		logger: logger,

		store:       store,
		gameRepo:    gameRepo,
		userRepo:    userRepo,
		pictureRepo: pictureRepo,

		evidence: evidenceStore,
		notifier: eventNotifier,

		minPlayers: minPlayers,
	}
}

// CreateGame - creates a not-started game owned by userID.
func (that *GameManager) CreateGame(ctx context.Context, userID, name string, capacity int) (*entity.Game, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: game name is required", apperror.ErrInvalidArgument)
	}

	if capacity < that.minPlayers {
		return nil, fmt.Errorf("%w: capacity must be at least %d", apperror.ErrInvalidArgument, that.minPlayers)
	}

	game := entity.NewGame(pkg.GenerateUniqueString(), name, capacity, userID)

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

// GetGame - returns the game document.
func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	if !pkg.IsValidUniqueString(gameID) {
		return nil, fmt.Errorf("%w: game id", apperror.ErrInvalidID)
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// JoinGame - adds userID to a game that has not started yet.
func (that *GameManager) JoinGame(ctx context.Context, userID, gameID string) error {
	if !pkg.IsValidUniqueString(gameID) {
		return fmt.Errorf("%w: game id", apperror.ErrInvalidID)
	}

	return that.store.Atomically(ctx, func(tx *storage.AtomicTx) error {
		game, err := that.gameRepo.GetTx(tx, gameID)
		if err != nil {
			return err
		}

		if err = confirmNotStarted(game); err != nil {
			return err
		}

		if _, ok := game.Player(userID); ok {
			return apperror.ErrAlreadyJoined
		}

		if len(game.Players) >= game.Capacity {
			return apperror.ErrGameFull
		}

		game.Players[userID] = &entity.Player{UserID: userID}

		return that.gameRepo.SaveTx(tx, game)
	}, repository.GameKey(gameID))
}

// LeaveGame - removes userID from a game that has not started yet. The
// owner cannot leave their own game.
func (that *GameManager) LeaveGame(ctx context.Context, userID, gameID string) error {
	if !pkg.IsValidUniqueString(gameID) {
		return fmt.Errorf("%w: game id", apperror.ErrInvalidID)
	}

	return that.store.Atomically(ctx, func(tx *storage.AtomicTx) error {
		game, err := that.gameRepo.GetTx(tx, gameID)
		if err != nil {
			return err
		}

		if err = confirmNotStarted(game); err != nil {
			return err
		}

		player, ok := game.Player(userID)
		if !ok {
			return apperror.ErrNotInGame
		}

		if player.IsOwner {
			return apperror.ErrOwnerCannotLeave
		}

		delete(game.Players, userID)

		return that.gameRepo.SaveTx(tx, game)
	}, repository.GameKey(gameID))
}

// StartGame - permutes the joined players into a single target/sniper ring
// and marks the game started. Only the owner may start, only once, and
// only with enough players; any rejection leaves the game untouched.
func (that *GameManager) StartGame(ctx context.Context, userID, gameID string) (*entity.Game, error) {
	if !pkg.IsValidUniqueString(gameID) {
		return nil, fmt.Errorf("%w: game id", apperror.ErrInvalidID)
	}

	var started *entity.Game

	// The transaction touches the game plus every participant's user
	// record, and the participant list is only known after a read. Players
	// can still join or leave before the game starts, so the discovered
	// watch set is re-checked inside the transaction.
	for attempt := 0; attempt < maxDiscoveryAttempts; attempt++ {
		preRead, err := that.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}

		participants := preRead.ParticipantIDs()
		keys := make([]string, 0, len(participants)+1)
		keys = append(keys, repository.GameKey(gameID))
		for _, id := range participants {
			keys = append(keys, repository.UserKey(id))
		}

		err = that.store.Atomically(ctx, func(tx *storage.AtomicTx) error {
			started = nil

			game, err := that.gameRepo.GetTx(tx, gameID)
			if err != nil {
				return err
			}

			if err = confirmNotStarted(game); err != nil {
				return err
			}

			player, ok := game.Player(userID)
			if !ok || !player.IsOwner {
				return apperror.ErrNotOwner
			}

			if len(game.Players) < that.minPlayers {
				return fmt.Errorf("%w: have %d, need %d", apperror.ErrTooFewPlayers, len(game.Players), that.minPlayers)
			}

			if !sameIDSet(participants, game.ParticipantIDs()) {
				return errWatchSetChanged
			}

			ring.Assign(game, ring.Shuffled(participants))

			now := time.Now().UTC()
			game.StartTime = &now
			game.Status = entity.StatusStarted

			if err = that.gameRepo.SaveTx(tx, game); err != nil {
				return err
			}

			for _, id := range participants {
				user, err := that.userRepo.GetOrCreateTx(tx, id)
				if err != nil {
					return err
				}

				user.AddCurrentGame(gameID)

				if err = that.userRepo.SaveTx(tx, user); err != nil {
					return err
				}
			}

			started = game

			return nil
		}, keys...)

		if errors.Is(err, errWatchSetChanged) {
			continue
		}

		if err != nil {
			return nil, err
		}

		that.notifyGameStarted(ctx, started)

		return started, nil
	}

	return nil, fmt.Errorf("%w: participants kept changing", apperror.ErrTransient)
}

func (that *GameManager) notifyGameStarted(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "notifyGameStarted", "game", game.ID)

	event := notifier.Event{
		Kind:     notifier.EventGameStarted,
		GameID:   game.ID,
		GameName: game.Name,
	}

	for _, id := range game.ParticipantIDs() {
		if err := that.notifier.Notify(ctx, id, event); err != nil {
			log.Error("failed to notify player", "player", id, "error", err)
		}
	}
}

func confirmNotStarted(game *entity.Game) error {
	switch {
	case game.IsEnded():
		return apperror.ErrGameEnded
	case game.IsStarted():
		return apperror.ErrGameAlreadyStarted
	default:
		return nil
	}
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}

	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}

	return true
}
