package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
	"github.com/michiganhackers/photo-assassin-backend/internal/pkg"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
)

// GameSnipeResult is the per-game outcome of one snipe submission. A
// failed game never blocks the others; the caller learns which games
// accepted the claim.
type GameSnipeResult struct {
	GameID  string
	SnipeID string
	Err     error
}

// SubmitSnipe - stores the evidence image and claims a kill in every given
// game independently. Input validation failures abort the whole call
// before anything is written; per-game precondition failures are reported
// in the results. When no game accepts the claim the image and its
// metadata are deleted again.
func (that *GameManager) SubmitSnipe(ctx context.Context, userID string, gameIDs []string, image []byte) (string, []GameSnipeResult, error) {
	if len(image) == 0 {
		return "", nil, apperror.ErrEmptyEvidence
	}

	if len(gameIDs) == 0 {
		return "", nil, apperror.ErrEmptyGameList
	}

	seen := make(map[string]struct{}, len(gameIDs))
	for _, gameID := range gameIDs {
		if !pkg.IsValidUniqueString(gameID) {
			return "", nil, fmt.Errorf("%w: game id %q", apperror.ErrInvalidID, gameID)
		}

		if _, ok := seen[gameID]; ok {
			return "", nil, fmt.Errorf("%w: %s", apperror.ErrDuplicateGame, gameID)
		}
		seen[gameID] = struct{}{}
	}

	pictureID := pkg.GenerateUniqueString()

	if err := that.evidence.Put(ctx, pictureID, image); err != nil {
		return "", nil, fmt.Errorf("%w: failed to store evidence: %w", apperror.ErrUnknown, err)
	}

	// The metadata record starts at zero; each game that accepts the claim
	// increments the count inside its own transaction.
	if err := that.pictureRepo.CreateOrUpdate(ctx, &entity.Picture{ID: pictureID}); err != nil {
		return "", nil, fmt.Errorf("failed to create picture record: %w", err)
	}

	results := make([]GameSnipeResult, 0, len(gameIDs))
	accepted := 0
	for _, gameID := range gameIDs {
		snipeID, err := that.addSnipeToGame(ctx, userID, gameID, pictureID)
		if err == nil {
			accepted++
		}

		results = append(results, GameSnipeResult{GameID: gameID, SnipeID: snipeID, Err: err})
	}

	if accepted == 0 {
		that.cleanupUnreferencedPicture(ctx, pictureID)
	}

	return pictureID, results, nil
}

// addSnipeToGame - one game's all-or-nothing share of a snipe submission:
// creates the snipe, puts the vote obligation on the target, and bumps the
// picture's reference count, in a single transaction over the game and
// picture keys.
func (that *GameManager) addSnipeToGame(ctx context.Context, userID, gameID, pictureID string) (string, error) {
	snipeID := pkg.GenerateUniqueString()

	err := that.store.Atomically(ctx, func(tx *storage.AtomicTx) error {
		game, err := that.gameRepo.GetTx(tx, gameID)
		if err != nil {
			return err
		}

		if err = game.ConfirmStartedState(); err != nil {
			return err
		}

		sniper, ok := game.Player(userID)
		if !ok {
			return apperror.ErrNotInGame
		}

		if !sniper.Alive {
			return apperror.ErrNotAlive
		}

		snipe := entity.NewSnipe(snipeID, userID, sniper.Target, pictureID, time.Now().UTC())
		game.Snipes[snipeID] = snipe
		game.Players[sniper.Target].AddPendingVote(snipeID)

		if err = that.gameRepo.SaveTx(tx, game); err != nil {
			return err
		}

		picture, err := that.pictureRepo.GetTx(tx, pictureID)
		if err != nil {
			return err
		}

		picture.RefCount++

		return that.pictureRepo.SaveTx(tx, picture)
	}, repository.GameKey(gameID), repository.PictureKey(pictureID))
	if err != nil {
		return "", err
	}

	return snipeID, nil
}

// cleanupUnreferencedPicture - removes the binary and the metadata record
// of a picture no snipe ended up referencing.
func (that *GameManager) cleanupUnreferencedPicture(ctx context.Context, pictureID string) {
	log := that.logger.With("method", "cleanupUnreferencedPicture", "picture", pictureID)

	if err := that.evidence.Delete(ctx, pictureID); err != nil {
		log.Error("failed to delete evidence binary", "error", err)
	}

	if err := that.pictureRepo.DeleteByID(ctx, pictureID); err != nil {
		log.Error("failed to delete picture record", "error", err)
	}
}
