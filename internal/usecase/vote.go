package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
	"github.com/michiganhackers/photo-assassin-backend/internal/notifier"
	"github.com/michiganhackers/photo-assassin-backend/internal/pkg"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
	"github.com/michiganhackers/photo-assassin-backend/internal/ring"
	"github.com/michiganhackers/photo-assassin-backend/internal/vote"
)

// SubmitVote - applies one ballot to a snipe. The tally, any resulting
// kill with its ring repair and stat updates, and game termination all
// commit as one transaction; the evidence binary deletion and the
// second-round notifications happen only after the commit.
func (that *GameManager) SubmitVote(ctx context.Context, userID, gameID, snipeID string, ballot bool) error {
	if !pkg.IsValidUniqueString(gameID) {
		return fmt.Errorf("%w: game id", apperror.ErrInvalidID)
	}

	if !pkg.IsValidUniqueString(snipeID) {
		return fmt.Errorf("%w: snipe id", apperror.ErrInvalidID)
	}

	// The snipe's picture and the participants' user records are only
	// known after a read. The participant set is frozen once a game
	// starts and a snipe's picture id is immutable, so the discovered
	// watch set is stable; the transaction re-reads everything under
	// WATCH.
	preRead, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	preSnipe, ok := preRead.Snipe(snipeID)
	if !ok {
		return apperror.ErrSnipeNotFound
	}

	participants := preRead.ParticipantIDs()
	keys := make([]string, 0, len(participants)+2)
	keys = append(keys, repository.GameKey(gameID), repository.PictureKey(preSnipe.PictureID))
	for _, id := range participants {
		keys = append(keys, repository.UserKey(id))
	}

	var secondRound []string
	var releasedPicture string

	err = that.store.Atomically(ctx, func(tx *storage.AtomicTx) error {
		secondRound = nil
		releasedPicture = ""

		game, err := that.gameRepo.GetTx(tx, gameID)
		if err != nil {
			return err
		}

		if err = game.ConfirmStartedState(); err != nil {
			return err
		}

		snipe, ok := game.Snipe(snipeID)
		if !ok {
			return apperror.ErrSnipeNotFound
		}

		if !snipe.IsVoting() {
			return apperror.ErrSnipeResolved
		}

		voter, ok := game.Player(userID)
		if !ok {
			return apperror.ErrNotInGame
		}

		if !voter.Alive {
			return apperror.ErrNotAlive
		}

		if snipe.Sniper == userID {
			return apperror.ErrSniperCannotVote
		}

		if !voter.HasPendingVote(snipeID) {
			return apperror.ErrNotPendingVoter
		}

		voter.RemovePendingVote(snipeID)

		var outcome vote.Outcome
		if snipe.Target == userID {
			outcome = vote.TargetBallot(ballot)
		} else {
			outcome = vote.ThirdPartyBallot(snipe, game.EligibleVoters(snipe), ballot)
		}

		// A concurrent snipe can eliminate this snipe's target while the
		// vote is still open. The kill was already recorded by whichever
		// snipe resolved first, so a late confirmation cannot land twice.
		if outcome == vote.Success && !game.Players[snipe.Target].Alive {
			outcome = vote.Failure
		}

		if outcome == vote.OpenSecondRound {
			for _, id := range game.AlivePlayerIDs() {
				if id == snipe.Sniper || id == snipe.Target {
					continue
				}

				game.Players[id].AddPendingVote(snipeID)
				secondRound = append(secondRound, id)
			}

			// Two players left: nobody is eligible to break the tie, and
			// ties favor the accused.
			if len(secondRound) == 0 {
				outcome = vote.Failure
			}
		}

		switch outcome {
		case vote.Success:
			snipe.Status = entity.SnipeSuccess
			clearPendingVotes(game, snipeID)

			released, err := that.resolveKill(tx, game, snipe)
			if err != nil {
				return err
			}
			if released {
				releasedPicture = snipe.PictureID
			}
		case vote.Failure:
			snipe.Status = entity.SnipeFailure
			clearPendingVotes(game, snipeID)

			released, err := that.releasePicture(tx, snipe.PictureID)
			if err != nil {
				return err
			}
			if released {
				releasedPicture = snipe.PictureID
			}
		}

		return that.gameRepo.SaveTx(tx, game)
	}, keys...)
	if err != nil {
		return err
	}

	if releasedPicture != "" {
		if err := that.evidence.Delete(ctx, releasedPicture); err != nil {
			that.logger.Error("failed to delete evidence binary", "picture", releasedPicture, "error", err)
		}
	}

	if len(secondRound) > 0 {
		that.notifyVoteRequested(ctx, gameID, snipeID, preSnipe.PictureID, secondRound)
	}

	return nil
}

// resolveKill - the cascade behind a confirmed snipe: the target dies, the
// sniper's and target's stats update, the ring closes around the gap, the
// picture reference is released, and a game down to its last player ends.
func (that *GameManager) resolveKill(tx *storage.AtomicTx, game *entity.Game, snipe *entity.Snipe) (bool, error) {
	now := time.Now().UTC()

	target := game.Players[snipe.Target]
	sniper := game.Players[snipe.Sniper]

	// The claimant can die while the snipe is in voting, in which case an
	// earlier repair already redirected the target's sniper pointer to a
	// living player. Closing the ring through that pointer keeps the alive
	// players in one cycle no matter who made the claim.
	heir := target.Sniper

	target.Alive = false
	target.TimeOfDeath = &now
	sniper.Kills++

	ring.Repair(game, heir, snipe.Target)
	game.NumberAlive--

	users := make(map[string]*entity.User)

	sniperUser, err := that.loadUser(tx, users, snipe.Sniper)
	if err != nil {
		return false, err
	}
	sniperUser.Kills++

	targetUser, err := that.loadUser(tx, users, snipe.Target)
	if err != nil {
		return false, err
	}
	targetUser.Deaths++

	lifeSeconds := int64(now.Sub(*game.StartTime).Seconds())
	if lifeSeconds > targetUser.LongestLifeSeconds {
		targetUser.LongestLifeSeconds = lifeSeconds
	}

	released, err := that.releasePicture(tx, snipe.PictureID)
	if err != nil {
		return false, err
	}

	if game.NumberAlive == 1 {
		if err = that.terminate(tx, game, now, users); err != nil {
			return false, err
		}
	}

	for _, user := range users {
		if err = that.userRepo.SaveTx(tx, user); err != nil {
			return false, err
		}
	}

	return released, nil
}

// terminate - assigns final placements, ends the game and moves it into
// every participant's completed set.
func (that *GameManager) terminate(tx *storage.AtomicTx, game *entity.Game, now time.Time, users map[string]*entity.User) error {
	winnerID := game.AlivePlayerIDs()[0]
	game.Players[winnerID].Place = 1

	dead := make([]*entity.Player, 0, len(game.Players)-1)
	for _, player := range game.Players {
		if !player.Alive {
			dead = append(dead, player)
		}
	}

	// Most recently eliminated takes the better placement, so the final
	// kill lands on place 2.
	slices.SortFunc(dead, func(a, b *entity.Player) int {
		return b.TimeOfDeath.Compare(*a.TimeOfDeath)
	})
	for i, player := range dead {
		player.Place = i + 2
	}

	game.Status = entity.StatusEnded
	game.EndTime = &now

	for _, id := range game.ParticipantIDs() {
		user, err := that.loadUser(tx, users, id)
		if err != nil {
			return err
		}

		user.CompleteGame(game.ID)
	}

	users[winnerID].GamesWon++

	return nil
}

// releasePicture - drops one reference and reports whether the binary is
// now unreferenced. The metadata record stays behind as a tombstone.
func (that *GameManager) releasePicture(tx *storage.AtomicTx, pictureID string) (bool, error) {
	picture, err := that.pictureRepo.GetTx(tx, pictureID)
	if err != nil {
		return false, err
	}

	picture.RefCount--

	if err = that.pictureRepo.SaveTx(tx, picture); err != nil {
		return false, err
	}

	return picture.RefCount == 0, nil
}

// loadUser - reads a user's stats once per transaction, so later mutations
// in the same transaction see earlier ones.
func (that *GameManager) loadUser(tx *storage.AtomicTx, users map[string]*entity.User, id string) (*entity.User, error) {
	if user, ok := users[id]; ok {
		return user, nil
	}

	user, err := that.userRepo.GetOrCreateTx(tx, id)
	if err != nil {
		return nil, err
	}

	users[id] = user

	return user, nil
}

func clearPendingVotes(game *entity.Game, snipeID string) {
	for _, player := range game.Players {
		player.RemovePendingVote(snipeID)
	}
}

func (that *GameManager) notifyVoteRequested(ctx context.Context, gameID, snipeID, pictureID string, voters []string) {
	log := that.logger.With("method", "notifyVoteRequested", "game", gameID, "snipe", snipeID)

	event := notifier.Event{
		Kind:       notifier.EventVoteRequested,
		GameID:     gameID,
		SnipeID:    snipeID,
		PictureURL: that.evidence.URL(pictureID),
	}

	for _, id := range voters {
		if err := that.notifier.Notify(ctx, id, event); err != nil {
			log.Error("failed to notify voter", "voter", id, "error", err)
		}
	}
}
