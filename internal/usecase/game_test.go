package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
	"github.com/michiganhackers/photo-assassin-backend/internal/notifier"
	"github.com/michiganhackers/photo-assassin-backend/testing/suite"
)

func TestGameManager_CreateGame(t *testing.T) {
	ctx, st := suite.New(t)
	env := newTestEnv(t, st)

	t.Run("Creates a not-started game owned by the caller", func(t *testing.T) {
		// When: creating a game
		game, err := env.manager.CreateGame(ctx, "owner", "office game", 8)

		// Then: the stored game is not started and the owner is a player
		require.NoError(t, err)
		stored, err := env.games.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsNotStarted())
		assert.True(t, stored.Players["owner"].IsOwner)
		assert.Equal(t, 8, stored.Capacity)
	})

	t.Run("Rejects an empty name", func(t *testing.T) {
		_, err := env.manager.CreateGame(ctx, "owner", "", 8)

		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})

	t.Run("Rejects capacity below the player minimum", func(t *testing.T) {
		_, err := env.manager.CreateGame(ctx, "owner", "tiny", 2)

		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})
}

func TestGameManager_JoinAndLeave(t *testing.T) {
	ctx, st := suite.New(t)
	env := newTestEnv(t, st)

	game, err := env.manager.CreateGame(ctx, "owner", "join game", 3)
	require.NoError(t, err)

	t.Run("Joining twice is rejected", func(t *testing.T) {
		require.NoError(t, env.manager.JoinGame(ctx, "user1", game.ID))

		err := env.manager.JoinGame(ctx, "user1", game.ID)

		assert.ErrorIs(t, err, apperror.ErrAlreadyJoined)
	})

	t.Run("Joining a full game is rejected", func(t *testing.T) {
		require.NoError(t, env.manager.JoinGame(ctx, "user2", game.ID))

		err := env.manager.JoinGame(ctx, "user3", game.ID)

		assert.ErrorIs(t, err, apperror.ErrGameFull)
	})

	t.Run("Owner cannot leave", func(t *testing.T) {
		err := env.manager.LeaveGame(ctx, "owner", game.ID)

		assert.ErrorIs(t, err, apperror.ErrOwnerCannotLeave)
	})

	t.Run("A non-member cannot leave", func(t *testing.T) {
		err := env.manager.LeaveGame(ctx, "stranger", game.ID)

		assert.ErrorIs(t, err, apperror.ErrNotInGame)
	})

	t.Run("Leaving before start removes the player", func(t *testing.T) {
		require.NoError(t, env.manager.LeaveGame(ctx, "user2", game.ID))

		stored, err := env.games.GetByID(ctx, game.ID)
		require.NoError(t, err)
		_, ok := stored.Player("user2")
		assert.False(t, ok)
	})
}

func TestGameManager_StartGame(t *testing.T) {
	t.Run("Builds a single ring over all players", func(t *testing.T) {
		ctx, st := suite.New(t)
		env := newTestEnv(t, st)

		// When: starting a five player game
		game := env.startedGame(ctx, t, 5)

		// Then: the game is started with everyone alive
		assert.True(t, game.IsStarted())
		assert.NotNil(t, game.StartTime)
		assert.Equal(t, 5, game.NumberAlive)

		// Then: target pointers form one cycle over all five players
		for id, player := range game.Players {
			assert.True(t, player.Alive)
			assert.NotEqual(t, id, player.Target)
			assert.Equal(t, id, game.Players[player.Target].Sniper)
		}

		visited := map[string]struct{}{}
		current := "owner"
		for range len(game.Players) {
			visited[current] = struct{}{}
			current = game.Players[current].Target
		}
		assert.Equal(t, "owner", current, "ring closes back on the start")
		assert.Len(t, visited, 5, "ring visits every player")

		// Then: the game is in every participant's active set
		for id := range game.Players {
			user, err := env.users.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Contains(t, user.CurrentGames, game.ID)
		}

		// Then: every participant was notified after commit
		started := env.notifier.byKind(notifier.EventGameStarted)
		assert.Len(t, started, 5)
	})

	t.Run("Rejections leave the game untouched", func(t *testing.T) {
		ctx, st := suite.New(t)
		env := newTestEnv(t, st)

		game, err := env.manager.CreateGame(ctx, "owner", "start game", 6)
		require.NoError(t, err)
		require.NoError(t, env.manager.JoinGame(ctx, "user1", game.ID))

		// When: a non-owner tries to start
		_, err = env.manager.StartGame(ctx, "user1", game.ID)
		assert.ErrorIs(t, err, apperror.ErrNotOwner)

		// When: the owner starts with too few players
		_, err = env.manager.StartGame(ctx, "owner", game.ID)
		assert.ErrorIs(t, err, apperror.ErrTooFewPlayers)

		// Then: no partial ring was written
		stored, err := env.games.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsNotStarted())
		assert.Empty(t, stored.Players["user1"].Target)

		// When: the game is started properly and started again
		require.NoError(t, env.manager.JoinGame(ctx, "user2", game.ID))
		_, err = env.manager.StartGame(ctx, "owner", game.ID)
		require.NoError(t, err)

		_, err = env.manager.StartGame(ctx, "owner", game.ID)
		assert.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
	})

	t.Run("Joining a started game is rejected", func(t *testing.T) {
		ctx, st := suite.New(t)
		env := newTestEnv(t, st)

		game := env.startedGame(ctx, t, 3)

		err := env.manager.JoinGame(ctx, "latecomer", game.ID)

		assert.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
	})
}

func TestGameManager_GetGame(t *testing.T) {
	ctx, st := suite.New(t)
	env := newTestEnv(t, st)

	t.Run("Rejects a malformed id", func(t *testing.T) {
		_, err := env.manager.GetGame(ctx, "nope")

		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})

	t.Run("Returns not-found for an unknown id", func(t *testing.T) {
		_, err := env.manager.GetGame(ctx, "aaaaaaaaaaaaaaaaaa")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Returns the stored document", func(t *testing.T) {
		created, err := env.manager.CreateGame(ctx, "owner", "lookup game", 4)
		require.NoError(t, err)

		game, err := env.manager.GetGame(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.StatusNotStarted, game.Status)
		assert.Equal(t, "lookup game", game.Name)
	})
}
