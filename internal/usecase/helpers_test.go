package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
	"github.com/michiganhackers/photo-assassin-backend/internal/evidence"
	"github.com/michiganhackers/photo-assassin-backend/internal/notifier"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository"
	"github.com/michiganhackers/photo-assassin-backend/testing/suite"
)

var testImage = []byte("fake-jpeg-bytes")

type notifiedEvent struct {
	UserID string
	Event  notifier.Event
}

// recordingNotifier captures dispatched events instead of publishing them.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
}

func (that *recordingNotifier) Notify(_ context.Context, userID string, event notifier.Event) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, notifiedEvent{UserID: userID, Event: event})

	return nil
}

func (that *recordingNotifier) byKind(kind string) []notifiedEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	var matched []notifiedEvent
	for _, event := range that.events {
		if event.Event.Kind == kind {
			matched = append(matched, event)
		}
	}

	return matched
}

type testEnv struct {
	manager  *GameManager
	games    repository.GameRepository
	users    repository.UserRepository
	pictures repository.PictureRepository
	evidence *evidence.DiskStore
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, st *suite.Suite) *testEnv {
	t.Helper()

	evidenceStore, err := evidence.NewDiskStore(t.TempDir(), "http://localhost:9090/evidence")
	require.NoError(t, err)

	games := repository.NewGameRepository(st.Storage)
	users := repository.NewUserRepository(st.Storage)
	pictures := repository.NewPictureRepository(st.Storage)
	eventNotifier := &recordingNotifier{}

	manager := NewGameManager(st.Logger, st.Storage, games, users, pictures, evidenceStore, eventNotifier, 3)

	return &testEnv{
		manager:  manager,
		games:    games,
		users:    users,
		pictures: pictures,
		evidence: evidenceStore,
		notifier: eventNotifier,
	}
}

// startedGame creates and starts a game with n players. The owner is
// "owner", the rest are "user1".."user<n-1>".
func (that *testEnv) startedGame(ctx context.Context, t *testing.T, n int) *entity.Game {
	t.Helper()

	created, err := that.manager.CreateGame(ctx, "owner", "integration game", n)
	require.NoError(t, err)

	for i := 1; i < n; i++ {
		require.NoError(t, that.manager.JoinGame(ctx, fmt.Sprintf("user%d", i), created.ID))
	}

	started, err := that.manager.StartGame(ctx, "owner", created.ID)
	require.NoError(t, err)

	return started
}

// submitSingleSnipe submits evidence for one game and returns the picture
// and snipe ids.
func (that *testEnv) submitSingleSnipe(ctx context.Context, t *testing.T, userID, gameID string) (string, string) {
	t.Helper()

	pictureID, results, err := that.manager.SubmitSnipe(ctx, userID, []string{gameID}, testImage)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	return pictureID, results[0].SnipeID
}

// assertAliveRing fails the test unless the alive players form exactly one
// target cycle with consistent back-pointers.
func assertAliveRing(t *testing.T, game *entity.Game) {
	t.Helper()

	alive := game.AlivePlayerIDs()
	for _, id := range alive {
		player := game.Players[id]
		require.True(t, game.Players[player.Target].Alive, "%s targets dead player %s", id, player.Target)
		require.True(t, game.Players[player.Sniper].Alive, "%s is sniped by dead player %s", id, player.Sniper)
		require.Equal(t, id, game.Players[player.Target].Sniper, "back-pointer of %s's target", id)
	}

	visited := map[string]struct{}{}
	current := alive[0]
	for range alive {
		visited[current] = struct{}{}
		current = game.Players[current].Target
	}
	require.Equal(t, alive[0], current, "ring closes back on the start")
	require.Len(t, visited, len(alive), "ring visits every alive player")
}

// pendingVoters returns the players currently owing a vote on the snipe.
func pendingVoters(game *entity.Game, snipeID string) []string {
	var ids []string
	for id, player := range game.Players {
		if player.HasPendingVote(snipeID) {
			ids = append(ids, id)
		}
	}

	return ids
}

// thirdPartyVoters returns the alive players other than the snipe's sniper
// and target.
func thirdPartyVoters(game *entity.Game, snipe *entity.Snipe) []string {
	var voters []string
	for _, id := range game.AlivePlayerIDs() {
		if id != snipe.Sniper && id != snipe.Target {
			voters = append(voters, id)
		}
	}

	return voters
}
