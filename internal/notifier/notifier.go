package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
)

const (
	EventGameStarted   = "game-started"
	EventVoteRequested = "vote-requested"
)

// Event is one notification to one user. Dispatch happens strictly after
// the state-changing transaction has committed, so a transaction retry can
// never publish twice.
type Event struct {
	Kind       string `json:"kind"`
	GameID     string `json:"game_id"`
	GameName   string `json:"game_name,omitempty"`
	SnipeID    string `json:"snipe_id,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, userID string, event Event) error
}

// UserChannel - the pub/sub channel carrying one user's events.
func UserChannel(userID string) string {
	return "notify:user:" + userID
}

type redisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier - dispatches events over redis pub/sub; the websocket
// transport subscribes on the other end and pushes them to clients.
func NewRedisNotifier(store *storage.RedisStorage) Notifier {
	return &redisNotifier{
		client: store.Connection,
	}
}

func (that *redisNotifier) Notify(ctx context.Context, userID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
