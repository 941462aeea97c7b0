package entity

import (
	"fmt"
	"time"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
)

const (
	StatusNotStarted = "notStarted"
	StatusStarted    = "started"
	StatusEnded      = "ended"
)

type Game struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Capacity    int                `json:"capacity"`
	Status      string             `json:"status"`
	StartTime   *time.Time         `json:"start_time,omitempty"`
	EndTime     *time.Time         `json:"end_time,omitempty"`
	NumberAlive int                `json:"number_alive"`
	Players     map[string]*Player `json:"players"`
	Snipes      map[string]*Snipe  `json:"snipes,omitempty"`
}

// NewGame - creates a not-started game with ownerID as its only player.
func NewGame(id, name string, capacity int, ownerID string) *Game {
	return &Game{
		ID:       id,
		Name:     name,
		Capacity: capacity,
		Status:   StatusNotStarted,
		Players: map[string]*Player{
			ownerID: {UserID: ownerID, IsOwner: true},
		},
		Snipes: map[string]*Snipe{},
	}
}

func (that *Game) IsNotStarted() bool {
	return that.Status == StatusNotStarted
}

func (that *Game) IsStarted() bool {
	return that.Status == StatusStarted
}

func (that *Game) IsEnded() bool {
	return that.Status == StatusEnded
}

// ConfirmStartedState - returns the precondition error matching the game
// status, or nil when the game is in progress.
func (that *Game) ConfirmStartedState() error {
	switch that.Status {
	case StatusStarted:
		return nil
	case StatusNotStarted:
		return apperror.ErrGameNotStarted
	case StatusEnded:
		return apperror.ErrGameEnded
	default:
		return fmt.Errorf("%w: unknown game status %q", apperror.ErrUnknown, that.Status)
	}
}

func (that *Game) Player(userID string) (*Player, bool) {
	player, ok := that.Players[userID]
	return player, ok
}

func (that *Game) Snipe(snipeID string) (*Snipe, bool) {
	snipe, ok := that.Snipes[snipeID]
	return snipe, ok
}

// AlivePlayerIDs - returns the ids of all alive players, in no particular
// order.
func (that *Game) AlivePlayerIDs() []string {
	ids := make([]string, 0, that.NumberAlive)
	for id, player := range that.Players {
		if player.Alive {
			ids = append(ids, id)
		}
	}

	return ids
}

// EligibleVoters - the majority denominator for a snipe's second voting
// round: alive players excluding the snipe's sniper and target. Either of
// those two can be eliminated by a concurrent snipe while this one is
// still in voting, so the alive set is counted directly instead of being
// derived from NumberAlive.
func (that *Game) EligibleVoters(snipe *Snipe) int {
	eligible := 0
	for id, player := range that.Players {
		if player.Alive && id != snipe.Sniper && id != snipe.Target {
			eligible++
		}
	}

	return eligible
}

// ParticipantIDs - returns the ids of every player in the game, alive or
// dead.
func (that *Game) ParticipantIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for id := range that.Players {
		ids = append(ids, id)
	}

	return ids
}
