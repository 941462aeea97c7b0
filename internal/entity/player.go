package entity

import (
	"slices"
	"time"
)

// Player is a user's membership in one game. Target and Sniper hold player
// ids rather than references, so ring rewiring is a two-field update.
type Player struct {
	UserID       string     `json:"user_id"`
	IsOwner      bool       `json:"is_owner,omitempty"`
	Alive        bool       `json:"alive"`
	Kills        int        `json:"kills"`
	TimeOfDeath  *time.Time `json:"time_of_death,omitempty"`
	Target       string     `json:"target,omitempty"`
	Sniper       string     `json:"sniper,omitempty"`
	PendingVotes []string   `json:"pending_votes,omitempty"`
	Place        int        `json:"place,omitempty"`
}

func (that *Player) HasPendingVote(snipeID string) bool {
	return slices.Contains(that.PendingVotes, snipeID)
}

func (that *Player) AddPendingVote(snipeID string) {
	if !that.HasPendingVote(snipeID) {
		that.PendingVotes = append(that.PendingVotes, snipeID)
	}
}

func (that *Player) RemovePendingVote(snipeID string) {
	that.PendingVotes = slices.DeleteFunc(that.PendingVotes, func(id string) bool {
		return id == snipeID
	})
}
