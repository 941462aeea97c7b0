package entity

import "slices"

// User holds the cross-game statistics for one account. Identity itself
// (registration, display name, friends) lives with the identity provider.
type User struct {
	ID                 string   `json:"id"`
	Kills              int      `json:"kills"`
	Deaths             int      `json:"deaths"`
	LongestLifeSeconds int64    `json:"longest_life_seconds"`
	GamesWon           int      `json:"games_won"`
	CurrentGames       []string `json:"current_games,omitempty"`
	CompletedGames     []string `json:"completed_games,omitempty"`
}

func (that *User) AddCurrentGame(gameID string) {
	if !slices.Contains(that.CurrentGames, gameID) {
		that.CurrentGames = append(that.CurrentGames, gameID)
	}
}

// CompleteGame - moves gameID from the active set to the completed set.
func (that *User) CompleteGame(gameID string) {
	that.CurrentGames = slices.DeleteFunc(that.CurrentGames, func(id string) bool {
		return id == gameID
	})

	if !slices.Contains(that.CompletedGames, gameID) {
		that.CompletedGames = append(that.CompletedGames, gameID)
	}
}
