package ring

import (
	"math/rand"

	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
)

// Shuffled - returns a uniformly shuffled copy of ids (Fisher-Yates).
func Shuffled(ids []string) []string {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// Assign - wires the players of game into a single cycle following the
// given order: order[i] targets order[i+1] and is sniped by order[i-1],
// wrapping around. Every player is reset to alive with no kills and no
// pending votes.
func Assign(game *entity.Game, order []string) {
	n := len(order)
	for i, id := range order {
		player := game.Players[id]
		player.Alive = true
		player.Kills = 0
		player.PendingVotes = nil
		player.Target = order[(i+1)%n]
		player.Sniper = order[(i-1+n)%n]
	}

	game.NumberAlive = n
}

// Repair - closes the gap left by an eliminated player: the sniper inherits
// the victim's target, and that player's sniper pointer is redirected to
// the surviving sniper. The victim's own pointers are left as a record of
// where they died.
func Repair(game *entity.Game, sniperID, victimID string) {
	sniper := game.Players[sniperID]
	victim := game.Players[victimID]

	sniper.Target = victim.Target
	game.Players[victim.Target].Sniper = sniperID
}
