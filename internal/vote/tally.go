package vote

import "github.com/michiganhackers/photo-assassin-backend/internal/entity"

// Outcome is the decision produced by applying one ballot to a snipe.
type Outcome int

const (
	// Continue - the snipe stays in voting.
	Continue Outcome = iota
	// OpenSecondRound - the target rejected the claim; every other alive
	// player gets a vote.
	OpenSecondRound
	// Success - the snipe is confirmed and the kill resolves.
	Success
	// Failure - the snipe is rejected.
	Failure
)

// TargetBallot - applies the target's own ballot. A confirming target
// settles the snipe on their word alone; a rejection does not resolve
// anything but hands the decision to the other alive players. The target's
// ballot never touches the vote counters.
func TargetBallot(confirm bool) Outcome {
	if confirm {
		return Success
	}

	return OpenSecondRound
}

// ThirdPartyBallot - applies a second-round ballot to the snipe's running
// tally and decides. eligible is the number of alive players excluding the
// sniper and the target. The snipe succeeds the instant votes-for strictly
// exceeds half of eligible, and fails the instant votes-against reaches at
// least half, so a tie kills the claim rather than the accused.
func ThirdPartyBallot(snipe *entity.Snipe, eligible int, confirm bool) Outcome {
	if confirm {
		snipe.VotesFor++
		if snipe.VotesFor*2 > eligible {
			return Success
		}

		return Continue
	}

	snipe.VotesAgainst++
	if snipe.VotesAgainst*2 >= eligible {
		return Failure
	}

	return Continue
}
