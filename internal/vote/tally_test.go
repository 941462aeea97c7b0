package vote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
)

func TestTargetBallot(t *testing.T) {
	t.Run("Confirming target settles the snipe immediately", func(t *testing.T) {
		assert.Equal(t, Success, TargetBallot(true))
	})

	t.Run("Rejecting target opens the second round", func(t *testing.T) {
		assert.Equal(t, OpenSecondRound, TargetBallot(false))
	})
}

func TestThirdPartyBallot(t *testing.T) {
	t.Run("Succeeds once votes-for strictly exceeds half of eligible", func(t *testing.T) {
		// Given: four eligible voters
		snipe := &entity.Snipe{Status: entity.SnipeVoting}

		// When: confirming ballots arrive one by one
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 4, true))
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 4, true))
		outcome := ThirdPartyBallot(snipe, 4, true)

		// Then: the third confirm tips 3 > 4/2 and the snipe succeeds
		assert.Equal(t, Success, outcome)
		assert.Equal(t, 3, snipe.VotesFor)
	})

	t.Run("Fails once votes-against reaches half of eligible", func(t *testing.T) {
		// Given: four eligible voters
		snipe := &entity.Snipe{Status: entity.SnipeVoting}

		// When: rejecting ballots arrive
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 4, false))
		outcome := ThirdPartyBallot(snipe, 4, false)

		// Then: the second reject reaches 2 >= 4/2 and the snipe fails
		assert.Equal(t, Failure, outcome)
		assert.Equal(t, 2, snipe.VotesAgainst)
	})

	t.Run("Tie favors failure with an odd voter pool", func(t *testing.T) {
		// Given: three eligible voters
		snipe := &entity.Snipe{Status: entity.SnipeVoting}

		// When: two reject
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 3, false))
		outcome := ThirdPartyBallot(snipe, 3, false)

		// Then: 2*2 >= 3 fails the snipe, while two confirms (4 > 3) would
		// also have resolved it; the reject threshold is the lower one
		assert.Equal(t, Failure, outcome)
	})

	t.Run("Mixed ballots resolve on whichever threshold is hit first", func(t *testing.T) {
		// Given: six eligible voters
		snipe := &entity.Snipe{Status: entity.SnipeVoting}

		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 6, true))
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 6, false))
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 6, true))
		assert.Equal(t, Continue, ThirdPartyBallot(snipe, 6, false))
		outcome := ThirdPartyBallot(snipe, 6, false)

		// Then: votes-against reaches 3 >= 6/2 before votes-for exceeds 3
		assert.Equal(t, Failure, outcome)
		assert.Equal(t, 2, snipe.VotesFor)
		assert.Equal(t, 3, snipe.VotesAgainst)
	})
}
