package entity

import "time"

const (
	SnipeVoting  = "voting"
	SnipeSuccess = "success"
	SnipeFailure = "failure"
)

// Snipe is a claim that Sniper eliminated Target, backed by a picture.
// Terminal once Status leaves voting; never deleted.
type Snipe struct {
	ID           string    `json:"id"`
	Sniper       string    `json:"sniper"`
	Target       string    `json:"target"`
	Status       string    `json:"status"`
	PictureID    string    `json:"picture_id"`
	Time         time.Time `json:"time"`
	VotesFor     int       `json:"votes_for"`
	VotesAgainst int       `json:"votes_against"`
}

func NewSnipe(id, sniperID, targetID, pictureID string, now time.Time) *Snipe {
	return &Snipe{
		ID:        id,
		Sniper:    sniperID,
		Target:    targetID,
		Status:    SnipeVoting,
		PictureID: pictureID,
		Time:      now,
	}
}

func (that *Snipe) IsVoting() bool {
	return that.Status == SnipeVoting
}
