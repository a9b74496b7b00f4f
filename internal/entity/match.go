package entity

import "time"

const (
	OutcomeWon     = "won"
	OutcomeAborted = "aborted"
)

// MatchRecord - a finished or aborted session, archived for record keeping.
// This is not resumable state; live rooms exist only in memory.
type MatchRecord struct {
	ID         string    `json:"id"`
	RoomCode   string    `json:"room_code"`
	Outcome    string    `json:"outcome"`
	Winner     *Player   `json:"winner,omitempty"`
	Players    []*Player `json:"players"`
	FinishedAt time.Time `json:"finished_at"`
}
