package entity

const (
	MinPlayersToStart = 2
	MaxPlayersPerRoom = 4
)

// Room - one game session roster. GameState stays nil until the host starts
// the game and is populated exactly once after that.
type Room struct {
	Code      string     `json:"code"`
	Players   []*Player  `json:"players"`
	HostID    string     `json:"hostId"`
	GameState *GameState `json:"gameState,omitempty"`
}

func NewRoom(code string, host *Player) *Room {
	host.RoomCode = code

	return &Room{
		Code:    code,
		Players: []*Player{host},
		HostID:  host.ID,
	}
}

// Snapshot - a copy with a detached roster and game state, safe to read
// outside the room lock.
func (that *Room) Snapshot() *Room {
	copied := *that
	copied.Players = ClonePlayers(that.Players)
	copied.GameState = that.GameState.Snapshot()

	return &copied
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayersPerRoom
}

func (that *Room) IsStarted() bool {
	return that.GameState != nil
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) HasPlayer(id string) bool {
	for _, player := range that.Players {
		if player.ID == id {
			return true
		}
	}

	return false
}

// AddPlayer - appends a player preserving join order, which later determines
// color assignment.
func (that *Room) AddPlayer(player *Player) {
	player.RoomCode = that.Code
	that.Players = append(that.Players, player)
}

// RemovePlayer - removes a player by ID and returns it, or nil if the player
// was not a member.
func (that *Room) RemovePlayer(id string) *Player {
	for i, player := range that.Players {
		if player.ID != id {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)
		player.RoomCode = ""

		return player
	}

	return nil
}
