package entity

type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
)

// TurnColors is the color assignment order for joined players.
var TurnColors = [4]Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    Color  `json:"color,omitempty"`
	RoomCode string `json:"room_code,omitempty"`
}

// Clone - a detached copy, safe to read outside the room lock.
func (that *Player) Clone() *Player {
	if that == nil {
		return nil
	}

	copied := *that

	return &copied
}

// ClonePlayers - a detached copy of a roster slice.
func ClonePlayers(players []*Player) []*Player {
	copied := make([]*Player, len(players))
	for i, player := range players {
		copied[i] = player.Clone()
	}

	return copied
}
