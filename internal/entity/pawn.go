package entity

// Zone - where a pawn currently lives. Exactly one zone holds at a time.
type Zone string

const (
	ZoneHome  Zone = "home"
	ZoneTrack Zone = "track"
	ZoneLane  Zone = "lane"
	ZoneGoal  Zone = "goal"
)

type Pawn struct {
	ID   int  `json:"id"`
	Zone Zone `json:"zone"`

	// TrackPosition is meaningful only when Zone is ZoneTrack; it is an
	// index on the shared 52-tile ring.
	TrackPosition int `json:"trackPosition"`

	// LaneOffset is meaningful only when Zone is ZoneLane; it is an index
	// into the player's private home stretch.
	LaneOffset int `json:"laneOffset"`
}

func (that *Pawn) IsHome() bool {
	return that.Zone == ZoneHome
}

func (that *Pawn) OnTrack() bool {
	return that.Zone == ZoneTrack
}

func (that *Pawn) InLane() bool {
	return that.Zone == ZoneLane
}

func (that *Pawn) InGoal() bool {
	return that.Zone == ZoneGoal
}

// SendHome - resets a captured pawn back to its home zone.
func (that *Pawn) SendHome() {
	that.Zone = ZoneHome
	that.TrackPosition = 0
	that.LaneOffset = 0
}
