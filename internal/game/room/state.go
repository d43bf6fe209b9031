package room

// Status is a room's lifecycle status.
type Status int

const (
	StatusWaiting Status = iota
	StatusMatchmaking
	StatusPlaying
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusMatchmaking:
		return "matchmaking"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	}
	return "unknown"
}
