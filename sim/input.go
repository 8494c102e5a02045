package sim

// Event is a discrete control input. The zero value is invalid so the
// numeric codes can travel on the wire as single bytes.
type Event uint8

const (
	RotateLeft Event = iota + 1
	RotateRight
	RotateStop
	ThrustStart
	ThrustStop
	Fire
	FireRelease
	Quit
)

var eventNames = [...]string{
	RotateLeft:  "rotate_left",
	RotateRight: "rotate_right",
	RotateStop:  "rotate_stop",
	ThrustStart: "thrust_start",
	ThrustStop:  "thrust_stop",
	Fire:        "fire",
	FireRelease: "fire_release",
	Quit:        "quit",
}

func (e Event) String() string {
	if e.Valid() {
		return eventNames[e]
	}
	return "unknown"
}

// Valid reports whether e is a known event
func (e Event) Valid() bool {
	return e >= RotateLeft && e <= Quit
}

// ParseEvent maps a snake_case name back to its Event
func ParseEvent(name string) (Event, bool) {
	for e := RotateLeft; e <= Quit; e++ {
		if eventNames[e] == name {
			return e, true
		}
	}
	return 0, false
}

// Key is a front-end agnostic control key
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyFire
	KeyEscape
)

// Translate maps a key transition to an event. Keys without a release
// action, like Escape, report false on key-up.
func Translate(k Key, down bool) (Event, bool) {
	switch k {
	case KeyLeft:
		if down {
			return RotateLeft, true
		}
		return RotateStop, true
	case KeyRight:
		if down {
			return RotateRight, true
		}
		return RotateStop, true
	case KeyUp:
		if down {
			return ThrustStart, true
		}
		return ThrustStop, true
	case KeyFire:
		if down {
			return Fire, true
		}
		return FireRelease, true
	case KeyEscape:
		if down {
			return Quit, true
		}
	}
	return 0, false
}
