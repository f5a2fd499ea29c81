// Package input tracks raw keyboard and mouse state between simulation
// frames. The window layer writes into a State on every platform event,
// the frame update reads it exactly once per tick.
package input

import "github.com/go-gl/mathgl/mgl32"

// Key is a logical action key. The window layer translates platform key
// codes into these before they reach the State.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyForward
	KeyBackward
	KeyLeft
	KeyRight
	KeyAscend
	KeyDescend
	KeySprint
	KeyToggleObject
	KeyMoreInstances
	KeyFewerInstances
	KeyDebug
)

// SprintFactor scales the forward axis of the movement intent while the
// sprint key is held.
const SprintFactor = 2

type State struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Ascend   bool
	Descend  bool
	Sprint   bool

	ToggleObject   bool
	MoreInstances  bool
	FewerInstances bool
	Debug          bool

	mouseDX, mouseDY float64
}

func NewState() *State {
	return &State{}
}

// SetKey records the pressed state for key. Keys the State does not know
// about are ignored.
func (s *State) SetKey(key Key, pressed bool) {
	switch key {
	case KeyForward:
		s.Forward = pressed
	case KeyBackward:
		s.Backward = pressed
	case KeyLeft:
		s.Left = pressed
	case KeyRight:
		s.Right = pressed
	case KeyAscend:
		s.Ascend = pressed
	case KeyDescend:
		s.Descend = pressed
	case KeySprint:
		s.Sprint = pressed
	case KeyToggleObject:
		s.ToggleObject = pressed
	case KeyMoreInstances:
		s.MoreInstances = pressed
	case KeyFewerInstances:
		s.FewerInstances = pressed
	case KeyDebug:
		s.Debug = pressed
	}
}

// SetMouseDelta replaces the pending mouse delta. Events within one frame
// do not accumulate, the last write wins.
func (s *State) SetMouseDelta(dx, dy float64) {
	s.mouseDX = dx
	s.mouseDY = dy
}

// ConsumeMouseDelta returns the pending mouse delta and clears it. A
// second call without an intervening SetMouseDelta returns (0, 0).
func (s *State) ConsumeMouseDelta() (dx, dy float64) {
	dx, dy = s.mouseDX, s.mouseDY
	s.mouseDX, s.mouseDY = 0, 0
	return
}

// Movement derives the movement intent from the currently held keys.
// X is forward/backward, Z is right/left, Y is ascend/descend. Opposing
// keys cancel out. Sprint scales the forward axis only.
func (s *State) Movement() mgl32.Vec3 {
	var movement mgl32.Vec3

	if s.Forward {
		movement[0] += 1
	}
	if s.Backward {
		movement[0] -= 1
	}
	if s.Right {
		movement[2] += 1
	}
	if s.Left {
		movement[2] -= 1
	}
	if s.Ascend {
		movement[1] += 1
	}
	if s.Descend {
		movement[1] -= 1
	}
	if s.Sprint {
		movement[0] *= SprintFactor
	}

	return movement
}
