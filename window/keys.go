package window

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/pmoncur/gridwalk/input"
)

type Key = input.Key

var glfwToKey = map[glfw.Key]Key{
	glfw.KeyW:           input.KeyForward,
	glfw.KeyS:           input.KeyBackward,
	glfw.KeyA:           input.KeyLeft,
	glfw.KeyD:           input.KeyRight,
	glfw.KeySpace:       input.KeyAscend,
	glfw.KeyLeftShift:   input.KeyDescend,
	glfw.KeyLeftControl: input.KeySprint,
	glfw.KeyTab:         input.KeyToggleObject,
	glfw.KeyUp:          input.KeyMoreInstances,
	glfw.KeyDown:        input.KeyFewerInstances,
	glfw.KeyF:           input.KeyDebug,
}

func keyOf(glfwKey glfw.Key) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug("Unbound key", slog.Int("key", int(glfwKey)))
	}

	return
}
