// Package window owns the glfw window and feeds platform events into an
// input.State. Rendering happens through the surface descriptor it hands
// to the webgpu layer.
package window

import (
	"fmt"
	"os"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
)

type Window struct {
	win   *glfw.Window
	prof  interface{ Stop() }
	input eventSink

	prevCursorX, prevCursorY float64
	cursorSeen               bool
}

// eventSink is the part of input.State the window writes into.
type eventSink interface {
	SetKey(key Key, pressed bool)
	SetMouseDelta(dx, dy float64)
}

func New(width, height int, title string, sink eventSink) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{
		win:   window,
		input: sink,
	}

	if os.Getenv("GRIDWALK_PROFILE") == "1" {
		w.prof = profile.Start(profile.CPUProfile)
	}

	w.configureInput()

	return w, nil
}

func (w *Window) configureInput() {
	// capture the cursor so relative motion is unbounded
	w.win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		w.win.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}

	w.win.SetKeyCallback(func(_ *glfw.Window, glfwKey glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}

		if glfwKey == glfw.KeyEscape && action == glfw.Press {
			w.win.SetShouldClose(true)
			return
		}

		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		w.input.SetKey(key, action == glfw.Press)
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.cursorSeen {
			w.input.SetMouseDelta(xpos-w.prevCursorX, ypos-w.prevCursorY)
		}

		w.prevCursorX, w.prevCursorY = xpos, ypos
		w.cursorSeen = true
	})
}

func (w *Window) GetSize() (uint32, uint32) {
	width, height := w.win.GetSize()
	return uint32(width), uint32(height)
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

// Run polls events and calls frame once per iteration with the elapsed
// wall-clock time in seconds, until the window closes or frame fails.
func (w *Window) Run(frame func(dt float64) error) error {
	last := time.Now()

	for !w.win.ShouldClose() {
		glfw.PollEvents()

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		if err := frame(dt); err != nil {
			return err
		}
	}

	return nil
}

func (w *Window) Terminate() {
	if w.prof != nil {
		w.prof.Stop()
	}

	w.win.Destroy()
	glfw.Terminate()
}
