// Package app runs the per-frame simulation: it drains the input state,
// advances the camera, animates the scene objects and hands the frame to
// the renderer.
package app

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pmoncur/gridwalk/camera"
	"github.com/pmoncur/gridwalk/input"
	"github.com/pmoncur/gridwalk/render"
	"github.com/pmoncur/gridwalk/window"
)

// keyCooldownDecay controls how fast the toggle key cooldowns drain, in
// cooldown units per second.
const keyCooldownDecay = 5

// instanceRefireBelow lets a held arrow key fire again once its
// cooldown has drained this far, roughly 20 times per second.
const instanceRefireBelow = 0.75

type App struct {
	win      *window.Window
	renderer *render.Renderer
	input    *input.State
	camera   *camera.Camera

	selected *render.Object

	toggleCooldown   float64
	instanceCooldown float64

	start time.Time

	width, height uint32
}

func New(win *window.Window, renderer *render.Renderer, in *input.State, ctx *render.Context) *App {
	width, height := ctx.SurfaceSize()

	return &App{
		win:      win,
		renderer: renderer,
		input:    in,
		camera:   newCamera(ctx.AspectRatio()),
		selected: renderer.Cube,
		start:    time.Now(),
		width:    width,
		height:   height,
	}
}

// newCamera builds the demo camera, boxed into the world bounds just
// above the floor and spanning the instanced fields with some margin.
func newCamera(aspect float32) *camera.Camera {
	return camera.New(camera.Config{
		FOV:    45,
		Aspect: aspect,
		Near:   0.1,
		Far:    500,
		Bounds: &camera.Bounds{
			Min: mgl32.Vec3{-10, render.FloorY + 1, -10},
			Max: mgl32.Vec3{157, 50, 157},
		},
	})
}

// Frame advances the simulation by dt seconds and renders the result.
func (a *App) Frame(dt float64) error {
	if err := a.trackResize(); err != nil {
		return err
	}

	a.handleToggles(dt)

	dx, dy := a.input.ConsumeMouseDelta()
	a.tintClearColor(dx, dy)
	a.camera.UpdateLook(float32(dx), float32(dy), float32(dt))
	a.camera.UpdatePos(float32(dt), a.input)

	if a.input.Debug {
		pos := a.camera.Position()
		slog.Debug("Camera",
			slog.Any("position", pos),
			slog.Any("velocity", a.camera.Velocity()),
			slog.Float64("yaw", float64(a.camera.Yaw())),
			slog.Float64("pitch", float64(a.camera.Pitch())),
		)
	}

	if err := a.renderer.UploadCamera(a.camera.ViewProjection()); err != nil {
		return err
	}

	if err := a.animate(); err != nil {
		return err
	}

	return a.renderer.Render(a.selected)
}

func (a *App) trackResize() error {
	width, height := a.win.GetSize()
	if width == a.width && height == a.height {
		return nil
	}

	a.width, a.height = width, height

	if err := a.renderer.Resize(width, height); err != nil {
		return err
	}

	if height > 0 {
		a.camera.SetAspect(float32(width) / float32(height))
	}

	return nil
}

// handleToggles applies the held toggle keys, each behind a small
// cooldown so a held key does not fire every frame.
func (a *App) handleToggles(dt float64) {
	a.toggleCooldown = max(0, a.toggleCooldown-dt*keyCooldownDecay)
	a.instanceCooldown = max(0, a.instanceCooldown-dt*keyCooldownDecay)

	if a.input.ToggleObject && a.toggleCooldown == 0 {
		a.toggleCooldown = 1

		if a.selected == a.renderer.Cube {
			a.selected = a.renderer.Pyramid
		} else {
			a.selected = a.renderer.Cube
		}

		// keep the visible count when swapping fields
		a.selected.Shown = a.otherField().Shown
	}

	if a.instanceCooldown <= instanceRefireBelow {
		switch {
		case a.input.MoreInstances:
			a.instanceCooldown = 1
			a.selected.Shown = min(a.selected.Shown+1, a.selected.Instances)
		case a.input.FewerInstances:
			a.instanceCooldown = 1
			if a.selected.Shown > 0 {
				a.selected.Shown--
			}
		}
	}
}

func (a *App) otherField() *render.Object {
	if a.selected == a.renderer.Cube {
		return a.renderer.Pyramid
	}

	return a.renderer.Cube
}

// tintClearColor nudges the background with the mouse, red with
// horizontal motion and blue with vertical motion.
func (a *App) tintClearColor(dx, dy float64) {
	a.renderer.ClearColor.R = clamp01(a.renderer.ClearColor.R + dx/2500)
	a.renderer.ClearColor.B = clamp01(a.renderer.ClearColor.B + dy/2500)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// animate drives the scripted object motion from elapsed wall time.
func (a *App) animate() error {
	elapsed := float32(time.Since(a.start).Seconds())

	cube := mgl32.HomogRotate3DX(elapsed).
		Mul4(mgl32.HomogRotate3DY(elapsed)).
		Mul4(mgl32.HomogRotate3DZ(elapsed))
	if err := a.renderer.SetModel(a.renderer.Cube, cube); err != nil {
		return err
	}

	sin, cos := math32.Sin(elapsed), math32.Cos(elapsed)
	scale := math32.Abs(sin) + 1.22
	pyramid := mgl32.Translate3D(sin*10, sin, cos*10).
		Mul4(mgl32.Scale3D(scale, scale, scale))
	if err := a.renderer.SetModel(a.renderer.Pyramid, pyramid); err != nil {
		return err
	}

	spheres := mgl32.Translate3D(0, render.FloorY+5, 0).
		Mul4(mgl32.HomogRotate3D(elapsed, mgl32.Vec3{1, 1, 1}.Normalize()))

	return a.renderer.SetModel(a.renderer.Spheres, spheres)
}
