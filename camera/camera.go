// Package camera implements a free-flying first person camera with
// inertial, friction limited movement.
//
// The camera integrates position, velocity and orientation once per
// simulation frame from the current input.State and the elapsed time,
// and produces a view-projection matrix for the renderer on demand.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pmoncur/gridwalk/input"
)

// pitch stays strictly inside (-90, 90) to keep the look-at basis away
// from the gimbal singularity at straight up/down.
const pitchLimit = 89.99

// epsilon below which a direction is considered degenerate and skipped
// in the friction steering step.
const epsilon = 1e-6

var worldUp = mgl32.Vec3{0, 1, 0}

// clipCorrection adapts the right-handed OpenGL clip volume (z in -1..1)
// produced by mgl32.Perspective to the webgpu clip volume (z in 0..1).
// Column-major: diag(1, 1, 0.5, 1) with m[2][3] = 0.5.
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Tuning groups the movement constants. Units are world units and
// seconds; angles are degrees.
type Tuning struct {
	// acceleration applied per unit of movement intent
	Accel float32

	// velocity decay applied on axes without input
	Decel float32

	// hard cap on the magnitude of each velocity component
	MaxVelocity float32

	// position integration multiplier floor and sprint cap
	WalkSpeed   float32
	SprintSpeed float32

	// first-order rate at which speed approaches its target, per second
	SpeedRamp float32

	// degrees of look rotation per pixel of mouse travel per second
	Sensitivity float32
}

func DefaultTuning() Tuning {
	return Tuning{
		Accel:       30,
		Decel:       10,
		MaxVelocity: 2,
		WalkSpeed:   5,
		SprintSpeed: 12,
		SpeedRamp:   4,
		Sensitivity: 10,
	}
}

// Bounds is an axis-aligned box the camera cannot leave. Crossing a face
// clamps the position onto it and reflects the velocity component.
type Bounds struct {
	Min, Max mgl32.Vec3
}

type Config struct {
	Position mgl32.Vec3

	// degrees; yaw 0 looks along +X
	Yaw   float32
	Pitch float32

	// vertical field of view in degrees
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	// optional movement box
	Bounds *Bounds

	// zero value means DefaultTuning
	Tuning Tuning
}

func (cfg Config) withDefaults() Config {
	if cfg.FOV == 0 {
		cfg.FOV = 45
	}

	if cfg.Aspect == 0 {
		cfg.Aspect = 16.0 / 9.0
	}

	if cfg.Near == 0 {
		cfg.Near = 0.1
	}

	if cfg.Far == 0 {
		cfg.Far = 500
	}

	if cfg.Tuning == (Tuning{}) {
		cfg.Tuning = DefaultTuning()
	}

	return cfg
}

type Camera struct {
	pos mgl32.Vec3
	vel mgl32.Vec3

	yaw   float32
	pitch float32

	// derived from yaw/pitch, always orthonormal
	forward mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3

	// current position integration multiplier, ramps between
	// WalkSpeed and SprintSpeed
	speed float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	bounds *Bounds
	tun    Tuning
}

func New(cfg Config) *Camera {
	cfg = cfg.withDefaults()

	c := &Camera{
		pos:    cfg.Position,
		yaw:    wrapDegrees(cfg.Yaw),
		pitch:  mgl32.Clamp(cfg.Pitch, -pitchLimit, pitchLimit),
		fov:    cfg.FOV,
		aspect: cfg.Aspect,
		near:   cfg.Near,
		far:    cfg.Far,
		bounds: cfg.Bounds,
		tun:    cfg.Tuning,
	}

	c.speed = c.tun.WalkSpeed
	c.refreshBasis()

	return c
}

// UpdatePos advances velocity and position by dt seconds from the
// currently held movement keys.
func (c *Camera) UpdatePos(dt float32, in *input.State) {
	if dt <= 0 {
		return
	}

	intent := in.Movement()

	// movement is steered by the horizontal part of the look direction,
	// the vertical axis is driven by ascend/descend alone
	flat := mgl32.Vec3{c.forward.X(), 0, c.forward.Z()}
	if flat.Len() > epsilon {
		flat = flat.Normalize()
	} else {
		yaw := mgl32.DegToRad(c.yaw)
		flat = mgl32.Vec3{math32.Cos(yaw), 0, math32.Sin(yaw)}
	}

	accel := flat.Mul(intent.X()).
		Add(c.right.Mul(intent.Z())).
		Add(mgl32.Vec3{0, intent.Y(), 0}).
		Mul(c.tun.Accel)

	c.vel = c.vel.Add(accel.Mul(dt))
	c.applyFriction(dt, accel, intent)

	for i := range c.vel {
		c.vel[i] = mgl32.Clamp(c.vel[i], -c.tun.MaxVelocity, c.tun.MaxVelocity)
	}

	target := c.tun.WalkSpeed
	if in.Sprint && intent.Len() > 0 {
		target = c.tun.SprintSpeed
	}
	c.speed += (target - c.speed) * min(1, c.tun.SpeedRamp*dt)

	c.pos = c.pos.Add(c.vel.Mul(c.speed * dt))
	c.enforceBounds()
}

// applyFriction decays the velocity components that are not being driven
// this frame. With horizontal input the part of the horizontal velocity
// perpendicular to the input direction decays, steering the motion onto
// it; without input the whole horizontal velocity shrinks toward zero.
// The vertical component decays independently.
func (c *Camera) applyFriction(dt float32, accel, intent mgl32.Vec3) {
	hvel := mgl32.Vec2{c.vel.X(), c.vel.Z()}

	if intent.X() == 0 && intent.Z() == 0 {
		if l := hvel.Len(); l > 0 {
			hvel = hvel.Mul(approach(l, 0, c.tun.Decel*dt) / l)
		}
	} else {
		dir := mgl32.Vec2{accel.X(), accel.Z()}
		if l := dir.Len(); l > epsilon {
			dir = dir.Mul(1 / l)

			par := dir.Mul(hvel.Dot(dir))
			perp := hvel.Sub(par)
			if pl := perp.Len(); pl > 0 {
				perp = perp.Mul(approach(pl, 0, c.tun.Decel*dt) / pl)
			}

			hvel = par.Add(perp)
		}
	}

	c.vel[0], c.vel[2] = hvel.X(), hvel.Y()

	if intent.Y() == 0 {
		c.vel[1] = approach(c.vel[1], 0, c.tun.Decel*dt)
	}
}

func (c *Camera) enforceBounds() {
	if c.bounds == nil {
		return
	}

	for i := range c.pos {
		if c.pos[i] > c.bounds.Max[i] {
			c.pos[i] = c.bounds.Max[i]
			c.vel[i] = -c.vel[i]
		}

		if c.pos[i] < c.bounds.Min[i] {
			c.pos[i] = c.bounds.Min[i]
			c.vel[i] = -c.vel[i]
		}
	}
}

// UpdateLook rotates the camera by the given mouse delta over dt seconds.
// Yaw wraps into [0, 360), pitch clamps just short of straight up/down,
// and the basis vectors are recomputed.
func (c *Camera) UpdateLook(dx, dy float32, dt float32) {
	c.yaw = wrapDegrees(c.yaw + c.tun.Sensitivity*dx*dt)
	c.pitch = mgl32.Clamp(c.pitch+c.tun.Sensitivity*-dy*dt, -pitchLimit, pitchLimit)
	c.refreshBasis()
}

func (c *Camera) refreshBasis() {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)

	c.forward = mgl32.Vec3{
		math32.Cos(pitch) * math32.Cos(yaw),
		math32.Sin(pitch),
		math32.Cos(pitch) * math32.Sin(yaw),
	}.Normalize()

	c.right = c.forward.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.forward).Normalize()
}

// ViewProjection returns the combined world-to-clip transform as a
// column-major matrix ready for upload into a uniform buffer.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	view := mgl32.LookAtV(c.pos, c.pos.Add(c.forward), c.up)
	proj := mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)

	return clipCorrection.Mul4(proj).Mul4(view)
}

// SetAspect updates the projection aspect ratio, call on window resize.
func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
}

func (c *Camera) Position() mgl32.Vec3 { return c.pos }
func (c *Camera) Velocity() mgl32.Vec3 { return c.vel }
func (c *Camera) Forward() mgl32.Vec3  { return c.forward }
func (c *Camera) Right() mgl32.Vec3    { return c.right }
func (c *Camera) Up() mgl32.Vec3       { return c.up }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }
func (c *Camera) Speed() float32       { return c.speed }

func wrapDegrees(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}

	return deg
}
