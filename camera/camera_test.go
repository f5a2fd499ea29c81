package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmoncur/gridwalk/input"
)

const dt = float32(1.0 / 60.0)

func TestWrapDegrees(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{365, 5},
		{720, 0},
		{-1, 359},
		{-725, 355},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, wrapDegrees(tc.in), 1e-3, "wrapDegrees(%v)", tc.in)
	}
}

func TestYawWrapsOnLook(t *testing.T) {
	c := New(Config{Yaw: 350})

	// enough rightward motion to cross 360
	c.UpdateLook(120, 0, 0.01)

	assert.InDelta(t, 2, c.Yaw(), 1e-3)
	assert.GreaterOrEqual(t, c.Yaw(), float32(0))
	assert.Less(t, c.Yaw(), float32(360))
}

func TestPitchClampsShortOfVertical(t *testing.T) {
	c := New(Config{})

	for i := 0; i < 100; i++ {
		c.UpdateLook(0, -500, dt)
	}
	assert.InDelta(t, pitchLimit, c.Pitch(), 1e-3)

	for i := 0; i < 200; i++ {
		c.UpdateLook(0, 500, dt)
	}
	assert.InDelta(t, -pitchLimit, c.Pitch(), 1e-3)

	// the basis must survive the extremes
	assert.InDelta(t, 1, c.Forward().Len(), 1e-4)
	assert.InDelta(t, 1, c.Right().Len(), 1e-4)
	assert.InDelta(t, 1, c.Up().Len(), 1e-4)
}

func TestBasisStaysOrthonormal(t *testing.T) {
	angles := []struct{ yaw, pitch float32 }{
		{0, 0},
		{45, 30},
		{90, -60},
		{180, 85},
		{270, -85},
		{359, 10},
	}

	for _, a := range angles {
		c := New(Config{Yaw: a.yaw, Pitch: a.pitch})

		assert.InDelta(t, 1, c.Forward().Len(), 1e-4)
		assert.InDelta(t, 1, c.Right().Len(), 1e-4)
		assert.InDelta(t, 1, c.Up().Len(), 1e-4)

		assert.InDelta(t, 0, c.Forward().Dot(c.Right()), 1e-4)
		assert.InDelta(t, 0, c.Forward().Dot(c.Up()), 1e-4)
		assert.InDelta(t, 0, c.Right().Dot(c.Up()), 1e-4)
	}
}

func TestZeroDtIsNoop(t *testing.T) {
	c := New(Config{Position: mgl32.Vec3{3, 4, 5}})
	in := input.NewState()
	in.SetKey(input.KeyForward, true)

	c.UpdatePos(0, in)
	c.UpdatePos(-dt, in)

	assert.Equal(t, mgl32.Vec3{3, 4, 5}, c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Velocity())
}

// Holding forward with yaw 0 is pure +X motion, so the integration
// collapses to a scalar recurrence we can replay independently.
func TestForwardHoldMatchesScalarIntegration(t *testing.T) {
	c := New(Config{})
	in := input.NewState()
	in.SetKey(input.KeyForward, true)

	tun := DefaultTuning()
	var vel, x float32
	for i := 0; i < 60; i++ {
		c.UpdatePos(dt, in)

		vel = min(vel+tun.Accel*dt, tun.MaxVelocity)
		x += vel * tun.WalkSpeed * dt
	}

	assert.InDelta(t, x, c.Position().X(), 1e-3)
	assert.InDelta(t, 0, c.Position().Y(), 1e-4)
	assert.InDelta(t, 0, c.Position().Z(), 1e-4)
	assert.InDelta(t, tun.MaxVelocity, c.Velocity().X(), 1e-4)
}

func TestVelocityComponentsStayClamped(t *testing.T) {
	c := New(Config{})
	in := input.NewState()
	in.SetKey(input.KeyForward, true)
	in.SetKey(input.KeyRight, true)
	in.SetKey(input.KeyAscend, true)

	for i := 0; i < 300; i++ {
		c.UpdatePos(dt, in)

		for j := 0; j < 3; j++ {
			assert.LessOrEqual(t, c.Velocity()[j], c.tun.MaxVelocity)
			assert.GreaterOrEqual(t, c.Velocity()[j], -c.tun.MaxVelocity)
		}
	}
}

func TestIdleFrictionStopsCamera(t *testing.T) {
	c := New(Config{})
	in := input.NewState()

	in.SetKey(input.KeyForward, true)
	for i := 0; i < 60; i++ {
		c.UpdatePos(dt, in)
	}
	require.Greater(t, c.Velocity().Len(), float32(1))

	in.SetKey(input.KeyForward, false)

	prev := c.Velocity().Len()
	for i := 0; i < 120; i++ {
		c.UpdatePos(dt, in)

		l := c.Velocity().Len()
		assert.LessOrEqual(t, l, prev)
		prev = l
	}

	assert.InDelta(t, 0, c.Velocity().Len(), 1e-3)
}

func TestSteeringDecaysSidewaysVelocity(t *testing.T) {
	c := New(Config{})
	in := input.NewState()

	in.SetKey(input.KeyForward, true)
	for i := 0; i < 60; i++ {
		c.UpdatePos(dt, in)
	}
	require.Greater(t, c.Velocity().X(), float32(1))

	// steer hard right, the +X component is now sideways and must drain
	in.SetKey(input.KeyForward, false)
	in.SetKey(input.KeyRight, true)

	for i := 0; i < 120; i++ {
		c.UpdatePos(dt, in)
	}

	assert.InDelta(t, 0, c.Velocity().X(), 1e-2)
	assert.Greater(t, c.Velocity().Z(), float32(1))
}

func TestSprintRampIsGradual(t *testing.T) {
	c := New(Config{})
	in := input.NewState()
	in.SetKey(input.KeyForward, true)
	in.SetKey(input.KeySprint, true)

	tun := DefaultTuning()
	require.Equal(t, tun.WalkSpeed, c.Speed())

	c.UpdatePos(dt, in)
	afterOne := c.Speed()
	assert.Greater(t, afterOne, tun.WalkSpeed)
	assert.Less(t, afterOne, tun.SprintSpeed)

	for i := 0; i < 300; i++ {
		c.UpdatePos(dt, in)
		assert.LessOrEqual(t, c.Speed(), tun.SprintSpeed)
	}
	assert.InDelta(t, tun.SprintSpeed, c.Speed(), 1e-2)

	// releasing sprint ramps back down
	in.SetKey(input.KeySprint, false)
	for i := 0; i < 300; i++ {
		c.UpdatePos(dt, in)
	}
	assert.InDelta(t, tun.WalkSpeed, c.Speed(), 1e-2)
}

func TestBoundsClampAndReflect(t *testing.T) {
	bounds := &Bounds{
		Min: mgl32.Vec3{-10, -10, -10},
		Max: mgl32.Vec3{10, 10, 10},
	}
	c := New(Config{Bounds: bounds})

	c.pos = mgl32.Vec3{11, 0, -12}
	c.vel = mgl32.Vec3{2, 0.5, -1}
	c.enforceBounds()

	assert.Equal(t, mgl32.Vec3{10, 0, -10}, c.Position())
	assert.Equal(t, mgl32.Vec3{-2, 0.5, 1}, c.Velocity())
}

func TestCameraNeverLeavesBounds(t *testing.T) {
	bounds := &Bounds{
		Min: mgl32.Vec3{-5, -5, -5},
		Max: mgl32.Vec3{5, 5, 5},
	}
	c := New(Config{Bounds: bounds})
	in := input.NewState()
	in.SetKey(input.KeyForward, true)
	in.SetKey(input.KeySprint, true)

	for i := 0; i < 600; i++ {
		c.UpdatePos(dt, in)

		for j := 0; j < 3; j++ {
			assert.GreaterOrEqual(t, c.Position()[j], bounds.Min[j])
			assert.LessOrEqual(t, c.Position()[j], bounds.Max[j])
		}
	}
}

func TestAspectChangeOnlyTouchesTopRow(t *testing.T) {
	c := New(Config{Position: mgl32.Vec3{1, 2, 3}, Yaw: 30, Pitch: 10})

	before := c.ViewProjection()
	c.SetAspect(c.aspect * 2)
	after := c.ViewProjection()

	changed := false
	for i := 0; i < 16; i++ {
		if i%4 == 0 {
			// column-major, row 0 holds the horizontal scale
			if before[i] != after[i] {
				changed = true
			}
			continue
		}

		assert.Equal(t, before[i], after[i], "element %d", i)
	}

	assert.True(t, changed, "aspect change must alter the projection")
}

func TestViewProjectionMapsDepthToWebgpuRange(t *testing.T) {
	c := New(Config{})

	vp := c.ViewProjection()

	// a point straight ahead at the near plane lands at clip z ~= 0
	near := mgl32.Vec3{c.near, 0, 0}
	clip := vp.Mul4x1(near.Vec4(1))
	assert.InDelta(t, 0, clip.Z()/clip.W(), 1e-3)

	far := mgl32.Vec3{c.far, 0, 0}
	clip = vp.Mul4x1(far.Vec4(1))
	assert.InDelta(t, 1, clip.Z()/clip.W(), 1e-3)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, float32(45), cfg.FOV)
	assert.Equal(t, float32(16.0/9.0), cfg.Aspect)
	assert.Equal(t, float32(0.1), cfg.Near)
	assert.Equal(t, float32(500), cfg.Far)
	assert.Equal(t, DefaultTuning(), cfg.Tuning)
}

func TestApproach(t *testing.T) {
	assert.Equal(t, float32(5), approach(float32(10), 5, 100))
	assert.Equal(t, float32(9), approach(float32(10), 5, 1))
	assert.Equal(t, float32(-4), approach(float32(-5), 0, 1))
	assert.Equal(t, float32(3), approach(float32(3), 3, 1))
}
