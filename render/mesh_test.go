package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertIndicesInBounds(t *testing.T, mesh Mesh) {
	t.Helper()

	for _, idx := range mesh.Indices {
		assert.Less(t, idx, uint32(len(mesh.Vertices)))
	}
}

func TestCubeMesh(t *testing.T) {
	cube := Cube()

	assert.Len(t, cube.Vertices, 24)
	assert.Len(t, cube.Indices, 36)
	assertIndicesInBounds(t, cube)

	// unit cube centered on the origin
	for _, v := range cube.Vertices {
		for _, p := range v.Position {
			assert.Equal(t, 0.5, math.Abs(float64(p)))
		}
	}
}

func TestPyramidMesh(t *testing.T) {
	pyramid := Pyramid()

	assert.Len(t, pyramid.Vertices, 9)
	assert.Len(t, pyramid.Indices, 18)
	assertIndicesInBounds(t, pyramid)
}

func TestFloorMesh(t *testing.T) {
	floor := Floor(-25, 147)

	assert.Len(t, floor.Vertices, 4)
	// both windings, visible from above and below
	assert.Len(t, floor.Indices, 12)
	assertIndicesInBounds(t, floor)

	for _, v := range floor.Vertices {
		assert.Equal(t, float32(-25), v.Position[1])
		assert.GreaterOrEqual(t, v.Position[0], float32(0))
		assert.LessOrEqual(t, v.Position[0], float32(147))
	}
}

func TestBandSphereMesh(t *testing.T) {
	const radius = 5.0

	sphere := BandSphere(radius, 16)

	require.NotEmpty(t, sphere.Vertices)
	require.NotEmpty(t, sphere.Indices)
	assert.Zero(t, len(sphere.Indices)%3)
	assertIndicesInBounds(t, sphere)

	for _, v := range sphere.Vertices {
		p := v.Position
		dist := math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2]))
		assert.InDelta(t, radius, dist, 0.05)
	}
}

func TestInstanceMatrixPlacesTranslation(t *testing.T) {
	inst := Instance{
		Translation: mgl32.Vec3{3, -7, 11},
		Rotation:    mgl32.QuatIdent(),
	}

	m := inst.Matrix()

	// column-major, translation lives in column 3
	assert.Equal(t, float32(3), m[12])
	assert.Equal(t, float32(-7), m[13])
	assert.Equal(t, float32(11), m[14])
	assert.Equal(t, float32(1), m[15])
}

func TestInstanceMatrixAppliesRotationBeforeTranslation(t *testing.T) {
	inst := Instance{
		Translation: mgl32.Vec3{10, 0, 0},
		Rotation:    mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
	}

	// +X rotates onto +Y, then the translation shifts it
	p := inst.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})

	assert.InDelta(t, 10, p.X(), 1e-5)
	assert.InDelta(t, 1, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestGridInstances(t *testing.T) {
	instances := GridInstances(3, 4, 2.5, false)

	require.Len(t, instances, 12)

	assert.Equal(t, mgl32.Vec3{}, instances[0].Translation)
	assert.Equal(t, mgl32.QuatIdent(), instances[0].Rotation)

	last := instances[len(instances)-1]
	assert.Equal(t, mgl32.Vec3{5, 0, 7.5}, last.Translation)

	// all instances stay on the ground plane
	for _, inst := range instances {
		assert.Zero(t, inst.Translation.Y())
	}
}

func TestGridInstancesTilt(t *testing.T) {
	instances := GridInstances(2, 2, 1, true)

	assert.Equal(t, mgl32.QuatIdent(), instances[0].Rotation)

	// the far corner is rotated by 20 degrees around Z
	want := mgl32.QuatRotate(mgl32.DegToRad(20), mgl32.Vec3{0, 0, 1})
	got := instances[3].Rotation

	assert.InDelta(t, float64(want.W), float64(got.W), 1e-5)
	assert.InDelta(t, float64(want.V.Z()), float64(got.V.Z()), 1e-5)
}
