package render

import (
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

type Vertex struct {
	Position [3]float32
	UV       [2]float32
}

var vertexBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{
			// position
			Format:         wgpu.VertexFormatFloat32x3,
			Offset:         0,
			ShaderLocation: 0,
		},
		{
			// uv
			Format:         wgpu.VertexFormatFloat32x2,
			Offset:         uint64(unsafe.Offsetof(Vertex{}.UV)),
			ShaderLocation: 1,
		},
	},
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Cube is a unit cube with per-face texture coordinates. Vertices are
// duplicated per face so each face maps the full texture.
func Cube() Mesh {
	return Mesh{
		Vertices: []Vertex{
			// front
			{Position: [3]float32{0.5, 0.5, 0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{-0.5, 0.5, 0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{0.5, -0.5, 0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{-0.5, -0.5, 0.5}, UV: [2]float32{0, 1}},
			// left
			{Position: [3]float32{-0.5, 0.5, 0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{-0.5, 0.5, -0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{-0.5, -0.5, 0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{-0.5, -0.5, -0.5}, UV: [2]float32{0, 1}},
			// top
			{Position: [3]float32{0.5, 0.5, 0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{0.5, 0.5, -0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{-0.5, 0.5, 0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{-0.5, 0.5, -0.5}, UV: [2]float32{0, 1}},
			// back
			{Position: [3]float32{-0.5, 0.5, -0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{0.5, 0.5, -0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{-0.5, -0.5, -0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{0.5, -0.5, -0.5}, UV: [2]float32{0, 1}},
			// right
			{Position: [3]float32{0.5, 0.5, -0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{0.5, 0.5, 0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{0.5, -0.5, -0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{0.5, -0.5, 0.5}, UV: [2]float32{0, 1}},
			// bottom
			{Position: [3]float32{0.5, -0.5, 0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{-0.5, -0.5, 0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{0.5, -0.5, -0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{-0.5, -0.5, -0.5}, UV: [2]float32{0, 1}},
		},
		Indices: []uint32{
			0, 1, 2, 1, 3, 2,
			4, 5, 6, 5, 7, 6,
			8, 9, 10, 9, 11, 10,
			12, 13, 14, 13, 15, 14,
			16, 17, 18, 17, 19, 18,
			20, 21, 22, 21, 23, 22,
		},
	}
}

// Pyramid is a square-based pyramid with the apex texel at the top
// center and a duplicated base for its own uv mapping.
func Pyramid() Mesh {
	return Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{0, 0.5, 0}, UV: [2]float32{0.5, 0}},
			{Position: [3]float32{-0.5, -0.5, -0.5}, UV: [2]float32{0, 1}},
			{Position: [3]float32{-0.5, -0.5, 0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{0.5, -0.5, 0.5}, UV: [2]float32{0, 1}},
			{Position: [3]float32{0.5, -0.5, -0.5}, UV: [2]float32{1, 1}},
			{Position: [3]float32{-0.5, -0.5, -0.5}, UV: [2]float32{0, 1}},
			{Position: [3]float32{-0.5, -0.5, 0.5}, UV: [2]float32{0, 0}},
			{Position: [3]float32{0.5, -0.5, 0.5}, UV: [2]float32{1, 0}},
			{Position: [3]float32{0.5, -0.5, -0.5}, UV: [2]float32{1, 1}},
		},
		Indices: []uint32{
			0, 2, 3,
			0, 1, 2,
			0, 4, 1,
			0, 3, 4,
			7, 6, 8,
			6, 5, 8,
		},
	}
}

// Floor is a quad at the given height spanning [0, extent] on X and Z.
// Both windings are indexed so the plane is visible from above and
// below with backface culling enabled.
func Floor(y, extent float32) Mesh {
	const uvRepeat = 5

	return Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{0, y, 0}, UV: [2]float32{0, 0}},
			{Position: [3]float32{0, y, extent}, UV: [2]float32{0, uvRepeat}},
			{Position: [3]float32{extent, y, 0}, UV: [2]float32{uvRepeat, 0}},
			{Position: [3]float32{extent, y, extent}, UV: [2]float32{uvRepeat, uvRepeat}},
		},
		Indices: []uint32{
			0, 1, 2,
			1, 3, 2,
			1, 0, 2,
			3, 1, 2,
		},
	}
}

// BandSphere builds a sphere out of horizontal bands: for every band it
// solves the circle equation for z from x, mirroring each vertex to the
// back half. Crude but cheap, and it texture-maps without poles.
func BandSphere(radius float64, lod int) Mesh {
	var vertices []Vertex

	factor := radius / float64(lod)
	vertsPerBand := 0
	bands := 0

	y := -radius
	for i := 0; i <= lod*2; i++ {
		vertsPerBand = 0
		bandRadius := math.Sqrt(math.Max(radius*radius-y*y, 0))
		bandFactor := bandRadius / float64(lod)

		x := -bandRadius
		for j := 0; j <= lod*2; j++ {
			z := math.Sqrt(math.Max(bandRadius*bandRadius-x*x, 0))

			uv := [2]float32{
				float32(math.Abs(x / radius)),
				float32(math.Abs(z / radius)),
			}

			vertices = append(vertices,
				Vertex{Position: [3]float32{float32(x), float32(y), float32(z)}, UV: uv},
				Vertex{Position: [3]float32{float32(x), float32(y), float32(-z)}, UV: uv},
			)

			x += bandFactor
			vertsPerBand += 2
		}

		y += factor
		bands++
	}

	var indices []uint32
	for i := 0; i < bands-1; i++ {
		for j := 0; j < vertsPerBand-2; j++ {
			a := uint32(i*vertsPerBand + j)
			b := uint32((i+1)*vertsPerBand + j)

			// front and back halves wind in opposite directions
			if j%2 != 0 {
				indices = append(indices, a, b, b+2, a, b+2, a+2)
			} else {
				indices = append(indices, a, b+2, b, a, a+2, b+2)
			}
		}
	}

	return Mesh{Vertices: vertices, Indices: indices}
}
