package render

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Instance is one placement of a mesh in the world. It is uploaded as a
// packed column-major 4x4 matrix in a per-instance vertex buffer.
type Instance struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

func (i Instance) Matrix() mgl32.Mat4 {
	t := i.Translation
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).Mul4(i.Rotation.Mat4())
}

var instanceBufferLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(mgl32.Mat4{})),
	StepMode:    wgpu.VertexStepModeInstance,
	Attributes: []wgpu.VertexAttribute{
		{
			// column 0
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         0,
			ShaderLocation: 5,
		},
		{
			// column 1
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         16,
			ShaderLocation: 6,
		},
		{
			// column 2
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         32,
			ShaderLocation: 7,
		},
		{
			// column 3
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         48,
			ShaderLocation: 8,
		},
	},
}

// GridInstances lays instances out on a rows x cols grid on the XZ
// plane. With tilt set every instance is rotated around Z by an angle
// growing with its grid coordinates, which makes the field visibly
// swirl.
func GridInstances(rows, cols int, spacing float32, tilt bool) []Instance {
	instances := make([]Instance, 0, rows*cols)

	for x := 0; x < rows; x++ {
		for z := 0; z < cols; z++ {
			rot := mgl32.QuatIdent()
			if tilt {
				angle := mgl32.DegToRad(float32(x*10 + z*10))
				rot = mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1})
			}

			instances = append(instances, Instance{
				Translation: mgl32.Vec3{
					float32(x) * spacing,
					0,
					float32(z) * spacing,
				},
				Rotation: rot,
			})
		}
	}

	return instances
}

func instanceMatrices(instances []Instance) []mgl32.Mat4 {
	matrices := make([]mgl32.Mat4, len(instances))
	for i, inst := range instances {
		matrices[i] = inst.Matrix()
	}

	return matrices
}
