package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene layout constants. The instanced fields grow along +X/+Z from
// the origin, the floor sits below everything.
const (
	InstancedRows   = 50
	InstancedCols   = 50
	InstanceSpacing = 3.0

	SphereRows    = 10
	SphereCols    = 10
	SphereSpacing = 15.0

	SphereRadius = 5.0
	SphereLOD    = 75

	FloorY = -25.0
)

// Object is one drawable: mesh buffers, per-object uniforms, instance
// data and the bind group tying them to the pipeline.
type Object struct {
	vertices  *wgpu.Buffer
	indices   *wgpu.Buffer
	model     *wgpu.Buffer
	flag      *wgpu.Buffer
	instances *wgpu.Buffer
	bindGroup *wgpu.BindGroup

	indexCount uint32

	// Instances is the capacity of the instance buffer, Shown draws a
	// prefix of it.
	Instances uint32
	Shown     uint32
}

func (o *Object) release() {
	for _, r := range []interface{ Release() }{
		o.bindGroup, o.instances, o.flag, o.model, o.indices, o.vertices,
	} {
		if r != nil {
			r.Release()
		}
	}
}

// Renderer owns the scene pipeline, the camera uniform and all drawable
// objects. It borrows the camera's view-projection snapshot each frame
// and decides itself when to push it to the GPU.
type Renderer struct {
	ctx      *Context
	pipeline *Pipeline
	textures *TextureCache

	cameraBuf *wgpu.Buffer

	ClearColor wgpu.Color

	Cube    *Object
	Pyramid *Object
	Spheres *Object
	Floor   *Object
}

func NewRenderer(ctx *Context) (r *Renderer, err error) {
	r = &Renderer{
		ctx: ctx,
		ClearColor: wgpu.Color{
			R: 0,
			G: 0.25,
			B: 0,
			A: 1,
		},
	}

	defer func() {
		if err != nil {
			r.Release()
			r = nil
		}
	}()

	r.pipeline, err = NewPipeline(ctx)
	if err != nil {
		return r, err
	}

	r.textures = NewTextureCache(ctx)

	identity := mgl32.Ident4()
	r.cameraBuf, err = ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Camera.ViewProj",
		Contents: wgpu.ToBytes(identity[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return r, fmt.Errorf("create camera uniform: %w", err)
	}

	tiltGrid := GridInstances(InstancedRows, InstancedCols, InstanceSpacing, true)
	sphereGrid := GridInstances(SphereRows, SphereCols, SphereSpacing, false)
	single := []Instance{{Rotation: mgl32.QuatIdent()}}

	r.Cube, err = r.newObject("Cube", Cube(), tiltGrid, true, TextureSpec{Kind: TextureBricks})
	if err != nil {
		return r, err
	}

	r.Pyramid, err = r.newObject("Pyramid", Pyramid(), tiltGrid, true, TextureSpec{Kind: TextureChecker})
	if err != nil {
		return r, err
	}

	r.Spheres, err = r.newObject("Spheres", BandSphere(SphereRadius, SphereLOD), sphereGrid, true, TextureSpec{Kind: TextureMarble})
	if err != nil {
		return r, err
	}

	floorExtent := float32(InstancedRows-1) * InstanceSpacing
	r.Floor, err = r.newObject("Floor", Floor(FloorY, floorExtent), single, false, TextureSpec{Kind: TextureTerrain})
	if err != nil {
		return r, err
	}

	return r, nil
}

func (r *Renderer) newObject(label string, mesh Mesh, instances []Instance, instanced bool, tex TextureSpec) (obj *Object, err error) {
	obj = &Object{
		indexCount: uint32(len(mesh.Indices)),
		Instances:  uint32(len(instances)),
		Shown:      uint32(len(instances)),
	}

	defer func() {
		if err != nil {
			obj.release()
			obj = nil
			err = fmt.Errorf("build object %s: %w", label, err)
		}
	}()

	obj.vertices, err = r.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".Vertices",
		Contents: wgpu.ToBytes(mesh.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return obj, err
	}

	obj.indices, err = r.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".Indices",
		Contents: wgpu.ToBytes(mesh.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return obj, err
	}

	identity := mgl32.Ident4()
	obj.model, err = r.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".Model",
		Contents: wgpu.ToBytes(identity[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return obj, err
	}

	var flag uint32
	if instanced {
		flag = 1
	}

	obj.flag, err = r.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".IsInstanced",
		Contents: wgpu.ToBytes([]uint32{flag}),
		Usage:    wgpu.BufferUsageUniform,
	})
	if err != nil {
		return obj, err
	}

	obj.instances, err = r.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".Instances",
		Contents: wgpu.ToBytes(instanceMatrices(instances)),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return obj, err
	}

	texture, err := r.textures.Get(tex)
	if err != nil {
		return obj, err
	}

	obj.bindGroup, err = r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + ".BindGroup",
		Layout: r.pipeline.BindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.cameraBuf,
				Size:    wgpu.WholeSize,
			},
			{
				Binding: 1,
				Buffer:  obj.model,
				Size:    wgpu.WholeSize,
			},
			{
				Binding: 2,
				Buffer:  obj.flag,
				Size:    wgpu.WholeSize,
			},
			{
				Binding:     3,
				TextureView: texture.View,
			},
			{
				Binding: 4,
				Sampler: texture.Sampler,
			},
		},
	})
	if err != nil {
		return obj, err
	}

	return obj, nil
}

// UploadCamera pushes the camera's view-projection snapshot for this
// frame into the shared uniform buffer.
func (r *Renderer) UploadCamera(viewProj mgl32.Mat4) error {
	err := r.ctx.Queue.WriteBuffer(r.cameraBuf, 0, wgpu.ToBytes(viewProj[:]))
	if err != nil {
		return fmt.Errorf("update camera uniform: %w", err)
	}

	return nil
}

// SetModel replaces an object's model matrix.
func (r *Renderer) SetModel(obj *Object, model mgl32.Mat4) error {
	err := r.ctx.Queue.WriteBuffer(obj.model, 0, wgpu.ToBytes(model[:]))
	if err != nil {
		return fmt.Errorf("update model uniform: %w", err)
	}

	return nil
}

// Resize reconfigures the surface and depth buffer.
func (r *Renderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}

	return r.ctx.Configure(width, height)
}

// Render draws one frame: the currently selected instanced field, the
// sphere field and the floor.
func (r *Renderer) Render(selected *Object) error {
	surface, err := r.ctx.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get surface texture: %w", err)
	}

	defer func() {
		if surface != nil {
			surface.Release()
		}
	}()

	surfaceView, err := surface.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}

	defer surfaceView.Release()

	encoder, err := r.ctx.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ScenePass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       surfaceView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.ClearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.ctx.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})

	defer func() {
		if pass != nil {
			pass.Release()
		}
	}()

	pass.SetPipeline(r.pipeline.RenderPipeline)

	for _, obj := range []*Object{selected, r.Spheres, r.Floor} {
		drawObject(pass, obj)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	// must release the pass before finishing the encoder
	pass.Release()
	pass = nil

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}

	defer cmdBuffer.Release()

	r.ctx.Queue.Submit(cmdBuffer)

	r.ctx.Surface.Present()
	surface = nil

	return nil
}

func drawObject(pass *wgpu.RenderPassEncoder, obj *Object) {
	if obj == nil || obj.Shown == 0 {
		return
	}

	pass.SetBindGroup(0, obj.bindGroup, nil)
	pass.SetVertexBuffer(0, obj.vertices, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, obj.instances, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(obj.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(obj.indexCount, obj.Shown, 0, 0, 0)
}

func (r *Renderer) Release() {
	for _, obj := range []*Object{r.Floor, r.Spheres, r.Pyramid, r.Cube} {
		if obj != nil {
			obj.release()
		}
	}

	if r.cameraBuf != nil {
		r.cameraBuf.Release()
		r.cameraBuf = nil
	}

	if r.textures != nil {
		r.textures.Release()
		r.textures = nil
	}

	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
}
