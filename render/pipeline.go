package render

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

//go:embed shader.wgsl
var sceneShaderCode string

// Pipeline wraps the scene render pipeline and caches its bind group
// layout lookups, which allocate on every call otherwise.
type Pipeline struct {
	*wgpu.RenderPipeline

	layouts *lru.Cache[uint32, *wgpu.BindGroupLayout]
}

func NewPipeline(ctx *Context) (*Pipeline, error) {
	shader, err := ctx.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Scene.Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: sceneShaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("compile scene shader: %w", err)
	}

	defer shader.Release()

	pipeline, err := ctx.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Scene",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				vertexBufferLayout,
				instanceBufferLayout,
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    ctx.SurfaceFormat(),
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build scene pipeline: %w", err)
	}

	layouts, _ := lru.NewWithEvict[uint32, *wgpu.BindGroupLayout](4, releaseLayoutOnEviction)

	return &Pipeline{RenderPipeline: pipeline, layouts: layouts}, nil
}

func releaseLayoutOnEviction(_ uint32, layout *wgpu.BindGroupLayout) {
	layout.Release()
}

func (p *Pipeline) BindGroupLayout(idx uint32) *wgpu.BindGroupLayout {
	layout, ok := p.layouts.Get(idx)
	if ok {
		return layout
	}

	layout = p.GetBindGroupLayout(idx)
	p.layouts.Add(idx, layout)

	return layout
}

func (p *Pipeline) Release() {
	p.layouts.Purge()
	p.RenderPipeline.Release()
}
