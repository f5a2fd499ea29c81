// Package render is the webgpu backend: device and surface ownership,
// the scene pipeline, mesh and instance buffers, procedural textures and
// the per-frame render pass. It consumes the camera's view-projection
// matrix as an immutable snapshot and owns all upload timing itself.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

var logLevels = map[string]wgpu.LogLevel{
	"OFF":   wgpu.LogLevelOff,
	"ERROR": wgpu.LogLevelError,
	"WARN":  wgpu.LogLevelWarn,
	"INFO":  wgpu.LogLevelInfo,
	"DEBUG": wgpu.LogLevelDebug,
	"TRACE": wgpu.LogLevelTrace,
}

func init() {
	runtime.LockOSThread()

	if level, ok := logLevels[strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL"))]; ok {
		wgpu.SetLogLevel(level)
	}
}

// Context holds the low level webgpu state: device, queue, surface and
// adapter, plus the depth buffer matching the current surface size.
type Context struct {
	*wgpu.Device
	Queue   *wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter

	config *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

func NewContext(sd *wgpu.SurfaceDescriptor, width, height uint32) (ctx *Context, err error) {
	defer func() {
		if err != nil && ctx != nil {
			ctx.Release()
			ctx = nil
		}
	}()

	ctx = &Context{}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	ctx.Surface = instance.CreateSurface(sd)

	ctx.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    ctx.Surface,
	})
	if err != nil {
		return ctx, fmt.Errorf("request adapter: %w", err)
	}

	ctx.Device, err = ctx.Adapter.RequestDevice(nil)
	if err != nil {
		return ctx, fmt.Errorf("request device: %w", err)
	}

	ctx.Queue = ctx.Device.GetQueue()

	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	ctx.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormatBGRA8Unorm,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}

	if err := ctx.Configure(width, height); err != nil {
		return ctx, err
	}

	return ctx, nil
}

// Configure reconfigures the surface for the given size and recreates
// the depth buffer. Call once at startup and again on every resize,
// before the next frame is rendered.
func (ctx *Context) Configure(width, height uint32) error {
	ctx.config.Width = width
	ctx.config.Height = height
	ctx.Surface.Configure(ctx.Adapter, ctx.Device, ctx.config)

	ctx.releaseDepth()

	depth, err := ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "DepthTexture",
		Usage:     wgpu.TextureUsageRenderAttachment,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatDepth32Float,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}

	depthView, err := depth.CreateView(nil)
	if err != nil {
		depth.Release()
		return fmt.Errorf("create depth view: %w", err)
	}

	ctx.depthTexture = depth
	ctx.depthView = depthView

	return nil
}

func (ctx *Context) SurfaceFormat() wgpu.TextureFormat {
	return ctx.config.Format
}

func (ctx *Context) SurfaceSize() (width, height uint32) {
	return ctx.config.Width, ctx.config.Height
}

func (ctx *Context) AspectRatio() float32 {
	return float32(ctx.config.Width) / float32(ctx.config.Height)
}

func (ctx *Context) releaseDepth() {
	if ctx.depthView != nil {
		ctx.depthView.Release()
		ctx.depthView = nil
	}

	if ctx.depthTexture != nil {
		ctx.depthTexture.Release()
		ctx.depthTexture = nil
	}
}

func (ctx *Context) Release() {
	ctx.releaseDepth()

	if ctx.Queue != nil {
		ctx.Queue.Release()
		ctx.Queue = nil
	}

	if ctx.Device != nil {
		ctx.Device.Release()
		ctx.Device = nil
	}

	if ctx.Adapter != nil {
		ctx.Adapter.Release()
		ctx.Adapter = nil
	}

	if ctx.Surface != nil {
		ctx.Surface.Release()
		ctx.Surface = nil
	}
}
