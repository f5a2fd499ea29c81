package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cogentcore/webgpu/wgpu"
	fastnoiselite "github.com/furui/fastnoiselite-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// TextureKind selects one of the procedural texture generators. The
// demo ships no image assets, every surface is synthesized at startup.
type TextureKind uint8

const (
	TextureChecker TextureKind = iota
	TextureBricks
	TextureTerrain
	TextureMarble
)

// TextureSpec is the cache key for a generated texture.
type TextureSpec struct {
	Kind TextureKind
	Size uint32

	// noise feature scale, 0 means a kind-specific default
	Frequency float32
}

type Texture struct {
	texture *wgpu.Texture
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler
}

func (t *Texture) Release() {
	if t.Sampler != nil {
		t.Sampler.Release()
		t.Sampler = nil
	}

	if t.View != nil {
		t.View.Release()
		t.View = nil
	}

	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// TextureCache generates and uploads procedural textures, handing out a
// shared *Texture per TextureSpec.
type TextureCache struct {
	ctx   *Context
	cache *lru.Cache[TextureSpec, *Texture]
}

func NewTextureCache(ctx *Context) *TextureCache {
	cache, _ := lru.NewWithEvict[TextureSpec, *Texture](16, releaseTextureOnEviction)

	return &TextureCache{ctx: ctx, cache: cache}
}

func releaseTextureOnEviction(_ TextureSpec, t *Texture) {
	t.Release()
}

func (tc *TextureCache) Get(spec TextureSpec) (*Texture, error) {
	if spec.Size == 0 {
		spec.Size = 256
	}

	cached, ok := tc.cache.Get(spec)
	if ok {
		return cached, nil
	}

	t, err := uploadTexture(tc.ctx, generate(spec), fmt.Sprintf("Texture.%d", spec.Kind))
	if err != nil {
		return nil, fmt.Errorf("build texture %v: %w", spec.Kind, err)
	}

	tc.cache.Add(spec, t)

	return t, nil
}

func (tc *TextureCache) Release() {
	tc.cache.Purge()
}

func generate(spec TextureSpec) *image.RGBA {
	size := int(spec.Size)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	noise := fastnoiselite.NewNoise()

	freq := spec.Frequency
	switch spec.Kind {
	case TextureChecker:
		noise.SetNoiseType(fastnoiselite.NoiseTypeValue)
		if freq == 0 {
			freq = 16
		}
	case TextureBricks:
		noise.SetNoiseType(fastnoiselite.NoiseTypeCellular)
		if freq == 0 {
			freq = 8
		}
	case TextureTerrain:
		noise.SetNoiseType(fastnoiselite.NoiseTypeOpenSimplex2)
		noise.FractalType = fastnoiselite.FractalTypeFBm
		noise.SetFractalOctaves(4)
		if freq == 0 {
			freq = 4
		}
	case TextureMarble:
		noise.SetNoiseType(fastnoiselite.NoiseTypePerlin)
		noise.FractalType = fastnoiselite.FractalTypeRidged
		noise.SetFractalOctaves(3)
		if freq == 0 {
			freq = 6
		}
	}
	noise.Frequency = float64(freq)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := float64(x) / float64(size)
			v := float64(y) / float64(size)

			// noise in [-1, 1] mapped to [0, 1]
			n := 0.5 + 0.5*float64(noise.GetNoise2D(
				fastnoiselite.FNLfloat(u),
				fastnoiselite.FNLfloat(v),
			))

			img.SetRGBA(x, y, shade(spec.Kind, u, v, n))
		}
	}

	return img
}

func shade(kind TextureKind, u, v, n float64) color.RGBA {
	switch kind {
	case TextureChecker:
		cell := (int(u*8) + int(v*8)) % 2
		base := 0.25 + 0.1*n
		if cell == 0 {
			base = 0.85 - 0.1*n
		}
		return gray(base)

	case TextureBricks:
		// cellular noise reads as mortar lines where it is close to 1
		r := 0.45 + 0.35*(1-n)
		g := 0.18 + 0.12*(1-n)
		b := 0.12 + 0.08*(1-n)
		return rgba(r, g, b)

	case TextureTerrain:
		// green lowlands fading into brown ridges
		r := 0.15 + 0.45*n
		g := 0.35 + 0.35*(1-n)
		b := 0.1 + 0.1*n
		return rgba(r, g, b)

	case TextureMarble:
		base := 0.55 + 0.4*n
		return rgba(base, base, 0.9*base+0.1)

	default:
		return gray(n)
	}
}

func gray(v float64) color.RGBA {
	return rgba(v, v, v)
}

func rgba(r, g, b float64) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(r) * 255),
		G: uint8(clamp01(g) * 255),
		B: uint8(clamp01(b) * 255),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func uploadTexture(ctx *Context, img *image.RGBA, label string) (*Texture, error) {
	width := uint32(img.Rect.Dx())
	height := uint32(img.Rect.Dy())

	texture, err := ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Usage: wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	err = ctx.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * width,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("upload texture pixels: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create texture view: %w", err)
	}

	sampler, err := ctx.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	return &Texture{texture: texture, View: view, Sampler: sampler}, nil
}
