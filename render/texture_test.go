package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesOpaqueImage(t *testing.T) {
	kinds := []TextureKind{TextureChecker, TextureBricks, TextureTerrain, TextureMarble}

	for _, kind := range kinds {
		img := generate(TextureSpec{Kind: kind, Size: 32})

		require.Equal(t, 32, img.Rect.Dx())
		require.Equal(t, 32, img.Rect.Dy())

		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 255 {
				t.Fatalf("kind %d: transparent pixel at offset %d", kind, i)
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	spec := TextureSpec{Kind: TextureTerrain, Size: 16}

	a := generate(spec)
	b := generate(spec)

	assert.Equal(t, a.Pix, b.Pix)
}

func TestCheckerShadeAlternates(t *testing.T) {
	a := shade(TextureChecker, 0.01, 0.01, 0.5)
	b := shade(TextureChecker, 0.2, 0.01, 0.5)

	assert.NotEqual(t, a.R, b.R)
}
