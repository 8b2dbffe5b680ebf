package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReencodePreservesTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 128})
	// Remaining pixels fully transparent.

	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, src))

	var out bytes.Buffer
	require.NoError(t, Reencode(&in, &out))

	decoded, format, err := image.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, _, _, a := decoded.At(2, 2).RGBA()
	assert.Zero(t, a, "transparent pixel lost its alpha")

	_, _, _, a = decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestReencodeOpaqueSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	var in bytes.Buffer
	require.NoError(t, jpeg.Encode(&in, src, nil))

	var out bytes.Buffer
	require.NoError(t, Reencode(&in, &out))

	decoded, format, err := image.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	if o, ok := decoded.(interface{ Opaque() bool }); ok {
		assert.True(t, o.Opaque())
	}
}

func TestReencodeRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	err := Reencode(bytes.NewReader([]byte("not an image")), &out)
	assert.Error(t, err)
}
