package imagetransform_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/dmitrymomot/uploadkit/pkg/imagetransform"
)

// noiseImage produces an incompressible truecolor image so PNG/JPEG size
// relationships in the tests are predictable.
func noiseImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	seed := uint32(1)
	for i := range img.Pix {
		if (i+1)%4 == 0 {
			img.Pix[i] = 0xff // opaque alpha
			continue
		}
		seed = seed*1664525 + 1013904223
		img.Pix[i] = byte(seed >> 24)
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTransform_Passthrough(t *testing.T) {
	t.Parallel()

	t.Run("pasted content untouched", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{QuantizeLossless: true, JpegQuality: 60}, nil)
		data := encodePNG(t, noiseImage(200, 200))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png", Pasted: true})
		require.NoError(t, err)
		require.Equal(t, data, res.Data)
		require.Equal(t, "png", res.Extension)
		require.Equal(t, 200, res.Width)
		require.Equal(t, 200, res.Height)
		require.False(t, res.Converted)
	})

	t.Run("force optimize overrides pasted", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{JpegQuality: 60}, nil)
		data := encodePNG(t, noiseImage(200, 200))

		res, err := tr.Transform(imagetransform.Request{
			Data: data, Extension: "png", Pasted: true, ForceOptimize: true,
		})
		require.NoError(t, err)
		require.Equal(t, "jpeg", res.Extension)
		require.True(t, res.Converted)
	})

	t.Run("animated gif never re-encoded", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{QuantizeLossless: true, JpegQuality: 60}, nil)
		data := animatedGIF(t)

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "gif", CropTo: 8})
		require.NoError(t, err)
		require.Equal(t, data, res.Data)
		require.Equal(t, "gif", res.Extension)
	})
}

func TestTransform_JpegConversion(t *testing.T) {
	t.Parallel()

	t.Run("large noisy png converts when both thresholds pass", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{JpegQuality: 60}, nil)
		data := encodePNG(t, noiseImage(200, 200))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png"})
		require.NoError(t, err)
		require.Equal(t, "jpeg", res.Extension)
		require.True(t, res.Converted)
		require.Less(t, len(res.Data), len(data))

		_, format, err := image.Decode(bytes.NewReader(res.Data))
		require.NoError(t, err)
		require.Equal(t, "jpeg", format)
	})

	t.Run("small png kept despite relative saving", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{JpegQuality: 60}, nil)
		data := encodePNG(t, noiseImage(40, 40))
		require.Less(t, len(data), 25_000) // absolute threshold cannot be met

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png"})
		require.NoError(t, err)
		require.Equal(t, "png", res.Extension)
		require.Equal(t, data, res.Data)
		require.False(t, res.Converted)
	})

	t.Run("kept when relative threshold fails", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{
			JpegQuality:           60,
			JpegMinSavingsPercent: 99.9,
			JpegMinSavedBytes:     1,
		}, nil)
		data := encodePNG(t, noiseImage(200, 200))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png"})
		require.NoError(t, err)
		require.Equal(t, "png", res.Extension)
		require.False(t, res.Converted)
	})
}

func TestTransform_Quantization(t *testing.T) {
	t.Parallel()

	t.Run("quantized result is smaller and decodable", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{QuantizeLossless: true}, nil)
		data := encodePNG(t, noiseImage(200, 200))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png"})
		require.NoError(t, err)
		require.Equal(t, "png", res.Extension)
		require.Less(t, len(res.Data), len(data))

		_, format, err := image.Decode(bytes.NewReader(res.Data))
		require.NoError(t, err)
		require.Equal(t, "png", format)
	})

	t.Run("original kept when quantization does not shrink", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{QuantizeLossless: true}, nil)

		// A flat 4x4 image already encodes near-minimally.
		data := encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 4, 4)))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png"})
		require.NoError(t, err)
		require.Equal(t, data, res.Data)
	})
}

func TestTransform_MustConvert(t *testing.T) {
	t.Parallel()

	tr := imagetransform.New(imagetransform.Config{}, nil)

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, noiseImage(16, 16)))

	res, err := tr.Transform(imagetransform.Request{Data: buf.Bytes(), Extension: "bmp"})
	require.NoError(t, err)
	require.Equal(t, "png", res.Extension)
	require.True(t, res.Converted)

	_, format, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
}

func TestTransform_Crop(t *testing.T) {
	t.Parallel()

	t.Run("crops to square target", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{}, nil)
		data := encodePNG(t, noiseImage(120, 80))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png", CropTo: 64})
		require.NoError(t, err)
		require.Equal(t, 64, res.Width)
		require.Equal(t, 64, res.Height)
		require.Equal(t, "png", res.Extension)
	})

	t.Run("crop combines with jpeg pass", func(t *testing.T) {
		t.Parallel()
		tr := imagetransform.New(imagetransform.Config{
			JpegQuality:           60,
			JpegMinSavedBytes:     1,
			JpegMinSavingsPercent: 1,
		}, nil)
		data := encodePNG(t, noiseImage(300, 300))

		res, err := tr.Transform(imagetransform.Request{Data: data, Extension: "png", CropTo: 128})
		require.NoError(t, err)
		require.Equal(t, 128, res.Width)
		require.Equal(t, 128, res.Height)
		require.Equal(t, "jpeg", res.Extension)
	})
}

func TestTransform_Undecodable(t *testing.T) {
	t.Parallel()

	tr := imagetransform.New(imagetransform.Config{}, nil)

	_, err := tr.Transform(imagetransform.Request{Data: []byte("not an image"), Extension: "png"})
	require.ErrorIs(t, err, imagetransform.ErrUndecodableImage)
}

func TestDimensions(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, noiseImage(33, 21))

	w, h, err := imagetransform.Dimensions(data)
	require.NoError(t, err)
	require.Equal(t, 33, w)
	require.Equal(t, 21, h)

	_, _, err = imagetransform.Dimensions([]byte("junk"))
	require.ErrorIs(t, err, imagetransform.ErrUndecodableImage)
}

// animatedGIF encodes a two-frame GIF.
func animatedGIF(t *testing.T) []byte {
	t.Helper()

	mkFrame := func(c byte) *image.Paletted {
		p := image.NewPaletted(image.Rect(0, 0, 10, 10), color.Palette{color.Black, color.White})
		for i := range p.Pix {
			p.Pix[i] = c
		}
		return p
	}

	g := &gif.GIF{
		Image: []*image.Paletted{mkFrame(0), mkFrame(1)},
		Delay: []int{10, 10},
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}
