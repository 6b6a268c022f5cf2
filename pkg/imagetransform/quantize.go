package imagetransform

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/draw"
	"image/png"
)

// encodePalettedPNG re-encodes img as an indexed-color PNG. Quantizes
// to a 256-color palette with Floyd-Steinberg dithering, which drops
// the bit depth from 24/32 to 8 and typically shrinks flat-color
// images well below their truecolor encoding.
func encodePalettedPNG(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, paletted); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
