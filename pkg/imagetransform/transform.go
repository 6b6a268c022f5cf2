package imagetransform

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"  // bmp decode support
	_ "golang.org/x/image/tiff" // tiff decode support
	_ "golang.org/x/image/webp" // webp decode support
)

// ErrUndecodableImage reports bytes that no registered codec can decode.
var ErrUndecodableImage = errors.New("imagetransform: cannot decode image")

// Default thresholds for the PNG-to-JPEG pass.
const (
	DefaultJpegMinSavingsPercent = 25.0
	DefaultJpegMinSavedBytes     = 25_000
)

// mustConvert maps formats the system does not serve as-is to the
// canonical format they are re-encoded into.
var mustConvert = map[string]string{
	"bmp":  "png",
	"tiff": "png",
}

// Config holds the transformation policy, injected as an immutable
// snapshot per pipeline.
type Config struct {
	// QuantizeLossless enables the indexed-color quantization pass for PNGs.
	QuantizeLossless bool

	// JpegQuality enables PNG-to-JPEG conversion when non-zero (1-100).
	JpegQuality int

	// JpegMinSavingsPercent is the relative saving a JPEG re-encode must
	// reach, inclusive. Zero means DefaultJpegMinSavingsPercent.
	JpegMinSavingsPercent float64

	// JpegMinSavedBytes is the absolute saving a JPEG re-encode must
	// reach, inclusive. Zero means DefaultJpegMinSavedBytes.
	JpegMinSavedBytes int64
}

// Request describes a single image to transform.
type Request struct {
	// Data is the image bytes. Never mutated; results are fresh buffers.
	Data []byte

	// Extension is the resolved extension of the content (no dot).
	Extension string

	// Pasted marks clipboard-originated content, which skips all
	// transformation unless ForceOptimize is set.
	Pasted bool

	// ForceOptimize runs the full pass even for pasted content.
	ForceOptimize bool

	// CropTo is a square target dimension in pixels. Zero disables cropping.
	CropTo int
}

// Result is the transformed image.
type Result struct {
	Data      []byte
	Extension string
	Width     int
	Height    int

	// Converted reports whether the stored format differs from the input.
	Converted bool
}

// Transformer applies the configured transformation passes.
type Transformer struct {
	cfg Config
	log *slog.Logger
}

// New creates a Transformer. A nil logger discards pass-failure logs.
func New(cfg Config, log *slog.Logger) *Transformer {
	if cfg.JpegMinSavingsPercent == 0 {
		cfg.JpegMinSavingsPercent = DefaultJpegMinSavingsPercent
	}
	if cfg.JpegMinSavedBytes == 0 {
		cfg.JpegMinSavedBytes = DefaultJpegMinSavedBytes
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Transformer{cfg: cfg, log: log}
}

// Transform runs the decision algorithm over a single image.
//
// Pass order: format conversion for must-convert types, cropping,
// quantization, JPEG candidate. Pasted content short-circuits after
// decoding unless ForceOptimize is set. Animated GIFs pass through
// untouched: every re-encode path here is single-frame.
func (t *Transformer) Transform(req Request) (Result, error) {
	img, format, err := image.Decode(bytes.NewReader(req.Data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}

	res := Result{
		Data:      req.Data,
		Extension: req.Extension,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
	}

	if req.Pasted && !req.ForceOptimize {
		return res, nil
	}
	if format == "gif" && isAnimated(req.Data) {
		return res, nil
	}

	if target, ok := mustConvert[format]; ok {
		if data, err := encode(img, target, t.cfg.JpegQuality); err != nil {
			t.log.Warn("format conversion failed, keeping original bytes",
				slog.String("from", format), slog.String("to", target), slog.Any("error", err))
		} else {
			res.Data = data
			res.Extension = target
			res.Converted = true
			format = target
		}
	}

	if req.CropTo > 0 {
		img, res, format = t.crop(img, res, format, req.CropTo)
	}

	if format == "png" && t.cfg.QuantizeLossless {
		res = t.quantize(img, res)
	}

	if format == "png" && t.cfg.JpegQuality > 0 {
		res = t.jpegCandidate(img, res)
	}

	return res, nil
}

// crop resizes to a centered square of the target dimension. Formats
// without an encoder (webp) are re-encoded as PNG.
func (t *Transformer) crop(img image.Image, res Result, format string, target int) (image.Image, Result, string) {
	outFormat := format
	if !encodable(format) {
		outFormat = "png"
	}

	cropped := imaging.Fill(img, target, target, imaging.Center, imaging.Lanczos)
	data, err := encode(cropped, outFormat, t.cfg.JpegQuality)
	if err != nil {
		t.log.Warn("crop failed, keeping original bytes",
			slog.Int("target", target), slog.Any("error", err))
		return img, res, format
	}

	res.Data = data
	res.Width = cropped.Bounds().Dx()
	res.Height = cropped.Bounds().Dy()
	if formatOf(res.Extension) != outFormat {
		res.Extension = extensionFor(outFormat)
		res.Converted = true
	}
	return cropped, res, outFormat
}

// quantize reduces a PNG to a 256-color palette with Floyd-Steinberg
// dithering. The result replaces the input only when it is smaller and
// still decodes; the pass never grows output or substitutes a broken
// encode.
func (t *Transformer) quantize(img image.Image, res Result) Result {
	data, err := encodePalettedPNG(img)
	if err != nil {
		t.log.Warn("quantization failed, keeping original bytes", slog.Any("error", err))
		return res
	}
	if int64(len(data)) >= int64(len(res.Data)) {
		return res
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		t.log.Warn("quantized output does not decode, keeping original bytes", slog.Any("error", err))
		return res
	}

	res.Data = data
	return res
}

// jpegCandidate re-encodes a PNG as JPEG and adopts it only when the
// saving clears both thresholds, inclusively. A big relative saving on
// a tiny file, or a big absolute saving that is a sliver of a huge
// file, keeps the PNG.
func (t *Transformer) jpegCandidate(img image.Image, res Result) Result {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: t.cfg.JpegQuality}); err != nil {
		t.log.Warn("jpeg re-encode failed, keeping original bytes", slog.Any("error", err))
		return res
	}

	original := int64(len(res.Data))
	saved := original - int64(buf.Len())
	if saved < t.cfg.JpegMinSavedBytes {
		return res
	}
	if float64(saved)/float64(original)*100 < t.cfg.JpegMinSavingsPercent {
		return res
	}

	res.Data = buf.Bytes()
	res.Extension = "jpeg"
	res.Converted = true
	return res
}

// Dimensions decodes only the image header and returns its size.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUndecodableImage, err)
	}
	return cfg.Width, cfg.Height, nil
}

func isAnimated(data []byte) bool {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	return err == nil && len(g.Image) > 1
}

func encodable(format string) bool {
	switch format {
	case "png", "jpeg", "gif":
		return true
	}
	return false
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpeg"
	}
	return format
}

// formatOf maps an extension to its codec format name.
func formatOf(ext string) string {
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}

func encode(img image.Image, format string, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "jpeg":
		if jpegQuality <= 0 {
			jpegQuality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no encoder for format %q", format)
	}
	return buf.Bytes(), nil
}
