// Package frame turns base64 image payloads into RGB pixel frames ready for
// emotion analysis.
package frame

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// RGBChannels is the channel count of every Frame pixel buffer.
const RGBChannels = 3

// DefaultMaxPixels caps width×height before any pixel is decoded (40 MP).
const DefaultMaxPixels = 40_000_000

var (
	ErrEmptyPayload  = errors.New("empty image payload")
	ErrInvalidBase64 = errors.New("invalid base64 image payload")
	ErrDecodeImage   = errors.New("cannot decode image")
	ErrEmptyImage    = errors.New("image has no pixels")
)

// Frame is a decoded image as an H×W×3 RGB byte array, row-major.
type Frame struct {
	Width  int
	Height int
	// SourceChannels is the channel count of the decoded source
	// (1 gray, 3 colour, 4 with alpha) before the alpha channel was dropped.
	SourceChannels int
	Format         string
	Pix            []uint8
}

// Options controls decoding.
type Options struct {
	// AutoOrient applies the EXIF orientation tag before analysis.
	AutoOrient bool
	// MaxDimension fits frames into MaxDimension×MaxDimension. 0 disables it.
	MaxDimension int
	// MaxPixels rejects images whose header declares more pixels. 0 disables it.
	MaxPixels int
}

// DefaultOptions returns the decoder defaults.
func DefaultOptions() Options {
	return Options{
		AutoOrient:   true,
		MaxDimension: 0,
		MaxPixels:    DefaultMaxPixels,
	}
}

// Decoder decodes image bytes into frames.
type Decoder struct {
	opts Options
}

// NewDecoder creates a Decoder.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// DecodeBase64 decodes a base64 image payload. A leading data URL header
// ("data:image/png;base64,") is accepted and stripped.
func DecodeBase64(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidBase64)
		}
		s = s[idx+1:]
	}

	if s == "" {
		return nil, ErrEmptyPayload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// unpadded payloads are common from browser encoders
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
		}
		data = raw
	}

	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	return data, nil
}

// Decode parses image bytes into an RGB frame.
func (d *Decoder) Decode(data []byte) (*Frame, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	// o header basta para medir; nada é alocado antes da checagem
	if d.opts.MaxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > int64(d.opts.MaxPixels) {
			return nil, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit",
				ErrDecodeImage, cfg.Width, cfg.Height, d.opts.MaxPixels)
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}

	if d.opts.AutoOrient {
		img = applyOrientation(img, readOrientation(data))
	}

	if d.opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > d.opts.MaxDimension || b.Dy() > d.opts.MaxDimension {
			img = imaging.Fit(img, d.opts.MaxDimension, d.opts.MaxDimension, imaging.Lanczos)
		}
	}

	f, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	f.Format = format

	return f, nil
}

// DecodeBase64 decodes a base64 payload straight into a frame.
func (d *Decoder) DecodeBase64(payload string) (*Frame, error) {
	data, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return d.Decode(data)
}

// FromImage converts any image into an RGB frame. Alpha is dropped, not
// composited: the frame keeps the non-premultiplied colour of every pixel.
func FromImage(img image.Image) (*Frame, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	channels := sourceChannels(img)
	nrgba := imaging.Clone(img)

	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	pix := make([]uint8, w*h*RGBChannels)

	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := pix[y*w*RGBChannels : (y+1)*w*RGBChannels]
		for x := 0; x < w; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}

	return &Frame{
		Width:          w,
		Height:         h,
		SourceChannels: channels,
		Pix:            pix,
	}, nil
}

// RGB returns the pixel at (x, y).
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * RGBChannels
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// HadAlpha reports whether the source image carried an alpha channel.
func (f *Frame) HadAlpha() bool {
	return f.SourceChannels == 4
}

// Image returns the frame as an opaque NRGBA image.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// EncodeJPEG encodes the frame for analyzers that take encoded images.
func (f *Frame) EncodeJPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.Image(), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func sourceChannels(img image.Image) int {
	m := img.ColorModel()
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	}

	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return 4
	case color.RGBAModel, color.RGBA64Model:
		// the PNG decoder uses RGBA for truecolor images without alpha
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			return 3
		}
		return 4
	default:
		return 3
	}
}
