package vrr

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// DecodeFunc decodes one image at one resolution tier. It is the pure
// function boundary between the pipeline and the pixel-decoding
// machinery: given a reference and a target resolution it
// deterministically returns pixels plus orientation metadata, or an
// error.
//
// Implementations must be safe to call concurrently from multiple
// worker goroutines with different arguments and must not share
// mutable state across calls.
type DecodeFunc func(ref ImageRef, res Resolution) (*DecodedImage, error)

// DecodeError reports a failed decode for one request. It travels
// through the result channel like any other result; decode failures
// are local to their request and never affect other in-flight or
// future requests.
type DecodeError struct {
	Ref        ImageRef
	Resolution Resolution
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vrr: decode %s@%s: %v", e.Ref.Path, e.Resolution, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder bounds for the non-native tiers.
const (
	// DefaultThumbnailSize is the square thumbnail edge in pixels.
	DefaultThumbnailSize = 256

	// DefaultFullHDWidth and DefaultFullHDHeight bound the FullHD tier.
	DefaultFullHDWidth  = 1920
	DefaultFullHDHeight = 1080
)

// Decoder is the default [DecodeFunc] implementation, reading JPEG and
// PNG files from disk. EXIF orientation is applied during decode, so
// the returned pixels are upright and the reported orientation is
// [OrientationNormal].
//
// The zero value is not usable; call [NewDecoder].
type Decoder struct {
	thumbnailSize int
	fullHDWidth   int
	fullHDHeight  int
}

// NewDecoder creates a decoder with the default tier bounds.
func NewDecoder() *Decoder {
	return &Decoder{
		thumbnailSize: DefaultThumbnailSize,
		fullHDWidth:   DefaultFullHDWidth,
		fullHDHeight:  DefaultFullHDHeight,
	}
}

// NewDecoderWithBounds creates a decoder with explicit tier bounds.
// Non-positive values fall back to the defaults.
func NewDecoderWithBounds(thumbnailSize, fullHDWidth, fullHDHeight int) *Decoder {
	d := NewDecoder()
	if thumbnailSize > 0 {
		d.thumbnailSize = thumbnailSize
	}
	if fullHDWidth > 0 {
		d.fullHDWidth = fullHDWidth
	}
	if fullHDHeight > 0 {
		d.fullHDHeight = fullHDHeight
	}
	return d
}

// Decode implements [DecodeFunc]. Thumbnail requests produce a square
// crop bounded by the thumbnail size; FullHD requests fit the image
// within the FullHD bounds without upscaling; Native requests return
// the full decoded image.
func (d *Decoder) Decode(ref ImageRef, res Resolution) (*DecodedImage, error) {
	src, err := imaging.Open(ref.Path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Ref: ref, Resolution: res, Err: err}
	}

	var pix = imaging.Clone(src)
	switch res {
	case ResolutionThumbnail:
		pix = imaging.Thumbnail(pix, d.thumbnailSize, d.thumbnailSize, imaging.Box)
	case ResolutionFullHD:
		if pix.Rect.Dx() > d.fullHDWidth || pix.Rect.Dy() > d.fullHDHeight {
			pix = imaging.Fit(pix, d.fullHDWidth, d.fullHDHeight, imaging.Lanczos)
		}
	case ResolutionNative:
		// Full decoded size.
	default:
		return nil, &DecodeError{
			Ref:        ref,
			Resolution: res,
			Err:        fmt.Errorf("unknown resolution tier %d", res),
		}
	}

	return &DecodedImage{
		Ref:         ref,
		Resolution:  res,
		Orientation: OrientationNormal,
		Pix:         pix,
	}, nil
}
