package vrr

import (
	"fmt"
	"image"
)

// ImageRef is the stable identity of a browsable image, typically a
// file path. ImageRefs are immutable, comparable, and usable as map
// keys; the [Catalog] owns them and every other component borrows.
type ImageRef struct {
	Path string
}

// NewImageRef creates a reference for the given path.
func NewImageRef(path string) ImageRef {
	return ImageRef{Path: path}
}

func (r ImageRef) String() string { return r.Path }

// Request identifies one unit of decode work: a (reference, resolution)
// pair. Two requests are the same request iff both fields match; the
// pair is the unit of deduplication in the [Scheduler] and of retention
// in the [LayerCache].
type Request struct {
	Ref        ImageRef
	Resolution Resolution
}

// NewRequest creates a request for the given reference and resolution.
func NewRequest(ref ImageRef, res Resolution) Request {
	return Request{Ref: ref, Resolution: res}
}

func (r Request) String() string {
	return fmt.Sprintf("%s@%s", r.Ref.Path, r.Resolution)
}

// DecodedImage is the result of one successful decode: the pixels for
// a request plus orientation metadata. It is produced once per request
// by a worker and consumed exactly once by the caller that materializes
// it into a [Layer].
type DecodedImage struct {
	Ref         ImageRef
	Resolution  Resolution
	Orientation Orientation
	Pix         *image.NRGBA
}

// Width returns the pixel width of the decoded image.
func (d *DecodedImage) Width() int { return d.Pix.Rect.Dx() }

// Height returns the pixel height of the decoded image.
func (d *DecodedImage) Height() int { return d.Pix.Rect.Dy() }

// Result is one entry drained from the scheduler: either a decoded
// image or the error that decode produced. Exactly one of Image and
// Err is set.
type Result struct {
	Image *DecodedImage
	Err   error
}
