package vrr

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// ErrNilImage is returned when materializing a nil decoded image.
var ErrNilImage = errors.New("vrr: nil decoded image")

// Materializer turns a decoded image into a display-resident layer,
// allocating whatever GPU-visible resources the display path needs.
// It is invoked by the interactive goroutine only, after draining a
// result, never from pool workers.
//
// Package native provides a gogpu/wgpu-backed implementation;
// [BufferMaterializer] keeps pixels in CPU memory for headless use
// and tests.
type Materializer interface {
	Materialize(img *DecodedImage) (*Layer, error)
}

// BufferMaterializer materializes layers into plain CPU pixel buffers.
// Useful for headless operation (cmd/vrr) and as a stand-in where no
// GPU device is available.
type BufferMaterializer struct{}

// NewBufferMaterializer creates a CPU-buffer materializer.
func NewBufferMaterializer() *BufferMaterializer {
	return &BufferMaterializer{}
}

// Materialize implements [Materializer].
func (m *BufferMaterializer) Materialize(img *DecodedImage) (*Layer, error) {
	if img == nil || img.Pix == nil {
		return nil, ErrNilImage
	}
	return &Layer{
		Ref:         img.Ref,
		Resolution:  img.Resolution,
		Orientation: img.Orientation,
		Texture:     &bufferTexture{pix: normalizeNRGBA(img.Pix)},
	}, nil
}

// bufferTexture is a Texture backed by host memory.
type bufferTexture struct {
	pix      *image.NRGBA
	released bool
}

func (t *bufferTexture) Width() int {
	if t.pix == nil {
		return 0
	}
	return t.pix.Rect.Dx()
}

func (t *bufferTexture) Height() int {
	if t.pix == nil {
		return 0
	}
	return t.pix.Rect.Dy()
}

func (t *bufferTexture) Release() {
	t.released = true
	t.pix = nil
}

// Pixels returns the backing image, or nil after Release.
func (t *bufferTexture) Pixels() *image.NRGBA { return t.pix }

// normalizeNRGBA re-bases src to a zero origin with a tight stride, so
// the buffer is directly uploadable row by row. Images that already
// have that shape are returned unchanged.
func normalizeNRGBA(src *image.NRGBA) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if src.Rect.Min == (image.Point{}) && src.Stride == w*4 {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Copy(dst, image.Point{}, src, src.Rect, draw.Src, nil)
	return dst
}
