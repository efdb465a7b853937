package vrr

// Viewport holds the pan/zoom state for the displayed image and turns
// it into the uniform data the render pipeline consumes. All math is
// pure; the viewport knows nothing about GPU types.
//
// Coordinates: pan lives in normalized device space, zoom is a scalar
// in [1, 1000], and the cursor is the pointer position in screen
// pixels (used as the zoom anchor).
type Viewport struct {
	// Cursor is the pointer position in screen pixels.
	Cursor [2]float64

	// Zoom is the current magnification, 1 = fit to screen.
	Zoom float64

	// Pan is the view offset in normalized device coordinates.
	Pan [2]float64
}

// NewViewport creates a viewport at fit-to-screen with no pan.
func NewViewport() *Viewport {
	return &Viewport{Zoom: 1}
}

// Reset restores fit-to-screen.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.Pan = [2]float64{}
}

// ZoomBy applies a zoom step anchored at the current cursor position,
// so the pixel under the pointer stays put. delta is the wheel step;
// positive zooms in. Zoom is clamped to [1, 1000].
func (v *Viewport) ZoomBy(delta float64, screenW, screenH float64) {
	anchor := v.mscreen(screenW, screenH).scale(2 / v.Zoom).projXY(v.Cursor[0], v.Cursor[1])

	zoom := v.Zoom * (1 + delta*0.2)
	if zoom < 1 {
		zoom = 1
	}
	if zoom > 1000 {
		zoom = 1000
	}
	step := zoom - v.Zoom
	v.Zoom = zoom
	v.Pan[0] -= step * anchor[0]
	v.Pan[1] += step * anchor[1]
}

// PanBy shifts the view by a delta in normalized device coordinates.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan[0] += dx
	v.Pan[1] += dy
}

// Uniforms is the per-layer uniform block consumed by the render
// shader. The layout matches std140: a 4x4 row-major projection,
// image size, zoom-anchor cursor, alpha, and explicit padding.
type Uniforms struct {
	Projection [16]float32
	ImageSize  [2]float32
	Cursor     [2]float32
	Alpha      float32
	_          [3]uint32
}

// ToUniforms computes the uniform block for drawing an image of the
// given size on the given screen, honoring the stored EXIF orientation
// and the viewport's pan/zoom. alpha is the layer opacity.
func (v *Viewport) ToUniforms(imageW, imageH, screenW, screenH float64, o Orientation, alpha float64) Uniforms {
	orient := orientMatrix(o)

	oriented := orient.projXY(imageW, imageH)
	scale := aspectFit(abs(oriented[0]), abs(oriented[1]), screenW, screenH)
	projection := v.projection(scale).mul(orient)
	cursor := v.mscale(scale).mul(v.mscreen(screenW, screenH)).projXY(v.Cursor[0], v.Cursor[1])

	u := Uniforms{
		ImageSize: [2]float32{float32(imageW), float32(imageH)},
		Cursor:    [2]float32{float32(cursor[0]), float32(cursor[1])},
		Alpha:     float32(alpha),
	}
	for i, x := range projection {
		u.Projection[i] = float32(x)
	}
	return u
}

// aspectFit returns the x/y scale that letterboxes an image into the
// screen while preserving its aspect ratio.
func aspectFit(imageW, imageH, screenW, screenH float64) [2]float64 {
	imageAspect := imageW / imageH
	screenAspect := screenW / screenH
	if screenAspect > imageAspect {
		// Screen is wider than the image: pillarbox.
		return [2]float64{imageAspect / screenAspect, 1}
	}
	// Screen is taller than the image: letterbox.
	return [2]float64{1, screenAspect / imageAspect}
}

// projection maps oriented image space to clip space under the current
// pan and zoom.
func (v *Viewport) projection(scale [2]float64) mat4 {
	return m44(scale[0]*v.Zoom, scale[1]*v.Zoom, v.Pan[0], v.Pan[1])
}

// mscreen maps screen pixels to [-0.5, 0.5] with the pan folded in.
func (v *Viewport) mscreen(screenW, screenH float64) mat4 {
	return m44(
		1/screenW,
		1/screenH,
		(-v.Pan[0]-1)/2,
		(v.Pan[1]-1)/2,
	)
}

// mscale undoes the zoomed fit scale, recovering image-relative
// coordinates.
func (v *Viewport) mscale(scale [2]float64) mat4 {
	return m44(1/(scale[0]*v.Zoom), 1/(scale[1]*v.Zoom), 0.5, 0.5)
}

// orientMatrix returns the 2D rotation/mirror block for an EXIF
// orientation, embedded in a 4x4 matrix.
func orientMatrix(o Orientation) mat4 {
	switch o {
	case OrientationRotate90:
		return mOrient(0, 1, -1, 0)
	case OrientationTranspose:
		return mOrient(0, -1, -1, 0)
	case OrientationTransverse:
		return mOrient(0, 1, 1, 0)
	case OrientationFlipH:
		return mOrient(-1, 0, 0, 1)
	case OrientationFlipV:
		return mOrient(1, 0, 0, -1)
	case OrientationRotate180:
		return mOrient(-1, 0, 0, -1)
	case OrientationRotate270:
		return mOrient(0, -1, 1, 0)
	default:
		return mOrient(1, 0, 0, 1)
	}
}

// mat4 is a row-major 4x4 matrix. Only the handful of operations the
// viewport needs are implemented.
type mat4 [16]float64

// m44 builds a scale-and-translate matrix: x' = a*x + p, y' = b*y + q.
func m44(a, b, p, q float64) mat4 {
	return mat4{
		a, 0, 0, p,
		0, b, 0, q,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// mOrient embeds a 2x2 linear block into a 4x4 matrix.
func mOrient(a, b, c, d float64) mat4 {
	return mat4{
		a, b, 0, 0,
		c, d, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// mul returns m * n.
func (m mat4) mul(n mat4) mat4 {
	var out mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * n[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// scale returns m with every element multiplied by s.
func (m mat4) scale(s float64) mat4 {
	var out mat4
	for i, x := range m {
		out[i] = x * s
	}
	return out
}

// projXY applies m to (x, y, 0, 1) and returns the transformed x, y.
func (m mat4) projXY(x, y float64) [2]float64 {
	return [2]float64{
		m[0]*x + m[1]*y + m[3],
		m[4]*x + m[5]*y + m[7],
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
