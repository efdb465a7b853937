package vrr

// Orientation is the EXIF orientation of a decoded image, describing
// the transform that maps stored pixel rows onto the displayed image.
// Values follow the EXIF tag 0x0112 encoding.
type Orientation uint8

const (
	// OrientationUnspecified means no orientation metadata was present.
	// Treated as OrientationNormal for display.
	OrientationUnspecified Orientation = 0

	// OrientationNormal is the identity: row 0 at top, column 0 at left.
	OrientationNormal Orientation = 1

	// OrientationFlipH mirrors the image horizontally.
	OrientationFlipH Orientation = 2

	// OrientationRotate180 rotates the image 180 degrees.
	OrientationRotate180 Orientation = 3

	// OrientationFlipV mirrors the image vertically.
	OrientationFlipV Orientation = 4

	// OrientationTranspose mirrors horizontally then rotates 90 degrees
	// clockwise (main diagonal transpose).
	OrientationTranspose Orientation = 5

	// OrientationRotate90 rotates the image 90 degrees clockwise.
	OrientationRotate90 Orientation = 6

	// OrientationTransverse mirrors vertically then rotates 90 degrees
	// clockwise (anti-diagonal transpose).
	OrientationTransverse Orientation = 7

	// OrientationRotate270 rotates the image 270 degrees clockwise.
	OrientationRotate270 Orientation = 8
)

// SwapsAxes reports whether the orientation exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	switch o {
	case OrientationTranspose, OrientationRotate90, OrientationTransverse, OrientationRotate270:
		return true
	default:
		return false
	}
}

// String returns the orientation name for logging.
func (o Orientation) String() string {
	switch o {
	case OrientationUnspecified:
		return "unspecified"
	case OrientationNormal:
		return "normal"
	case OrientationFlipH:
		return "flip-h"
	case OrientationRotate180:
		return "rotate-180"
	case OrientationFlipV:
		return "flip-v"
	case OrientationTranspose:
		return "transpose"
	case OrientationRotate90:
		return "rotate-90"
	case OrientationTransverse:
		return "transverse"
	case OrientationRotate270:
		return "rotate-270"
	default:
		return "invalid"
	}
}
