package vrr

// Resolution identifies one tier of the decode ladder for an image.
//
// The tiers form a total order: ResolutionThumbnail < ResolutionFullHD <
// ResolutionNative. "Higher" means more pixels, and the order is what
// [LayerCache.Best] uses to pick the sharpest available layer for
// display. The zero value is ResolutionThumbnail.
type Resolution uint8

const (
	// ResolutionThumbnail is a small preview, bounded by the decoder's
	// thumbnail size. Thumbnail requests are exempt from positional
	// pruning so an already-built thumbnail strip survives scrolling.
	ResolutionThumbnail Resolution = iota

	// ResolutionFullHD is the image downscaled to fit within a
	// 1920x1080 bound (never upscaled).
	ResolutionFullHD

	// ResolutionNative is the image at its full decoded size.
	ResolutionNative
)

// String returns the resolution name for logging.
func (r Resolution) String() string {
	switch r {
	case ResolutionThumbnail:
		return "thumbnail"
	case ResolutionFullHD:
		return "fullhd"
	case ResolutionNative:
		return "native"
	default:
		return "unknown"
	}
}

// Less reports whether r is a lower tier than other.
func (r Resolution) Less(other Resolution) bool {
	return r < other
}
