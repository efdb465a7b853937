package vrr

import "fmt"

// Texture is the display-resident pixel resource backing a [Layer].
// Implementations own GPU-side state (see package native) or plain
// CPU buffers ([BufferMaterializer]).
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Release frees the underlying resources. The texture must not be
	// used afterwards. Release is idempotent.
	Release()
}

// Layer is a display-resident resource for one (reference, resolution)
// pair. It owns its texture for as long as it is retained by the
// [LayerCache]; removal from the cache releases the texture.
type Layer struct {
	Ref         ImageRef
	Resolution  Resolution
	Orientation Orientation
	Texture     Texture
}

// ByteSize estimates the texture memory held by the layer, assuming
// four bytes per pixel.
func (l *Layer) ByteSize() int {
	return l.Texture.Width() * l.Texture.Height() * 4
}

// LayerCache holds, per reference, the set of display-resident layers
// at distinct resolutions, and selects the best available one for
// display.
//
// The cache is the expensive tier of the pipeline: each entry pins
// texture memory. It is therefore pruned at least as aggressively as
// the scheduler's request table: Retain is driven by the scheduler's
// own snapshot, so the cache never keeps a resolution the scheduler
// stopped tracking.
//
// LayerCache is mutated exclusively by the interactive goroutine and
// is not safe for concurrent use.
type LayerCache struct {
	layers map[ImageRef][]*Layer
}

// NewLayerCache creates an empty layer cache.
func NewLayerCache() *LayerCache {
	return &LayerCache{layers: make(map[ImageRef][]*Layer)}
}

// Best returns the layer with the highest resolution cached for ref,
// or nil if no layer exists yet. Resolutions are totally ordered and
// the cache holds at most one layer per resolution, so the choice is
// unambiguous.
func (c *LayerCache) Best(ref ImageRef) *Layer {
	var best *Layer
	for _, l := range c.layers[ref] {
		if best == nil || best.Resolution.Less(l.Resolution) {
			best = l
		}
	}
	return best
}

// Insert adds a layer for layer.Ref. An existing layer at the same
// resolution is released and replaced, so the per-reference set grows
// by resolution only, never by duplication.
func (c *LayerCache) Insert(layer *Layer) {
	Logger().Debug("adding layer",
		"ref", layer.Ref.Path,
		"resolution", layer.Resolution,
		"bytes", formatBytes(layer.ByteSize()))

	existing := c.layers[layer.Ref]
	kept := existing[:0]
	for _, l := range existing {
		if l.Resolution == layer.Resolution {
			l.Texture.Release()
			continue
		}
		kept = append(kept, l)
	}
	c.layers[layer.Ref] = append(kept, layer)

	c.logUsage()
}

// Retain keeps only layers whose (reference, resolution) pair appears
// in reqs, releasing everything else. References left with no layers
// are removed entirely.
func (c *LayerCache) Retain(reqs []Request) {
	keep := make(map[Request]struct{}, len(reqs))
	for _, r := range reqs {
		keep[r] = struct{}{}
	}

	for ref, layers := range c.layers {
		kept := layers[:0]
		for _, l := range layers {
			if _, ok := keep[NewRequest(l.Ref, l.Resolution)]; ok {
				kept = append(kept, l)
				continue
			}
			Logger().Debug("releasing layer", "ref", l.Ref.Path, "resolution", l.Resolution)
			l.Texture.Release()
		}
		if len(kept) == 0 {
			delete(c.layers, ref)
			continue
		}
		c.layers[ref] = kept
	}
}

// Clear releases every layer.
func (c *LayerCache) Clear() {
	for _, layers := range c.layers {
		for _, l := range layers {
			l.Texture.Release()
		}
	}
	c.layers = make(map[ImageRef][]*Layer)
}

// Len returns the number of references with at least one cached layer.
func (c *LayerCache) Len() int { return len(c.layers) }

// TextureBytes returns the estimated texture memory held by all
// cached layers.
func (c *LayerCache) TextureBytes() int {
	total := 0
	for _, layers := range c.layers {
		for _, l := range layers {
			total += l.ByteSize()
		}
	}
	return total
}

// logUsage reports cache occupancy at debug level.
func (c *LayerCache) logUsage() {
	Logger().Debug("layer cache",
		"refs", len(c.layers),
		"bytes", formatBytes(c.TextureBytes()))
}

// formatBytes renders a byte count with a decimal SI prefix for logs.
func formatBytes(n int) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := int64(n) / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGTPE"[exp])
}
