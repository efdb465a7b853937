package vrr

import "github.com/gogpu/vrr/internal/fps"

// Viewer wires the pipeline together for the interactive goroutine: it
// owns the catalog, the scheduler, the layer cache, and the
// materializer, and runs the per-frame drain/materialize/prune cycle.
//
// Viewer methods must all be called from the same goroutine. The
// viewer never blocks on decode completion; call [Viewer.Process] once
// per frame and draw whatever [Viewer.Best] returns in the meantime.
type Viewer struct {
	catalog      *Catalog
	scheduler    *Scheduler
	layers       *LayerCache
	materializer Materializer
	radius       int
	meter        *fps.Meter
}

// NewViewer assembles a viewer. radius is the preload radius: how many
// neighbors on each side of the cursor are kept hot.
func NewViewer(catalog *Catalog, scheduler *Scheduler, materializer Materializer, radius int) *Viewer {
	if radius < 0 {
		radius = 0
	}
	return &Viewer{
		catalog:      catalog,
		scheduler:    scheduler,
		layers:       NewLayerCache(),
		materializer: materializer,
		radius:       radius,
		meter:        fps.New(),
	}
}

// Catalog returns the viewer's catalog.
func (v *Viewer) Catalog() *Catalog { return v.catalog }

// Layers returns the viewer's layer cache.
func (v *Viewer) Layers() *LayerCache { return v.layers }

// Scheduler returns the viewer's scheduler.
func (v *Viewer) Scheduler() *Scheduler { return v.scheduler }

// Radius returns the preload radius.
func (v *Viewer) Radius() int { return v.radius }

// FPS returns the number of [Viewer.Process] calls in the last
// completed second. With one Process per frame this is the frame rate.
func (v *Viewer) FPS() int { return v.meter.FPS() }

// requestCurrent submits a native-resolution request for the image
// under the cursor. Submission is synchronous, completion is not.
func (v *Viewer) requestCurrent() error {
	ref, err := v.catalog.Current()
	if err != nil {
		return err
	}
	v.scheduler.Submit(NewRequest(ref, ResolutionNative))
	return nil
}

// Next advances to the following image and requests it at native
// resolution. The cursor does not move on error.
func (v *Viewer) Next() error {
	if err := v.catalog.Next(); err != nil {
		return err
	}
	return v.requestCurrent()
}

// Prev moves to the preceding image and requests it at native
// resolution. The cursor does not move on error.
func (v *Viewer) Prev() error {
	if err := v.catalog.Prev(); err != nil {
		return err
	}
	return v.requestCurrent()
}

// Set jumps to an arbitrary index and requests it at native
// resolution. The cursor does not move on error.
func (v *Viewer) Set(index int) error {
	if err := v.catalog.Set(index); err != nil {
		return err
	}
	return v.requestCurrent()
}

// Preload submits native-resolution requests for every reference in
// the locality window around the cursor, closest first. Requests
// already tracked are no-ops, so Preload is cheap to call every frame.
func (v *Viewer) Preload() {
	for _, ref := range v.catalog.Window(v.radius) {
		v.scheduler.Submit(NewRequest(ref, ResolutionNative))
	}
}

// LoadAllThumbnails submits a thumbnail request for every catalog
// entry. Thumbnails are exempt from positional pruning, so the strip
// stays resident until [Viewer.Close] or a scheduler reset.
func (v *Viewer) LoadAllThumbnails() {
	for i := 0; i < v.catalog.Len(); i++ {
		ref, err := v.catalog.At(i)
		if err != nil {
			return
		}
		v.scheduler.Submit(NewRequest(ref, ResolutionThumbnail))
	}
}

// Best returns the highest-resolution layer cached for the image under
// the cursor, or nil if nothing is resident yet (draw nothing, or keep
// the previous frame).
func (v *Viewer) Best() *Layer {
	ref, err := v.catalog.Current()
	if err != nil {
		return nil
	}
	return v.layers.Best(ref)
}

// Process runs one iteration of the interactive cycle: drain completed
// decodes, materialize them into layers, and, if anything landed,
// re-issue the preload window and prune both tiers against it. Decode
// and materialization failures are logged and skipped; they are never
// fatal to the pipeline.
//
// Process returns the number of layers inserted, so callers can skip
// redrawing when nothing changed.
func (v *Viewer) Process() int {
	v.meter.Tick()

	inserted := 0
	for _, res := range v.scheduler.Drain() {
		if res.Err != nil {
			Logger().Warn("decode failed", "err", res.Err)
			continue
		}
		layer, err := v.materializer.Materialize(res.Image)
		if err != nil {
			Logger().Warn("materialize failed",
				"ref", res.Image.Ref.Path,
				"resolution", res.Image.Resolution,
				"err", err)
			continue
		}
		v.layers.Insert(layer)
		inserted++
	}

	if inserted > 0 {
		v.Preload()
		v.pruneCaches()
	}
	return inserted
}

// pruneCaches evicts both tiers against the current locality window:
// first the request table (keeping thumbnails regardless of position),
// then the layer cache against the table's surviving snapshot. In that
// order the cache never retains a resolution the scheduler is no
// longer tracking.
func (v *Viewer) pruneCaches() {
	window := v.catalog.Window(v.radius)
	v.scheduler.Prune(window, ResolutionThumbnail)
	v.layers.Retain(v.scheduler.Snapshot())
}

// Close releases every cached layer and shuts down the scheduler.
func (v *Viewer) Close() {
	v.scheduler.Close()
	v.layers.Clear()
}
