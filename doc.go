// Package vrr implements an adaptive prefetch-and-cache pipeline for
// browsing ordered collections of large images.
//
// Decoding a full-resolution photograph takes long enough to be visible
// as a stall when the user flips to the next image. vrr hides that
// latency by decoding ahead of the user on a worker pool while keeping
// memory bounded as the browsing position moves:
//
//   - [Catalog] holds the ordered list of images and the current
//     position, with wrap-around navigation.
//   - [Scheduler] owns the worker pool and a request table that
//     guarantees at most one outstanding decode per (image, resolution)
//     pair. Submissions are debounced under load and re-validated
//     against the table before any work is done, so rapid scrolling
//     does not saturate the pool with stale work.
//   - [LayerCache] holds display-resident textures per image at up to
//     one layer per resolution, and answers "best available layer"
//     queries for drawing.
//
// Both the request table and the layer cache are evicted against the
// same locality window around the current position ([Catalog.Window]),
// so the two tiers never disagree about which images are worth keeping.
//
// The interactive goroutine never blocks on this package: it polls
// [Scheduler.Drain] (typically once per frame via [Viewer.Process]),
// turns finished decodes into layers through a [Materializer], and
// prunes both tiers. Decode work and debounce delays run exclusively
// on pool goroutines.
//
// The pixel decoder and the GPU texture upload are pluggable: see
// [DecodeFunc] and [Materializer]. Package native provides a
// gogpu/wgpu-backed materializer; [NewDecoder] provides a default
// JPEG/PNG decoder.
//
// By default vrr produces no log output. Call [SetLogger] to enable
// structured logging.
package vrr
