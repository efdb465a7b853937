// Package fps provides a frame-rate meter for the interactive loop.
package fps

import "time"

// Meter counts frames per wall-clock second. Call Tick once per frame
// and read FPS for the rate of the last completed second.
//
// Meter is not safe for concurrent use; it belongs to the interactive
// goroutine.
type Meter struct {
	last   time.Time
	frames int
	fps    int

	// now is swappable for tests.
	now func() time.Time
}

// New creates a meter starting now.
func New() *Meter {
	m := &Meter{now: time.Now}
	m.last = m.now()
	return m
}

// Tick records one frame.
func (m *Meter) Tick() {
	m.frames++
	now := m.now()
	if now.Sub(m.last) >= time.Second {
		m.fps = m.frames
		m.frames = 0
		m.last = now
	}
}

// FPS returns the frame count of the last completed second.
func (m *Meter) FPS() int { return m.fps }
