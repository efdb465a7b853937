package vrr

import (
	"errors"
	"fmt"
)

// Catalog errors.
var (
	// ErrEmptyCatalog is returned when navigating an empty catalog.
	ErrEmptyCatalog = errors.New("vrr: catalog is empty")

	// ErrIndexOutOfRange is returned when jumping to an invalid index.
	ErrIndexOutOfRange = errors.New("vrr: catalog index out of range")
)

// Catalog is the ordered list of browsable images with a cursor at the
// current position. Navigation wraps around at both ends.
//
// The catalog takes the references as given: filtering to supported
// file types is the caller's responsibility. Catalog is not safe for
// concurrent use; it belongs to the interactive goroutine.
type Catalog struct {
	refs  []ImageRef
	index int
}

// NewCatalog creates a catalog over an ordered list of references.
// The cursor starts at index 0.
func NewCatalog(refs []ImageRef) *Catalog {
	return &Catalog{refs: refs}
}

// NewCatalogFromPaths creates a catalog from an ordered list of file
// paths.
func NewCatalogFromPaths(paths []string) *Catalog {
	refs := make([]ImageRef, len(paths))
	for i, p := range paths {
		refs[i] = NewImageRef(p)
	}
	return NewCatalog(refs)
}

// Len returns the number of images in the catalog.
func (c *Catalog) Len() int { return len(c.refs) }

// Index returns the current cursor position.
func (c *Catalog) Index() int { return c.index }

// At returns the reference at the given index.
func (c *Catalog) At(i int) (ImageRef, error) {
	if i < 0 || i >= len(c.refs) {
		return ImageRef{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.refs))
	}
	return c.refs[i], nil
}

// Current returns the reference under the cursor.
func (c *Catalog) Current() (ImageRef, error) {
	if len(c.refs) == 0 {
		return ImageRef{}, ErrEmptyCatalog
	}
	return c.refs[c.index], nil
}

// Set moves the cursor to an arbitrary index.
// The cursor does not move on error.
func (c *Catalog) Set(i int) error {
	if len(c.refs) == 0 {
		return ErrEmptyCatalog
	}
	if i < 0 || i >= len(c.refs) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.refs))
	}
	c.index = i
	return nil
}

// SetPath moves the cursor to the reference with the given path.
func (c *Catalog) SetPath(path string) error {
	for i, ref := range c.refs {
		if ref.Path == path {
			c.index = i
			return nil
		}
	}
	return fmt.Errorf("%w: no entry for %q", ErrIndexOutOfRange, path)
}

// Next advances the cursor by one, wrapping at the end.
func (c *Catalog) Next() error {
	if len(c.refs) == 0 {
		return ErrEmptyCatalog
	}
	c.index = (c.index + 1) % len(c.refs)
	return nil
}

// Prev moves the cursor back by one, wrapping at the start.
func (c *Catalog) Prev() error {
	if len(c.refs) == 0 {
		return ErrEmptyCatalog
	}
	c.index = (c.index + len(c.refs) - 1) % len(c.refs)
	return nil
}

// offset returns the reference at the cursor plus the given signed
// offset, wrapped modulo catalog length.
func (c *Catalog) offset(delta int) ImageRef {
	n := len(c.refs)
	i := ((c.index+delta)%n + n) % n
	return c.refs[i]
}

// Window returns the locality window around the cursor: the references
// at offsets {0, +1, -1, +2, -2, ..., +radius, -radius}, wrapped modulo
// catalog length and deduplicated. Deduplication matters when the
// catalog has at most 2*radius+1 entries and the window covers it
// entirely.
//
// The result always starts with the current reference and contains
// exactly min(2*radius+1, Len()) distinct entries. The order is an
// iteration hint: closer items come first, so callers that submit
// decode requests in window order request the most relevant images
// first. An empty catalog yields an empty window.
func (c *Catalog) Window(radius int) []ImageRef {
	if len(c.refs) == 0 {
		return nil
	}
	seen := make(map[ImageRef]struct{}, 2*radius+1)
	window := make([]ImageRef, 0, 2*radius+1)
	add := func(ref ImageRef) {
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		window = append(window, ref)
	}
	add(c.offset(0))
	for i := 1; i <= radius; i++ {
		add(c.offset(i))
		add(c.offset(-i))
	}
	return window
}
