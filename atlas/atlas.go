/*
Package atlas compiles a directory of tile style images into a manifest that
a renderer can embed directly in its source.

Every style of the taxonomy maps to exactly one image named
<prefix><code>.png. The compiled manifest keeps the registry order so the
generated file diffs cleanly between builds, and is emitted as a JavaScript
object literal:

	let tiles = {
	    t: tile("iVBORw0KGgo..."),
	    ot: tile("iVBORw0KGgo..."),
	};
*/
package atlas

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/klaim/glitchpack/style"
)

const (
	// Ext is the extension of every source image
	Ext = ".png"

	// DefaultPrefix is the filename prefix used by the tile sheets
	DefaultPrefix = "tt_"

	// DefaultName is the name the manifest object is assigned to
	DefaultName = "tiles"

	// DefaultWrapper is the function each payload is passed through at
	// runtime to turn it into an image
	DefaultWrapper = "tile"
)

var (
	// ErrMissingResource is returned when a style has no source image.
	ErrMissingResource = errors.New("atlas: missing resource")

	// ErrDuplicateStyle is returned when a style appears twice.
	ErrDuplicateStyle = errors.New("atlas: duplicate style")

	// ErrStale is returned by Verify when the manifest no longer matches the
	// source images or the taxonomy.
	ErrStale = errors.New("atlas: manifest is stale")

	// ErrSyntax is returned when manifest text cannot be parsed.
	ErrSyntax = errors.New("atlas: syntax error")
)

// Path returns the location of the source image for s.
func Path(baseDir, prefix string, s style.Style) string {
	return filepath.Join(baseDir, prefix+s.String()+Ext)
}

// Entry is a single compiled style.
type Entry struct {
	Style style.Style
	// Payload is the inline encoding of the image file
	Payload string
	// SHA1 is the upper case hex digest of the image file
	SHA1 string
}

// Manifest is the compiled atlas. It implements the encoding.TextMarshaler
// and encoding.TextUnmarshaler interfaces.
type Manifest struct {
	// Name is the identifier the object is assigned to
	Name string
	// Wrapper is the function applied to each payload
	Wrapper string

	entries []Entry
	index   map[style.Style]int
}

// New returns an empty manifest using the default names.
func New() *Manifest {
	return &Manifest{
		Name:    DefaultName,
		Wrapper: DefaultWrapper,
		index:   make(map[style.Style]int),
	}
}

// Len returns the number of styles in the manifest
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Get returns the entry for s.
func (m *Manifest) Get(s style.Style) (Entry, bool) {
	i, ok := m.index[s]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Entries returns a copy of the entries in manifest order.
func (m *Manifest) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Styles returns the styles in manifest order.
func (m *Manifest) Styles() []style.Style {
	styles := make([]style.Style, len(m.entries))
	for i, e := range m.entries {
		styles[i] = e.Style
	}
	return styles
}

func (m *Manifest) add(e Entry) error {
	if _, ok := m.index[e.Style]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStyle, e.Style)
	}
	m.entries = append(m.entries, e)
	m.index[e.Style] = len(m.entries) - 1
	return nil
}
