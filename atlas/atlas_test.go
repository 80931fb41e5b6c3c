package atlas

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/klaim/glitchpack/inline"
	"github.com/klaim/glitchpack/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeImage(s style.Style) []byte {
	b := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	for i := 0; i < int(s)*7; i++ {
		b = append(b, byte(i*int(s)))
	}
	return b
}

// writeTiles creates one image per style in dir, in the given file order.
func writeTiles(t *testing.T, dir, prefix string, order []style.Style) {
	t.Helper()
	for _, s := range order {
		require.NoError(t, ioutil.WriteFile(Path(dir, prefix, s), fakeImage(s), 0644))
	}
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("img", "tt_ottrs.png"), Path("img", DefaultPrefix, style.OuterTopToRightStart))
}

func TestCompileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeTiles(t, dir, DefaultPrefix, style.All())

	m, err := Compile(dir, DefaultPrefix, style.All())
	require.NoError(t, err)
	require.Equal(t, style.Count, m.Len())
	assert.Equal(t, style.All(), m.Styles())

	for _, s := range style.All() {
		e, ok := m.Get(s)
		require.True(t, ok, "missing %s", s)
		b, err := inline.DecodeString(e.Payload)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(fakeImage(s), b), "%s did not round-trip", s)
		sum := sha1.Sum(fakeImage(s))
		assert.Equal(t, fmt.Sprintf("%X", sum[:]), e.SHA1)
	}
}

func TestCompileOrderIndependentOfCreation(t *testing.T) {
	order := style.All()
	rand.New(rand.NewSource(1)).Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	dir := t.TempDir()
	writeTiles(t, dir, DefaultPrefix, order)

	m, err := Compile(dir, DefaultPrefix, style.All())
	require.NoError(t, err)
	assert.Equal(t, style.All(), m.Styles())
}

func TestCompileMissingImage(t *testing.T) {
	dir := t.TempDir()
	writeTiles(t, dir, DefaultPrefix, style.All())
	require.NoError(t, os.Remove(Path(dir, DefaultPrefix, style.BottomInner)))

	m, err := Compile(dir, DefaultPrefix, style.All())
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingResource))
	assert.Contains(t, err.Error(), "tt_bi.png")
}

func TestCompileWrongPrefix(t *testing.T) {
	dir := t.TempDir()
	writeTiles(t, dir, DefaultPrefix, style.All())

	_, err := Compile(dir, "wall_", style.All())
	assert.True(t, errors.Is(err, ErrMissingResource))
}

func TestCompileBadDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Compile(filepath.Join(dir, "nope"), DefaultPrefix, style.All())
	assert.True(t, errors.Is(err, ErrMissingResource))

	file := filepath.Join(dir, "file")
	require.NoError(t, ioutil.WriteFile(file, nil, 0644))
	_, err = Compile(file, DefaultPrefix, style.All())
	assert.Error(t, err)
}

func TestCompileSubset(t *testing.T) {
	dir := t.TempDir()
	subset := []style.Style{style.Right, style.Top, style.Middle}
	writeTiles(t, dir, DefaultPrefix, subset)

	m, err := Compile(dir, DefaultPrefix, subset)
	require.NoError(t, err)
	assert.Equal(t, subset, m.Styles())

	_, ok := m.Get(style.Left)
	assert.False(t, ok)
}

func TestCompileRejectsDuplicatesAndInvalid(t *testing.T) {
	dir := t.TempDir()
	writeTiles(t, dir, DefaultPrefix, style.All())

	_, err := Compile(dir, DefaultPrefix, []style.Style{style.Top, style.Top})
	assert.True(t, errors.Is(err, ErrDuplicateStyle))

	_, err = Compile(dir, DefaultPrefix, []style.Style{style.Style(0)})
	assert.True(t, errors.Is(err, style.ErrUnknown))
}

func TestCompileDirectoryAsImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(Path(dir, DefaultPrefix, style.Top), 0755))

	_, err := Compile(dir, DefaultPrefix, []style.Style{style.Top})
	assert.True(t, errors.Is(err, ErrMissingResource))
}
