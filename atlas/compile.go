package atlas

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klaim/glitchpack/inline"
	"github.com/klaim/glitchpack/style"
)

func encodeFile(file string, s style.Style) (Entry, error) {
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, fmt.Errorf("%w: %s", ErrMissingResource, file)
		}
		return Entry{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, err
	}
	if !info.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("%w: %s is not a regular file", ErrMissingResource, file)
	}

	h := sha1.New()
	var sb strings.Builder
	sb.Grow(inline.EncodedLen(int(info.Size())))
	if _, err := inline.Encode(&sb, io.TeeReader(f, h)); err != nil {
		return Entry{}, err
	}

	return Entry{
		Style:   s,
		Payload: sb.String(),
		SHA1:    fmt.Sprintf("%X", h.Sum(nil)),
	}, nil
}

// Compile reads the image for each style from baseDir and returns the
// manifest with one entry per style, in the order given. If any image is
// missing the whole compile fails with ErrMissingResource and no manifest is
// returned.
func Compile(baseDir, prefix string, styles []style.Style) (*Manifest, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingResource, baseDir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("atlas: %s: not a directory", baseDir)
	}

	m := New()
	for _, s := range styles {
		if !s.Valid() {
			return nil, fmt.Errorf("atlas: %d: %w", int(s), style.ErrUnknown)
		}
		e, err := encodeFile(Path(baseDir, prefix, s), s)
		if err != nil {
			return nil, err
		}
		if err := m.add(e); err != nil {
			return nil, err
		}
	}

	return m, nil
}
