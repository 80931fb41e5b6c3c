package atlas

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/klaim/glitchpack/inline"
	"github.com/klaim/glitchpack/style"
)

// sameContents reports whether payload decodes to the bytes of file. The
// payload need not be in the canonical form Compile produces.
func sameContents(file, payload string) (bool, error) {
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("%w: %s", ErrMissingResource, file)
		}
		return false, err
	}
	defer f.Close()

	return inline.Equal(payload, f)
}

// Verify checks that m still describes the images under baseDir: its domain
// and order must equal styles, and every payload must decode to the current
// contents of the matching image.
func Verify(m *Manifest, baseDir, prefix string, styles []style.Style) error {
	if m.Len() != len(styles) {
		return fmt.Errorf("%w: %d entries, want %d", ErrStale, m.Len(), len(styles))
	}

	for i, s := range styles {
		e := m.entries[i]
		if e.Style != s {
			return fmt.Errorf("%w: entry %d is %q, want %q", ErrStale, i, e.Style, s)
		}

		file := Path(baseDir, prefix, s)
		ok, err := sameContents(file, e.Payload)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q differs from %s", ErrStale, s, file)
		}
	}

	return nil
}

// VerifyFile parses the manifest stored in file and verifies it.
func VerifyFile(file, baseDir, prefix string, styles []style.Style) error {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}
	m := New()
	if err := m.UnmarshalText(b); err != nil {
		return err
	}
	return Verify(m, baseDir, prefix, styles)
}
