package inline

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"io/ioutil"
	"strings"
)

// ErrCorrupt is returned when a payload is not valid encoded text.
var ErrCorrupt = errors.New("inline: corrupt payload")

type decoder struct {
	r io.Reader
}

func (d *decoder) decode(w io.Writer) (int64, error) {
	n, err := io.Copy(w, base64.NewDecoder(encoding, d.r))
	if err != nil {
		var cie base64.CorruptInputError
		if errors.As(err, &cie) || err == io.ErrUnexpectedEOF {
			return n, ErrCorrupt
		}
		return n, err
	}
	return n, nil
}

// Decode reads an encoded payload from r and writes the original bytes to w.
func Decode(w io.Writer, r io.Reader) (int64, error) {
	d := decoder{r: r}
	return d.decode(w)
}

// DecodeString returns the bytes represented by the payload s.
func DecodeString(s string) ([]byte, error) {
	b := new(bytes.Buffer)
	if _, err := Decode(b, strings.NewReader(s)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Equal reports whether the payload s decodes to exactly the contents of r.
func Equal(s string, r io.Reader) (bool, error) {
	want, err := ioutil.ReadAll(r)
	if err != nil {
		return false, err
	}
	got, err := DecodeString(s)
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, want), nil
}
