package inline

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(r io.Reader) (int64, error) {
	enc := base64.NewEncoder(encoding, e.w)
	n, err := io.Copy(enc, r)
	if err != nil {
		return n, err
	}
	// Close flushes any partial block and the padding
	return n, enc.Close()
}

// Encode reads r until EOF and writes its encoding to w. It returns the number
// of source bytes consumed.
func Encode(w io.Writer, r io.Reader) (int64, error) {
	e := encoder{w: w}
	return e.encode(r)
}

// EncodeToString returns the encoding of b.
func EncodeToString(b []byte) string {
	var sb strings.Builder
	sb.Grow(EncodedLen(len(b)))
	e := encoder{w: &sb}
	// A strings.Builder never fails to write
	e.encode(bytes.NewReader(b))
	return sb.String()
}
