/*
Package inline implements the text encoding used to embed tile images
directly in generated source files.

The encoding is standard padded base64 over the raw file bytes. Nothing about
the image is interpreted, so any file round-trips exactly.
*/
package inline

import "encoding/base64"

var encoding = base64.StdEncoding

// EncodedLen returns the length in bytes of the encoding of n source bytes.
func EncodedLen(n int) int {
	return encoding.EncodedLen(n)
}
