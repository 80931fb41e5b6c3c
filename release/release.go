/*
Package release packages a built game into a versioned zip archive and
publishes it with an external tool such as itch.io's butler.

A release runs four steps in order and never goes back: the version is read
from a generated source file, the declared files and directories are zipped,
the archive is pushed and finally the tool is asked for the status of the
target. Every run can be recorded in a Ledger.
*/
package release

import (
	"errors"
	"fmt"
)

const archiveExt = ".zip"

var (
	// ErrVersionNotFound is returned when the version file has no
	// recognisable version assignment.
	ErrVersionNotFound = errors.New("release: version not found")

	// ErrMissingResource is returned when a declared file or directory does
	// not exist.
	ErrMissingResource = errors.New("release: missing resource")

	// ErrExternalTool is returned in strict mode when the publishing tool
	// exits with a non-zero status.
	ErrExternalTool = errors.New("release: external tool failed")
)

// ArchiveName returns the filename of the archive for the given project and
// version.
func ArchiveName(project, version string) string {
	return fmt.Sprintf("%s-%s%s", project, version, archiveExt)
}

// Target returns the publishing target identifier.
func Target(publisher, project, channel string) string {
	return fmt.Sprintf("%s/%s:%s", publisher, project, channel)
}
