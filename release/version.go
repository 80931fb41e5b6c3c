package release

import (
	"fmt"
	"io/ioutil"
	"regexp"
	"strings"
)

// Matches things like `const HARDGLITCH_VERSION = "v2.3.4";`
var versionRegexp = regexp.MustCompile(`_VERSION\s*=\s*"([\w.v-]+)"`)

var newlines = strings.NewReplacer("\r", "", "\n", "")

// ParseVersion returns the first version assigned in text. Newlines are
// removed before matching so an assignment split across lines is still found.
func ParseVersion(text string) (string, error) {
	match := versionRegexp.FindStringSubmatch(newlines.Replace(text))
	if match == nil {
		return "", ErrVersionNotFound
	}
	return match[1], nil
}

// ReadVersion returns the version assigned in file.
func ReadVersion(file string) (string, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return "", err
	}

	version, err := ParseVersion(string(b))
	if err != nil {
		return "", fmt.Errorf("%w in %s", err, file)
	}

	return version, nil
}
