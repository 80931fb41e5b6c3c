package atlas

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"

	"github.com/klaim/glitchpack/inline"
	"github.com/klaim/glitchpack/style"
)

const indent = "    "

var (
	identRegexp  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	headerRegexp = regexp.MustCompile(`^let\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*\{$`)
	entryRegexp  = regexp.MustCompile(`^([a-z]+)\s*:\s*([A-Za-z_$][A-Za-z0-9_$]*)\("([A-Za-z0-9+/=]*)"\),?$`)
	footerRegexp = regexp.MustCompile(`^\};?$`)
)

// MarshalText encodes the manifest as a JavaScript object literal assigned to
// m.Name, with every payload wrapped in a call to m.Wrapper.
func (m *Manifest) MarshalText() ([]byte, error) {
	if !identRegexp.MatchString(m.Name) {
		return nil, fmt.Errorf("atlas: invalid object name %q", m.Name)
	}
	if !identRegexp.MatchString(m.Wrapper) {
		return nil, fmt.Errorf("atlas: invalid wrapper name %q", m.Wrapper)
	}

	b := new(bytes.Buffer)
	fmt.Fprintf(b, "let %s = {\n", m.Name)
	for _, e := range m.entries {
		fmt.Fprintf(b, "%s%s: %s(\"%s\"),\n", indent, e.Style, m.Wrapper, e.Payload)
	}
	b.WriteString("};\n")

	return b.Bytes(), nil
}

// UnmarshalText decodes a manifest previously produced by MarshalText. Blank
// lines and // comments are ignored.
func (m *Manifest) UnmarshalText(text []byte) error {
	m.Name = ""
	m.Wrapper = ""
	m.entries = nil
	m.index = make(map[style.Style]int)

	s := bufio.NewScanner(bytes.NewReader(text))
	s.Buffer(nil, len(text)+1)

	var line int
	var open, closed bool
	for s.Scan() {
		line++
		l := strings.TrimSpace(s.Text())
		if l == "" || strings.HasPrefix(l, "//") {
			continue
		}

		switch {
		case closed:
			return fmt.Errorf("%w: line %d: trailing data", ErrSyntax, line)
		case !open:
			match := headerRegexp.FindStringSubmatch(l)
			if match == nil {
				return fmt.Errorf("%w: line %d: expected object declaration", ErrSyntax, line)
			}
			m.Name = match[1]
			open = true
		case footerRegexp.MatchString(l):
			closed = true
		default:
			match := entryRegexp.FindStringSubmatch(l)
			if match == nil {
				return fmt.Errorf("%w: line %d: expected entry", ErrSyntax, line)
			}
			st, err := style.Parse(match[1])
			if err != nil {
				return fmt.Errorf("atlas: line %d: %q: %w", line, match[1], err)
			}
			if m.Wrapper == "" {
				m.Wrapper = match[2]
			} else if m.Wrapper != match[2] {
				return fmt.Errorf("%w: line %d: mixed wrappers %q and %q", ErrSyntax, line, m.Wrapper, match[2])
			}
			b, err := inline.DecodeString(match[3])
			if err != nil {
				return fmt.Errorf("atlas: line %d: %w", line, err)
			}
			sum := sha1.Sum(b)
			if err := m.add(Entry{
				Style:   st,
				Payload: match[3],
				SHA1:    fmt.Sprintf("%X", sum[:]),
			}); err != nil {
				return fmt.Errorf("atlas: line %d: %w", line, err)
			}
		}
	}
	if err := s.Err(); err != nil {
		return err
	}

	if !closed {
		return fmt.Errorf("%w: unterminated object", ErrSyntax)
	}
	if m.Wrapper == "" {
		m.Wrapper = DefaultWrapper
	}

	return nil
}
