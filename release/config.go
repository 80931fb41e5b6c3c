package release

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Config describes what gets released and where it goes. The zero value is
// not usable; start from DefaultConfig or LoadConfig.
type Config struct {
	Project   string `yaml:"project"`
	Publisher string `yaml:"publisher"`
	Channel   string `yaml:"channel"`

	// Root is the directory every other path is relative to
	Root string `yaml:"root"`
	// VersionFile is the generated file holding the version assignment
	VersionFile string `yaml:"version_file"`
	// Files lists the files and directories to archive
	Files []string `yaml:"files"`
	// OutputDir is where the archive is written, Root if empty
	OutputDir string `yaml:"output_dir,omitempty"`

	// Tool is the publishing executable
	Tool string `yaml:"tool"`
	// Strict stops the release when the tool exits with a non-zero status
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns the configuration used to publish Hard Glitch.
func DefaultConfig() Config {
	return Config{
		Project:     "hardglitch",
		Publisher:   "klaim",
		Channel:     "web",
		Root:        ".",
		VersionFile: "js/version.js",
		Files: []string{
			"audio/",
			"fonts/",
			"images/",
			"js/",
			"index.html",
			"favicon.ico",
			"changelog.md",
		},
		Tool: "butler",
	}
}

// LoadConfig reads a YAML configuration from file. Keys that are absent keep
// their DefaultConfig value.
func LoadConfig(file string) (Config, error) {
	c := DefaultConfig()

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return c, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return c, fmt.Errorf("release: %s: %w", file, err)
	}

	return c, c.Validate()
}

// Validate checks that every required field is set.
func (c Config) Validate() error {
	switch {
	case c.Project == "":
		return errors.New("release: project is required")
	case c.Publisher == "":
		return errors.New("release: publisher is required")
	case c.Channel == "":
		return errors.New("release: channel is required")
	case c.VersionFile == "":
		return errors.New("release: version file is required")
	case len(c.Files) == 0:
		return errors.New("release: nothing to publish")
	case c.Tool == "":
		return errors.New("release: tool is required")
	}
	return nil
}

// Target returns the publishing target identifier for c.
func (c Config) Target() string {
	return Target(c.Publisher, c.Project, c.Channel)
}
