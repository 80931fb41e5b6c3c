/*
Package glitchpack builds the assets of a tile based browser game: it compiles
the tile style images into an embeddable manifest and packages and publishes
releases.
*/
package glitchpack

import (
	"context"
	"io"
	"log"

	"github.com/klaim/glitchpack/atlas"
	"github.com/klaim/glitchpack/release"
	"github.com/klaim/glitchpack/style"
)

// Config holds everything both pipelines need.
type Config struct {
	// TileDir is the directory holding one image per style
	TileDir string
	// Prefix is prepended to each style code to form the image filename
	Prefix string
	// Name is the identifier the manifest is assigned to
	Name string
	// Wrapper is the runtime function each payload is passed to
	Wrapper string

	Release release.Config
}

// DefaultConfig returns the configuration of the Hard Glitch build.
func DefaultConfig() Config {
	return Config{
		TileDir: ".",
		Prefix:  atlas.DefaultPrefix,
		Name:    atlas.DefaultName,
		Wrapper: atlas.DefaultWrapper,
		Release: release.DefaultConfig(),
	}
}

type Packer struct {
	config Config
	logger *log.Logger
}

func New(config Config, logger *log.Logger) *Packer {
	return &Packer{
		config: config,
		logger: logger,
	}
}

// Compile builds the manifest of every style in the taxonomy.
func (p *Packer) Compile() (*atlas.Manifest, error) {
	p.logger.Printf("path: %s\n", p.config.TileDir)

	m, err := atlas.Compile(p.config.TileDir, p.config.Prefix, style.All())
	if err != nil {
		return nil, err
	}
	m.Name = p.config.Name
	m.Wrapper = p.config.Wrapper

	p.logger.Printf("compiled %d styles\n", m.Len())

	return m, nil
}

// Tiles compiles the manifest and writes its text form to w. Nothing is
// written if the compile fails.
func (p *Packer) Tiles(w io.Writer) error {
	m, err := p.Compile()
	if err != nil {
		return err
	}

	b, err := m.MarshalText()
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}

// Verify checks that the manifest in file matches the current images.
func (p *Packer) Verify(file string) error {
	p.logger.Printf("verifying %s against %s\n", file, p.config.TileDir)
	return atlas.VerifyFile(file, p.config.TileDir, p.config.Prefix, style.All())
}

// Version returns the version the next release would be published as.
func (p *Packer) Version() (string, error) {
	pl := release.Pipeline{Config: p.config.Release}
	return release.ReadVersion(pl.VersionPath())
}

// Publish runs the release pipeline with e. The ledger may be nil.
func (p *Packer) Publish(ctx context.Context, e release.Executor, ledger *release.Ledger) (*release.Result, error) {
	pl := &release.Pipeline{
		Config:   p.config.Release,
		Executor: e,
		Ledger:   ledger,
		Logger:   p.logger,
	}
	return pl.Run(ctx)
}
