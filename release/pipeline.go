package release

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
	"time"
)

// Result records what a release run did.
type Result struct {
	Project    string
	Version    string
	Target     string
	Archive    *ArchiveInfo
	// PushCode and StatusCode are the tool's exit statuses, NotRun for a
	// step that never started
	PushCode   int
	StatusCode int
	Created    time.Time
}

// NotRun is the exit status recorded for a publishing step that did not run.
const NotRun = -1

// Pipeline runs a release. Ledger is optional.
type Pipeline struct {
	Config   Config
	Executor Executor
	Ledger   *Ledger
	Logger   *log.Logger
}

func (p *Pipeline) outputDir() string {
	switch {
	case p.Config.OutputDir == "":
		return p.Config.Root
	case filepath.IsAbs(p.Config.OutputDir):
		return p.Config.OutputDir
	default:
		return filepath.Join(p.Config.Root, p.Config.OutputDir)
	}
}

// VersionPath returns the location of the version file.
func (p *Pipeline) VersionPath() string {
	return filepath.Join(p.Config.Root, filepath.FromSlash(p.Config.VersionFile))
}

func (p *Pipeline) call(ctx context.Context, args ...string) (int, error) {
	p.Logger.Printf("%s command: %s %s\n", args[0], p.Config.Tool, strings.Join(args, " "))
	code, err := p.Executor.Run(ctx, args...)
	if err != nil {
		return code, fmt.Errorf("release: %s: %w", args[0], err)
	}
	if code != 0 {
		p.Logger.Printf("%s exited with status %d\n", args[0], code)
		if p.Config.Strict {
			return code, fmt.Errorf("%w: %s exited with status %d", ErrExternalTool, args[0], code)
		}
	}
	return code, nil
}

func (p *Pipeline) publish(ctx context.Context, r *Result) error {
	var err error
	if r.PushCode, err = p.call(ctx, "push", r.Archive.Path, r.Target, "--userversion", r.Version); err != nil {
		return err
	}
	if r.StatusCode, err = p.call(ctx, "status", r.Target); err != nil {
		return err
	}
	return nil
}

// Run extracts the version, builds the archive, pushes it and asks for the
// status of the target, in that order. Unless Config.Strict is set a non-zero
// exit status from the tool is logged and the run carries on. Once the
// archive exists the run is recorded in the ledger, even if publishing
// failed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	if p.Logger == nil {
		p.Logger = log.New(ioutil.Discard, "", 0)
	}

	version, err := ReadVersion(p.VersionPath())
	if err != nil {
		return nil, err
	}
	p.Logger.Printf("version: %s\n", version)

	file := filepath.Join(p.outputDir(), ArchiveName(p.Config.Project, version))
	p.Logger.Printf("archive file: %s\n", file)

	archive, err := CreateArchive(file, p.Config.Root, p.Config.Files, p.Logger)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Project:    p.Config.Project,
		Version:    version,
		Target:     p.Config.Target(),
		Archive:    archive,
		PushCode:   NotRun,
		StatusCode: NotRun,
		Created:    time.Now(),
	}

	err = p.publish(ctx, r)

	if p.Ledger != nil {
		if _, lerr := p.Ledger.Record(r); lerr != nil && err == nil {
			err = lerr
		}
	}

	if err != nil {
		return r, err
	}

	p.Logger.Println("all done!")

	return r, nil
}
