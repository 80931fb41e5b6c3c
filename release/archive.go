package release

import (
	"archive/zip"
	"crypto/sha1"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
)

// ArchiveInfo describes an archive written by CreateArchive.
type ArchiveInfo struct {
	Path    string
	Members []string
	SHA1    string
	Size    int64
}

type archiver struct {
	zw      *zip.Writer
	root    string
	logger  *log.Logger
	seen    map[string]bool
	members []string

	// skip is the archive being written, when it lives on disk
	skip os.FileInfo
}

func (a *archiver) addFile(file, name string, info os.FileInfo) error {
	if a.seen[name] {
		return nil
	}
	if a.skip != nil && os.SameFile(info, a.skip) {
		return nil
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	fh, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	fh.Name = name
	fh.Method = zip.Deflate

	w, err := a.zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		return err
	}

	a.logger.Printf("archiving: %s\n", name)
	a.seen[name] = true
	a.members = append(a.members, name)

	return nil
}

func (a *archiver) add(declared string) error {
	path := filepath.Join(a.root, filepath.FromSlash(declared))

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingResource, declared)
		}
		return err
	}

	rel, err := filepath.Rel(a.root, path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return a.addFile(path, filepath.ToSlash(rel), info)
	}

	// A declared directory may itself be a link; walk its target but name
	// members after the declared path
	dir, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}

	return filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Follow links to files, but never into directories
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(file)
			if err != nil {
				return err
			}
			info = target
		}

		// Ignore anything that isn't a normal file
		if !info.Mode().IsRegular() {
			return nil
		}

		sub, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}

		return a.addFile(file, filepath.ToSlash(filepath.Join(rel, sub)), info)
	})
}

func writeArchive(w io.Writer, root string, files []string, logger *log.Logger, skip os.FileInfo) ([]string, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	a := archiver{
		zw:     zip.NewWriter(w),
		root:   root,
		logger: logger,
		seen:   make(map[string]bool),
		skip:   skip,
	}

	for _, declared := range files {
		if err := a.add(declared); err != nil {
			return nil, err
		}
	}

	if err := a.zw.Close(); err != nil {
		return nil, err
	}

	return a.members, nil
}

// Archive writes a zip archive to w holding every declared file, and every
// regular file below every declared directory. Declared paths are relative to
// root and members are named by their slash-separated path relative to root.
// The member names are returned in the order they were written.
func Archive(w io.Writer, root string, files []string, logger *log.Logger) ([]string, error) {
	return writeArchive(w, root, files, logger, nil)
}

// CreateArchive writes the archive to file. The archive never contains
// itself, even when file is inside a declared directory. On failure the
// partial file is removed.
func CreateArchive(file, root string, files []string, logger *log.Logger) (info *ArchiveInfo, err error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			info = nil
			os.Remove(file)
		}
	}()

	self, err := f.Stat()
	if err != nil {
		return nil, err
	}

	h := sha1.New()
	cw := &countingWriter{w: io.MultiWriter(f, h)}

	members, err := writeArchive(cw, root, files, logger, self)
	if err != nil {
		return nil, err
	}

	return &ArchiveInfo{
		Path:    file,
		Members: members,
		SHA1:    fmt.Sprintf("%X", h.Sum(nil)),
		Size:    cw.n,
	}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
