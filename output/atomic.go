package output

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// atomicFile is written under a temporary name and moved into place on commit.
type atomicFile struct {
	*os.File
	path string
	done bool
}

func createAtomic(path string) (*atomicFile, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "create output file")
	}
	return &atomicFile{File: f, path: path}, nil
}

func (f *atomicFile) commit() error {
	if f.done {
		return nil
	}
	f.done = true

	tmp := f.Name()
	if err := f.File.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "close output file")
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "chmod output file")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "move output file into place")
	}
	return nil
}

func (f *atomicFile) abort() error {
	if f.done {
		return nil
	}
	f.done = true

	f.File.Close()
	if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove partial output")
	}
	return nil
}
