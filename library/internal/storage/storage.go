// Package storage keeps uploaded asset images on local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

// reserveAttempts bounds how many later millisecond stamps Save tries when
// a name is already taken.
const reserveAttempts = 100

type FileStore struct {
	dir string
	now func() time.Time
}

func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Save writes r under the name asset-<unix millis>-<original base name>.
// Data goes to a temp file first and is renamed into place after fsync.
// An existing file is never replaced: a taken name moves the stamp forward.
func (fs *FileStore) Save(r io.Reader, originalName string) (model.UploadedFile, error) {
	f, err := os.CreateTemp(fs.dir, ".upload-*")
	if err != nil {
		return model.UploadedFile{}, errors.Wrap(err, "create temp file")
	}
	tmpPath := f.Name()

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return model.UploadedFile{}, errors.Wrap(err, "write upload")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return model.UploadedFile{}, errors.Wrap(err, "fsync upload")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return model.UploadedFile{}, errors.Wrap(err, "close upload")
	}

	name, fullPath, err := fs.reserve(cleanName(originalName))
	if err != nil {
		os.Remove(tmpPath)
		return model.UploadedFile{}, err
	}
	// the reserved placeholder is ours, so replacing it is safe
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		os.Remove(fullPath)
		return model.UploadedFile{}, errors.Wrap(err, "rename upload")
	}

	return model.UploadedFile{Filename: name, Path: fullPath}, nil
}

// reserve claims a free asset-<millis>-<base> name by creating an empty file
// with O_EXCL.
func (fs *FileStore) reserve(base string) (string, string, error) {
	ms := fs.now().UnixMilli()
	for i := int64(0); i < reserveAttempts; i++ {
		name := fmt.Sprintf("asset-%d-%s", ms+i, base)
		fullPath := filepath.Join(fs.dir, name)
		f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", "", errors.Wrapf(err, "reserve %s", name)
		}
		if err := f.Close(); err != nil {
			os.Remove(fullPath)
			return "", "", errors.Wrapf(err, "reserve %s", name)
		}
		return name, fullPath, nil
	}
	return "", "", errors.Errorf("no free name for %s after %d attempts", base, reserveAttempts)
}

// Delete removes a stored file. A missing file is not an error.
func (fs *FileStore) Delete(name string) error {
	err := os.Remove(filepath.Join(fs.dir, cleanName(name)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %s", name)
	}
	return nil
}

// Path resolves a stored file name to its location on disk.
func (fs *FileStore) Path(name string) (string, error) {
	name = cleanName(name)
	if name == "" {
		return "", errors.Wrap(errs.ErrNotFound, "image")
	}
	fullPath := filepath.Join(fs.dir, name)
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(errs.ErrNotFound, "image %s", name)
		}
		return "", errors.Wrapf(err, "stat %s", name)
	}
	if info.IsDir() {
		return "", errors.Wrapf(errs.ErrNotFound, "image %s", name)
	}
	return fullPath, nil
}

func (fs *FileStore) Dir() string {
	return fs.dir
}

// cleanName strips any directory part so names cannot escape the store.
func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
