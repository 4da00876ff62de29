package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultFileMode os.FileMode = 0644

// FileStore keeps the configuration in a YAML file on the device.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Document reads the raw document. A missing file is reported with an error
// for which IsNotExist is true.
func (f *FileStore) Document() (Document, error) {
	doc := Document{}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return doc, errors.Wrapf(err, "cannot read configuration file `%s`", f.Path)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrapf(err, "cannot parse configuration file `%s`", f.Path)
	}

	return doc, nil
}

func (f *FileStore) Load() (Snapshot, error) {
	doc, err := f.Document()
	if err != nil {
		return Snapshot{}, err
	}

	s, err := doc.Snapshot()
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "invalid configuration file `%s`", f.Path)
	}

	return s, nil
}

// Update applies fn to the stored document and writes it back. The file is
// replaced atomically so a board reading concurrently sees either the old or
// the new configuration, never a partial one.
func (f *FileStore) Update(fn func(*Document)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.Document()
	if err != nil && !IsNotExist(err) {
		return err
	}

	fn(&doc)

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.Wrap(err, "cannot marshal configuration")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".config-*.yml")
	if err != nil {
		return errors.Wrap(err, "cannot create temporary configuration file")
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(f.fileMode()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "cannot set mode of `%s`", tmp.Name())
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "cannot write `%s`", tmp.Name())
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close `%s`", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return errors.Wrapf(err, "cannot replace configuration file `%s`", f.Path)
	}

	return nil
}

// fileMode keeps the mode of the file being replaced. The board and the
// editor may run as different users, so a new file is world readable.
func (f *FileStore) fileMode() os.FileMode {
	if fi, err := os.Stat(f.Path); err == nil {
		return fi.Mode().Perm()
	}
	return defaultFileMode
}

func IsNotExist(err error) bool {
	return os.IsNotExist(errors.Cause(err))
}
