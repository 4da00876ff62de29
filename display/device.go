package display

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/pkg/errors"
)

const (
	Width  = 250
	Height = 122
)

// Device is the panel the board draws on. Acquire powers it up, Release
// clears it and powers it down. Both are safe to call more than once.
type Device interface {
	Acquire() error
	Clear() error
	Push(img image.Image) error
	Release() error
}

// PNGDevice stands in for a panel by writing every pushed frame to Path.
type PNGDevice struct {
	Logger *dlog.Logger
	Path   string

	mu       sync.Mutex
	acquired bool
}

func (d *PNGDevice) Acquire() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.acquired {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
		return errors.Wrapf(err, "cannot create directory for %s", d.Path)
	}

	d.acquired = true
	d.Logger.Debugf("acquired PNG device at %s", d.Path)

	return nil
}

func (d *PNGDevice) Clear() error {
	return d.Push(NewCanvas())
}

func (d *PNGDevice) Push(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.acquired {
		return errors.New("display device not acquired")
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return errors.Wrap(err, "cannot encode frame")
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.Path), ".frame-*.png")
	if err != nil {
		return errors.Wrapf(err, "cannot write frame to %s", d.Path)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "cannot write frame to %s", tmp.Name())
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "cannot write frame to %s", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "cannot replace %s", d.Path)
	}

	d.Logger.Debugf("frame saved to %s", d.Path)

	return nil
}

func (d *PNGDevice) Release() error {
	d.mu.Lock()
	acquired := d.acquired
	d.mu.Unlock()

	if !acquired {
		return nil
	}

	err := d.Clear()

	d.mu.Lock()
	d.acquired = false
	d.mu.Unlock()

	return err
}
