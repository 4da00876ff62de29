package stops

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/pkg/errors"
)

const (
	NameColumn   = "Name"
	NumberColumn = "Nummer"
)

// Stop is one autocomplete entry: the display name and the stop point
// reference to put in the configuration.
type Stop struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Directory holds the operating points list. It is read from Path, or
// downloaded from URL when Path is empty.
type Directory struct {
	Client *http.Client
	Logger *dlog.Logger
	Path   string
	URL    string

	mu    sync.RWMutex
	stops []Stop
}

func (d *Directory) Load() error {
	var (
		data []byte
		err  error
	)

	if d.Path != "" {
		d.Logger.Debugf("read stops from %s", d.Path)
		data, err = os.ReadFile(d.Path)
		if err != nil {
			return errors.Wrapf(err, "cannot read stops CSV from %s", d.Path)
		}
	} else {
		data, err = d.download()
		if err != nil {
			return err
		}
	}

	stops, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.stops = stops
	d.mu.Unlock()

	d.Logger.Printf("loaded %d stops", len(stops))

	return nil
}

func (d *Directory) download() (data []byte, err error) {
	if d.URL == "" {
		return nil, errors.New("no stops CSV path or URL configured")
	}

	d.Logger.Debugf("download stops from %s", d.URL)

	resp, err := d.Client.Get(d.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot download stops CSV from %s", d.URL)
	}

	defer func() {
		if rErr := resp.Body.Close(); rErr != nil && err == nil {
			err = errors.Wrapf(rErr, "cannot close connection to %s", d.URL)
		}
	}()

	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("error response from %s - status code %d", d.URL, resp.StatusCode)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read stops CSV in response from %s", d.URL)
	}

	return data, nil
}

// Search returns the stops whose name contains q, ignoring case. An empty q
// returns every stop.
func (d *Directory) Search(q string) []Stop {
	d.mu.RLock()
	defer d.mu.RUnlock()

	q = strings.ToLower(strings.TrimSpace(q))

	result := make([]Stop, 0)
	for _, s := range d.stops {
		if q == "" || strings.Contains(strings.ToLower(s.Label), q) {
			result = append(result, s)
		}
	}

	return result
}

// ParseCSV reads a comma separated operating points export. Only the Name
// and Nummer columns are used; their position is taken from the header.
func ParseCSV(r io.Reader) ([]Stop, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read stops CSV header")
	}

	nameIdx, numberIdx := -1, -1
	for i, column := range header {
		switch strings.TrimPrefix(strings.TrimSpace(column), "\ufeff") {
		case NameColumn:
			nameIdx = i
		case NumberColumn:
			numberIdx = i
		}
	}

	if nameIdx < 0 || numberIdx < 0 {
		return nil, errors.Errorf("stops CSV must have %s and %s columns, got %v", NameColumn, NumberColumn, header)
	}

	var stops []Stop
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read stops CSV line %d", line)
		}

		if nameIdx >= len(record) || numberIdx >= len(record) {
			continue
		}

		stops = append(stops, Stop{
			Label: record[nameIdx],
			Value: record[numberIdx],
		})
	}

	return stops, nil
}
