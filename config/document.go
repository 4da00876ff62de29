package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Document is the stored form of the configuration. Every field is a pointer
// so that a key missing from the store can be told apart from a zero value.
type Document struct {
	StopPointRef        *string  `yaml:"stop_point_ref,omitempty" validate:"required"`
	StopTitle           *string  `yaml:"stop_title,omitempty" validate:"required"`
	NumberOfResults     *int     `yaml:"number_of_results,omitempty" validate:"required,gt=0"`
	DesiredDestinations []string `yaml:"desired_destinations,omitempty" validate:"required,min=1"`
	Threshold           *int     `yaml:"threshold,omitempty" validate:"required"`
	APIKey              *string  `yaml:"api_key,omitempty"`
	EditorPort          *int     `yaml:"editor_port,omitempty" validate:"omitempty,gt=0,lte=65535"`
}

// Snapshot validates d and converts it. The API key falls back to the
// TRIAS_API_KEY environment variable (or the file named by
// TRIAS_API_KEY_FILE) when the document does not carry one.
func (d Document) Snapshot() (Snapshot, error) {
	if err := d.Validate(); err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{
		StopPointRef:        *d.StopPointRef,
		StopTitle:           *d.StopTitle,
		NumberOfResults:     *d.NumberOfResults,
		DesiredDestinations: append([]string(nil), d.DesiredDestinations...),
		Threshold:           *d.Threshold,
		EditorPort:          DefaultEditorPort,
	}

	if d.EditorPort != nil {
		s.EditorPort = *d.EditorPort
	}

	if d.APIKey != nil && *d.APIKey != "" {
		s.APIKey = *d.APIKey
		return s, nil
	}

	apiKey, err := FromEnvironment(APIKeyEnv)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "api_key is not configured")
	}
	s.APIKey = apiKey

	return s, nil
}

// Validate checks the keys a board cycle needs. The API key is left out
// because it may come from the environment instead.
func (d Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return errors.Wrap(err, "configuration is incomplete")
	}
	return nil
}

func (d *Document) SetStopPointRef(v string) {
	d.StopPointRef = &v
}

func (d *Document) SetStopTitle(v string) {
	d.StopTitle = &v
}

func (d *Document) SetNumberOfResults(v int) {
	d.NumberOfResults = &v
}

func (d *Document) SetThreshold(v int) {
	d.Threshold = &v
}

func (d *Document) SetDesiredDestinations(csv string) {
	d.DesiredDestinations = SplitDestinations(csv)
}

// SplitDestinations turns the comma separated form the editor uses into a
// destination filter list. Surrounding spaces are dropped so that
// "Zürich, Bern" filters on "Bern" rather than " Bern".
func SplitDestinations(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// JoinDestinations is the inverse of SplitDestinations.
func JoinDestinations(destinations []string) string {
	return strings.Join(destinations, ",")
}

// StringValue dereferences v, or returns fallback for a missing key.
func StringValue(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func IntValue(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
