package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func completeDocument() Document {
	d := Document{}
	d.SetStopPointRef("8503000")
	d.SetStopTitle("Zürich HB")
	d.SetNumberOfResults(10)
	d.SetDesiredDestinations("all")
	d.SetThreshold(3)
	apiKey := "secret"
	d.APIKey = &apiKey
	return d
}

func TestDocument_Snapshot(t *testing.T) {
	t.Run("converts a complete document", func(t *testing.T) {
		s, err := completeDocument().Snapshot()
		if err != nil {
			t.Fatal(err)
		}

		want := Snapshot{
			StopPointRef:        "8503000",
			StopTitle:           "Zürich HB",
			NumberOfResults:     10,
			DesiredDestinations: []string{"all"},
			Threshold:           3,
			APIKey:              "secret",
			EditorPort:          DefaultEditorPort,
		}

		if !reflect.DeepEqual(s, want) {
			t.Errorf("got %#v, want %#v", s, want)
		}
	})

	t.Run("accepts a negative threshold", func(t *testing.T) {
		d := completeDocument()
		d.SetThreshold(-4)

		s, err := d.Snapshot()
		if err != nil {
			t.Fatal(err)
		}

		if s.Threshold != -4 {
			t.Errorf("got threshold %d, want %d", s.Threshold, -4)
		}
	})

	t.Run("rejects a missing threshold rather than defaulting it", func(t *testing.T) {
		d := completeDocument()
		d.Threshold = nil

		if _, err := d.Snapshot(); err == nil {
			t.Error("expected an error for a missing threshold")
		}
	})

	t.Run("rejects a result count of zero", func(t *testing.T) {
		d := completeDocument()
		d.SetNumberOfResults(0)

		if _, err := d.Snapshot(); err == nil {
			t.Error("expected an error for number_of_results 0")
		}
	})

	t.Run("rejects a missing stop", func(t *testing.T) {
		d := completeDocument()
		d.StopPointRef = nil

		_, err := d.Snapshot()
		if err == nil || !strings.Contains(err.Error(), "StopPointRef") {
			t.Errorf("expected a StopPointRef validation error, got %v", err)
		}
	})

	t.Run("takes the API key from the environment", func(t *testing.T) {
		t.Setenv(APIKeyEnv, " from-env \n")
		d := completeDocument()
		d.APIKey = nil

		s, err := d.Snapshot()
		if err != nil {
			t.Fatal(err)
		}

		if s.APIKey != "from-env" {
			t.Errorf("got api key `%s`, want `%s`", s.APIKey, "from-env")
		}
	})

	t.Run("takes the API key from a file named in the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api_key")
		if err := os.WriteFile(path, []byte("from-file\n"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv(APIKeyEnv, "")
		t.Setenv(APIKeyEnv+"_FILE", path)
		d := completeDocument()
		d.APIKey = nil

		s, err := d.Snapshot()
		if err != nil {
			t.Fatal(err)
		}

		if s.APIKey != "from-file" {
			t.Errorf("got api key `%s`, want `%s`", s.APIKey, "from-file")
		}
	})

	t.Run("fails without any API key", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		t.Setenv(APIKeyEnv+"_FILE", "")
		d := completeDocument()
		d.APIKey = nil

		if _, err := d.Snapshot(); err == nil {
			t.Error("expected an error without an API key")
		}
	})

	t.Run("snapshot destinations do not alias the document", func(t *testing.T) {
		d := completeDocument()
		s, err := d.Snapshot()
		if err != nil {
			t.Fatal(err)
		}

		d.DesiredDestinations[0] = "Bern"

		if s.DesiredDestinations[0] != "all" {
			t.Error("changing the document changed the snapshot")
		}
	})
}

func TestDocument_Validate(t *testing.T) {
	t.Run("accepts a document without an API key", func(t *testing.T) {
		d := completeDocument()
		d.APIKey = nil

		if err := d.Validate(); err != nil {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("rejects a negative result count", func(t *testing.T) {
		d := completeDocument()
		d.SetNumberOfResults(-1)

		if err := d.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("rejects an editor port out of range", func(t *testing.T) {
		d := completeDocument()
		port := 70000
		d.EditorPort = &port

		if err := d.Validate(); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestSplitDestinations(t *testing.T) {
	got := SplitDestinations("Zürich, Bern ,Basel SBB")
	want := []string{"Zürich", "Bern", "Basel SBB"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}

	if JoinDestinations(got) != "Zürich,Bern,Basel SBB" {
		t.Errorf("got `%s` when joining", JoinDestinations(got))
	}
}
