package config

// DefaultEditorPort is where the configuration editor listens unless
// editor_port says otherwise.
const DefaultEditorPort = 5000

// Snapshot is the configuration one board cycle runs with. It is built fresh
// from the store at the start of each cycle and never modified afterwards.
type Snapshot struct {
	StopPointRef        string
	StopTitle           string
	NumberOfResults     int
	DesiredDestinations []string
	Threshold           int
	APIKey              string
	EditorPort          int
}

// Provider hands out configuration snapshots. The board only ever reads.
type Provider interface {
	Load() (Snapshot, error)
}

// Store is a Provider that the configuration editor can also write to.
type Store interface {
	Provider
	Document() (Document, error)
	Update(func(*Document)) error
}
