package telemetry

// Reading is one live sample from the remote device endpoint.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
}

// Snapshot is the continuously updated poller state. On a failed poll Data
// keeps the last good reading while Error carries the failure message.
type Snapshot struct {
	Data    *Reading `json:"data"`
	Loading bool     `json:"loading"`
	Error   string   `json:"error,omitempty"`
}
