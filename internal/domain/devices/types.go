package devices

import "time"

// Device is a registered IoT device row.
type Device struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Location    string    `json:"location,omitempty"`
	IsOnline    bool      `json:"isOnline"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	LastUpdate  time.Time `json:"lastUpdate"`
	CreatedAt   time.Time `json:"createdAt"`

	// Live reports whether the displayed temperature/humidity came from the
	// telemetry poller rather than the stored row.
	Live bool `json:"live"`
}

// CreateRequest is the payload for registering a device.
type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Location string `json:"location"`
}
