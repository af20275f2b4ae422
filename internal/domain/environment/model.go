package environment

import "time"

// Reading is a temperature/humidity/PM2.5 snapshot for a place. When Valid is
// false the numeric fields are zeroed and must not be presented as real data.
type Reading struct {
	Temperature int    `json:"temperature"`
	Humidity    int    `json:"humidity"`
	PM25        int    `json:"pm25"`
	Valid       bool   `json:"valid"`
	CityName    string `json:"cityName,omitempty"`
	Country     string `json:"country,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// StoredReading is the last good reading persisted per city, last-write-wins.
type StoredReading struct {
	City        string    `json:"city"`
	Temperature int       `json:"temperature"`
	Humidity    int       `json:"humidity"`
	PM25        int       `json:"pm25"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TrendingCity ranks cities by how often they were queried.
type TrendingCity struct {
	Name    string `json:"name"`
	Queries int64  `json:"queries"`
}
