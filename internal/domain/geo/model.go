package geo

// Place is a resolved city identity with coordinates. It is ephemeral and
// immutable once produced.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
}
