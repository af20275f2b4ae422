package telemetry

// Field marks which stored device fields a live reading may replace.
type Field int

const (
	FieldTemperature Field = iota
	FieldHumidity
)

// overlayRules is the precedence table for merging the live reading onto a
// stored device record, keyed by device type. Types not listed always show
// their stored values. The stored timestamp is never replaced.
var overlayRules = map[string][]Field{
	"sensor":     {FieldTemperature, FieldHumidity},
	"humidifier": {FieldHumidity},
}

// OverlayFields returns which fields of the given device type are overridden
// by the live reading.
func OverlayFields(deviceType string) []Field {
	return overlayRules[deviceType]
}

// Overlay applies the live reading to a stored temperature/humidity pair
// according to the precedence table. Nil reading leaves the stored values
// untouched.
func Overlay(deviceType string, storedTemp, storedHum *float64, live *Reading) (*float64, *float64) {
	if live == nil {
		return storedTemp, storedHum
	}
	temp, hum := storedTemp, storedHum
	for _, field := range overlayRules[deviceType] {
		switch field {
		case FieldTemperature:
			v := live.Temperature
			temp = &v
		case FieldHumidity:
			v := live.Humidity
			hum = &v
		}
	}
	return temp, hum
}
