package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ID identifies a persisted city. Backends emit it either as a JSON string or
// as a JSON number, so both forms decode into the same value.
type ID string

// UnmarshalJSON accepts `"abc"`, `7` and `null`.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("city id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Position is the point the user picked on the map.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the position the way the form asks for it.
func (p Position) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lng)
}

// ParsePosition converts the lat/lng pair carried from the map click. Both
// values must be present.
func ParsePosition(lat, lng string) (Position, error) {
	lat = strings.TrimSpace(lat)
	lng = strings.TrimSpace(lng)
	if lat == "" || lng == "" {
		return Position{}, fmt.Errorf("both latitude and longitude are required")
	}

	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Position{}, fmt.Errorf("parsing latitude: %w", err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Position{}, fmt.Errorf("parsing longitude: %w", err)
	}
	if !inRange(la, 90) {
		return Position{}, fmt.Errorf("latitude %s is out of range", lat)
	}
	if !inRange(ln, 180) {
		return Position{}, fmt.Errorf("longitude %s is out of range", lng)
	}

	return Position{Lat: la, Lng: ln}, nil
}

// inRange reports whether v is a finite value within [-limit, limit].
func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

// City is a visit record. A City without an ID is a draft that has not been
// persisted yet.
type City struct {
	ID       ID        `json:"id,omitempty"`
	CityName string    `json:"cityName"`
	Country  string    `json:"country"`
	Emoji    string    `json:"emoji"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes"`
	Position Position  `json:"position"`
}

// IsZero reports whether c is the empty "no current city" value.
func (c City) IsZero() bool {
	return c.ID == "" && c.CityName == "" && c.Date.IsZero()
}

// Draft returns a copy of c with the server-assigned id removed.
func (c City) Draft() City {
	c.ID = ""
	return c
}
