package cities

import (
	"slices"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// State is the city collection as seen by the views.
type State struct {
	Cities      []models.City
	CurrentCity models.City
	IsLoading   bool
	Error       string
}

// Clone returns a copy that shares no slice memory with s.
func (s State) Clone() State {
	s.Cities = slices.Clone(s.Cities)
	return s
}

// Reduce applies a to s and returns the next state. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Loading:
		s.IsLoading = true
		return s

	case CitiesLoaded:
		s.IsLoading = false
		s.Error = ""
		s.Cities = slices.Clone(a.Cities)
		return s

	case CityLoaded:
		s.IsLoading = false
		s.Error = ""
		s.CurrentCity = a.City
		return s

	case CityCreated:
		s.IsLoading = false
		s.Error = ""
		s.Cities = append(slices.Clone(s.Cities), a.City)
		s.CurrentCity = a.City
		return s

	case CityDeleted:
		s.IsLoading = false
		s.Error = ""
		s.Cities = slices.DeleteFunc(slices.Clone(s.Cities), func(c models.City) bool {
			return c.ID == a.ID
		})
		s.CurrentCity = models.City{}
		return s

	case Rejected:
		s.IsLoading = false
		s.Error = a.Message
		return s

	default:
		panic(ProtocolViolation{Action: a})
	}
}
