package cities

import (
	"fmt"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// Action is a state transition understood by Reduce. The set is closed: only
// the types in this file implement it.
type Action interface {
	isAction()
}

// Loading marks the start of a network operation.
type Loading struct{}

// CitiesLoaded replaces the collection with the remote list.
type CitiesLoaded struct {
	Cities []models.City
}

// CityLoaded sets the current city.
type CityLoaded struct {
	City models.City
}

// CityCreated appends a server-confirmed city and makes it current.
type CityCreated struct {
	City models.City
}

// CityDeleted removes the city with the given id.
type CityDeleted struct {
	ID models.ID
}

// Rejected records a failed operation.
type Rejected struct {
	Message string
}

func (Loading) isAction()      {}
func (CitiesLoaded) isAction() {}
func (CityLoaded) isAction()   {}
func (CityCreated) isAction()  {}
func (CityDeleted) isAction()  {}
func (Rejected) isAction()     {}

// ProtocolViolation is the panic value raised when Reduce receives an action
// it does not know. It signals a programming error, never a runtime condition.
type ProtocolViolation struct {
	Action Action
}

func (p ProtocolViolation) Error() string {
	return fmt.Sprintf("cities: unknown action type %T", p.Action)
}
