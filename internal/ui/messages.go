package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/travel-terminal/internal/cities"
	"github.com/ngmaloney/travel-terminal/internal/geocoding"
	"github.com/ngmaloney/travel-terminal/internal/models"
	"github.com/ngmaloney/travel-terminal/internal/visit"
)

// Message types for async operations

// storeUpdatedMsg carries a store snapshot pushed by Store.Subscribe
type storeUpdatedMsg struct {
	state cities.State
}

// StoreUpdated wraps a store snapshot so it can be sent into the program:
//
//	store.Subscribe(func(s cities.State) { p.Send(ui.StoreUpdated(s)) })
func StoreUpdated(s cities.State) tea.Msg {
	return storeUpdatedMsg{state: s}
}

// storeOp names the store operation that finished
type storeOp int

const (
	opList storeOp = iota
	opGet
	opDelete
)

// storeOpDoneMsg is sent when a store operation returns
type storeOpDoneMsg struct {
	op  storeOp
	err error
}

// geocodedMsg is sent when the reverse lookup for a visit attempt completes
type geocodedMsg struct {
	attempt int
	result  *geocoding.Result
	err     error
}

// submittedMsg is sent when the visit for an attempt has been created
type submittedMsg struct {
	attempt int
	city    models.City
	err     error
}

// loadCities loads the collection once per store
func loadCities(store *cities.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := store.ListAll(ctx)
		return storeOpDoneMsg{op: opList, err: err}
	}
}

// fetchCity makes a city current
func fetchCity(store *cities.Store, id models.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := store.GetByID(ctx, id)
		return storeOpDoneMsg{op: opGet, err: err}
	}
}

// deleteCity removes a city
func deleteCity(store *cities.Store, id models.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := store.Delete(ctx, id)
		return storeOpDoneMsg{op: opDelete, err: err}
	}
}

// geocodePosition performs the reverse lookup in the background
func geocodePosition(geocoder visit.Geocoder, attempt int, pos models.Position) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		result, err := geocoder.Lookup(ctx, pos.Lat, pos.Lng)
		return geocodedMsg{attempt: attempt, result: result, err: err}
	}
}

// submitVisit persists a draft through the store
func submitVisit(store *cities.Store, attempt int, draft models.City) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		city, err := store.Create(ctx, draft)
		return submittedMsg{attempt: attempt, city: city, err: err}
	}
}
