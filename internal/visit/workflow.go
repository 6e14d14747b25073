// Package visit turns a picked map position into a persisted city visit.
//
// A Workflow moves through Idle, Geocoding, ReadyToSubmit, Submitting and
// Done, with Failed reachable from Geocoding and Submitting. Network work is
// split in two halves (Begin*/Resolve*) so an event loop can run the call on
// its own goroutine and apply the result later; Geocode and Submit combine
// both halves for blocking callers.
package visit

import (
	"context"
	"errors"
	"time"

	"github.com/ngmaloney/travel-terminal/internal/geocoding"
	"github.com/ngmaloney/travel-terminal/internal/models"
)

// Phase is the workflow state.
type Phase int

const (
	PhaseIdle          Phase = iota // No position yet
	PhaseGeocoding                  // Lookup in flight
	PhaseReadyToSubmit              // Draft editable
	PhaseSubmitting                 // Create in flight
	PhaseDone                       // Persisted; host navigates to the list
	PhaseFailed                     // Geocoding or submission failed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGeocoding:
		return "geocoding"
	case PhaseReadyToSubmit:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// ErrWrongPhase is returned when a step is invoked out of order.
var ErrWrongPhase = errors.New("visit: step not allowed in current phase")

// Geocoder resolves a position into a city and country.
type Geocoder interface {
	Lookup(ctx context.Context, lat, lng float64) (*geocoding.Result, error)
}

// Creator persists a draft and returns the stored record.
type Creator interface {
	Create(ctx context.Context, draft models.City) (models.City, error)
}

// Workflow is a single visit submission attempt. It is not safe for
// concurrent use; the host owns it from one goroutine.
type Workflow struct {
	phase    Phase
	position models.Position

	cityName string
	country  string
	emoji    string
	date     time.Time
	notes    string

	err     string
	created models.City

	now func() time.Time
}

// New returns an idle workflow.
func New() *Workflow {
	return &Workflow{now: time.Now}
}

// Phase returns the current phase.
func (w *Workflow) Phase() Phase { return w.phase }

// Position returns the picked position. It is meaningful once Start was called.
func (w *Workflow) Position() models.Position { return w.position }

// CityName returns the editable city name.
func (w *Workflow) CityName() string { return w.cityName }

// Country returns the geocoded country name.
func (w *Workflow) Country() string { return w.country }

// Emoji returns the flag for the geocoded country.
func (w *Workflow) Emoji() string { return w.emoji }

// Date returns the visit date; zero means missing.
func (w *Workflow) Date() time.Time { return w.date }

// Notes returns the free-text notes.
func (w *Workflow) Notes() string { return w.notes }

// Err returns the failure message shown in PhaseFailed.
func (w *Workflow) Err() string { return w.err }

// Created returns the persisted record once the workflow is Done.
func (w *Workflow) Created() models.City { return w.created }

// Start records the picked position and enters Geocoding. Any previous draft
// is discarded and the date defaults to now.
func (w *Workflow) Start(pos models.Position) error {
	if w.phase == PhaseGeocoding || w.phase == PhaseSubmitting {
		return ErrWrongPhase
	}
	*w = Workflow{
		phase:    PhaseGeocoding,
		position: pos,
		date:     w.now(),
		now:      w.now,
	}
	return nil
}

// ResolveGeocode applies the outcome of the lookup started by Start.
func (w *Workflow) ResolveGeocode(res *geocoding.Result, err error) error {
	if w.phase != PhaseGeocoding {
		return ErrWrongPhase
	}
	if err != nil {
		w.fail(err)
		return nil
	}
	if res == nil {
		w.fail(geocoding.ErrNotACity)
		return nil
	}

	emoji, err := models.FlagEmoji(res.CountryCode)
	if err != nil {
		w.fail(err)
		return nil
	}

	w.cityName = firstNonEmpty(res.City, res.Locality)
	w.country = res.CountryName
	w.emoji = emoji
	w.phase = PhaseReadyToSubmit
	return nil
}

// Geocode runs the lookup for the started position and applies the result.
// A lookup failure is returned as well as recorded.
func (w *Workflow) Geocode(ctx context.Context, g Geocoder) error {
	if w.phase != PhaseGeocoding {
		return ErrWrongPhase
	}
	res, err := g.Lookup(ctx, w.position.Lat, w.position.Lng)
	if rerr := w.ResolveGeocode(res, err); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	if w.phase == PhaseFailed {
		return errors.New(w.err)
	}
	return nil
}

// SetCityName edits the draft. It reports whether the edit was applied.
func (w *Workflow) SetCityName(name string) bool {
	if w.phase != PhaseReadyToSubmit {
		return false
	}
	w.cityName = name
	return true
}

// SetDate edits the draft. A zero time marks the date as missing.
func (w *Workflow) SetDate(d time.Time) bool {
	if w.phase != PhaseReadyToSubmit {
		return false
	}
	w.date = d
	return true
}

// SetNotes edits the draft.
func (w *Workflow) SetNotes(notes string) bool {
	if w.phase != PhaseReadyToSubmit {
		return false
	}
	w.notes = notes
	return true
}

// Draft assembles the record that would be submitted.
func (w *Workflow) Draft() models.City {
	return models.City{
		CityName: w.cityName,
		Country:  w.country,
		Emoji:    w.emoji,
		Date:     w.date,
		Notes:    w.notes,
		Position: w.position,
	}
}

// BeginSubmit enters Submitting and returns the draft to persist. With an
// empty city name or a missing date it does nothing and returns false.
func (w *Workflow) BeginSubmit() (models.City, bool) {
	if w.phase != PhaseReadyToSubmit || w.cityName == "" || w.date.IsZero() {
		return models.City{}, false
	}
	w.phase = PhaseSubmitting
	return w.Draft(), true
}

// ResolveSubmit applies the outcome of the create started by BeginSubmit.
func (w *Workflow) ResolveSubmit(created models.City, err error) error {
	if w.phase != PhaseSubmitting {
		return ErrWrongPhase
	}
	if err != nil {
		w.fail(err)
		return nil
	}
	w.created = created
	w.phase = PhaseDone
	return nil
}

// Submit persists the draft through c. It returns false when the submission
// guard rejected the draft, and the create error when persisting failed.
func (w *Workflow) Submit(ctx context.Context, c Creator) (bool, error) {
	draft, ok := w.BeginSubmit()
	if !ok {
		return false, nil
	}
	created, err := c.Create(ctx, draft)
	if rerr := w.ResolveSubmit(created, err); rerr != nil {
		return true, rerr
	}
	return true, err
}

func (w *Workflow) fail(err error) {
	w.err = err.Error()
	w.phase = PhaseFailed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
