package cities

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// User-facing failure messages, one per operation.
const (
	msgListFailed   = "There was error in loading the data"
	msgGetFailed    = "Error Loading the Data"
	msgCreateFailed = "Error on Creating the City"
	msgDeleteFailed = "Error on Deleting the Data"
)

// StoreError describes a failed store operation. Message is what gets
// recorded in State.Error; Err is the underlying cause.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string { return e.Message }

func (e *StoreError) Unwrap() error { return e.Err }

// Store caches the city collection and keeps it in sync with a Remote.
//
// Every operation dispatches exactly one Loading action before its network
// call and exactly one terminal action after it. Operations are not
// serialized unless WithSerializedOperations is used: two in-flight calls
// apply their terminal actions in completion order.
type Store struct {
	remote Remote
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextSubID int

	// notifyMu keeps listener notifications in dispatch order.
	notifyMu sync.Mutex

	listOnce  sync.Once
	serialize bool
	opMu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSerializedOperations makes operations run one at a time.
func WithSerializedOperations() Option {
	return func(s *Store) { s.serialize = true }
}

// NewStore creates an empty store backed by remote.
func NewStore(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:    remote,
		logger:    slog.Default(),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every transition. fn
// runs on the goroutine that performed the operation and must not call store
// operations itself. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a to the store state. It is exported for hosts that
// replay transitions; the operations below are the normal entry points.
func (s *Store) Dispatch(a Action) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.Clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) begin() (end func()) {
	if !s.serialize {
		return func() {}
	}
	s.opMu.Lock()
	return s.opMu.Unlock
}

func (s *Store) reject(l *slog.Logger, op, message string, err error) *StoreError {
	l.Error("operation failed", slog.Any("error", err))
	s.Dispatch(Rejected{Message: message})
	return &StoreError{Op: op, Message: message, Err: err}
}

// ListAll loads the whole collection. It runs once per store; later calls
// return nil without touching the network.
func (s *Store) ListAll(ctx context.Context) error {
	var err error
	s.listOnce.Do(func() {
		err = s.listAll(ctx)
	})
	return err
}

func (s *Store) listAll(ctx context.Context) error {
	l := s.logger.With(slog.String("method", "ListAll"))
	defer s.begin()()

	s.Dispatch(Loading{})
	list, err := s.remote.ListCities(ctx)
	if err != nil {
		return s.reject(l, "list", msgListFailed, err)
	}

	l.Debug("cities loaded", slog.Int("count", len(list)))
	s.Dispatch(CitiesLoaded{Cities: list})
	return nil
}

// GetByID makes the city with id current. When id is already current it
// returns immediately without a network call or state change.
func (s *Store) GetByID(ctx context.Context, id models.ID) error {
	s.mu.Lock()
	current := s.state.CurrentCity.ID
	s.mu.Unlock()
	if id != "" && id == current {
		return nil
	}

	l := s.logger.With(slog.String("method", "GetByID"), slog.String("id", string(id)))
	defer s.begin()()

	s.Dispatch(Loading{})
	city, err := s.remote.GetCity(ctx, id)
	if err != nil {
		return s.reject(l, "get", msgGetFailed, err)
	}

	s.Dispatch(CityLoaded{City: city})
	return nil
}

// Create persists draft and folds the server record into the collection.
func (s *Store) Create(ctx context.Context, draft models.City) (models.City, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("city", draft.CityName))
	defer s.begin()()

	s.Dispatch(Loading{})
	created, err := s.remote.CreateCity(ctx, draft.Draft())
	if err != nil {
		return models.City{}, s.reject(l, "create", msgCreateFailed, err)
	}

	l.Info("city created", slog.String("id", string(created.ID)))
	s.Dispatch(CityCreated{City: created})
	return created, nil
}

// Delete removes the city remotely, then locally. The current city is reset
// whether or not it was the one deleted.
func (s *Store) Delete(ctx context.Context, id models.ID) error {
	l := s.logger.With(slog.String("method", "Delete"), slog.String("id", string(id)))
	defer s.begin()()

	s.Dispatch(Loading{})
	if err := s.remote.DeleteCity(ctx, id); err != nil {
		return s.reject(l, "delete", msgDeleteFailed, err)
	}

	l.Info("city deleted")
	s.Dispatch(CityDeleted{ID: id})
	return nil
}
