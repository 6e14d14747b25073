package cities

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"reflect"
	"testing"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// fakeRemote is an in-memory Remote that counts calls and can block a call
// until the test releases it.
type fakeRemote struct {
	mu     sync.Mutex
	cities []models.City
	nextID int
	calls  map[string]int
	err    error

	started chan string
	release map[models.ID]chan struct{}
}

func newFakeRemote(cities ...models.City) *fakeRemote {
	return &fakeRemote{
		cities: cities,
		nextID: 100,
		calls:  make(map[string]int),
	}
}

func (f *fakeRemote) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.err
}

func (f *fakeRemote) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) ListCities(ctx context.Context) ([]models.City, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.City(nil), f.cities...), nil
}

func (f *fakeRemote) GetCity(ctx context.Context, id models.ID) (models.City, error) {
	if err := f.record("get"); err != nil {
		return models.City{}, err
	}
	if f.started != nil {
		f.started <- string(id)
		<-f.release[id]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cities {
		if c.ID == id {
			return c, nil
		}
	}
	return models.City{}, fmt.Errorf("city %s not found", id)
}

func (f *fakeRemote) CreateCity(ctx context.Context, draft models.City) (models.City, error) {
	if err := f.record("create"); err != nil {
		return models.City{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	draft.ID = models.ID(fmt.Sprint(f.nextID))
	f.cities = append(f.cities, draft)
	return draft, nil
}

func (f *fakeRemote) DeleteCity(ctx context.Context, id models.ID) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.cities {
		if c.ID == id {
			f.cities = append(f.cities[:i], f.cities[i+1:]...)
			break
		}
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordTransitions captures IsLoading after every dispatched action.
func recordTransitions(s *Store) *[]bool {
	var mu sync.Mutex
	seen := []bool{}
	s.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st.IsLoading)
		mu.Unlock()
	})
	return &seen
}

func TestStore_ListAll(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	seen := recordTransitions(store)

	if err := store.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	st := store.State()
	if len(st.Cities) != 3 {
		t.Errorf("Cities = %d, want 3", len(st.Cities))
	}
	if st.IsLoading || st.Error != "" {
		t.Errorf("IsLoading = %v, Error = %q; want false, empty", st.IsLoading, st.Error)
	}
	if !reflect.DeepEqual(*seen, []bool{true, false}) {
		t.Errorf("loading transitions = %v, want [true false]", *seen)
	}

	if err := store.ListAll(context.Background()); err != nil {
		t.Fatalf("second ListAll() error = %v", err)
	}
	if got := remote.callCount("list"); got != 1 {
		t.Errorf("list calls = %d, want 1", got)
	}
}

func TestStore_ListAll_Failure(t *testing.T) {
	remote := newFakeRemote()
	remote.err = errors.New("connection refused")
	store := NewStore(remote, WithLogger(quietLogger()))

	err := store.ListAll(context.Background())

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("ListAll() error = %v, want *StoreError", err)
	}
	if storeErr.Op != "list" {
		t.Errorf("Op = %q, want list", storeErr.Op)
	}

	st := store.State()
	if st.Error != "There was error in loading the data" {
		t.Errorf("Error = %q", st.Error)
	}
	if len(st.Cities) != 0 || st.IsLoading {
		t.Errorf("Cities = %d, IsLoading = %v; want 0, false", len(st.Cities), st.IsLoading)
	}
}

func TestStore_Create(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	if err := store.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	seen := recordTransitions(store)

	draft := models.City{
		ID:       "client-side-id",
		CityName: "Paris",
		Country:  "France",
		Emoji:    "🇫🇷",
		Notes:    "Great trip",
		Position: models.Position{Lat: 48.85, Lng: 2.35},
	}
	created, err := store.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID != "101" {
		t.Errorf("created.ID = %q, want server-assigned 101", created.ID)
	}

	st := store.State()
	if len(st.Cities) != 4 {
		t.Fatalf("Cities = %d, want 4", len(st.Cities))
	}
	if st.Cities[3] != created {
		t.Errorf("last city = %+v, want %+v", st.Cities[3], created)
	}
	if st.CurrentCity != created {
		t.Errorf("CurrentCity = %+v, want %+v", st.CurrentCity, created)
	}
	if st.IsLoading {
		t.Error("IsLoading should be false after create")
	}
	if !reflect.DeepEqual(*seen, []bool{true, false}) {
		t.Errorf("loading transitions = %v, want [true false]", *seen)
	}
}

func TestStore_Create_Failure(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	if err := store.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	remote.err = errors.New("status 500")
	_, err := store.Create(context.Background(), models.City{CityName: "Paris"})
	if err == nil || err.Error() != "Error on Creating the City" {
		t.Fatalf("Create() error = %v, want Error on Creating the City", err)
	}

	st := store.State()
	if len(st.Cities) != 3 {
		t.Errorf("Cities = %d, want 3", len(st.Cities))
	}
	if st.Error != "Error on Creating the City" || st.IsLoading {
		t.Errorf("Error = %q, IsLoading = %v", st.Error, st.IsLoading)
	}
}

func TestStore_Delete_ResetsCurrentCity(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	ctx := context.Background()
	if err := store.ListAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.GetByID(ctx, "1"); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, "2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	st := store.State()
	for _, c := range st.Cities {
		if c.ID == "2" {
			t.Error("city 2 still present after delete")
		}
	}
	if len(st.Cities) != 2 {
		t.Errorf("Cities = %d, want 2", len(st.Cities))
	}
	// Reset even though a different city was current
	if !st.CurrentCity.IsZero() {
		t.Errorf("CurrentCity = %+v, want zero", st.CurrentCity)
	}
	if st.IsLoading {
		t.Error("IsLoading should be false after delete")
	}
}

func TestStore_Delete_Failure(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	ctx := context.Background()
	if err := store.ListAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.GetByID(ctx, "3"); err != nil {
		t.Fatal(err)
	}

	remote.err = errors.New("timeout")
	if err := store.Delete(ctx, "3"); err == nil {
		t.Fatal("Delete() should fail")
	}

	st := store.State()
	if len(st.Cities) != 3 {
		t.Errorf("Cities = %d, want 3", len(st.Cities))
	}
	if st.CurrentCity.ID != "3" {
		t.Errorf("CurrentCity.ID = %q, want 3", st.CurrentCity.ID)
	}
	if st.Error != "Error on Deleting the Data" {
		t.Errorf("Error = %q", st.Error)
	}
}

func TestStore_GetByID_CurrentShortCircuits(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	ctx := context.Background()
	if err := store.GetByID(ctx, "2"); err != nil {
		t.Fatal(err)
	}

	before := store.State()
	seen := recordTransitions(store)

	if err := store.GetByID(ctx, "2"); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got := remote.callCount("get"); got != 1 {
		t.Errorf("get calls = %d, want 1", got)
	}
	if len(*seen) != 0 {
		t.Errorf("transitions = %v, want none", *seen)
	}
	if !reflect.DeepEqual(before, store.State()) {
		t.Errorf("state changed: %+v -> %+v", before, store.State())
	}
}

func TestStore_GetByID_Failure(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	store := NewStore(remote, WithLogger(quietLogger()))
	ctx := context.Background()
	if err := store.GetByID(ctx, "1"); err != nil {
		t.Fatal(err)
	}

	if err := store.GetByID(ctx, "404"); err == nil {
		t.Fatal("GetByID(404) should fail")
	}

	st := store.State()
	if st.CurrentCity.ID != "1" {
		t.Errorf("CurrentCity.ID = %q, want 1", st.CurrentCity.ID)
	}
	if st.Error != "Error Loading the Data" || st.IsLoading {
		t.Errorf("Error = %q, IsLoading = %v", st.Error, st.IsLoading)
	}
}

func TestStore_RacingOperationsApplyInCompletionOrder(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	remote.started = make(chan string)
	remote.release = map[models.ID]chan struct{}{
		"1": make(chan struct{}),
		"2": make(chan struct{}),
	}
	store := NewStore(remote, WithLogger(quietLogger()))
	ctx := context.Background()

	done := map[string]chan struct{}{"1": make(chan struct{}), "2": make(chan struct{})}
	for _, id := range []string{"1", "2"} {
		go func(id string) {
			defer close(done[id])
			store.GetByID(ctx, models.ID(id))
		}(id)
	}
	<-remote.started
	<-remote.started
	if !store.State().IsLoading {
		t.Error("IsLoading should be true while both calls are in flight")
	}

	close(remote.release["2"])
	<-done["2"]
	st := store.State()
	if st.CurrentCity.ID != "2" {
		t.Errorf("CurrentCity.ID = %q, want 2", st.CurrentCity.ID)
	}
	// The first terminal transition clears loading while the other call is in flight
	if st.IsLoading {
		t.Error("IsLoading should be false after the first completion")
	}

	close(remote.release["1"])
	<-done["1"]
	st = store.State()
	if st.CurrentCity.ID != "1" {
		t.Errorf("CurrentCity.ID = %q, want 1 (last completion wins)", st.CurrentCity.ID)
	}
	if st.IsLoading {
		t.Error("IsLoading should be false")
	}
}

func TestStore_SerializedOperations(t *testing.T) {
	remote := newFakeRemote(sampleCities()...)
	remote.started = make(chan string, 2)
	remote.release = map[models.ID]chan struct{}{
		"1": make(chan struct{}),
		"2": make(chan struct{}),
	}
	store := NewStore(remote, WithLogger(quietLogger()), WithSerializedOperations())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.GetByID(ctx, "1")
	}()
	if got := <-remote.started; got != "1" {
		t.Fatalf("first call = %q, want 1", got)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		store.GetByID(ctx, "2")
	}()

	close(remote.release["1"])
	if got := <-remote.started; got != "2" {
		t.Fatalf("second call = %q, want 2", got)
	}
	// The second call starts only after the first finished
	if id := store.State().CurrentCity.ID; id != "1" {
		t.Errorf("CurrentCity.ID = %q, want 1", id)
	}

	close(remote.release["2"])
	wg.Wait()
	if id := store.State().CurrentCity.ID; id != "2" {
		t.Errorf("CurrentCity.ID = %q, want 2", id)
	}
}

func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore(newFakeRemote(), WithLogger(quietLogger()))
	calls := 0
	unsubscribe := store.Subscribe(func(State) { calls++ })

	store.Dispatch(Loading{})
	unsubscribe()
	store.Dispatch(Rejected{Message: "x"})

	if calls != 1 {
		t.Errorf("listener calls = %d, want 1", calls)
	}
}
