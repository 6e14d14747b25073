package cities

import (
	"testing"
	"time"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

func sampleCities() []models.City {
	return []models.City{
		{ID: "1", CityName: "Lisbon", Country: "Portugal", Emoji: "🇵🇹", Date: time.Date(2027, 10, 31, 0, 0, 0, 0, time.UTC), Position: models.Position{Lat: 38.72, Lng: -9.14}},
		{ID: "2", CityName: "Madrid", Country: "Spain", Emoji: "🇪🇸", Date: time.Date(2027, 7, 15, 0, 0, 0, 0, time.UTC), Position: models.Position{Lat: 40.46, Lng: -3.68}},
		{ID: "3", CityName: "Berlin", Country: "Germany", Emoji: "🇩🇪", Date: time.Date(2027, 2, 12, 0, 0, 0, 0, time.UTC), Position: models.Position{Lat: 52.53, Lng: 13.38}},
	}
}

func TestReduce_Loading(t *testing.T) {
	s := Reduce(State{Error: "old"}, Loading{})
	if !s.IsLoading {
		t.Error("Loading should set IsLoading")
	}
	if s.Error != "old" {
		t.Error("Loading should not touch Error")
	}
}

func TestReduce_CitiesLoaded(t *testing.T) {
	list := sampleCities()
	s := Reduce(State{IsLoading: true, Error: "boom"}, CitiesLoaded{Cities: list})

	if s.IsLoading {
		t.Error("CitiesLoaded should clear IsLoading")
	}
	if s.Error != "" {
		t.Errorf("Error = %q, want empty", s.Error)
	}
	if len(s.Cities) != 3 {
		t.Fatalf("len(Cities) = %d, want 3", len(s.Cities))
	}

	list[0].CityName = "changed"
	if s.Cities[0].CityName != "Lisbon" {
		t.Error("state must not alias the action payload")
	}
}

func TestReduce_CityCreated(t *testing.T) {
	before := State{Cities: sampleCities(), IsLoading: true}
	created := models.City{ID: "4", CityName: "Paris"}

	after := Reduce(before, CityCreated{City: created})

	if len(after.Cities) != len(before.Cities)+1 {
		t.Fatalf("len(Cities) = %d, want %d", len(after.Cities), len(before.Cities)+1)
	}
	if after.Cities[3] != created {
		t.Errorf("appended city = %+v, want %+v", after.Cities[3], created)
	}
	if after.CurrentCity != created {
		t.Error("created city should become current")
	}
	if after.IsLoading {
		t.Error("CityCreated should clear IsLoading")
	}
	if len(before.Cities) != 3 {
		t.Error("Reduce must not modify its input")
	}
}

func TestReduce_CityDeleted(t *testing.T) {
	list := sampleCities()
	before := State{Cities: list, CurrentCity: list[0], IsLoading: true}

	after := Reduce(before, CityDeleted{ID: "2"})

	for _, c := range after.Cities {
		if c.ID == "2" {
			t.Error("deleted city still present")
		}
	}
	if len(after.Cities) != 2 {
		t.Errorf("len(Cities) = %d, want 2", len(after.Cities))
	}
	if !after.CurrentCity.IsZero() {
		t.Errorf("CurrentCity = %+v, want empty even though a different city was deleted", after.CurrentCity)
	}
	if before.Cities[1].ID != "2" {
		t.Error("Reduce must not modify its input")
	}
}

func TestReduce_Rejected(t *testing.T) {
	list := sampleCities()
	before := State{Cities: list, CurrentCity: list[1], IsLoading: true}

	after := Reduce(before, Rejected{Message: "Error on Deleting the Data"})

	if after.IsLoading {
		t.Error("Rejected should clear IsLoading")
	}
	if after.Error != "Error on Deleting the Data" {
		t.Errorf("Error = %q", after.Error)
	}
	if len(after.Cities) != 3 || after.CurrentCity.ID != "2" {
		t.Error("Rejected must leave the collection untouched")
	}
}

func TestReduce_UnknownActionPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unknown action")
		}
		if _, ok := r.(ProtocolViolation); !ok {
			t.Errorf("panic value = %T, want ProtocolViolation", r)
		}
	}()

	Reduce(State{}, nil)
}
