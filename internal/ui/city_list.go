package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// cityItem wraps a City for use in a list
type cityItem struct {
	city models.City
}

// FilterValue implements list.Item
func (c cityItem) FilterValue() string {
	return c.city.CityName + " " + c.city.Country
}

// Title implements list.DefaultItem
func (c cityItem) Title() string {
	if c.city.Emoji == "" {
		return c.city.CityName
	}
	return c.city.Emoji + "  " + c.city.CityName
}

// Description implements list.DefaultItem
func (c cityItem) Description() string {
	parts := []string{}
	if c.city.Country != "" {
		parts = append(parts, c.city.Country)
	}
	if !c.city.Date.IsZero() {
		parts = append(parts, formatLongDate(c.city.Date))
	}
	return strings.Join(parts, " • ")
}

func cityItems(cities []models.City) []list.Item {
	items := make([]list.Item, len(cities))
	for i, city := range cities {
		items[i] = cityItem{city: city}
	}
	return items
}

// createCityList creates a list.Model from cities
func createCityList(cities []models.City, width, height int) list.Model {
	l := list.New(cityItems(cities), list.NewDefaultDelegate(), width, height)
	l.Title = "Your Cities"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return l
}
