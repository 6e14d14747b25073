package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/travel-terminal/internal/cities"
	"github.com/ngmaloney/travel-terminal/internal/config"
	"github.com/ngmaloney/travel-terminal/internal/geocoding"
	"github.com/ngmaloney/travel-terminal/internal/models"
	"github.com/ngmaloney/travel-terminal/internal/session"
	"github.com/ngmaloney/travel-terminal/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	lat := flag.String("lat", "", "Latitude of a point to record right after login (requires --lng)")
	lng := flag.String("lng", "", "Longitude of a point to record right after login (requires --lat)")
	apiURL := flag.String("api", cfg.CitiesAPIURL, "Base URL of the cities API")
	flag.Parse()

	var position *models.Position
	if *lat != "" || *lng != "" {
		pos, err := models.ParsePosition(*lat, *lng)
		if err != nil {
			fmt.Printf("Error: --lat and --lng must both be numbers: %v\n", err)
			os.Exit(1)
		}
		position = &pos
	}

	// The alt screen owns stdout, so logs go to a file
	logFile, err := tea.LogToFile(cfg.LogFile, "travel")
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))

	gate, err := session.NewFakeGate()
	if err != nil {
		fmt.Printf("Error creating session: %v\n", err)
		os.Exit(1)
	}

	store := cities.NewStore(
		cities.NewHTTPClient(*apiURL, cfg.HTTPTimeout),
		cities.WithLogger(logger),
	)
	geocoder := geocoding.NewClient(cfg.GeocodeAPIURL,
		geocoding.WithRateLimit(cfg.GeocodeRatePerSec),
		geocoding.WithLogger(logger),
	)

	p := tea.NewProgram(ui.NewModel(ui.Deps{
		Gate:     gate,
		Store:    store,
		Geocoder: geocoder,
		Position: position,
	}), tea.WithAltScreen())

	unsubscribe := store.Subscribe(func(s cities.State) {
		p.Send(ui.StoreUpdated(s))
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		logger.Error("program stopped", slog.Any("error", err))
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
