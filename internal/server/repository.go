package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ngmaloney/travel-terminal/internal/models"
)

// ErrNotFound is returned when no city has the requested id.
var ErrNotFound = errors.New("city not found")

// Repository persists cities in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository on an opened database (see database.Open).
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const cityColumns = "id, city_name, country, emoji, date, notes, lat, lng"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCity(row rowScanner) (models.City, error) {
	var c models.City
	var id, date string
	if err := row.Scan(&id, &c.CityName, &c.Country, &c.Emoji, &date, &c.Notes, &c.Position.Lat, &c.Position.Lng); err != nil {
		return models.City{}, err
	}
	d, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return models.City{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	c.ID = models.ID(id)
	c.Date = d
	return c, nil
}

// List returns every city in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.City, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+cityColumns+" FROM cities ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying cities: %w", err)
	}
	defer rows.Close()

	cities := []models.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning city: %w", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// Get returns a single city.
func (r *Repository) Get(ctx context.Context, id models.ID) (models.City, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+cityColumns+" FROM cities WHERE id = ?", string(id))
	c, err := scanCity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.City{}, ErrNotFound
	}
	if err != nil {
		return models.City{}, fmt.Errorf("querying city: %w", err)
	}
	return c, nil
}

// Create stores draft under a new id and returns the stored record.
func (r *Repository) Create(ctx context.Context, draft models.City) (models.City, error) {
	c := draft
	c.ID = models.ID(uuid.NewString())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cities (id, city_name, country, emoji, date, notes, lat, lng)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(c.ID),
		c.CityName,
		c.Country,
		c.Emoji,
		c.Date.Format(time.RFC3339Nano),
		c.Notes,
		c.Position.Lat,
		c.Position.Lng,
	)
	if err != nil {
		return models.City{}, fmt.Errorf("saving city: %w", err)
	}
	return c, nil
}

// Delete removes a city.
func (r *Repository) Delete(ctx context.Context, id models.ID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cities WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("deleting city: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
