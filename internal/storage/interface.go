// Package storage defines the persistence contract shared by the memory,
// SQLite and PostgreSQL backends.
package storage

import (
	"errors"

	"github.com/julianstephens/stridelog/internal/models"
)

// ErrNotFound is returned by getters when the record does not exist
var ErrNotFound = errors.New("record not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Race database
	AddRace(models.Race) error
	GetRace(id int) (models.Race, error)
	GetAllRaces() ([]models.Race, error)
	UpdateRace(models.Race) error
	DeleteRace(id int) error

	// Personal race log
	AddPersonalRace(models.PersonalRace) error
	GetPersonalRace(id int) (models.PersonalRace, error)
	GetAllPersonalRaces() ([]models.PersonalRace, error)
	UpdatePersonalRace(models.PersonalRace) error
	DeletePersonalRace(id int) error

	// Shoes are archived, never deleted
	AddShoe(models.Shoe) error
	GetShoe(id int) (models.Shoe, error)
	GetAllShoes() ([]models.Shoe, error)
	UpdateShoe(models.Shoe) error

	// Weight tracker state, including its history
	GetWeightGoal() (models.WeightGoal, error)
	SaveWeightGoal(models.WeightGoal) error

	// Training week, always 7 slots Monday first
	GetWeek() ([]models.Slot, error)
	SaveWeek([]models.Slot) error

	// Utils
	GetConfigPath() string
}

// Snapshot is the portable form of a whole store, used by export and
// import and by the memory backend's seed data.
type Snapshot struct {
	Version       int                   `json:"version"`
	Settings      models.Settings       `json:"settings"`
	Races         []models.Race         `json:"races"`
	PersonalRaces []models.PersonalRace `json:"personal_races"`
	Shoes         []models.Shoe         `json:"shoes"`
	Weight        models.WeightGoal     `json:"weight"`
	Week          []models.Slot         `json:"week"`
}

// SnapshotVersion is bumped whenever Snapshot changes shape
const SnapshotVersion = 1

// Export reads everything from p
func Export(p Provider) (Snapshot, error) {
	snap := Snapshot{Version: SnapshotVersion}
	var err error
	if snap.Settings, err = p.GetSettings(); err != nil {
		return Snapshot{}, err
	}
	if snap.Races, err = p.GetAllRaces(); err != nil {
		return Snapshot{}, err
	}
	if snap.PersonalRaces, err = p.GetAllPersonalRaces(); err != nil {
		return Snapshot{}, err
	}
	if snap.Shoes, err = p.GetAllShoes(); err != nil {
		return Snapshot{}, err
	}
	if snap.Weight, err = p.GetWeightGoal(); err != nil {
		return Snapshot{}, err
	}
	if snap.Week, err = p.GetWeek(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Import writes snap into p. Records are upserted by id, so importing the
// same snapshot twice is harmless.
func Import(p Provider, snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return errors.New("unsupported snapshot version")
	}
	if err := p.SaveSettings(snap.Settings); err != nil {
		return err
	}
	for _, r := range snap.Races {
		if err := upsert(p.GetRace, p.AddRace, p.UpdateRace, r.ID, r); err != nil {
			return err
		}
	}
	for _, r := range snap.PersonalRaces {
		if err := upsert(p.GetPersonalRace, p.AddPersonalRace, p.UpdatePersonalRace, r.ID, r); err != nil {
			return err
		}
	}
	for _, s := range snap.Shoes {
		if err := upsert(p.GetShoe, p.AddShoe, p.UpdateShoe, s.ID, s); err != nil {
			return err
		}
	}
	if err := p.SaveWeightGoal(snap.Weight); err != nil {
		return err
	}
	if len(snap.Week) > 0 {
		return p.SaveWeek(snap.Week)
	}
	return nil
}

func upsert[T any](get func(int) (T, error), add, update func(T) error, id int, v T) error {
	_, err := get(id)
	switch {
	case err == nil:
		return update(v)
	case errors.Is(err, ErrNotFound):
		return add(v)
	default:
		return err
	}
}
