// Package memory is a storage.Provider that keeps everything in process.
// Load seeds it with a small catalog of Italian races and shoes, which makes
// it handy for demos (--config memory) and for tests.
package memory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/schedule"
	"github.com/julianstephens/stridelog/internal/storage"
)

// ConfigPath is the --config value that selects this backend
const ConfigPath = constants.MemoryStoreConfig

//go:embed seed.json
var seedJSON []byte

type data struct {
	settings models.Settings
	races    map[int]models.Race
	personal map[int]models.PersonalRace
	shoes    map[int]models.Shoe
	weight   models.WeightGoal
	week     []models.Slot
}

type Store struct {
	data *data
	// nowFunc dates the seeded week
	nowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{nowFunc: time.Now}
}

// Fixture returns the seed catalog with a default week starting on the
// Monday of now's week.
func Fixture(now time.Time) (storage.Snapshot, error) {
	var snap storage.Snapshot
	if err := json.Unmarshal(seedJSON, &snap); err != nil {
		return storage.Snapshot{}, fmt.Errorf("failed to parse seed data: %w", err)
	}
	snap.Week = schedule.DefaultWeek(now)
	snap.Settings.WeekStart = schedule.WeekStart(now).Format(constants.DateFormat)
	return snap, nil
}

// Init starts an empty store with default settings
func (s *Store) Init() error {
	s.data = &data{
		settings: models.Settings{Timezone: constants.DefaultTimezone},
		races:    make(map[int]models.Race),
		personal: make(map[int]models.PersonalRace),
		shoes:    make(map[int]models.Shoe),
		weight:   models.WeightGoal{Step: constants.WeightStepEmpty, History: []models.WeightSample{}},
		week:     []models.Slot{},
	}
	return nil
}

// Load seeds the fixture the first time it is called
func (s *Store) Load() error {
	if s.data != nil {
		return nil
	}
	snap, err := Fixture(s.nowFunc())
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	return storage.Import(s, snap)
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) loaded() error {
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func notFound(what string, id int) error {
	return fmt.Errorf("%s %d: %w", what, id, storage.ErrNotFound)
}

// sortedValues returns the map values ordered by id
func sortedValues[T any](m map[int]T) []T {
	keys := lo.Keys(m)
	sort.Ints(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func (s *Store) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.data.settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.data.settings = settings
	return nil
}

func copyRace(r models.Race) models.Race {
	if r.Participants != nil {
		r.Participants = append([]models.Participant{}, r.Participants...)
	}
	return r
}

func (s *Store) AddRace(race models.Race) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.races[race.ID]; ok {
		return fmt.Errorf("race %d already exists", race.ID)
	}
	s.data.races[race.ID] = copyRace(race)
	return nil
}

func (s *Store) GetRace(id int) (models.Race, error) {
	if err := s.loaded(); err != nil {
		return models.Race{}, err
	}
	race, ok := s.data.races[id]
	if !ok {
		return models.Race{}, notFound("race", id)
	}
	return copyRace(race), nil
}

func (s *Store) GetAllRaces() ([]models.Race, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return lo.Map(sortedValues(s.data.races), func(r models.Race, _ int) models.Race { return copyRace(r) }), nil
}

func (s *Store) UpdateRace(race models.Race) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.races[race.ID]; !ok {
		return notFound("race", race.ID)
	}
	s.data.races[race.ID] = copyRace(race)
	return nil
}

func (s *Store) DeleteRace(id int) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.races[id]; !ok {
		return notFound("race", id)
	}
	delete(s.data.races, id)
	return nil
}

func (s *Store) AddPersonalRace(race models.PersonalRace) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.personal[race.ID]; ok {
		return fmt.Errorf("personal race %d already exists", race.ID)
	}
	s.data.personal[race.ID] = race
	return nil
}

func (s *Store) GetPersonalRace(id int) (models.PersonalRace, error) {
	if err := s.loaded(); err != nil {
		return models.PersonalRace{}, err
	}
	race, ok := s.data.personal[id]
	if !ok {
		return models.PersonalRace{}, notFound("personal race", id)
	}
	return race, nil
}

func (s *Store) GetAllPersonalRaces() ([]models.PersonalRace, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return sortedValues(s.data.personal), nil
}

func (s *Store) UpdatePersonalRace(race models.PersonalRace) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.personal[race.ID]; !ok {
		return notFound("personal race", race.ID)
	}
	s.data.personal[race.ID] = race
	return nil
}

func (s *Store) DeletePersonalRace(id int) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.personal[id]; !ok {
		return notFound("personal race", id)
	}
	delete(s.data.personal, id)
	return nil
}

func copyShoe(sh models.Shoe) models.Shoe {
	if sh.ArchivedDate != nil {
		d := *sh.ArchivedDate
		sh.ArchivedDate = &d
	}
	return sh
}

func (s *Store) AddShoe(shoe models.Shoe) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.shoes[shoe.ID]; ok {
		return fmt.Errorf("shoe %d already exists", shoe.ID)
	}
	s.data.shoes[shoe.ID] = copyShoe(shoe)
	return nil
}

func (s *Store) GetShoe(id int) (models.Shoe, error) {
	if err := s.loaded(); err != nil {
		return models.Shoe{}, err
	}
	shoe, ok := s.data.shoes[id]
	if !ok {
		return models.Shoe{}, notFound("shoe", id)
	}
	return copyShoe(shoe), nil
}

func (s *Store) GetAllShoes() ([]models.Shoe, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return lo.Map(sortedValues(s.data.shoes), func(sh models.Shoe, _ int) models.Shoe { return copyShoe(sh) }), nil
}

func (s *Store) UpdateShoe(shoe models.Shoe) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.data.shoes[shoe.ID]; !ok {
		return notFound("shoe", shoe.ID)
	}
	s.data.shoes[shoe.ID] = copyShoe(shoe)
	return nil
}

func (s *Store) GetWeightGoal() (models.WeightGoal, error) {
	if err := s.loaded(); err != nil {
		return models.WeightGoal{}, err
	}
	goal := s.data.weight
	goal.History = append([]models.WeightSample{}, goal.History...)
	return goal, nil
}

func (s *Store) SaveWeightGoal(goal models.WeightGoal) error {
	if err := s.loaded(); err != nil {
		return err
	}
	goal.History = append([]models.WeightSample{}, goal.History...)
	s.data.weight = goal
	return nil
}

func (s *Store) GetWeek() ([]models.Slot, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return append([]models.Slot{}, s.data.week...), nil
}

func (s *Store) SaveWeek(week []models.Slot) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if err := models.ValidateWeek(week); err != nil {
		return err
	}
	s.data.week = append([]models.Slot{}, week...)
	return nil
}

func (s *Store) GetConfigPath() string {
	return ConfigPath
}
