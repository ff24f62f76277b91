package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/storage"
	"github.com/julianstephens/stridelog/internal/storage/storagetest"
	"github.com/julianstephens/stridelog/internal/validation"
)

func TestMemoryProvider(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		s := NewStore()
		if err := s.Init(); err != nil {
			t.Fatalf("Init() failed: %v", err)
		}
		return s
	})
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	s.nowFunc = func() time.Time { return time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC) }
	if err := s.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return s
}

func TestLoadSeedsFixture(t *testing.T) {
	s := seeded(t)

	races, _ := s.GetAllRaces()
	if len(races) != 13 {
		t.Errorf("seeded %d races, want 13", len(races))
	}
	personal, _ := s.GetAllPersonalRaces()
	if len(personal) != 5 {
		t.Errorf("seeded %d personal races, want 5", len(personal))
	}
	shoes, _ := s.GetAllShoes()
	if len(shoes) != 3 {
		t.Fatalf("seeded %d shoes, want 3", len(shoes))
	}
	if shoes[2].Active || shoes[2].ArchivedDate == nil {
		t.Errorf("third shoe should be archived: %+v", shoes[2])
	}

	week, _ := s.GetWeek()
	if len(week) != constants.DaysPerWeek || week[0].Date != "10 March" {
		t.Errorf("seeded week = %+v", week)
	}
	settings, _ := s.GetSettings()
	if settings.WeekStart != "2025-03-10" || settings.SelectedShoeID != 1 {
		t.Errorf("seeded settings = %+v", settings)
	}
}

func TestSeedPassesValidation(t *testing.T) {
	s := seeded(t)
	v := validation.New()

	races, _ := s.GetAllRaces()
	for _, r := range races {
		if err := v.Struct(r); err != nil {
			t.Errorf("race %d %q invalid: %v", r.ID, r.Title, err)
		}
	}
	personal, _ := s.GetAllPersonalRaces()
	for _, r := range personal {
		if err := v.Struct(r); err != nil {
			t.Errorf("personal race %d %q invalid: %v", r.ID, r.Title, err)
		}
	}
	shoes, _ := s.GetAllShoes()
	for _, sh := range shoes {
		if err := v.Struct(sh); err != nil {
			t.Errorf("shoe %d invalid: %v", sh.ID, err)
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	s := seeded(t)
	if err := s.DeleteRace(1); err != nil {
		t.Fatalf("DeleteRace() failed: %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	if _, err := s.GetRace(1); !errors.Is(err, storage.ErrNotFound) {
		t.Error("second Load() reseeded the store")
	}
}

func TestNotLoaded(t *testing.T) {
	s := NewStore()
	if _, err := s.GetAllRaces(); err == nil {
		t.Error("GetAllRaces() before Load should fail")
	}
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := seeded(t)

	shoe, _ := s.GetShoe(3)
	*shoe.ArchivedDate = "1999-01-01"
	again, _ := s.GetShoe(3)
	if *again.ArchivedDate != "2024-11-30" {
		t.Error("GetShoe() leaks the stored archived date")
	}

	week, _ := s.GetWeek()
	week[0].Activity = "changed"
	stored, _ := s.GetWeek()
	if stored[0].Activity == "changed" {
		t.Error("GetWeek() leaks the stored slice")
	}
}

func TestAddDuplicate(t *testing.T) {
	s := seeded(t)
	race, _ := s.GetRace(1)
	if err := s.AddRace(race); err == nil {
		t.Error("AddRace() with an existing id should fail")
	}
}
