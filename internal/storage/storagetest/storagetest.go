// Package storagetest is a behaviour suite every storage.Provider must pass.
package storagetest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/schedule"
	"github.com/julianstephens/stridelog/internal/storage"
)

// Factory returns an initialised, empty provider
type Factory func(t *testing.T) storage.Provider

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// Run exercises every Provider operation against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("races", func(t *testing.T) { testRaces(t, newStore(t)) })
	t.Run("personal races", func(t *testing.T) { testPersonalRaces(t, newStore(t)) })
	t.Run("shoes", func(t *testing.T) { testShoes(t, newStore(t)) })
	t.Run("weight", func(t *testing.T) { testWeight(t, newStore(t)) })
	t.Run("week", func(t *testing.T) { testWeek(t, newStore(t)) })
	t.Run("snapshot", func(t *testing.T) { testSnapshot(t, newStore(t), newStore(t)) })
}

func testSettings(t *testing.T, s storage.Provider) {
	want := models.Settings{
		Timezone:          "Europe/Rome",
		YearlyGoalKm:      1500,
		YearlyCompletedKm: 321.5,
		GoalYear:          2025,
		SelectedShoeID:    2,
		WeekStart:         "2025-03-10",
	}
	if err := s.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func testRaces(t *testing.T, s storage.Provider) {
	race := models.Race{
		ID: 1, Title: "Maratona di Roma", Location: "Roma, Lazio", StartDate: "16/03/2025", EndDate: "16/03/2025",
		Website: "https://www.runromethemarathon.com", Type: "maratona", Distance: "42km", Elevation: "150m",
		Tier: constants.TierA, Country: "IT",
		Participants: []models.Participant{{ID: "p1", Name: "Giulia", Avatar: "https://example.com/g.png"}},
	}
	if err := s.AddRace(race); err != nil {
		t.Fatalf("AddRace() failed: %v", err)
	}
	if err := s.AddRace(models.Race{ID: 2, Title: "Parkrun", Location: "Milano", StartDate: "01/02/2025",
		Type: "parkrun", Distance: "5km", Tier: constants.TierC}); err != nil {
		t.Fatalf("AddRace() failed: %v", err)
	}

	got, err := s.GetRace(1)
	if err != nil {
		t.Fatalf("GetRace() failed: %v", err)
	}
	if diff := cmp.Diff(race, got); diff != "" {
		t.Errorf("GetRace() mismatch (-want +got):\n%s", diff)
	}

	race.Favorite = true
	race.Tier = constants.TierB
	if err := s.UpdateRace(race); err != nil {
		t.Fatalf("UpdateRace() failed: %v", err)
	}
	got, _ = s.GetRace(1)
	if !got.Favorite || got.Tier != constants.TierB {
		t.Errorf("UpdateRace() not persisted: %+v", got)
	}

	all, err := s.GetAllRaces()
	if err != nil || len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Errorf("GetAllRaces() = %+v, %v", all, err)
	}

	if err := s.DeleteRace(2); err != nil {
		t.Fatalf("DeleteRace() failed: %v", err)
	}
	if _, err := s.GetRace(2); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetRace() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteRace(2); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteRace() error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateRace(models.Race{ID: 99, Title: "x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateRace() of missing race error = %v, want ErrNotFound", err)
	}
}

func testPersonalRaces(t *testing.T, s storage.Provider) {
	race := models.PersonalRace{
		ID: 1, Title: "Half di Verona", Location: "Verona", Date: "16/02/2025", Type: "mezza maratona",
		Distance: "21km", Elevation: "0m", FinishTime: "01:42:10", Pace: "4:50", PersonalBest: true,
		Review: "Fast course", Rating: 5, Category: constants.TierB, Country: "IT",
	}
	if err := s.AddPersonalRace(race); err != nil {
		t.Fatalf("AddPersonalRace() failed: %v", err)
	}
	got, err := s.GetPersonalRace(1)
	if err != nil {
		t.Fatalf("GetPersonalRace() failed: %v", err)
	}
	if diff := cmp.Diff(race, got); diff != "" {
		t.Errorf("GetPersonalRace() mismatch (-want +got):\n%s", diff)
	}

	race.Review = "Windy"
	if err := s.UpdatePersonalRace(race); err != nil {
		t.Fatalf("UpdatePersonalRace() failed: %v", err)
	}
	all, _ := s.GetAllPersonalRaces()
	if len(all) != 1 || all[0].Review != "Windy" {
		t.Errorf("GetAllPersonalRaces() = %+v", all)
	}

	if err := s.DeletePersonalRace(1); err != nil {
		t.Fatalf("DeletePersonalRace() failed: %v", err)
	}
	if _, err := s.GetPersonalRace(1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetPersonalRace() after delete error = %v, want ErrNotFound", err)
	}
}

func testShoes(t *testing.T, s storage.Provider) {
	shoe := models.Shoe{
		ID: 1, Name: "Daily", Brand: "Asics", Model: "Novablast 4", Color: "blue", PurchaseDate: "2025-01-05",
		MaxKm: 700, CurrentKm: 120.5, Active: true, Cost: decimal.RequireFromString("139.90"), Rating: 4,
	}
	if err := s.AddShoe(shoe); err != nil {
		t.Fatalf("AddShoe() failed: %v", err)
	}
	got, err := s.GetShoe(1)
	if err != nil {
		t.Fatalf("GetShoe() failed: %v", err)
	}
	if diff := cmp.Diff(shoe, got, decimalEqual); diff != "" {
		t.Errorf("GetShoe() mismatch (-want +got):\n%s", diff)
	}

	archived := "2025-06-01"
	shoe.Active = false
	shoe.ArchivedDate = &archived
	if err := s.UpdateShoe(shoe); err != nil {
		t.Fatalf("UpdateShoe() failed: %v", err)
	}
	got, _ = s.GetShoe(1)
	if got.Active || got.ArchivedDate == nil || *got.ArchivedDate != archived {
		t.Errorf("archive not persisted: %+v", got)
	}

	shoe.Active = true
	shoe.ArchivedDate = nil
	_ = s.UpdateShoe(shoe)
	got, _ = s.GetShoe(1)
	if got.ArchivedDate != nil {
		t.Errorf("reactivate left archived date %q", *got.ArchivedDate)
	}

	if _, err := s.GetShoe(42); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetShoe(42) error = %v, want ErrNotFound", err)
	}
	all, err := s.GetAllShoes()
	if err != nil || len(all) != 1 {
		t.Errorf("GetAllShoes() = %+v, %v", all, err)
	}
}

func testWeight(t *testing.T, s storage.Provider) {
	empty, err := s.GetWeightGoal()
	if err != nil {
		t.Fatalf("GetWeightGoal() on fresh store failed: %v", err)
	}
	if len(empty.History) != 0 || empty.Initial != 0 {
		t.Errorf("fresh GetWeightGoal() = %+v", empty)
	}

	goal := models.WeightGoal{
		Step: constants.WeightStepDisplay, Initial: 80, Current: 78.5, Target: 70, LastChange: -1.5,
		History: []models.WeightSample{
			{ID: "a", Date: "2025-04-01", Weight: 80, Day: 0},
			{ID: "b", Date: "2025-04-08", Weight: 78.5, Day: 7},
		},
	}
	if err := s.SaveWeightGoal(goal); err != nil {
		t.Fatalf("SaveWeightGoal() failed: %v", err)
	}
	got, err := s.GetWeightGoal()
	if err != nil {
		t.Fatalf("GetWeightGoal() failed: %v", err)
	}
	if diff := cmp.Diff(goal, got); diff != "" {
		t.Errorf("weight goal mismatch (-want +got):\n%s", diff)
	}

	// restart clears history
	if err := s.SaveWeightGoal(models.WeightGoal{Step: constants.WeightStepEmpty, History: []models.WeightSample{}}); err != nil {
		t.Fatalf("SaveWeightGoal() reset failed: %v", err)
	}
	got, _ = s.GetWeightGoal()
	if len(got.History) != 0 {
		t.Errorf("history after reset = %+v", got.History)
	}
}

func testWeek(t *testing.T, s storage.Provider) {
	week, err := s.GetWeek()
	if err != nil {
		t.Fatalf("GetWeek() on fresh store failed: %v", err)
	}
	if len(week) != 0 {
		t.Errorf("fresh GetWeek() has %d slots", len(week))
	}

	want := schedule.DefaultWeek(timeFixture())
	if err := s.SaveWeek(want); err != nil {
		t.Fatalf("SaveWeek() failed: %v", err)
	}
	got, err := s.GetWeek()
	if err != nil {
		t.Fatalf("GetWeek() failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("week mismatch (-want +got):\n%s", diff)
	}

	if err := s.SaveWeek(want[:3]); err == nil {
		t.Error("SaveWeek() with 3 slots should fail")
	}
}

func testSnapshot(t *testing.T, src, dst storage.Provider) {
	if err := src.SaveSettings(models.Settings{Timezone: "UTC", YearlyGoalKm: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := src.AddRace(models.Race{ID: 3, Title: "Trail", Location: "Como", StartDate: "01/05/2025",
		Type: "trail", Distance: "25km", Tier: constants.TierB}); err != nil {
		t.Fatal(err)
	}
	if err := src.AddShoe(models.Shoe{ID: 1, Name: "a", Brand: "b", Model: "c", MaxKm: 700, Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveWeek(schedule.DefaultWeek(timeFixture())); err != nil {
		t.Fatal(err)
	}

	snap, err := storage.Export(src)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	// importing twice upserts instead of failing on duplicate ids
	for i := 0; i < 2; i++ {
		if err := storage.Import(dst, snap); err != nil {
			t.Fatalf("Import() #%d failed: %v", i+1, err)
		}
	}

	again, err := storage.Export(dst)
	if err != nil {
		t.Fatalf("Export() of imported store failed: %v", err)
	}
	if diff := cmp.Diff(snap, again, decimalEqual); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
