// Package shoes tracks running shoe mileage, retirement and ratings.
package shoes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/progress"
	"github.com/julianstephens/stridelog/internal/validation"
)

var (
	ErrInactive      = errors.New("shoe is archived")
	ErrInvalidKm     = errors.New("distance must be greater than zero")
	ErrInvalidRating = fmt.Errorf("rating must be between %d and %d", constants.MinShoeRating, constants.MaxShoeRating)
)

// KmPresets are the quick increments offered when logging a run
var KmPresets = []float64{5, 10, 20}

// NewShoe is the add-shoe form
type NewShoe struct {
	Name         string
	Brand        string
	Model        string
	Color        string
	PurchaseDate string // YYYY-MM-DD, defaults to today
	MaxKm        float64
	Cost         string // parsed as a decimal, invalid input counts as 0
	Rating       int
}

// NextID returns one past the highest id, or 1 for an empty rack
func NextID(shoes []models.Shoe) int {
	if len(shoes) == 0 {
		return 1
	}
	return lo.MaxBy(shoes, func(a, b models.Shoe) bool { return a.ID > b.ID }).ID + 1
}

// Build turns the form into a new active shoe with defaults applied.
func Build(v *validation.Validator, existing []models.Shoe, in NewShoe, today time.Time) (models.Shoe, error) {
	cost, err := decimal.NewFromString(strings.TrimSpace(in.Cost))
	if err != nil {
		cost = decimal.Zero
	}

	shoe := models.Shoe{
		ID:           NextID(existing),
		Name:         strings.TrimSpace(in.Name),
		Brand:        strings.TrimSpace(in.Brand),
		Model:        strings.TrimSpace(in.Model),
		Color:        in.Color,
		PurchaseDate: in.PurchaseDate,
		MaxKm:        in.MaxKm,
		CurrentKm:    0,
		Active:       true,
		Cost:         cost,
		Rating:       in.Rating,
	}
	if shoe.PurchaseDate == "" {
		shoe.PurchaseDate = today.Format(constants.DateFormat)
	}
	if shoe.MaxKm <= 0 {
		shoe.MaxKm = constants.DefaultShoeMaxKm
	}

	if err := v.Struct(shoe); err != nil {
		return models.Shoe{}, err
	}
	return shoe, nil
}

// AddKm adds distance to an active shoe. Mileage never goes down.
func AddKm(s *models.Shoe, km float64) error {
	if !s.Active {
		return ErrInactive
	}
	if !(km > 0) {
		return ErrInvalidKm
	}
	s.CurrentKm += km
	return nil
}

// Archive retires the shoe as of today
func Archive(s *models.Shoe, today time.Time) {
	d := today.Format(constants.DateFormat)
	s.Active = false
	s.ArchivedDate = &d
}

// Reactivate puts an archived shoe back in rotation
func Reactivate(s *models.Shoe) {
	s.Active = true
	s.ArchivedDate = nil
}

// Rate sets the 1-5 star rating
func Rate(s *models.Shoe, rating int) error {
	if rating < constants.MinShoeRating || rating > constants.MaxShoeRating {
		return ErrInvalidRating
	}
	s.Rating = rating
	return nil
}

// Wear returns the wear percentage and its colour tier
func Wear(s models.Shoe) (float64, progress.Tier, error) {
	w, err := progress.WearPercent(s.CurrentKm, s.MaxKm)
	if err != nil {
		return 0, "", err
	}
	return w, progress.ClassifyWear(w), nil
}

// Active returns the shoes still in rotation, in input order
func Active(shoes []models.Shoe) []models.Shoe {
	return lo.Filter(shoes, func(s models.Shoe, _ int) bool { return s.Active })
}

// Archived returns the retired shoes, in input order
func Archived(shoes []models.Shoe) []models.Shoe {
	return lo.Reject(shoes, func(s models.Shoe, _ int) bool { return s.Active })
}

// Find returns the shoe with id
func Find(shoes []models.Shoe, id int) (models.Shoe, bool) {
	return lo.Find(shoes, func(s models.Shoe) bool { return s.ID == id })
}
