// Package rack holds the shoe commands.
package rack

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/progress"
	"github.com/julianstephens/stridelog/internal/shoes"
)

// loadRack reads every shoe and the stored selection
func loadRack(ctx *cli.Context) (*shoes.Rack, models.Settings, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	all, err := ctx.Store.GetAllShoes()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to get shoes: %w", err)
	}
	return shoes.NewRack(all, settings.SelectedShoeID), settings, nil
}

func saveSelection(ctx *cli.Context, settings models.Settings, r *shoes.Rack) error {
	if settings.SelectedShoeID == r.SelectedID() {
		return nil
	}
	settings.SelectedShoeID = r.SelectedID()
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save selected shoe: %w", err)
	}
	return nil
}

// target resolves an optional id argument to the selected shoe
func target(ctx *cli.Context, id int) (models.Shoe, error) {
	if id != 0 {
		s, err := ctx.Store.GetShoe(id)
		if err != nil {
			return models.Shoe{}, fmt.Errorf("failed to find shoe: %w", err)
		}
		return s, nil
	}
	r, _, err := loadRack(ctx)
	if err != nil {
		return models.Shoe{}, err
	}
	s, ok := r.Selected()
	if !ok {
		return models.Shoe{}, fmt.Errorf("no active shoe selected, add one with 'shoe add'")
	}
	return s, nil
}

type ShoeListCmd struct {
	Archived bool `short:"a" help:"Show archived shoes instead of active ones."`
}

func (c *ShoeListCmd) Run(ctx *cli.Context) error {
	r, _, err := loadRack(ctx)
	if err != nil {
		return err
	}

	list := shoes.Active(r.Shoes())
	if c.Archived {
		list = shoes.Archived(r.Shoes())
	}
	if len(list) == 0 {
		if c.Archived {
			fmt.Println("No archived shoes.")
		} else {
			fmt.Println("No active shoes. Add one with 'shoe add'.")
		}
		return nil
	}

	for _, s := range list {
		marker := " "
		if s.ID == r.SelectedID() {
			marker = "▶"
		}
		fmt.Printf("%s %-3d %-24s %s\n", marker, s.ID, s.Name, cli.MutedStyle.Render(s.Brand+" "+s.Model))
		fmt.Printf("      %s\n", wearLine(s))

		details := fmt.Sprintf("      %.0f km left", s.RemainingKm())
		if cpk, ok := s.CostPerKm(); ok {
			details += fmt.Sprintf(" · €%s/km", cpk.StringFixed(2))
		}
		if s.Rating > 0 {
			details += " · " + stars(s.Rating)
		}
		if s.ArchivedDate != nil {
			details += " · archived " + *s.ArchivedDate
		}
		fmt.Println(details)
	}
	return nil
}

func wearLine(s models.Shoe) string {
	pct, tier, err := shoes.Wear(s)
	if err != nil {
		return "wear unknown: " + err.Error()
	}
	return cli.RenderLevel(tier, fmt.Sprintf("%s %5.1f%%  %.0f/%.0f km", cli.Bar(pct, 20), pct, s.CurrentKm, s.MaxKm))
}

func stars(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("★", n)
}

type ShoeAddCmd struct {
	Name      string  `arg:"" help:"Display name."`
	Brand     string  `short:"b" required:"" help:"Brand."`
	Model     string  `short:"m" required:"" help:"Model."`
	Color     string  `help:"Colour."`
	Purchased string  `short:"d" help:"Purchase date (YYYY-MM-DD), defaults to today."`
	MaxKm     float64 `name:"max-km" help:"Distance limit before retirement." default:"700"`
	Cost      string  `help:"Price paid."`
	Rating    int     `short:"r" help:"Rating from 1 to 5."`
}

func (c *ShoeAddCmd) Run(ctx *cli.Context) error {
	r, settings, err := loadRack(ctx)
	if err != nil {
		return err
	}

	shoe, err := shoes.Build(ctx.Validator, r.Shoes(), shoes.NewShoe{
		Name:         c.Name,
		Brand:        c.Brand,
		Model:        c.Model,
		Color:        c.Color,
		PurchaseDate: c.Purchased,
		MaxKm:        c.MaxKm,
		Cost:         c.Cost,
		Rating:       c.Rating,
	}, ctx.Today())
	if err != nil {
		return fmt.Errorf("invalid shoe: %w", err)
	}
	if err := ctx.Store.AddShoe(shoe); err != nil {
		return fmt.Errorf("failed to add shoe: %w", err)
	}

	fmt.Printf("✓ Added shoe %d: %s\n", shoe.ID, shoe.Name)
	if r.SelectedID() == 0 {
		settings.SelectedShoeID = shoe.ID
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save selected shoe: %w", err)
		}
		fmt.Println("  Selected as your current shoe.")
	}
	return nil
}

type ShoeKmCmd struct {
	Km     float64 `arg:"" optional:"" help:"Kilometres to add."`
	Preset int     `short:"p" help:"Quick add: 5, 10 or 20 km."`
	ID     int     `short:"i" help:"Shoe ID, defaults to the selected shoe."`
}

func (c *ShoeKmCmd) Validate() error {
	if c.Preset != 0 {
		if c.Km != 0 {
			return fmt.Errorf("use either a distance or --preset, not both")
		}
		if !lo.Contains(shoes.KmPresets, float64(c.Preset)) {
			return fmt.Errorf("invalid preset %d (expected 5, 10 or 20)", c.Preset)
		}
	}
	return nil
}

func (c *ShoeKmCmd) Run(ctx *cli.Context) error {
	km := c.Km
	if c.Preset != 0 {
		km = float64(c.Preset)
	}

	shoe, err := target(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := shoes.AddKm(&shoe, km); err != nil {
		return fmt.Errorf("cannot log distance on %s: %w", shoe.Name, err)
	}
	if err := ctx.Store.UpdateShoe(shoe); err != nil {
		return fmt.Errorf("failed to update shoe: %w", err)
	}

	fmt.Printf("✓ +%g km on %s\n", km, shoe.Name)
	fmt.Printf("  %s\n", wearLine(shoe))
	if shoe.RemainingKm() == 0 {
		fmt.Println(cli.RenderLevel(progress.TierCritical, "⚠ This pair has reached its limit. Consider archiving it."))
	}
	return nil
}

type ShoeArchiveCmd struct {
	ID int `arg:"" help:"Shoe ID."`
}

func (c *ShoeArchiveCmd) Run(ctx *cli.Context) error {
	r, settings, err := loadRack(ctx)
	if err != nil {
		return err
	}
	shoe, ok := shoes.Find(r.Shoes(), c.ID)
	if !ok {
		return fmt.Errorf("shoe %d not found", c.ID)
	}
	if !shoe.Active {
		fmt.Printf("⊘ %s is already archived\n", shoe.Name)
		return nil
	}

	shoes.Archive(&shoe, ctx.Today())
	if err := ctx.Store.UpdateShoe(shoe); err != nil {
		return fmt.Errorf("failed to archive shoe: %w", err)
	}
	r.Replace(shoe)
	if err := saveSelection(ctx, settings, r); err != nil {
		return err
	}

	fmt.Printf("✓ Archived %s\n", shoe.Name)
	if next, ok := r.Selected(); ok && next.ID != settings.SelectedShoeID {
		fmt.Printf("  Now using %s\n", next.Name)
	}
	return nil
}

type ShoeReactivateCmd struct {
	ID int `arg:"" help:"Shoe ID."`
}

func (c *ShoeReactivateCmd) Run(ctx *cli.Context) error {
	r, settings, err := loadRack(ctx)
	if err != nil {
		return err
	}
	shoe, ok := shoes.Find(r.Shoes(), c.ID)
	if !ok {
		return fmt.Errorf("shoe %d not found", c.ID)
	}

	shoes.Reactivate(&shoe)
	if err := ctx.Store.UpdateShoe(shoe); err != nil {
		return fmt.Errorf("failed to reactivate shoe: %w", err)
	}
	r.Replace(shoe)
	if err := saveSelection(ctx, settings, r); err != nil {
		return err
	}

	fmt.Printf("✓ %s is back in rotation\n", shoe.Name)
	return nil
}

type ShoeRateCmd struct {
	ID     int `arg:"" help:"Shoe ID."`
	Rating int `arg:"" help:"Rating from 1 to 5."`
}

func (c *ShoeRateCmd) Run(ctx *cli.Context) error {
	shoe, err := ctx.Store.GetShoe(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find shoe: %w", err)
	}
	if err := shoes.Rate(&shoe, c.Rating); err != nil {
		return err
	}
	if err := ctx.Store.UpdateShoe(shoe); err != nil {
		return fmt.Errorf("failed to update shoe: %w", err)
	}
	fmt.Printf("✓ %s rated %s\n", shoe.Name, stars(shoe.Rating))
	return nil
}

// ShoeNextCmd moves the selection through the active shoes, wrapping around
type ShoeNextCmd struct {
	Prev bool `help:"Select the previous shoe instead."`
}

func (c *ShoeNextCmd) Run(ctx *cli.Context) error {
	r, settings, err := loadRack(ctx)
	if err != nil {
		return err
	}
	if c.Prev {
		r.Prev()
	} else {
		r.Next()
	}
	if err := saveSelection(ctx, settings, r); err != nil {
		return err
	}

	shoe, ok := r.Selected()
	if !ok {
		fmt.Println("No active shoes.")
		return nil
	}
	fmt.Printf("▶ %s\n", shoe.Name)
	return nil
}
