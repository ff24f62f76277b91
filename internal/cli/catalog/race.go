package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/racefilter"
	"github.com/julianstephens/stridelog/internal/races"
)

type RaceListCmd struct {
	FilterFlags `embed:""`
}

func (c *RaceListCmd) Run(ctx *cli.Context) error {
	matched, err := c.filtered(ctx)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		fmt.Println("No races match the given filters.")
		return nil
	}

	now := ctx.Today()
	fmt.Printf("%-4s %-3s %-1s %-10s  %-36s %-28s %-9s %s\n", "ID", "T", "", "Date", "Title", "Location", "Distance", "Status")
	for _, r := range matched {
		status, err := races.Status(r.StartDate, now)
		if err != nil {
			status = "?"
		}
		fmt.Printf("%-4d %s %s %-10s  %-36s %-28s %-9s %s\n",
			r.ID, cli.RenderTier(r.Tier), star(r.Favorite), r.StartDate,
			truncate(r.Title, 36), truncate(r.Location, 28), r.Distance, status)
	}
	fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("%d race(s)", len(matched))))
	return nil
}

func (c *RaceListCmd) filtered(ctx *cli.Context) ([]models.Race, error) {
	criteria, err := c.Criteria()
	if err != nil {
		return nil, err
	}
	all, err := ctx.Store.GetAllRaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get races: %w", err)
	}
	return racefilter.Races(all, criteria, ctx.Today()), nil
}

type RaceAddCmd struct {
	Title        string   `arg:"" help:"Race title."`
	Location     string   `short:"l" required:"" help:"Where the race takes place."`
	Date         string   `short:"d" required:"" help:"Start date (DD/MM/YYYY)."`
	End          string   `help:"End date (DD/MM/YYYY), defaults to the start date."`
	Type         string   `short:"t" required:"" help:"Race type (strada, trail, maratona, ...)."`
	Distance     string   `short:"k" required:"" help:"Distance, e.g. 10km."`
	Elevation    string   `short:"e" help:"Total climb, e.g. 150m."`
	Website      string   `short:"w" help:"Race website."`
	Tier         string   `help:"Tier A, B or C." default:"C"`
	Country      string   `short:"c" help:"ISO country code." default:"IT"`
	Participants []string `short:"P" name:"participant" help:"Runner signed up for the race (repeatable)."`
	Favorite     bool     `short:"f" help:"Mark as favourite."`
}

func (c *RaceAddCmd) Run(ctx *cli.Context) error {
	tier, err := models.ParseTier(c.Tier)
	if err != nil {
		return err
	}
	existing, err := ctx.Store.GetAllRaces()
	if err != nil {
		return fmt.Errorf("failed to get races: %w", err)
	}

	race, err := races.PrepareRace(ctx.Validator, existing, models.Race{
		Title:        c.Title,
		Location:     c.Location,
		StartDate:    c.Date,
		EndDate:      c.End,
		Website:      c.Website,
		Type:         c.Type,
		Distance:     c.Distance,
		Elevation:    c.Elevation,
		Tier:         tier,
		Favorite:     c.Favorite,
		Country:      c.Country,
		Participants: participants(c.Participants),
	})
	if err != nil {
		return fmt.Errorf("invalid race: %w", err)
	}
	if err := ctx.Store.AddRace(race); err != nil {
		return fmt.Errorf("failed to add race: %w", err)
	}

	fmt.Printf("✓ Added race %d: %s %s\n", race.ID, cli.RenderTier(race.Tier), race.Title)
	return nil
}

func participants(names []string) []models.Participant {
	var out []models.Participant
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, models.Participant{ID: uuid.NewString(), Name: name})
	}
	return out
}

type RaceEditCmd struct {
	ID        int      `arg:"" help:"Race ID."`
	Title     *string  `help:"New title."`
	Location  *string  `short:"l" help:"New location."`
	Date      *string  `short:"d" help:"New start date (DD/MM/YYYY)."`
	End       *string  `help:"New end date (DD/MM/YYYY)."`
	Type      *string  `short:"t" help:"New race type."`
	Distance  *string  `short:"k" help:"New distance."`
	Elevation *string  `short:"e" help:"New total climb."`
	Website   *string  `short:"w" help:"New website."`
	Tier      *string  `help:"New tier A, B or C."`
	Country   *string  `short:"c" help:"New ISO country code."`
	Add       []string `name:"add-participant" help:"Sign a runner up (repeatable)."`
	Remove    []string `name:"remove-participant" help:"Remove a runner by name (repeatable)."`
}

func (c *RaceEditCmd) Run(ctx *cli.Context) error {
	race, err := ctx.Store.GetRace(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find race: %w", err)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&race.Title, c.Title)
	set(&race.Location, c.Location)
	set(&race.StartDate, c.Date)
	set(&race.EndDate, c.End)
	set(&race.Type, c.Type)
	set(&race.Distance, c.Distance)
	set(&race.Elevation, c.Elevation)
	set(&race.Website, c.Website)
	set(&race.Country, c.Country)
	if c.Tier != nil {
		if race.Tier, err = models.ParseTier(*c.Tier); err != nil {
			return err
		}
	}

	if len(c.Remove) > 0 {
		kept := race.Participants[:0]
		for _, p := range race.Participants {
			if !containsFold(c.Remove, p.Name) {
				kept = append(kept, p)
			}
		}
		race.Participants = kept
	}
	race.Participants = append(race.Participants, participants(c.Add)...)

	race, err = races.UpdateRace(ctx.Validator, race)
	if err != nil {
		return fmt.Errorf("invalid race: %w", err)
	}
	if err := ctx.Store.UpdateRace(race); err != nil {
		return fmt.Errorf("failed to update race: %w", err)
	}

	fmt.Printf("✓ Updated race %d: %s\n", race.ID, race.Title)
	return nil
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

type RaceDeleteCmd struct {
	ID  int  `arg:"" help:"Race ID."`
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *RaceDeleteCmd) Run(ctx *cli.Context) error {
	race, err := ctx.Store.GetRace(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find race: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete race %d %q?", race.ID, race.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteRace(race.ID); err != nil {
		return fmt.Errorf("failed to delete race: %w", err)
	}
	fmt.Printf("✓ Deleted race %d: %s\n", race.ID, race.Title)
	return nil
}

type RaceFavoriteCmd struct {
	ID int `arg:"" help:"Race ID."`
}

func (c *RaceFavoriteCmd) Run(ctx *cli.Context) error {
	race, err := ctx.Store.GetRace(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find race: %w", err)
	}
	races.ToggleFavorite(&race)
	if err := ctx.Store.UpdateRace(race); err != nil {
		return fmt.Errorf("failed to update race: %w", err)
	}

	if race.Favorite {
		fmt.Printf("★ %s added to favourites\n", race.Title)
	} else {
		fmt.Printf("⊘ %s removed from favourites\n", race.Title)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// tierOrLater accepts a tier letter or "later"
func tierOrLater(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), "later") {
		return nil
	}
	_, err := models.ParseTier(strings.TrimSpace(s))
	return err
}
