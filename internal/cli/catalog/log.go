package catalog

import (
	"fmt"
	"strings"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/models"
	"github.com/julianstephens/stridelog/internal/racefilter"
	"github.com/julianstephens/stridelog/internal/races"
)

type LogListCmd struct {
	FilterFlags `embed:""`
	PB          bool `name:"pb" help:"Only personal bests."`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	matched, err := c.filtered(ctx)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		fmt.Println("No personal races match the given filters.")
		return nil
	}

	fmt.Printf("%-4s %-3s %-1s %-10s  %-36s %-9s %-9s %-10s %s\n", "ID", "C", "", "Date", "Title", "Distance", "Time", "Pace", "Rating")
	for _, r := range matched {
		pb := ""
		if r.PersonalBest {
			pb = " PB"
		}
		fmt.Printf("%-4d %s %s %-10s  %-36s %-9s %-9s %-10s %s%s\n",
			r.ID, cli.RenderTier(r.Category), star(r.Favorite), r.Date,
			truncate(r.Title, 36), r.Distance, r.FinishTime, r.Pace, stars(r.Rating), pb)
	}
	fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("%d race(s)", len(matched))))
	return nil
}

func (c *LogListCmd) filtered(ctx *cli.Context) ([]models.PersonalRace, error) {
	criteria, err := c.Criteria()
	if err != nil {
		return nil, err
	}
	all, err := ctx.Store.GetAllPersonalRaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get personal races: %w", err)
	}
	matched := racefilter.PersonalRaces(all, criteria, ctx.Today())
	if !c.PB {
		return matched, nil
	}
	out := matched[:0]
	for _, r := range matched {
		if r.PersonalBest {
			out = append(out, r)
		}
	}
	return out, nil
}

func stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("★", rating)
}

type LogAddCmd struct {
	Title     string `arg:"" help:"Race title."`
	Location  string `short:"l" required:"" help:"Where the race took place."`
	Date      string `short:"d" required:"" help:"Race date (DD/MM/YYYY)."`
	Type      string `short:"t" required:"" help:"Race type."`
	Distance  string `short:"k" required:"" help:"Distance, e.g. 10km."`
	Elevation string `short:"e" help:"Total climb, defaults to 0m."`
	Time      string `name:"time" help:"Finish time (HH:MM:SS)."`
	Pace      string `help:"Pace, derived from the finish time when omitted."`
	PB        bool   `name:"pb" help:"Mark as personal best."`
	Review    string `short:"r" help:"Short review."`
	Rating    int    `help:"Rating from 1 to 5."`
	Category  string `help:"Category A, B or C." default:"B"`
	Country   string `short:"c" help:"ISO country code." default:"IT"`
	Favorite  bool   `short:"f" help:"Mark as favourite."`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	category, err := models.ParseTier(c.Category)
	if err != nil {
		return err
	}
	existing, err := ctx.Store.GetAllPersonalRaces()
	if err != nil {
		return fmt.Errorf("failed to get personal races: %w", err)
	}

	entry := models.PersonalRace{
		Title:        c.Title,
		Location:     c.Location,
		Date:         c.Date,
		Type:         c.Type,
		Distance:     c.Distance,
		Elevation:    c.Elevation,
		FinishTime:   c.Time,
		Pace:         c.Pace,
		PersonalBest: c.PB,
		Review:       c.Review,
		Rating:       c.Rating,
		Category:     category,
		Favorite:     c.Favorite,
		Country:      c.Country,
	}
	fillPace(&entry)

	entry, err = races.PreparePersonal(ctx.Validator, existing, entry)
	if err != nil {
		return fmt.Errorf("invalid personal race: %w", err)
	}
	if err := ctx.Store.AddPersonalRace(entry); err != nil {
		return fmt.Errorf("failed to add personal race: %w", err)
	}

	fmt.Printf("✓ Logged race %d: %s", entry.ID, entry.Title)
	if entry.Pace != "" {
		fmt.Printf(" (%s)", entry.Pace)
	}
	fmt.Println()
	return nil
}

func fillPace(r *models.PersonalRace) {
	if r.Pace != "" || r.FinishTime == "" {
		return
	}
	if pace, err := races.Pace(r.FinishTime, r.Distance); err == nil {
		r.Pace = pace
	}
}

type LogEditCmd struct {
	ID        int     `arg:"" help:"Personal race ID."`
	Title     *string `help:"New title."`
	Location  *string `short:"l" help:"New location."`
	Date      *string `short:"d" help:"New date (DD/MM/YYYY)."`
	Type      *string `short:"t" help:"New race type."`
	Distance  *string `short:"k" help:"New distance."`
	Elevation *string `short:"e" help:"New total climb."`
	Time      *string `name:"time" help:"New finish time (HH:MM:SS)."`
	Pace      *string `help:"New pace."`
	PB        *bool   `name:"pb" help:"Set the personal best flag."`
	Review    *string `short:"r" help:"New review."`
	Rating    *int    `help:"New rating from 1 to 5."`
	Category  *string `help:"New category A, B or C."`
	Country   *string `short:"c" help:"New ISO country code."`
	Favorite  *bool   `short:"f" help:"Set the favourite flag."`
}

func (c *LogEditCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetPersonalRace(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find personal race: %w", err)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&entry.Title, c.Title)
	set(&entry.Location, c.Location)
	set(&entry.Date, c.Date)
	set(&entry.Type, c.Type)
	set(&entry.Distance, c.Distance)
	set(&entry.Elevation, c.Elevation)
	set(&entry.Review, c.Review)
	set(&entry.Country, c.Country)
	if c.Time != nil {
		entry.FinishTime = *c.Time
		if c.Pace == nil {
			entry.Pace = ""
		}
	}
	set(&entry.Pace, c.Pace)
	if c.PB != nil {
		entry.PersonalBest = *c.PB
	}
	if c.Favorite != nil {
		entry.Favorite = *c.Favorite
	}
	if c.Rating != nil {
		entry.Rating = *c.Rating
	}
	if c.Category != nil {
		if entry.Category, err = models.ParseTier(*c.Category); err != nil {
			return err
		}
	}
	fillPace(&entry)

	entry, err = races.UpdatePersonal(ctx.Validator, entry)
	if err != nil {
		return fmt.Errorf("invalid personal race: %w", err)
	}
	if err := ctx.Store.UpdatePersonalRace(entry); err != nil {
		return fmt.Errorf("failed to update personal race: %w", err)
	}

	fmt.Printf("✓ Updated race %d: %s\n", entry.ID, entry.Title)
	return nil
}

type LogDeleteCmd struct {
	ID  int  `arg:"" help:"Personal race ID."`
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *LogDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetPersonalRace(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find personal race: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q from your race log?", entry.Title))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeletePersonalRace(entry.ID); err != nil {
		return fmt.Errorf("failed to delete personal race: %w", err)
	}
	fmt.Printf("✓ Deleted race %d: %s\n", entry.ID, entry.Title)
	return nil
}
