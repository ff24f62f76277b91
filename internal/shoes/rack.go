package shoes

import (
	"github.com/samber/lo"

	"github.com/julianstephens/stridelog/internal/models"
)

// Rack tracks which active shoe is selected
type Rack struct {
	shoes    []models.Shoe
	selected int
}

// NewRack builds a rack over shoes. An unknown or inactive selection falls
// back to the first active shoe.
func NewRack(shoes []models.Shoe, selectedID int) *Rack {
	r := &Rack{shoes: shoes, selected: selectedID}
	if s, ok := Find(shoes, selectedID); !ok || !s.Active {
		r.selected = r.first()
	}
	return r
}

func (r *Rack) activeIDs() []int {
	return lo.Map(Active(r.shoes), func(s models.Shoe, _ int) int { return s.ID })
}

func (r *Rack) first() int {
	ids := r.activeIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

// Selected returns the selected shoe, if any
func (r *Rack) Selected() (models.Shoe, bool) {
	if r.selected == 0 {
		return models.Shoe{}, false
	}
	return Find(r.shoes, r.selected)
}

// SelectedID returns the selected shoe id, 0 when the rack is empty
func (r *Rack) SelectedID() int {
	return r.selected
}

func (r *Rack) step(delta int) int {
	ids := r.activeIDs()
	if len(ids) == 0 {
		r.selected = 0
		return 0
	}
	i := lo.IndexOf(ids, r.selected)
	if i < 0 {
		r.selected = ids[0]
		return r.selected
	}
	r.selected = ids[(i+delta+len(ids))%len(ids)]
	return r.selected
}

// Next selects the following active shoe, wrapping around
func (r *Rack) Next() int { return r.step(1) }

// Prev selects the previous active shoe, wrapping around
func (r *Rack) Prev() int { return r.step(-1) }

// Replace swaps in an updated copy of a shoe and fixes the selection when
// the selected shoe has just been archived: the next active shoe is chosen,
// or the previous one when it was last in line.
func (r *Rack) Replace(updated models.Shoe) {
	before := r.activeIDs()

	for i := range r.shoes {
		if r.shoes[i].ID == updated.ID {
			r.shoes[i] = updated
			break
		}
	}

	if updated.ID != r.selected || updated.Active {
		if r.selected == 0 && updated.Active {
			r.selected = updated.ID
		}
		return
	}

	i := lo.IndexOf(before, updated.ID)
	switch {
	case i >= 0 && i+1 < len(before):
		r.selected = before[i+1]
	case i > 0:
		r.selected = before[i-1]
	default:
		r.selected = 0
	}
}

// Shoes returns the rack contents
func (r *Rack) Shoes() []models.Shoe {
	return r.shoes
}
