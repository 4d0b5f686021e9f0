package categories

import (
	"errors"

	"github.com/velmark/archery-federation/models"
)

var (
	ErrEditInProgress   = errors.New("another category is already being edited")
	ErrNoEditInProgress = errors.New("no category edit in progress")
	ErrCategoryNotFound = errors.New("category not found in registry")
)

// editState is the registry's edit mode. Exactly one of the two variants is
// held at a time, so two simultaneous edits are unrepresentable.
type editState interface {
	editState()
}

type idle struct{}

type editing struct {
	staged models.CompetitionCategory
}

func (idle) editState()    {}
func (editing) editState() {}

// Registry holds the ordered category list of one event draft and supports
// add/edit/remove with single-item edit exclusivity. Insertion order is
// display order. Not safe for concurrent use; drafts are per-session.
type Registry struct {
	items  []models.CompetitionCategory
	nextID int
	state  editState
}

func NewRegistry() *Registry {
	return &Registry{nextID: 1, state: idle{}}
}

// Add assigns a fresh id and appends the category to the end of the list.
func (r *Registry) Add(cat models.CompetitionCategory) models.CompetitionCategory {
	cat.ID = r.nextID
	r.nextID++
	r.items = append(r.items, cat)
	return cat
}

// AddBatch appends combinator output, assigning a fresh id to each entry.
func (r *Registry) AddBatch(cats []models.CompetitionCategory) []models.CompetitionCategory {
	added := make([]models.CompetitionCategory, 0, len(cats))
	for _, cat := range cats {
		added = append(added, r.Add(cat))
	}
	return added
}

// BeginEdit loads the category with the given id into the staging record.
// Fails when another edit is already in progress.
func (r *Registry) BeginEdit(id int) (models.CompetitionCategory, error) {
	if _, busy := r.state.(editing); busy {
		return models.CompetitionCategory{}, ErrEditInProgress
	}
	for _, cat := range r.items {
		if cat.ID == id {
			r.state = editing{staged: cat}
			return cat, nil
		}
	}
	return models.CompetitionCategory{}, ErrCategoryNotFound
}

// Staged returns the staging record while an edit is in progress.
func (r *Registry) Staged() (models.CompetitionCategory, bool) {
	e, ok := r.state.(editing)
	if !ok {
		return models.CompetitionCategory{}, false
	}
	return e.staged, true
}

// UpdateStaged replaces the staging record. The staged id is kept so a commit
// always writes back to the entry the edit started from.
func (r *Registry) UpdateStaged(cat models.CompetitionCategory) error {
	e, ok := r.state.(editing)
	if !ok {
		return ErrNoEditInProgress
	}
	cat.ID = e.staged.ID
	r.state = editing{staged: cat}
	return nil
}

// CommitEdit writes the staged values back over the entry with the staged id
// and leaves edit mode.
func (r *Registry) CommitEdit() (models.CompetitionCategory, error) {
	e, ok := r.state.(editing)
	if !ok {
		return models.CompetitionCategory{}, ErrNoEditInProgress
	}
	for i, cat := range r.items {
		if cat.ID == e.staged.ID {
			r.items[i] = e.staged
			r.state = idle{}
			return e.staged, nil
		}
	}
	// The entry was removed out from under the edit; drop the stale state.
	r.state = idle{}
	return models.CompetitionCategory{}, ErrCategoryNotFound
}

// CancelEdit leaves edit mode without writing anything back.
func (r *Registry) CancelEdit() {
	r.state = idle{}
}

// Remove deletes the entry with the given id. Removing the entry currently
// being edited clears the edit state; removing any other entry while an edit
// is in progress is rejected.
func (r *Registry) Remove(id int) error {
	if e, busy := r.state.(editing); busy {
		if e.staged.ID != id {
			return ErrEditInProgress
		}
		r.state = idle{}
	}
	for i, cat := range r.items {
		if cat.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrCategoryNotFound
}

// List returns the categories in insertion order. The returned slice is a
// copy; mutating it does not affect the registry.
func (r *Registry) List() []models.CompetitionCategory {
	out := make([]models.CompetitionCategory, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Registry) Len() int {
	return len(r.items)
}

// PreviewTile is one tile of the compact draft preview.
type PreviewTile struct {
	Division models.Division `json:"division"`
	AgeClass models.AgeClass `json:"age_class"`
	Distance string          `json:"distance"`
	Label    string          `json:"label"`
}

// PreviewTiles deduplicates the list by (division, age class, distance,
// label) for the compact preview: categories differing only in gender
// collapse into one tile. Display-only; the registry itself is untouched.
func (r *Registry) PreviewTiles() []PreviewTile {
	seen := make(map[PreviewTile]struct{}, len(r.items))
	tiles := make([]PreviewTile, 0, len(r.items))
	for _, cat := range r.items {
		tile := PreviewTile{
			Division: cat.Division,
			AgeClass: cat.AgeClass,
			Distance: cat.Distance,
			Label:    cat.CategoryLabel,
		}
		if _, dup := seen[tile]; dup {
			continue
		}
		seen[tile] = struct{}{}
		tiles = append(tiles, tile)
	}
	return tiles
}
