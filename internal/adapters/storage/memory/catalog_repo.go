package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clinic-records/internal/domain/catalog"
)

type catalogRepo struct {
	db *DB
}

func NewCatalogRepo(db *DB) catalog.Repository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) CreateSpecies(ctx context.Context, s catalog.Species) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.species {
		if existing.Code == s.Code {
			return errors.New("species code already exists")
		}
	}
	r.db.species[s.ID] = s
	return nil
}

func (r *catalogRepo) SpeciesByCode(ctx context.Context, code string) (catalog.Species, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	sp, ok := speciesByCode(r.db, code)
	if !ok {
		return catalog.Species{}, ErrNotFound
	}
	return sp, nil
}

func (r *catalogRepo) ListSpecies(ctx context.Context) ([]catalog.Species, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]catalog.Species, 0, len(r.db.species))
	for _, sp := range r.db.species {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *catalogRepo) CreateBreed(ctx context.Context, b catalog.Breed) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.breeds[b.ID] = b
	return nil
}

func (r *catalogRepo) FindBreed(ctx context.Context, speciesID, name string) (catalog.Breed, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	br, ok := findBreed(r.db, speciesID, name)
	if !ok {
		return catalog.Breed{}, ErrNotFound
	}
	return br, nil
}

func (r *catalogRepo) ListBreedsBySpecies(ctx context.Context, speciesID string) ([]catalog.Breed, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]catalog.Breed, 0)
	for _, b := range r.db.breeds {
		if b.SpeciesID == speciesID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Helpers sin lock, compartidos con el import store.

func speciesByCode(db *DB, code string) (catalog.Species, bool) {
	for _, sp := range db.species {
		if sp.Code == code {
			return sp, true
		}
	}
	return catalog.Species{}, false
}

func findBreed(db *DB, speciesID, name string) (catalog.Breed, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, b := range db.breeds {
		if b.SpeciesID == speciesID && strings.ToLower(b.Name) == want {
			return b, true
		}
	}
	return catalog.Breed{}, false
}
