package memory

import (
	"context"
	"strings"

	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/importer"
	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"
)

// importRunner emula la transacción de Postgres con el lock grande y un
// snapshot de las tablas: si fn falla se restaura todo, owners creados
// a mitad de corrida incluidos.
type importRunner struct {
	db *DB
}

func NewImportRunner(db *DB) importer.Runner {
	return &importRunner{db: db}
}

func (r *importRunner) RunImport(ctx context.Context, fn func(importer.Store) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	snap := r.db.snapshot()
	if err := fn(&importStore{db: r.db}); err != nil {
		r.db.restore(snap)
		return err
	}
	return nil
}

// importStore opera sobre los maps con el lock ya tomado por RunImport.
type importStore struct {
	db *DB
}

func (s *importStore) FindOwnersByIdentity(ctx context.Context, last, first, email string) ([]owners.Owner, error) {
	return findOwnersByIdentity(s.db, last, first, email), nil
}

func (s *importStore) CreateOwner(ctx context.Context, o owners.Owner) error {
	s.db.owners[o.ID] = o
	return nil
}

func (s *importStore) BulkCreateOwners(ctx context.Context, batch []owners.Owner) error {
	for _, o := range batch {
		s.db.owners[o.ID] = o
	}
	return nil
}

func (s *importStore) BulkUpdateOwners(ctx context.Context, batch []owners.Owner) error {
	for _, o := range batch {
		if _, exists := s.db.owners[o.ID]; !exists {
			return ErrNotFound
		}
		s.db.owners[o.ID] = o
	}
	return nil
}

func (s *importStore) SpeciesByCode(ctx context.Context, code string) (catalog.Species, bool, error) {
	sp, ok := speciesByCode(s.db, code)
	return sp, ok, nil
}

func (s *importStore) FindBreed(ctx context.Context, speciesID, name string) (catalog.Breed, bool, error) {
	br, ok := findBreed(s.db, speciesID, name)
	return br, ok, nil
}

func (s *importStore) CreateBreed(ctx context.Context, b catalog.Breed) error {
	s.db.breeds[b.ID] = b
	return nil
}

func (s *importStore) PatientExists(ctx context.Context, k importer.PatientKey) (bool, error) {
	for _, p := range s.db.patients {
		if p.OwnerID == k.OwnerID &&
			strings.ToLower(p.Name) == k.Name &&
			p.SpeciesID == k.SpeciesID &&
			p.BreedID == k.BreedID &&
			p.DateOfBirth.Equal(k.DateOfBirth) {
			return true, nil
		}
	}
	return false, nil
}

func (s *importStore) BulkCreatePatients(ctx context.Context, batch []patients.Patient) error {
	for _, p := range batch {
		s.db.patients[p.ID] = p
	}
	return nil
}
