package postgres

import (
	"context"
	"database/sql"

	"clinic-records/internal/domain/catalog"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) CreateSpecies(ctx context.Context, s catalog.Species) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO species (id, code, name, created_at)
		VALUES ($1,$2,$3,$4)
	`, s.ID, s.Code, s.Name, s.CreatedAt)
	return err
}

func (r *CatalogRepo) SpeciesByCode(ctx context.Context, code string) (catalog.Species, error) {
	sp, found, err := querySpeciesByCode(ctx, r.db, code)
	if err != nil {
		return catalog.Species{}, err
	}
	if !found {
		return catalog.Species{}, ErrNotFound
	}
	return sp, nil
}

func (r *CatalogRepo) ListSpecies(ctx context.Context) ([]catalog.Species, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, name, created_at
		FROM species
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Species, 0)
	for rows.Next() {
		var sp catalog.Species
		if err := rows.Scan(&sp.ID, &sp.Code, &sp.Name, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) CreateBreed(ctx context.Context, b catalog.Breed) error {
	return insertBreed(ctx, r.db, b)
}

func (r *CatalogRepo) FindBreed(ctx context.Context, speciesID, name string) (catalog.Breed, error) {
	br, found, err := queryBreed(ctx, r.db, speciesID, name)
	if err != nil {
		return catalog.Breed{}, err
	}
	if !found {
		return catalog.Breed{}, ErrNotFound
	}
	return br, nil
}

func (r *CatalogRepo) ListBreedsBySpecies(ctx context.Context, speciesID string) ([]catalog.Breed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, species_id, name, created_at
		FROM breeds
		WHERE species_id = $1
		ORDER BY LOWER(name) ASC
	`, speciesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Breed, 0)
	for rows.Next() {
		var b catalog.Breed
		if err := rows.Scan(&b.ID, &b.SpeciesID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Helpers compartidos con el import store (corren sobre DB o Tx).

func querySpeciesByCode(ctx context.Context, q querier, code string) (catalog.Species, bool, error) {
	var sp catalog.Species
	err := q.QueryRowContext(ctx, `
		SELECT id, code, name, created_at
		FROM species
		WHERE code = $1
	`, code).Scan(&sp.ID, &sp.Code, &sp.Name, &sp.CreatedAt)
	if err == sql.ErrNoRows {
		return catalog.Species{}, false, nil
	}
	if err != nil {
		return catalog.Species{}, false, err
	}
	return sp, true, nil
}

func queryBreed(ctx context.Context, q querier, speciesID, name string) (catalog.Breed, bool, error) {
	var b catalog.Breed
	err := q.QueryRowContext(ctx, `
		SELECT id, species_id, name, created_at
		FROM breeds
		WHERE species_id = $1 AND LOWER(name) = LOWER(TRIM($2))
	`, speciesID, name).Scan(&b.ID, &b.SpeciesID, &b.Name, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return catalog.Breed{}, false, nil
	}
	if err != nil {
		return catalog.Breed{}, false, err
	}
	return b, true, nil
}

func insertBreed(ctx context.Context, q querier, b catalog.Breed) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO breeds (id, species_id, name, created_at)
		VALUES ($1,$2,$3,$4)
	`, b.ID, b.SpeciesID, b.Name, b.CreatedAt)
	return err
}
