package catalog

import "context"

type Repository interface {
	CreateSpecies(ctx context.Context, s Species) error
	SpeciesByCode(ctx context.Context, code string) (Species, error)
	ListSpecies(ctx context.Context) ([]Species, error)

	CreateBreed(ctx context.Context, b Breed) error
	// FindBreed busca por nombre case-insensitive dentro de la especie.
	FindBreed(ctx context.Context, speciesID, name string) (Breed, error)
	ListBreedsBySpecies(ctx context.Context, speciesID string) ([]Breed, error)
}
