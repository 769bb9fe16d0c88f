package importer

import (
	"context"
	"time"

	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"
)

// PatientKey es la clave natural con la que el import detecta pacientes
// duplicados: se compara contra el store Y contra la cola de creación
// de la misma corrida.
type PatientKey struct {
	OwnerID     string
	Name        string // case-fold
	SpeciesID   string
	BreedID     string
	DateOfBirth time.Time // solo fecha
}

// Store es la vista de persistencia que necesita una corrida de import.
// Las implementaciones están acotadas a UNA transacción: todo efecto
// (incluidas las creaciones sincrónicas de owners durante la
// resolución) cae dentro del mismo límite transaccional.
type Store interface {
	FindOwnersByIdentity(ctx context.Context, last, first, email string) ([]owners.Owner, error)
	CreateOwner(ctx context.Context, o owners.Owner) error
	BulkCreateOwners(ctx context.Context, batch []owners.Owner) error
	BulkUpdateOwners(ctx context.Context, batch []owners.Owner) error

	SpeciesByCode(ctx context.Context, code string) (catalog.Species, bool, error)
	FindBreed(ctx context.Context, speciesID, name string) (catalog.Breed, bool, error)
	CreateBreed(ctx context.Context, b catalog.Breed) error

	PatientExists(ctx context.Context, k PatientKey) (bool, error)
	BulkCreatePatients(ctx context.Context, batch []patients.Patient) error
}

// Runner abre el límite transaccional de una corrida completa.
// Si fn devuelve error, NADA de la corrida sobrevive (tampoco los
// owners creados durante la resolución).
type Runner interface {
	RunImport(ctx context.Context, fn func(Store) error) error
}
