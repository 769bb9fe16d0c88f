package postgres

import (
	"context"
	"database/sql"

	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/importer"
	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"

	sq "github.com/Masterminds/squirrel"
)

// ImportRunner acota cada corrida de import a una transacción: si fn
// devuelve error se hace rollback de todo, owners creados durante la
// resolución incluidos.
type ImportRunner struct {
	db *sql.DB
}

func NewImportRunner(db *sql.DB) *ImportRunner {
	return &ImportRunner{db: db}
}

func (r *ImportRunner) RunImport(ctx context.Context, fn func(importer.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&importStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// importStore implementa la vista de persistencia del import sobre la
// transacción abierta por RunImport.
type importStore struct {
	tx *sql.Tx
}

func (s *importStore) FindOwnersByIdentity(ctx context.Context, last, first, email string) ([]owners.Owner, error) {
	return queryOwnersByIdentity(ctx, s.tx, last, first, email)
}

func (s *importStore) CreateOwner(ctx context.Context, o owners.Owner) error {
	return s.BulkCreateOwners(ctx, []owners.Owner{o})
}

func (s *importStore) BulkCreateOwners(ctx context.Context, batch []owners.Owner) error {
	if len(batch) == 0 {
		return nil
	}

	q := psql.Insert("owners").Columns(
		"id", "last_name", "first_name", "email",
		"telephone", "address", "comments",
		"created_at", "updated_at",
	)
	for _, o := range batch {
		q = q.Values(
			o.ID, o.LastName, o.FirstName, o.Email,
			o.Telephone, o.Address, o.Comments,
			o.CreatedAt, o.UpdatedAt,
		)
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *importStore) BulkUpdateOwners(ctx context.Context, batch []owners.Owner) error {
	// Son pocos updates por corrida (owners pre-existentes con delta);
	// un UPDATE por owner dentro de la transacción alcanza.
	for _, o := range batch {
		q := psql.Update("owners").
			Set("telephone", o.Telephone).
			Set("address", o.Address).
			Set("comments", o.Comments).
			Set("updated_at", o.UpdatedAt).
			Where(sq.Eq{"id": o.ID})

		sqlStr, args, err := q.ToSql()
		if err != nil {
			return err
		}
		if _, err := s.tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *importStore) SpeciesByCode(ctx context.Context, code string) (catalog.Species, bool, error) {
	return querySpeciesByCode(ctx, s.tx, code)
}

func (s *importStore) FindBreed(ctx context.Context, speciesID, name string) (catalog.Breed, bool, error) {
	return queryBreed(ctx, s.tx, speciesID, name)
}

func (s *importStore) CreateBreed(ctx context.Context, b catalog.Breed) error {
	return insertBreed(ctx, s.tx, b)
}

func (s *importStore) PatientExists(ctx context.Context, k importer.PatientKey) (bool, error) {
	var exists bool
	err := s.tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM patients
			WHERE owner_id = $1
			  AND LOWER(name) = $2
			  AND species_id = $3
			  AND breed_id = $4
			  AND date_of_birth = $5
		)
	`, k.OwnerID, k.Name, k.SpeciesID, k.BreedID, k.DateOfBirth).Scan(&exists)
	return exists, err
}

func (s *importStore) BulkCreatePatients(ctx context.Context, batch []patients.Patient) error {
	if len(batch) == 0 {
		return nil
	}

	q := psql.Insert("patients").Columns(
		"id", "owner_id", "name", "species_id", "breed_id",
		"sex", "intact", "date_of_birth", "weight_kg",
		"created_at", "updated_at",
	)
	for _, p := range batch {
		q = q.Values(
			p.ID, p.OwnerID, p.Name, p.SpeciesID, p.BreedID,
			p.Sex, p.Intact, p.DateOfBirth, p.WeightKg,
			p.CreatedAt, p.UpdatedAt,
		)
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(ctx, sqlStr, args...)
	return err
}
