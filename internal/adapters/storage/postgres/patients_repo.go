package postgres

import (
	"context"
	"database/sql"
	"strings"

	"clinic-records/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

const patientColumns = `
	id, owner_id, name, species_id, breed_id,
	sex, intact, date_of_birth, weight_kg,
	created_at, updated_at
`

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, owner_id, name, species_id, breed_id,
			sex, intact, date_of_birth, weight_kg,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.SpeciesID,
		p.BreedID,
		p.Sex,
		p.Intact,
		p.DateOfBirth,
		p.WeightKg,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)

	p, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return patients.Patient{}, ErrNotFound
	}
	return p, err
}

func (r *PatientsRepo) ListByOwner(ctx context.Context, ownerID string) ([]patients.Patient, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.SpeciesID,
		&p.BreedID,
		&p.Sex,
		&p.Intact,
		&p.DateOfBirth,
		&p.WeightKg,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
