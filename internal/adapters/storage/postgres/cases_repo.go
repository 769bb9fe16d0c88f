package postgres

import (
	"context"
	"database/sql"
	"strings"

	"clinic-records/internal/domain/cases"
)

type CasesRepo struct {
	db *sql.DB
}

func NewCasesRepo(db *sql.DB) *CasesRepo {
	return &CasesRepo{db: db}
}

func (r *CasesRepo) Create(ctx context.Context, c cases.Case) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cases (
			id, patient_id, title, notes,
			opened_at, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.PatientID,
		c.Title,
		c.Notes,
		c.OpenedAt,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CasesRepo) GetByID(ctx context.Context, id string) (cases.Case, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cases.Case{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, patient_id, title, notes, opened_at, status, created_at, updated_at
		FROM cases
		WHERE id = $1
	`, id)

	var c cases.Case
	if err := row.Scan(&c.ID, &c.PatientID, &c.Title, &c.Notes, &c.OpenedAt, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return cases.Case{}, ErrNotFound
		}
		return cases.Case{}, err
	}
	return c, nil
}

func (r *CasesRepo) ListByPatient(ctx context.Context, patientID string) ([]cases.Case, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, title, notes, opened_at, status, created_at, updated_at
		FROM cases
		WHERE patient_id = $1
		ORDER BY opened_at ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cases.Case, 0)
	for rows.Next() {
		var c cases.Case
		if err := rows.Scan(&c.ID, &c.PatientID, &c.Title, &c.Notes, &c.OpenedAt, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CasesRepo) Update(ctx context.Context, c cases.Case) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cases
		SET
			title = $2,
			notes = $3,
			opened_at = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1
	`,
		c.ID,
		c.Title,
		c.Notes,
		c.OpenedAt,
		c.Status,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
