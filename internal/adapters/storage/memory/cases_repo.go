package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clinic-records/internal/domain/cases"
)

type casesRepo struct {
	db *DB
}

func NewCasesRepo(db *DB) cases.Repository {
	return &casesRepo{db: db}
}

func (r *casesRepo) Create(ctx context.Context, c cases.Case) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("case id required")
	}
	if _, exists := r.db.cases[c.ID]; exists {
		return errors.New("case already exists")
	}
	r.db.cases[c.ID] = c
	return nil
}

func (r *casesRepo) GetByID(ctx context.Context, id string) (cases.Case, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.cases[id]
	if !ok {
		return cases.Case{}, ErrNotFound
	}
	return c, nil
}

func (r *casesRepo) ListByPatient(ctx context.Context, patientID string) ([]cases.Case, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]cases.Case, 0)
	for _, c := range r.db.cases {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out, nil
}

func (r *casesRepo) Update(ctx context.Context, c cases.Case) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.cases[c.ID]; !exists {
		return ErrNotFound
	}
	r.db.cases[c.ID] = c
	return nil
}
