package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clinic-records/internal/domain/patients"
)

type patientsRepo struct {
	db *DB
}

func NewPatientsRepo(db *DB) patients.Repository {
	return &patientsRepo{db: db}
}

func (r *patientsRepo) Create(ctx context.Context, p patients.Patient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("patient id required")
	}
	if _, exists := r.db.patients[p.ID]; exists {
		return errors.New("patient already exists")
	}
	r.db.patients[p.ID] = p
	return nil
}

func (r *patientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.patients[id]
	if !ok {
		return patients.Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *patientsRepo) ListByOwner(ctx context.Context, ownerID string) ([]patients.Patient, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]patients.Patient, 0)
	for _, p := range r.db.patients {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *patientsRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.patients[id]; !exists {
		return ErrNotFound
	}
	delete(r.db.patients, id)
	return nil
}
