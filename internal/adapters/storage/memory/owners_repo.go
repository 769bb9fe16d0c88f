package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clinic-records/internal/domain/owners"
)

type ownersRepo struct {
	db *DB
}

func NewOwnersRepo(db *DB) owners.Repository {
	return &ownersRepo{db: db}
}

func (r *ownersRepo) Create(ctx context.Context, o owners.Owner) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("owner id required")
	}
	if _, exists := r.db.owners[o.ID]; exists {
		return errors.New("owner already exists")
	}
	r.db.owners[o.ID] = o
	return nil
}

func (r *ownersRepo) Update(ctx context.Context, o owners.Owner) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.owners[o.ID]; !exists {
		return ErrNotFound
	}
	r.db.owners[o.ID] = o
	return nil
}

func (r *ownersRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.owners[id]; !exists {
		return ErrNotFound
	}
	delete(r.db.owners, id)
	return nil
}

func (r *ownersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	o, ok := r.db.owners[id]
	if !ok {
		return owners.Owner{}, ErrNotFound
	}
	return o, nil
}

func (r *ownersRepo) List(ctx context.Context, f owners.ListFilter) ([]owners.Owner, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	all := make([]owners.Owner, 0, len(r.db.owners))
	for _, o := range r.db.owners {
		if matchesQuery(o, f.Query, f.Fields) {
			all = append(all, o)
		}
	}

	// Orden estable por apellido, después created_at (igual que el SQL)
	sort.Slice(all, func(i, j int) bool {
		li, lj := strings.ToLower(all[i].LastName), strings.ToLower(all[j].LastName)
		if li != lj {
			return li < lj
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	start := (f.Page - 1) * f.PerPage
	if start >= total {
		return []owners.Owner{}, total, nil
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *ownersRepo) FindByIdentity(ctx context.Context, last, first, email string) ([]owners.Owner, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return findOwnersByIdentity(r.db, last, first, email), nil
}

// findOwnersByIdentity asume lock tomado; lo comparte el import store.
func findOwnersByIdentity(db *DB, last, first, email string) []owners.Owner {
	key := owners.IdentityKey(last, first, email)

	out := make([]owners.Owner, 0, 1)
	for _, o := range db.owners {
		if o.IdentityKey() == key {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func matchesQuery(o owners.Owner, query string, fields []string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(ownerField(o, f)), q) {
			return true
		}
	}
	return false
}

func ownerField(o owners.Owner, name string) string {
	switch name {
	case "last_name":
		return o.LastName
	case "first_name":
		return o.FirstName
	case "email":
		return o.Email
	case "telephone":
		return o.Telephone
	case "address":
		return o.Address
	case "comments":
		return o.Comments
	}
	return ""
}
