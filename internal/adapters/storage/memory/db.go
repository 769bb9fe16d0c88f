package memory

import (
	"errors"
	"sync"

	"clinic-records/internal/domain/cases"
	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"
)

var (
	ErrNotFound = errors.New("not found")
)

// DB es el estado in-memory compartido por todos los repos del modo dev.
// Un solo lock para todo: el import necesita snapshot/restore atómico
// sobre todas las tablas a la vez, y para dev alcanza de sobra.
type DB struct {
	mu sync.RWMutex

	owners   map[string]owners.Owner
	species  map[string]catalog.Species
	breeds   map[string]catalog.Breed
	patients map[string]patients.Patient
	cases    map[string]cases.Case
}

func NewDB() *DB {
	return &DB{
		owners:   make(map[string]owners.Owner),
		species:  make(map[string]catalog.Species),
		breeds:   make(map[string]catalog.Breed),
		patients: make(map[string]patients.Patient),
		cases:    make(map[string]cases.Case),
	}
}

type dbState struct {
	owners   map[string]owners.Owner
	species  map[string]catalog.Species
	breeds   map[string]catalog.Breed
	patients map[string]patients.Patient
}

// snapshot copia las tablas que el import puede tocar. Caller con lock.
func (d *DB) snapshot() dbState {
	return dbState{
		owners:   cloneMap(d.owners),
		species:  cloneMap(d.species),
		breeds:   cloneMap(d.breeds),
		patients: cloneMap(d.patients),
	}
}

// restore vuelve al snapshot previo. Caller con lock.
func (d *DB) restore(s dbState) {
	d.owners = s.owners
	d.species = s.species
	d.breeds = s.breeds
	d.patients = s.patients
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
