package importer

import (
	"context"
	"strings"
	"time"

	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/owners"

	"github.com/google/uuid"
)

// importMarker se agrega a los comments de un owner tocado por import;
// los comments son append-only desde el pipeline, nunca se pisan.
const importMarker = "<Added through bulk import>"

// resolver mantiene los caches de UNA corrida (estado por request,
// nunca global) y la política de resolución de entidades foráneas:
// species debe pre-existir, breed se auto-crea, owner se crea
// sincrónicamente porque filas posteriores necesitan su identidad.
type resolver struct {
	st  Store
	now func() time.Time

	species map[string]catalog.Species // code -> species
	breeds  map[string]catalog.Breed   // code \x1f fold(name) -> breed
	owners  map[string]*ownerEntry     // identity key -> entry

	createdOwners int
	dirtyOrder    []string // identity keys con delta pendiente, en orden de llegada
}

type ownerEntry struct {
	owner          owners.Owner
	createdThisRun bool
	dirty          bool
}

func newResolver(st Store, now func() time.Time) *resolver {
	return &resolver{
		st:      st,
		now:     now,
		species: make(map[string]catalog.Species),
		breeds:  make(map[string]catalog.Breed),
		owners:  make(map[string]*ownerEntry),
	}
}

// resolveSpecies: cache miss => lookup; miss en store => error duro de
// fila. El import de pacientes NUNCA crea especies.
func (rv *resolver) resolveSpecies(ctx context.Context, raw string, rowNum int) (catalog.Species, error) {
	code, err := catalog.NormalizeCode(raw)
	if err != nil {
		return catalog.Species{}, rowErrorf(rowNum, "Unknown species code '%s'.", raw)
	}

	if sp, ok := rv.species[code]; ok {
		return sp, nil
	}

	sp, found, err := rv.st.SpeciesByCode(ctx, code)
	if err != nil {
		return catalog.Species{}, rowErrorf(rowNum, "unexpected error processing row: %v", err)
	}
	if !found {
		return catalog.Species{}, rowErrorf(rowNum, "Unknown species code '%s'.", raw)
	}

	rv.species[code] = sp
	return sp, nil
}

// resolveBreed: cache miss => lookup case-insensitive dentro de la
// especie; sigue faltando => crear y cachear. La creación puede perder
// una carrera contra otra corrida: eso es error de fila, no aborto.
func (rv *resolver) resolveBreed(ctx context.Context, sp catalog.Species, name string, rowNum int) (catalog.Breed, error) {
	key := sp.Code + "\x1f" + strings.ToLower(strings.TrimSpace(name))

	if br, ok := rv.breeds[key]; ok {
		return br, nil
	}

	br, found, err := rv.st.FindBreed(ctx, sp.ID, name)
	if err != nil {
		return catalog.Breed{}, rowErrorf(rowNum, "unexpected error processing row: %v", err)
	}
	if !found {
		br = catalog.Breed{
			ID:        uuid.NewString(),
			SpeciesID: sp.ID,
			Name:      strings.TrimSpace(name),
			CreatedAt: rv.now(),
		}
		if err := rv.st.CreateBreed(ctx, br); err != nil {
			return catalog.Breed{}, rowErrorf(rowNum, "Failed to create breed '%s': %v", name, err)
		}
	}

	rv.breeds[key] = br
	return br, nil
}

// resolveOwner (solo camino de pacientes):
//   - 0 matches: crear YA (sincrónico; filas posteriores referencian su ID)
//   - 1 match: reusar + delta de campos diferido al batch final
//   - >1: match ambiguo, error de fila (no elegimos al azar)
func (rv *resolver) resolveOwner(ctx context.Context, row patientRow, rowNum int) (owners.Owner, error) {
	key := owners.IdentityKey(row.LastName, row.FirstName, row.Email)

	if entry, ok := rv.owners[key]; ok {
		// Un owner creado en esta misma corrida ya lleva los valores de
		// su primera fila; no acumulamos deltas sobre él.
		if !entry.createdThisRun {
			rv.applyDelta(key, entry, row)
		}
		return entry.owner, nil
	}

	matches, err := rv.st.FindOwnersByIdentity(ctx, row.LastName, row.FirstName, row.Email)
	if err != nil {
		return owners.Owner{}, rowErrorf(rowNum, "unexpected error processing row: %v", err)
	}

	switch len(matches) {
	case 0:
		now := rv.now()
		o := owners.Owner{
			ID:        uuid.NewString(),
			LastName:  row.LastName,
			FirstName: row.FirstName,
			Email:     row.Email,
			Telephone: row.Telephone,
			Address:   row.Address,
			Comments:  importComment(row.OwnerComments),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := rv.st.CreateOwner(ctx, o); err != nil {
			return owners.Owner{}, rowErrorf(rowNum, "Failed to create owner '%s': %v", row.LastName, err)
		}
		rv.owners[key] = &ownerEntry{owner: o, createdThisRun: true}
		rv.createdOwners++
		return o, nil

	case 1:
		entry := &ownerEntry{owner: matches[0]}
		rv.owners[key] = entry
		rv.applyDelta(key, entry, row)
		return entry.owner, nil

	default:
		return owners.Owner{}, rowErrorf(rowNum, "Multiple existing owners match '%s, %s, %s'; cannot import against an ambiguous owner.", row.LastName, row.FirstName, row.Email)
	}
}

// applyDelta pisa telephone/address solo si el valor entrante no es
// vacío y difiere; comments solo se appendea (marker + nota nueva).
func (rv *resolver) applyDelta(key string, entry *ownerEntry, row patientRow) {
	o := &entry.owner
	changed := false

	if row.Telephone != "" && row.Telephone != o.Telephone {
		o.Telephone = row.Telephone
		changed = true
	}
	if row.Address != "" && row.Address != o.Address {
		o.Address = row.Address
		changed = true
	}
	if note := strings.TrimSpace(row.OwnerComments); note != "" && !strings.Contains(o.Comments, note) {
		o.Comments = strings.TrimSpace(o.Comments + "\n" + importMarker + "\n" + note)
		changed = true
	}

	if changed {
		o.UpdatedAt = rv.now()
		if !entry.dirty {
			entry.dirty = true
			rv.dirtyOrder = append(rv.dirtyOrder, key)
		}
	}
}

// pendingUpdates devuelve los owners pre-existentes con delta, en el
// orden en que aparecieron. Se escriben UNA vez al final de la corrida.
func (rv *resolver) pendingUpdates() []owners.Owner {
	out := make([]owners.Owner, 0, len(rv.dirtyOrder))
	for _, key := range rv.dirtyOrder {
		out = append(out, rv.owners[key].owner)
	}
	return out
}

// importComment arma el comment inicial de un owner creado por import.
func importComment(note string) string {
	return strings.TrimSpace(strings.TrimSpace(note) + "\n" + importMarker)
}
