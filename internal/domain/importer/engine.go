package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"
	"clinic-records/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	maxOwnerImportErrors   = 10
	maxPatientImportErrors = 20
)

// Service orquesta el pipeline de import: validar -> resolver -> dedup
// fila por fila, en orden (filas posteriores dependen de entidades
// creadas por filas anteriores), y un único commit al final.
type Service struct {
	runner Runner
	log    logger.Logger
	now    func() time.Time
}

func NewService(runner Runner, log logger.Logger) *Service {
	return &Service{
		runner: runner,
		log:    log,
		now:    time.Now,
	}
}

// ExecuteOwnerImport corre el import de owners completo sobre el
// archivo. Errores pre-flight y de commit vuelven como error; una
// corrida que terminó (con o sin errores de fila) vuelve como Result.
func (s *Service) ExecuteOwnerImport(ctx context.Context, r io.Reader) (Result, error) {
	tbl, err := ParseTable(r)
	if err != nil {
		return Result{}, err
	}
	if err := ownerSchema.ValidateHeaders(tbl.Headers); err != nil {
		return Result{}, err
	}

	s.log.Debug("owner import started", map[string]any{"columns": len(tbl.Headers)})

	var res Result
	err = s.runner.RunImport(ctx, func(st Store) error {
		seen := make(map[string]bool)
		var queue []owners.Owner

		rowNum := 1 // el header es la fila 1
		for {
			raw, ok, rerr := tbl.Next()
			if rerr != nil {
				return fmt.Errorf("read row %d: %w", rowNum+1, rerr)
			}
			if !ok {
				break
			}
			rowNum++
			res.apply(s.processOwnerRow(ctx, st, tbl.Record(raw), rowNum, seen, &queue))
		}

		if len(queue) > 0 {
			if err := st.BulkCreateOwners(ctx, queue); err != nil {
				return &CommitError{Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Success = len(res.Errors) == 0
	res.Message = ownerMessage(res)
	res.Errors = capErrors(res.Errors, maxOwnerImportErrors)

	s.log.Info("owner import finished", map[string]any{
		"created": res.Created,
		"skipped": res.Skipped,
		"errors":  len(res.Errors),
	})
	return res, nil
}

func (s *Service) processOwnerRow(ctx context.Context, st Store, rec map[string]string, rowNum int, seen map[string]bool, queue *[]owners.Owner) (out rowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = errored(rowErrorf(rowNum, "unexpected error processing row."))
		}
	}()

	row, err := parseOwnerRow(rec, rowNum)
	if err != nil {
		return errored(err)
	}

	// El cache (seen) se llena al encolar, así la segunda aparición de
	// la misma tripleta dentro del archivo también cuenta de duplicada.
	key := owners.IdentityKey(row.LastName, row.FirstName, row.Email)
	if seen[key] {
		return rowOutcome{kind: outcomeSkippedDuplicate}
	}

	matches, err := st.FindOwnersByIdentity(ctx, row.LastName, row.FirstName, row.Email)
	if err != nil {
		return errored(rowErrorf(rowNum, "unexpected error processing row: %v", err))
	}
	if len(matches) > 0 {
		seen[key] = true
		return rowOutcome{kind: outcomeSkippedDuplicate}
	}

	now := s.now()
	o := owners.Owner{
		ID:        uuid.NewString(),
		LastName:  row.LastName,
		FirstName: row.FirstName,
		Email:     row.Email,
		Telephone: row.Telephone,
		Address:   row.Address,
		Comments:  importComment(row.Comments),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if row.CreatedAt != nil {
		// El caller pidió un timestamp histórico explícito.
		o.CreatedAt = *row.CreatedAt
		o.UpdatedAt = *row.CreatedAt
	}

	*queue = append(*queue, o)
	seen[key] = true
	return rowOutcome{kind: outcomeCreated}
}

// ExecutePatientImport corre el import de pacientes. Toda la corrida
// (creaciones sincrónicas de owners incluidas) vive en UNA transacción
// que se cierra tras el insert masivo; los updates de owners diferidos
// corren DESPUÉS del commit y su falla es solo un warning (los
// pacientes son el objetivo primario de la corrida y quedan).
func (s *Service) ExecutePatientImport(ctx context.Context, r io.Reader) (Result, error) {
	tbl, err := ParseTable(r)
	if err != nil {
		return Result{}, err
	}
	if err := patientSchema.ValidateHeaders(tbl.Headers); err != nil {
		return Result{}, err
	}

	s.log.Debug("patient import started", map[string]any{"columns": len(tbl.Headers)})

	today := dateOnly(s.now())

	var res Result
	var pendingUpdates []owners.Owner

	err = s.runner.RunImport(ctx, func(st Store) error {
		rv := newResolver(st, s.now)
		queued := make(map[PatientKey]bool)
		var queue []patients.Patient

		rowNum := 1
		for {
			raw, ok, rerr := tbl.Next()
			if rerr != nil {
				return fmt.Errorf("read row %d: %w", rowNum+1, rerr)
			}
			if !ok {
				break
			}
			rowNum++
			res.apply(s.processPatientRow(ctx, st, rv, tbl.Record(raw), rowNum, today, queued, &queue))
		}

		if len(queue) > 0 {
			if err := st.BulkCreatePatients(ctx, queue); err != nil {
				return &CommitError{Err: err}
			}
		}

		res.OwnersCreated = rv.createdOwners
		pendingUpdates = rv.pendingUpdates()
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if len(pendingUpdates) > 0 {
		if uerr := s.runner.RunImport(ctx, func(st Store) error {
			return st.BulkUpdateOwners(ctx, pendingUpdates)
		}); uerr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Warning: failed to update %d existing owners: %v", len(pendingUpdates), uerr))
		} else {
			res.OwnersUpdated = len(pendingUpdates)
		}
	}

	res.Success = len(res.Errors) == 0
	res.Message = patientMessage(res)
	res.Errors = capErrors(res.Errors, maxPatientImportErrors)

	s.log.Info("patient import finished", map[string]any{
		"created":        res.Created,
		"owners_created": res.OwnersCreated,
		"owners_updated": res.OwnersUpdated,
		"skipped":        res.Skipped,
		"errors":         len(res.Errors),
	})
	return res, nil
}

func (s *Service) processPatientRow(ctx context.Context, st Store, rv *resolver, rec map[string]string, rowNum int, today time.Time, queued map[PatientKey]bool, queue *[]patients.Patient) (out rowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = errored(rowErrorf(rowNum, "unexpected error processing row."))
		}
	}()

	row, err := parsePatientRow(rec, rowNum, today)
	if err != nil {
		return errored(err)
	}

	sp, err := rv.resolveSpecies(ctx, row.SpeciesCode, rowNum)
	if err != nil {
		return errored(err)
	}
	br, err := rv.resolveBreed(ctx, sp, row.BreedName, rowNum)
	if err != nil {
		return errored(err)
	}
	ow, err := rv.resolveOwner(ctx, row, rowNum)
	if err != nil {
		return errored(err)
	}

	key := PatientKey{
		OwnerID:     ow.ID,
		Name:        strings.ToLower(row.PatientName),
		SpeciesID:   sp.ID,
		BreedID:     br.ID,
		DateOfBirth: dateOnly(row.DateOfBirth),
	}
	// Duplicado contra el store O contra lo ya encolado en esta corrida
	// (la misma fila repetida en el archivo no se inserta dos veces).
	if queued[key] {
		return rowOutcome{kind: outcomeSkippedDuplicate}
	}
	exists, err := st.PatientExists(ctx, key)
	if err != nil {
		return errored(rowErrorf(rowNum, "unexpected error processing row: %v", err))
	}
	if exists {
		queued[key] = true
		return rowOutcome{kind: outcomeSkippedDuplicate}
	}

	now := s.now()
	*queue = append(*queue, patients.Patient{
		ID:          uuid.NewString(),
		OwnerID:     ow.ID,
		Name:        row.PatientName,
		SpeciesID:   sp.ID,
		BreedID:     br.ID,
		Sex:         row.Sex,
		Intact:      row.Intact,
		DateOfBirth: dateOnly(row.DateOfBirth),
		WeightKg:    row.WeightKg,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	queued[key] = true
	return rowOutcome{kind: outcomeCreated}
}

func ownerMessage(res Result) string {
	msg := fmt.Sprintf("Import finished. Imported: %d new owners.", res.Created)
	if res.Skipped > 0 {
		msg += fmt.Sprintf(" Skipped: %d duplicate owners.", res.Skipped)
	}
	return msg
}

func patientMessage(res Result) string {
	msg := fmt.Sprintf("Import finished. Imported: %d new patients.", res.Created)
	if res.OwnersCreated > 0 || res.OwnersUpdated > 0 {
		msg += fmt.Sprintf(" Owners created: %d, updated: %d.", res.OwnersCreated, res.OwnersUpdated)
	}
	if res.Skipped > 0 {
		msg += fmt.Sprintf(" Skipped: %d duplicate patients.", res.Skipped)
	}
	return msg
}
