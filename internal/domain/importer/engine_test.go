package importer_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	mem "clinic-records/internal/adapters/storage/memory"
	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/importer"
	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"
	"clinic-records/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const ownerHeader = "last_name,first_name,email,telephone,address,comments,created_at\n"

const patientHeader = "last_name,first_name,email,telephone,address,owner_comments," +
	"patient_name,species_code,breed_name,sex,intact,date_of_birth,age_years,weight_kg\n"

func newTestService(db *mem.DB) *importer.Service {
	return importer.NewService(mem.NewImportRunner(db), logger.New(logger.Options{Level: logger.Error}))
}

func seedSpecies(t *testing.T, db *mem.DB, code, name string) catalog.Species {
	t.Helper()

	sp := catalog.Species{ID: uuid.NewString(), Code: code, Name: name, CreatedAt: time.Now()}
	require.NoError(t, mem.NewCatalogRepo(db).CreateSpecies(context.Background(), sp))
	return sp
}

func seedOwner(t *testing.T, db *mem.DB, o owners.Owner) owners.Owner {
	t.Helper()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	require.NoError(t, mem.NewOwnersRepo(db).Create(context.Background(), o))
	return o
}

func TestExecuteOwnerImport_CreatesAndSkips(t *testing.T) {
	db := mem.NewDB()
	seedOwner(t, db, owners.Owner{LastName: "Existing", FirstName: "Eva", Email: "eva@x.com"})

	in := ownerHeader +
		"Doe,John,j@x.com,555-1234,Main St,first note,\n" +
		"doe,JOHN,J@X.COM,,,,\n" + // duplicado in-file (case-insensitive)
		"existing,eva,eva@x.com,,,,\n" + // duplicado contra el store
		"Smith,Anna,a@x.com,,,,2023-05-01 08:00:00\n"

	res, err := newTestService(db).ExecuteOwnerImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 2, res.Created)
	require.Equal(t, 2, res.Skipped)
	require.Empty(t, res.Errors)
	require.Equal(t, "Import finished. Imported: 2 new owners. Skipped: 2 duplicate owners.", res.Message)

	repo := mem.NewOwnersRepo(db)

	got, err := repo.FindByIdentity(context.Background(), "Doe", "John", "j@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "first note\n<Added through bulk import>", got[0].Comments)

	got, err = repo.FindByIdentity(context.Background(), "Smith", "Anna", "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC), got[0].CreatedAt)
}

func TestExecuteOwnerImport_RowErrorsDoNotAbortRun(t *testing.T) {
	db := mem.NewDB()

	in := ownerHeader +
		"Doe,John,,,,,\n" +
		",Nadie,,,,,\n" + // sin last_name
		"Smith,Anna,,,,,\n"

	res, err := newTestService(db).ExecuteOwnerImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, 2, res.Created)
	require.Equal(t, []string{"Row 3: Missing required value for last_name."}, res.Errors)
}

func TestExecuteOwnerImport_ErrorListIsCapped(t *testing.T) {
	db := mem.NewDB()

	var sb strings.Builder
	sb.WriteString(ownerHeader)
	for i := 0; i < 12; i++ {
		sb.WriteString(",Nadie,,,,,\n")
	}

	res, err := newTestService(db).ExecuteOwnerImport(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Len(t, res.Errors, 11)
	require.Equal(t, "...and 2 more errors.", res.Errors[10])
}

func TestExecutePatientImport_EndToEnd(t *testing.T) {
	db := mem.NewDB()
	sp := seedSpecies(t, db, "CANINE", "Canine")

	in := patientHeader +
		"Doe,John,j@x.com,555-1234,Main St,owner note,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n" +
		"Doe,John,j@x.com,,,,Luna,CANINE,labrador,F,no,2021-01-15,,22.0\n"

	res, err := newTestService(db).ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 2, res.Created)
	require.Equal(t, 1, res.OwnersCreated)
	require.Equal(t, 0, res.OwnersUpdated)
	require.Equal(t, 0, res.Skipped)
	require.Equal(t, "Import finished. Imported: 2 new patients. Owners created: 1, updated: 0.", res.Message)

	// Un solo owner para las dos filas
	got, err := mem.NewOwnersRepo(db).FindByIdentity(context.Background(), "Doe", "John", "j@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)

	pts, err := mem.NewPatientsRepo(db).ListByOwner(context.Background(), got[0].ID)
	require.NoError(t, err)
	require.Len(t, pts, 2)

	// La raza se creó UNA vez aunque venga con distinto case
	breeds, err := mem.NewCatalogRepo(db).ListBreedsBySpecies(context.Background(), sp.ID)
	require.NoError(t, err)
	require.Len(t, breeds, 1)
	require.Equal(t, "Labrador", breeds[0].Name)
}

func TestExecutePatientImport_Idempotent(t *testing.T) {
	db := mem.NewDB()
	seedSpecies(t, db, "CANINE", "Canine")

	in := patientHeader +
		"Doe,John,j@x.com,,,,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n"

	svc := newTestService(db)

	res, err := svc.ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)

	res, err = svc.ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 0, res.Created)
	require.Equal(t, 0, res.OwnersCreated)
	require.Equal(t, 1, res.Skipped)
}

func TestExecutePatientImport_UnknownSpeciesFailsRowOnly(t *testing.T) {
	db := mem.NewDB()
	seedSpecies(t, db, "CANINE", "Canine")

	in := patientHeader +
		"Doe,John,,,,,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n" +
		"Doe,John,,,,,Rex,DRAGON,Common,M,no,2019-01-01,,80\n"

	res, err := newTestService(db).ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, 1, res.Created)
	require.Equal(t, []string{"Row 3: Unknown species code 'DRAGON'."}, res.Errors)
}

func TestExecutePatientImport_UpdatesExistingOwner(t *testing.T) {
	db := mem.NewDB()
	seedSpecies(t, db, "FELINE", "Feline")
	existing := seedOwner(t, db, owners.Owner{
		LastName:  "Doe",
		FirstName: "John",
		Email:     "j@x.com",
		Telephone: "555-0000",
		Comments:  "old note",
	})

	in := patientHeader +
		"Doe,John,j@x.com,555-9999,New Addr,vip client,Misha,FELINE,Siamese,F,no,2022-03-10,,4.2\n"

	res, err := newTestService(db).ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, res.Created)
	require.Equal(t, 0, res.OwnersCreated)
	require.Equal(t, 1, res.OwnersUpdated)

	got, err := mem.NewOwnersRepo(db).GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	require.Equal(t, "555-9999", got.Telephone)
	require.Equal(t, "New Addr", got.Address)
	require.Equal(t, "old note\n<Added through bulk import>\nvip client", got.Comments)
}

func TestExecutePatientImport_AmbiguousOwner(t *testing.T) {
	db := mem.NewDB()
	seedSpecies(t, db, "CANINE", "Canine")
	seedOwner(t, db, owners.Owner{LastName: "Doe", FirstName: "John", Email: "j@x.com"})
	seedOwner(t, db, owners.Owner{LastName: "DOE", FirstName: "john", Email: "J@X.COM"})

	in := patientHeader +
		"Doe,John,j@x.com,,,,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n"

	res, err := newTestService(db).ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, 0, res.Created)
	require.Equal(t, []string{"Row 2: Multiple existing owners match 'Doe, John, j@x.com'; cannot import against an ambiguous owner."}, res.Errors)
}

func TestExecutePatientImport_AgeFallbackDerivesDOB(t *testing.T) {
	db := mem.NewDB()
	seedSpecies(t, db, "CANINE", "Canine")

	in := patientHeader +
		"Doe,John,,,,,Milo,CANINE,Labrador,M,yes,,5,28.4\n"

	res, err := newTestService(db).ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)

	got, err := mem.NewOwnersRepo(db).FindByIdentity(context.Background(), "Doe", "John", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	pts, err := mem.NewPatientsRepo(db).ListByOwner(context.Background(), got[0].ID)
	require.NoError(t, err)
	require.Len(t, pts, 1)

	today := time.Now().UTC()
	want := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1826)
	require.Equal(t, want, pts[0].DateOfBirth)
}

// failingPatientsRunner fuerza la falla del insert masivo de pacientes
// para verificar que los owners creados a mitad de corrida no quedan.
type failingPatientsRunner struct {
	inner importer.Runner
}

func (r failingPatientsRunner) RunImport(ctx context.Context, fn func(importer.Store) error) error {
	return r.inner.RunImport(ctx, func(st importer.Store) error {
		return fn(failingPatientsStore{st})
	})
}

type failingPatientsStore struct {
	importer.Store
}

func (s failingPatientsStore) BulkCreatePatients(ctx context.Context, batch []patients.Patient) error {
	return errors.New("insert exploded")
}

func TestExecutePatientImport_CommitFailureLeavesNoOwners(t *testing.T) {
	db := mem.NewDB()
	seedSpecies(t, db, "CANINE", "Canine")

	svc := importer.NewService(
		failingPatientsRunner{inner: mem.NewImportRunner(db)},
		logger.New(logger.Options{Level: logger.Error}),
	)

	in := patientHeader +
		"Doe,John,j@x.com,,,,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n"

	_, err := svc.ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.Error(t, err)

	var ce *importer.CommitError
	require.ErrorAs(t, err, &ce)

	// El owner creado durante la resolución se revirtió con la corrida
	got, ferr := mem.NewOwnersRepo(db).FindByIdentity(context.Background(), "Doe", "John", "j@x.com")
	require.NoError(t, ferr)
	require.Empty(t, got)

	// Tampoco quedó la raza auto-creada
	breeds, berr := mem.NewCatalogRepo(db).ListBreedsBySpecies(context.Background(), speciesID(t, db, "CANINE"))
	require.NoError(t, berr)
	require.Empty(t, breeds)
}

func speciesID(t *testing.T, db *mem.DB, code string) string {
	t.Helper()

	sp, err := mem.NewCatalogRepo(db).SpeciesByCode(context.Background(), code)
	require.NoError(t, err)
	return sp.ID
}

func TestExecutePatientImport_MissingHeadersAbortsBeforeAnyWork(t *testing.T) {
	db := mem.NewDB()

	in := "last_name,patient_name\nDoe,Milo\n"
	_, err := newTestService(db).ExecutePatientImport(context.Background(), strings.NewReader(in))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing required columns")
}

func TestExecuteOwnerImport_ManyRows(t *testing.T) {
	db := mem.NewDB()

	var sb strings.Builder
	sb.WriteString(ownerHeader)
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&sb, "Owner%03d,Name,,,,,\n", i)
	}

	res, err := newTestService(db).ExecuteOwnerImport(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 250, res.Created)

	_, total, err := mem.NewOwnersRepo(db).List(context.Background(), owners.ListFilter{Page: 1, PerPage: 20, Fields: owners.FilterFields})
	require.NoError(t, err)
	require.Equal(t, 250, total)
}
