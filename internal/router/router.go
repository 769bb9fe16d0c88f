package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "clinic-records/internal/adapters/storage/memory"
	pg "clinic-records/internal/adapters/storage/postgres"
	"clinic-records/internal/domain/cases"
	"clinic-records/internal/domain/catalog"
	"clinic-records/internal/domain/importer"
	"clinic-records/internal/domain/owners"
	"clinic-records/internal/domain/patients"
	"clinic-records/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{})
	}

	var (
		ownersRepo   owners.Repository
		catalogRepo  catalog.Repository
		patientsRepo patients.Repository
		casesRepo    cases.Repository
		importRunner importer.Runner
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		ownersRepo = pg.NewOwnersRepo(db)
		catalogRepo = pg.NewCatalogRepo(db)
		patientsRepo = pg.NewPatientsRepo(db)
		casesRepo = pg.NewCasesRepo(db)
		importRunner = pg.NewImportRunner(db)
	} else {
		mdb := mem.NewDB()
		ownersRepo = mem.NewOwnersRepo(mdb)
		catalogRepo = mem.NewCatalogRepo(mdb)
		patientsRepo = mem.NewPatientsRepo(mdb)
		casesRepo = mem.NewCasesRepo(mdb)
		importRunner = mem.NewImportRunner(mdb)
	}

	// Services por módulo
	ownersSvc := owners.NewService(ownersRepo)
	catalogSvc := catalog.NewService(catalogRepo)
	patientsSvc := patients.NewService(patientsRepo)
	casesSvc := cases.NewService(casesRepo)
	importSvc := importer.NewService(importRunner, log)

	// Rutas por módulo
	owners.RegisterRoutes(r, ownersSvc)
	catalog.RegisterRoutes(r, catalogSvc)
	patients.RegisterRoutes(r, patientsSvc)
	cases.RegisterRoutes(r, casesSvc, patientsSvc)
	importer.RegisterRoutes(r, importSvc)

	return r
}
