package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/imports/owners", func(ir chi.Router) {
		ir.Get("/template", templateHandler("owner_import_template.csv", OwnerTemplate))
		ir.Post("/preview", previewHandler(svc.PreviewOwnerImport))
		ir.Post("/execute", executeHandler(svc.ExecuteOwnerImport))
	})

	r.Route("/imports/patients", func(ir chi.Router) {
		ir.Get("/template", templateHandler("patient_import_template.csv", PatientTemplate))
		ir.Post("/preview", previewHandler(svc.PreviewPatientImport))
		ir.Post("/execute", executeHandler(svc.ExecutePatientImport))
	})
}

type previewPayload struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type previewResponse struct {
	Success      bool            `json:"success"`
	Preview      *previewPayload `json:"preview,omitempty"`
	TotalRecords int             `json:"total_records,omitempty"`
	Error        string          `json:"error,omitempty"`
}

type executeResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	Error         string   `json:"error,omitempty"`
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	OwnersCreated int      `json:"owners_created,omitempty"`
	OwnersUpdated int      `json:"owners_updated,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// templateHandler descarga el CSV de ejemplo para esta familia de import.
func templateHandler(filename string, template func() (headers, example []string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headers, example := template()

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		cw := csv.NewWriter(w)
		_ = cw.Write(headers)
		_ = cw.Write(example)
		cw.Flush()
	}
}

// previewHandler godoc
// @Summary Preview de un archivo de import
// @Description Valida headers y devuelve las primeras 10 filas más el total. No muta estado; el execute debe re-subir el mismo archivo (no hay staging server-side).
// @Tags imports
// @Accept mpfd
// @Produce json
// @Param file formData file true "Archivo .csv UTF-8 (BOM opcional)"
// @Success 200 {object} previewResponse
// @Failure 400 {object} previewResponse
func previewHandler(fn func(context.Context, io.Reader) (Preview, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, ok := openUpload(w, r)
		if !ok {
			return
		}
		defer file.Close()

		p, err := fn(r.Context(), file)
		if err != nil {
			writeImportJSON(w, http.StatusBadRequest, previewResponse{Success: false, Error: err.Error()})
			return
		}

		writeImportJSON(w, http.StatusOK, previewResponse{
			Success:      true,
			Preview:      &previewPayload{Headers: p.Headers, Rows: p.Rows},
			TotalRecords: p.TotalRecords,
		})
	}
}

// executeHandler godoc
// @Summary Ejecutar un import
// @Description Corre el pipeline completo. Un error de commit devuelve 500 y no persiste nada de la corrida; errores de fila devuelven 400 con counts parciales y la lista de errores acotada.
// @Tags imports
// @Accept mpfd
// @Produce json
// @Param file formData file true "Archivo .csv UTF-8 (BOM opcional)"
// @Success 200 {object} executeResponse
// @Failure 400 {object} executeResponse
// @Failure 500 {object} executeResponse
func executeHandler(fn func(context.Context, io.Reader) (Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, ok := openUpload(w, r)
		if !ok {
			return
		}
		defer file.Close()

		res, err := fn(r.Context(), file)
		if err != nil {
			var ce *CommitError
			if errors.As(err, &ce) {
				writeImportJSON(w, http.StatusInternalServerError, executeResponse{
					Success: false,
					Error:   "Database error during bulk import.",
				})
				return
			}
			writeImportJSON(w, http.StatusBadRequest, executeResponse{Success: false, Error: err.Error()})
			return
		}

		status := http.StatusOK
		if !res.Success {
			// Hubo filas con error aunque parte se haya importado:
			// el caller muestra "éxito parcial" sin perder los counts.
			status = http.StatusBadRequest
		}

		writeImportJSON(w, status, executeResponse{
			Success:       res.Success,
			Message:       res.Message,
			ImportedCount: res.Created,
			SkippedCount:  res.Skipped,
			OwnersCreated: res.OwnersCreated,
			OwnersUpdated: res.OwnersUpdated,
			Errors:        res.Errors,
		})
	}
}

func openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeImportJSON(w, http.StatusBadRequest, executeResponse{Success: false, Error: "No file uploaded."})
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeImportJSON(w, http.StatusBadRequest, executeResponse{Success: false, Error: "No file uploaded."})
		return nil, false
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		_ = file.Close()
		writeImportJSON(w, http.StatusBadRequest, executeResponse{Success: false, Error: "Invalid file type. Please upload a .csv file."})
		return nil, false
	}

	return file, true
}

func writeImportJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
