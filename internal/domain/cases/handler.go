package cases

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"clinic-records/internal/domain/patients"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service) {
	r.Route("/patients/{patientID}/cases", func(cr chi.Router) {
		cr.Post("/", openCaseHandler(svc, patientsSvc))
		cr.Get("/", listCasesHandler(svc, patientsSvc))
		cr.Post("/{caseID}/close", closeCaseHandler(svc))
	})
}

type openCaseRequest struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	OpenedAt string `json:"opened_at"` // RFC3339 opcional
}

type caseResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	OpenedAt  time.Time `json:"opened_at"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func openCaseHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientID")
		if _, err := patientsSvc.GetByID(r.Context(), patientID); err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		var req openCaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var openedAt time.Time
		if strings.TrimSpace(req.OpenedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.OpenedAt)
			if err != nil {
				http.Error(w, "opened_at must be RFC3339", http.StatusBadRequest)
				return
			}
			openedAt = t
		}

		c, err := svc.Open(r.Context(), patientID, OpenInput{
			Title:    req.Title,
			Notes:    req.Notes,
			OpenedAt: openedAt,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toCaseResponse(c))
	}
}

func listCasesHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientID")
		if _, err := patientsSvc.GetByID(r.Context(), patientID); err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]caseResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCaseResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func closeCaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Close(r.Context(), chi.URLParam(r, "caseID"))
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "case not found", http.StatusNotFound)
			}
			return
		}
		writeJSON(w, http.StatusOK, toCaseResponse(c))
	}
}

func toCaseResponse(c Case) caseResponse {
	return caseResponse{
		ID:        c.ID,
		PatientID: c.PatientID,
		Title:     c.Title,
		Notes:     c.Notes,
		OpenedAt:  c.OpenedAt,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
