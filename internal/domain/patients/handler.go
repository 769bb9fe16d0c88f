package patients

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Delete("/{patientID}", deletePatientHandler(svc))
	})

	r.Get("/owners/{ownerID}/patients", listPatientsByOwnerHandler(svc))
}

type createPatientRequest struct {
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	SpeciesID   string  `json:"species_id"`
	BreedID     string  `json:"breed_id"`
	Sex         string  `json:"sex"`
	Intact      bool    `json:"intact"`
	DateOfBirth string  `json:"date_of_birth"` // YYYY-MM-DD
	WeightKg    float64 `json:"weight_kg"`
}

type patientResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	SpeciesID   string    `json:"species_id"`
	BreedID     string    `json:"breed_id"`
	Sex         Sex       `json:"sex"`
	Intact      bool      `json:"intact"`
	DateOfBirth string    `json:"date_of_birth"`
	WeightKg    float64   `json:"weight_kg"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var dob time.Time
		if strings.TrimSpace(req.DateOfBirth) != "" {
			t, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = t
		}

		p, err := svc.Create(r.Context(), CreateInput{
			OwnerID:     req.OwnerID,
			Name:        req.Name,
			SpeciesID:   req.SpeciesID,
			BreedID:     req.BreedID,
			Sex:         req.Sex,
			Intact:      req.Intact,
			DateOfBirth: dob,
			WeightKg:    req.WeightKg,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func deletePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "patientID")); err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func listPatientsByOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		SpeciesID:   p.SpeciesID,
		BreedID:     p.BreedID,
		Sex:         p.Sex,
		Intact:      p.Intact,
		DateOfBirth: p.DateOfBirth.Format("2006-01-02"),
		WeightKg:    p.WeightKg,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON duplicado a propósito entre módulos (ver owners/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
