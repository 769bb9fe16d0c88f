package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/species", func(sr chi.Router) {
		sr.Get("/", listSpeciesHandler(svc))
		sr.Post("/", createSpeciesHandler(svc))
		sr.Get("/{speciesID}/breeds", listBreedsHandler(svc))
	})
}

type speciesRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type speciesResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type breedResponse struct {
	ID        string    `json:"id"`
	SpeciesID string    `json:"species_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func listSpeciesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListSpecies(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]speciesResponse, 0, len(items))
		for _, sp := range items {
			out = append(out, speciesResponse{
				ID:        sp.ID,
				Code:      sp.Code,
				Name:      sp.Name,
				CreatedAt: sp.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createSpeciesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req speciesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sp, err := svc.CreateSpecies(r.Context(), req.Code, req.Name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, speciesResponse{
			ID:        sp.ID,
			Code:      sp.Code,
			Name:      sp.Name,
			CreatedAt: sp.CreatedAt,
		})
	}
}

func listBreedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListBreedsBySpecies(r.Context(), chi.URLParam(r, "speciesID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]breedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, breedResponse{
				ID:        b.ID,
				SpeciesID: b.SpeciesID,
				Name:      b.Name,
				CreatedAt: b.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
