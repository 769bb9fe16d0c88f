package owners

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/owners", func(or chi.Router) {
		or.Get("/", listOwnersHandler(svc))
		or.Post("/", createOwnerHandler(svc))
		or.Get("/{ownerID}", getOwnerHandler(svc))
		or.Put("/{ownerID}", updateOwnerHandler(svc))
		or.Delete("/{ownerID}", deleteOwnerHandler(svc))
	})
}

type ownerRequest struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Address   string `json:"address"`
	Comments  string `json:"comments"`
}

type ownerResponse struct {
	ID        string    `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Telephone string    `json:"telephone"`
	Address   string    `json:"address"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ownerListResponse struct {
	Success     bool            `json:"success"`
	Page        int             `json:"page"`
	PerPage     int             `json:"per_page"`
	TotalPages  int             `json:"total_pages"`
	TotalOwners int             `json:"total_owners"`
	HasPrevious bool            `json:"has_previous"`
	HasNext     bool            `json:"has_next"`
	Results     []ownerResponse `json:"results"`
}

// listOwnersHandler godoc
// @Summary Listar owners
// @Description Listado paginado con búsqueda por substring sobre filter_fields.
// @Tags owners
// @Produce json
// @Param page query int false "Página (1-based)"
// @Param per_page query int false "Tamaño de página (máx 100)"
// @Param query query string false "Texto a buscar"
// @Param filter_fields query []string false "Campos donde buscar"
// @Success 200 {object} ownerListResponse
// @Router /owners [get]
func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page := 1
		if v := q.Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid page parameter", http.StatusBadRequest)
				return
			}
			page = n
		}

		perPage := DefaultPerPage
		if v := q.Get("per_page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid per_page parameter", http.StatusBadRequest)
				return
			}
			perPage = n
		}

		items, total, err := svc.List(r.Context(), ListFilter{
			Query:   q.Get("query"),
			Fields:  q["filter_fields"],
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if perPage <= 0 {
			perPage = DefaultPerPage
		}
		if perPage > MaxPerPage {
			perPage = MaxPerPage
		}
		totalPages := (total + perPage - 1) / perPage
		if totalPages < 1 {
			totalPages = 1
		}
		if page < 1 {
			page = 1
		}
		if page > totalPages {
			page = totalPages
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}

		writeJSON(w, http.StatusOK, ownerListResponse{
			Success:     true,
			Page:        page,
			PerPage:     perPage,
			TotalPages:  totalPages,
			TotalOwners: total,
			HasPrevious: page > 1,
			HasNext:     page < totalPages,
			Results:     out,
		})
	}
}

func createOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ownerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toOwnerResponse(o))
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ownerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Update(r.Context(), chi.URLParam(r, "ownerID"), CreateInput(req))
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "owner not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func deleteOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "ownerID")); err != nil {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		LastName:  o.LastName,
		FirstName: o.FirstName,
		Email:     o.Email,
		Telephone: o.Telephone,
		Address:   o.Address,
		Comments:  o.Comments,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
