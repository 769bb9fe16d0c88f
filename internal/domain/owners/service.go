package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	LastName  string
	FirstName string
	Email     string
	Telephone string
	Address   string
	Comments  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Owner, error) {
	if strings.TrimSpace(in.LastName) == "" {
		return Owner{}, ErrInvalidInput
	}

	now := s.now()
	o := Owner{
		ID:        uuid.NewString(),
		LastName:  strings.TrimSpace(in.LastName),
		FirstName: strings.TrimSpace(in.FirstName),
		Email:     strings.TrimSpace(in.Email),
		Telephone: strings.TrimSpace(in.Telephone),
		Address:   strings.TrimSpace(in.Address),
		Comments:  strings.TrimSpace(in.Comments),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Owner, error) {
	if strings.TrimSpace(in.LastName) == "" {
		return Owner{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Owner{}, err
	}

	current.LastName = strings.TrimSpace(in.LastName)
	current.FirstName = strings.TrimSpace(in.FirstName)
	current.Email = strings.TrimSpace(in.Email)
	current.Telephone = strings.TrimSpace(in.Telephone)
	current.Address = strings.TrimSpace(in.Address)
	current.Comments = strings.TrimSpace(in.Comments)
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Owner{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Owner, error) {
	return s.repo.GetByID(ctx, id)
}

// List normaliza paginación y campos de búsqueda antes de delegar al repo.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Owner, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}

	f.Query = strings.TrimSpace(f.Query)
	f.Fields = validFilterFields(f.Fields)
	if len(f.Fields) == 0 {
		f.Fields = FilterFields
	}

	return s.repo.List(ctx, f)
}

func validFilterFields(requested []string) []string {
	allowed := map[string]bool{}
	for _, f := range FilterFields {
		allowed[f] = true
	}

	out := make([]string, 0, len(requested))
	for _, f := range requested {
		f = strings.ToLower(strings.TrimSpace(f))
		if allowed[f] {
			out = append(out, f)
		}
	}
	return out
}
