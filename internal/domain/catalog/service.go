package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidCode  = errors.New("species code must contain letters only")
)

// NormalizeCode valida y normaliza un code de especie: trim, solo
// letras, siempre en mayúsculas.
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrInvalidCode
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return "", ErrInvalidCode
		}
	}
	return strings.ToUpper(code), nil
}

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

func (s *Service) CreateSpecies(ctx context.Context, code, name string) (Species, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return Species{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Species{}, ErrInvalidInput
	}

	sp := Species{
		ID:        uuid.NewString(),
		Code:      normalized,
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSpecies(ctx, sp); err != nil {
		return Species{}, err
	}
	return sp, nil
}

func (s *Service) SpeciesByCode(ctx context.Context, code string) (Species, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return Species{}, err
	}
	return s.repo.SpeciesByCode(ctx, normalized)
}

func (s *Service) ListSpecies(ctx context.Context) ([]Species, error) {
	return s.repo.ListSpecies(ctx)
}

func (s *Service) CreateBreed(ctx context.Context, speciesCode, name string) (Breed, error) {
	if strings.TrimSpace(name) == "" {
		return Breed{}, ErrInvalidInput
	}

	sp, err := s.SpeciesByCode(ctx, speciesCode)
	if err != nil {
		return Breed{}, err
	}

	b := Breed{
		ID:        uuid.NewString(),
		SpeciesID: sp.ID,
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateBreed(ctx, b); err != nil {
		return Breed{}, err
	}
	return b, nil
}

func (s *Service) ListBreedsBySpecies(ctx context.Context, speciesID string) ([]Breed, error) {
	return s.repo.ListBreedsBySpecies(ctx, speciesID)
}
