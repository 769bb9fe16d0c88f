package patients

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

func ParseSex(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return SexMale, nil
	case "F":
		return SexFemale, nil
	case "U":
		return SexUnknown, nil
	default:
		return "", ErrInvalidInput
	}
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

type CreateInput struct {
	OwnerID     string
	Name        string
	SpeciesID   string
	BreedID     string
	Sex         string
	Intact      bool
	DateOfBirth time.Time
	WeightKg    float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.SpeciesID) == "" || strings.TrimSpace(in.BreedID) == "" {
		return Patient{}, ErrInvalidInput
	}
	sex, err := ParseSex(in.Sex)
	if err != nil {
		return Patient{}, ErrInvalidInput
	}
	if in.WeightKg < 0 {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:          uuid.NewString(),
		OwnerID:     in.OwnerID,
		Name:        strings.TrimSpace(in.Name),
		SpeciesID:   in.SpeciesID,
		BreedID:     in.BreedID,
		Sex:         sex,
		Intact:      in.Intact,
		DateOfBirth: in.DateOfBirth,
		WeightKg:    in.WeightKg,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Patient, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
