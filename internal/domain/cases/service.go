package cases

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

type OpenInput struct {
	Title    string
	Notes    string
	OpenedAt time.Time
}

func (s *Service) Open(ctx context.Context, patientID string, in OpenInput) (Case, error) {
	if strings.TrimSpace(patientID) == "" {
		return Case{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return Case{}, ErrInvalidInput
	}

	now := s.now()
	openedAt := in.OpenedAt
	if openedAt.IsZero() {
		openedAt = now
	}

	c := Case{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Title:     strings.TrimSpace(in.Title),
		Notes:     strings.TrimSpace(in.Notes),
		OpenedAt:  openedAt,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Case, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Close marca el caso como cerrado (no se borra).
func (s *Service) Close(ctx context.Context, id string) (Case, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Case{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Case{}, err
	}

	c.Status = StatusClosed
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Case{}, err
	}
	return c, nil
}
