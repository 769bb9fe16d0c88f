package cases

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Case
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Case{}}
}

func (r *testRepo) Create(ctx context.Context, c Case) error {
	if _, ok := r.byID[c.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Case, error) {
	c, ok := r.byID[id]
	if !ok {
		return Case{}, errRepoNotFound
	}
	return c, nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string) ([]Case, error) {
	out := make([]Case, 0)
	for _, c := range r.byID {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, c Case) error {
	if _, ok := r.byID[c.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func TestOpen_DefaultsOpenedAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	c, err := svc.Open(context.Background(), "patient-1", OpenInput{Title: " Checkup "})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if c.Status != StatusOpen {
		t.Fatalf("expected open status, got %q", c.Status)
	}
	if c.Title != "Checkup" {
		t.Fatalf("expected trimmed title, got %q", c.Title)
	}
	if c.OpenedAt.IsZero() {
		t.Fatal("expected opened_at defaulted to now")
	}
}

func TestOpen_RequiresTitle(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Open(context.Background(), "patient-1", OpenInput{Title: "  "}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClose_MarksClosed(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	opened, err := svc.Open(context.Background(), "patient-1", OpenInput{
		Title:    "Surgery",
		OpenedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	closed, err := svc.Close(context.Background(), opened.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != StatusClosed {
		t.Fatalf("expected closed status, got %q", closed.Status)
	}

	// Cerrar no borra: sigue en el historial del paciente
	list, err := svc.ListByPatient(context.Background(), "patient-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 case in history, got %d", len(list))
	}
}

func TestClose_UnknownCase(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Close(context.Background(), "nope"); err != errRepoNotFound {
		t.Fatalf("expected repo error, got %v", err)
	}
}
