package cases

import "context"

type Repository interface {
	Create(ctx context.Context, c Case) error
	GetByID(ctx context.Context, id string) (Case, error)
	ListByPatient(ctx context.Context, patientID string) ([]Case, error)
	Update(ctx context.Context, c Case) error
}
