package cases

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Case es un caso clínico asociado a un paciente. No se borra:
// se cierra y queda en el historial.
type Case struct {
	ID        string
	PatientID string

	Title string
	Notes string

	OpenedAt time.Time
	Status   Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
