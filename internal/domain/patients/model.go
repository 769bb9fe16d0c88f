package patients

import "time"

// Sex del paciente.
// @Enum M, F, U
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// Patient pertenece a exactamente un owner y referencia una especie y
// una raza (la raza debe pertenecer a la especie; el CRUD lo valida,
// el import lo garantiza por construcción al resolver la raza dentro
// de la especie ya resuelta).
type Patient struct {
	ID      string
	OwnerID string

	Name      string
	SpeciesID string
	BreedID   string

	Sex         Sex
	Intact      bool
	DateOfBirth time.Time // solo fecha, sin hora
	WeightKg    float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
