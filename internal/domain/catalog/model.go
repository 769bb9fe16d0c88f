package catalog

import "time"

// Species es el catálogo de especies atendidas.
// Code es único, mayúsculas y solo letras (ej: CANINE, FELINE).
// El import de pacientes NUNCA crea especies: referirse a un code
// desconocido es error de fila.
type Species struct {
	ID   string
	Code string
	Name string

	CreatedAt time.Time
}

// Breed pertenece a exactamente una especie; Name es único dentro de
// la especie (case-insensitive). El import la auto-crea si falta.
type Breed struct {
	ID        string
	SpeciesID string
	Name      string

	CreatedAt time.Time
}
