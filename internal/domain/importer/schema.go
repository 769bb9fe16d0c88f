package importer

import (
	"fmt"
	"strings"
)

// Schema declara las columnas de una familia de import. AnyOf exige
// que al menos una de las columnas listadas esté presente en el header
// (requisito disyuntivo, no un required más).
type Schema struct {
	Required []string
	Optional []string
	AnyOf    []string
}

var ownerSchema = Schema{
	Required: []string{"last_name"},
	Optional: []string{"first_name", "email", "telephone", "address", "comments", "created_at"},
}

var patientSchema = Schema{
	Required: []string{"last_name", "patient_name", "species_code", "breed_name", "sex", "intact", "weight_kg"},
	Optional: []string{"first_name", "email", "telephone", "address", "owner_comments"},
	AnyOf:    []string{"date_of_birth", "age_years"},
}

// ValidateHeaders chequea columnas requeridas (y el grupo AnyOf)
// contra el header ya normalizado. Error => aborto pre-flight.
func (s Schema) ValidateHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range s.Required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	if len(s.AnyOf) > 0 {
		found := false
		for _, col := range s.AnyOf {
			if present[col] {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("missing required columns: at least one of %s", strings.Join(s.AnyOf, ", "))
		}
	}

	return nil
}

// OwnerTemplate devuelve header + fila de ejemplo para descargar.
func OwnerTemplate() (headers, example []string) {
	headers = []string{"last_name", "first_name", "email", "telephone", "address", "comments", "created_at"}
	example = []string{"Doe", "John", "john.doe@example.com", "555-1234", "123 Main St", "Optional notes", "2024-01-15 10:30:00"}
	return headers, example
}

// PatientTemplate devuelve header + fila de ejemplo para descargar.
func PatientTemplate() (headers, example []string) {
	headers = []string{
		"last_name", "first_name", "email", "telephone", "address", "owner_comments",
		"patient_name", "species_code", "breed_name", "sex", "intact",
		"date_of_birth", "age_years", "weight_kg",
	}
	example = []string{
		"Doe", "John", "john.doe@example.com", "555-1234", "123 Main St", "Optional notes",
		"Milo", "CANINE", "Labrador", "M", "yes",
		"2020-06-01", "", "28.4",
	}
	return headers, example
}
