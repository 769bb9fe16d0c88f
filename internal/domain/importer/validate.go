package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"clinic-records/internal/domain/patients"
)

const (
	dateLayout      = "2006-01-02"
	createdAtLayout = "2006-01-02 15:04:05"

	// Promedio fijo, no calendario: mantiene la fecha derivada
	// determinística dado "hoy" y la edad.
	daysPerYear = 365.25
)

// rowError es el error de UNA fila: la fila se excluye del resto del
// pipeline y la corrida continúa con la siguiente.
type rowError struct {
	Row int
	Msg string
}

func (e rowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Msg)
}

func rowErrorf(row int, format string, args ...any) rowError {
	return rowError{Row: row, Msg: fmt.Sprintf(format, args...)}
}

// ownerRow es una fila de import de owners ya validada y tipada.
type ownerRow struct {
	LastName  string
	FirstName string
	Email     string
	Telephone string
	Address   string
	Comments  string
	CreatedAt *time.Time
}

func parseOwnerRow(rec map[string]string, rowNum int) (ownerRow, error) {
	out := ownerRow{
		LastName:  rec["last_name"],
		FirstName: rec["first_name"],
		Email:     rec["email"],
		Telephone: rec["telephone"],
		Address:   rec["address"],
		Comments:  rec["comments"],
	}

	if out.LastName == "" {
		return ownerRow{}, rowErrorf(rowNum, "Missing required value for last_name.")
	}

	// created_at es opcional, pero si el caller lo pidió y no parsea,
	// la fila es error duro (no se ignora en silencio).
	if raw := rec["created_at"]; raw != "" {
		t, err := time.Parse(createdAtLayout, raw)
		if err != nil {
			return ownerRow{}, rowErrorf(rowNum, "Invalid format for created_at '%s'. Expected YYYY-MM-DD HH:MM:SS.", raw)
		}
		out.CreatedAt = &t
	}

	return out, nil
}

// patientRow es una fila de import de pacientes ya validada y tipada.
type patientRow struct {
	LastName      string
	FirstName     string
	Email         string
	Telephone     string
	Address       string
	OwnerComments string

	PatientName string
	SpeciesCode string
	BreedName   string
	Sex         patients.Sex
	Intact      bool
	DateOfBirth time.Time
	WeightKg    float64
}

func parsePatientRow(rec map[string]string, rowNum int, today time.Time) (patientRow, error) {
	out := patientRow{
		LastName:      rec["last_name"],
		FirstName:     rec["first_name"],
		Email:         rec["email"],
		Telephone:     rec["telephone"],
		Address:       rec["address"],
		OwnerComments: rec["owner_comments"],
		PatientName:   rec["patient_name"],
		SpeciesCode:   rec["species_code"],
		BreedName:     rec["breed_name"],
	}

	for _, col := range []struct {
		name  string
		value string
	}{
		{"last_name", out.LastName},
		{"patient_name", out.PatientName},
		{"species_code", out.SpeciesCode},
		{"breed_name", out.BreedName},
		{"sex", rec["sex"]},
		{"intact", rec["intact"]},
		{"weight_kg", rec["weight_kg"]},
	} {
		if col.value == "" {
			return patientRow{}, rowErrorf(rowNum, "Missing required value for %s.", col.name)
		}
	}

	sex, err := patients.ParseSex(rec["sex"])
	if err != nil {
		return patientRow{}, rowErrorf(rowNum, "Invalid value for sex '%s'. Expected M, F or U.", rec["sex"])
	}
	out.Sex = sex

	intact, ok := parseBool(rec["intact"])
	if !ok {
		return patientRow{}, rowErrorf(rowNum, "Invalid value for intact '%s'. Expected true/false, yes/no or 1/0.", rec["intact"])
	}
	out.Intact = intact

	weight, err := strconv.ParseFloat(rec["weight_kg"], 64)
	if err != nil || weight < 0 {
		return patientRow{}, rowErrorf(rowNum, "Invalid value for weight_kg '%s'. Expected a non-negative number.", rec["weight_kg"])
	}
	out.WeightKg = weight

	dob, ok := resolveDateOfBirth(rec["date_of_birth"], rec["age_years"], today)
	if !ok {
		return patientRow{}, rowErrorf(rowNum, "Missing or invalid date_of_birth and age_years; one of them is required.")
	}
	out.DateOfBirth = dob

	return out, nil
}

// parseBool acepta los encodings del template: true/yes/1, false/no/0.
func parseBool(raw string) (value, ok bool) {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}

// resolveDateOfBirth intenta date_of_birth (YYYY-MM-DD) y cae a
// age_years: hoy menos age*365.25 días. Si ninguna sirve, la fila es
// error duro.
func resolveDateOfBirth(dobRaw, ageRaw string, today time.Time) (time.Time, bool) {
	if dobRaw != "" {
		if t, err := time.Parse(dateLayout, dobRaw); err == nil {
			return t, true
		}
	}

	if ageRaw != "" {
		age, err := strconv.ParseFloat(ageRaw, 64)
		if err == nil && age >= 0 {
			days := int(math.Round(age * daysPerYear))
			return dateOnly(today).AddDate(0, 0, -days), true
		}
	}

	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
