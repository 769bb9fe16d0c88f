package owners

import (
	"strings"
	"time"
)

// Owner representa al responsable de uno o más pacientes de la clínica.
// La identidad de negocio no es un campo único sino la tripleta
// (last_name, first_name, email) comparada case-insensitive, con
// first_name/email vacíos permitidos. LastName nunca vacío.
type Owner struct {
	ID string

	LastName  string
	FirstName string
	Email     string

	Telephone string
	Address   string
	Comments  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdentityKey normaliza la tripleta de identidad para dedup y caches.
func IdentityKey(last, first, email string) string {
	fold := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return fold(last) + "\x1f" + fold(first) + "\x1f" + fold(email)
}

func (o Owner) IdentityKey() string {
	return IdentityKey(o.LastName, o.FirstName, o.Email)
}
