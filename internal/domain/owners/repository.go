package owners

import "context"

// ListFilter pagina y filtra el listado de owners.
// Query busca por substring (case-insensitive) sobre Fields.
type ListFilter struct {
	Query   string
	Fields  []string
	Page    int
	PerPage int
}

// FilterFields son los campos buscables permitidos.
var FilterFields = []string{"last_name", "first_name", "email", "telephone", "address", "comments"}

type Repository interface {
	Create(ctx context.Context, o Owner) error
	Update(ctx context.Context, o Owner) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Owner, error)

	// List devuelve la página pedida y el total sin paginar.
	List(ctx context.Context, f ListFilter) ([]Owner, int, error)

	// FindByIdentity devuelve TODOS los matches de la tripleta
	// case-insensitive (el import necesita detectar ambigüedad).
	FindByIdentity(ctx context.Context, last, first, email string) ([]Owner, error)
}
