package postgres

import (
	"context"
	"database/sql"
	"strings"

	"clinic-records/internal/domain/owners"

	sq "github.com/Masterminds/squirrel"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerColumns = `
	id, last_name, first_name, email,
	telephone, address, comments,
	created_at, updated_at
`

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO owners (
			id, last_name, first_name, email,
			telephone, address, comments,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		o.ID,
		o.LastName,
		o.FirstName,
		o.Email,
		o.Telephone,
		o.Address,
		o.Comments,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE owners
		SET
			last_name = $2,
			first_name = $3,
			email = $4,
			telephone = $5,
			address = $6,
			comments = $7,
			updated_at = $8
		WHERE id = $1
	`,
		o.ID,
		o.LastName,
		o.FirstName,
		o.Email,
		o.Telephone,
		o.Address,
		o.Comments,
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return owners.Owner{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE id = $1
	`, id)

	o, err := scanOwner(row)
	if err == sql.ErrNoRows {
		return owners.Owner{}, ErrNotFound
	}
	return o, err
}

// List arma la búsqueda dinámica con squirrel: un ILIKE por campo
// pedido, todos en OR, y el mismo WHERE para la página y el count.
func (r *OwnersRepo) List(ctx context.Context, f owners.ListFilter) ([]owners.Owner, int, error) {
	where := sq.And{}
	if f.Query != "" {
		or := sq.Or{}
		for _, field := range f.Fields {
			or = append(or, sq.ILike{field: "%" + f.Query + "%"})
		}
		where = append(where, or)
	}

	countQ := psql.Select("COUNT(*)").From("owners")
	if len(where) > 0 {
		countQ = countQ.Where(where)
	}
	sqlStr, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageQ := psql.
		Select("id", "last_name", "first_name", "email",
			"telephone", "address", "comments",
			"created_at", "updated_at").
		From("owners").
		OrderBy("LOWER(last_name) ASC", "created_at ASC").
		Limit(uint64(f.PerPage)).
		Offset(uint64((f.Page - 1) * f.PerPage))
	if len(where) > 0 {
		pageQ = pageQ.Where(where)
	}
	sqlStr, args, err = pageQ.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *OwnersRepo) FindByIdentity(ctx context.Context, last, first, email string) ([]owners.Owner, error) {
	return queryOwnersByIdentity(ctx, r.db, last, first, email)
}

// queryOwnersByIdentity corre sobre *sql.DB o *sql.Tx (lo comparte el
// import store). Tripleta case-insensitive, todos los matches.
func queryOwnersByIdentity(ctx context.Context, q querier, last, first, email string) ([]owners.Owner, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE LOWER(last_name) = LOWER($1)
		  AND LOWER(first_name) = LOWER($2)
		  AND LOWER(email) = LOWER($3)
		ORDER BY created_at ASC
	`, strings.TrimSpace(last), strings.TrimSpace(first), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0, 1)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOwner(row rowScanner) (owners.Owner, error) {
	var o owners.Owner
	err := row.Scan(
		&o.ID,
		&o.LastName,
		&o.FirstName,
		&o.Email,
		&o.Telephone,
		&o.Address,
		&o.Comments,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
