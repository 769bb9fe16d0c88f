package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const previewRowCount = 10

// ErrNoDataRows: header válido pero cero filas de datos.
var ErrNoDataRows = errors.New("csv file contains only a header row")

// Preview es la variante read-only: valida headers y devuelve una
// muestra acotada más el total de filas. Nunca muta estado.
type Preview struct {
	Headers      []string
	Rows         [][]string
	TotalRecords int
}

func (s *Service) PreviewOwnerImport(_ context.Context, r io.Reader) (Preview, error) {
	return preview(r, ownerSchema)
}

func (s *Service) PreviewPatientImport(_ context.Context, r io.Reader) (Preview, error) {
	return preview(r, patientSchema)
}

func preview(r io.Reader, schema Schema) (Preview, error) {
	tbl, err := ParseTable(r)
	if err != nil {
		return Preview{}, err
	}
	if err := schema.ValidateHeaders(tbl.Headers); err != nil {
		return Preview{}, err
	}

	p := Preview{
		Headers: tbl.Headers,
		Rows:    make([][]string, 0, previewRowCount),
	}

	rowNum := 1
	for {
		raw, ok, rerr := tbl.Next()
		if rerr != nil {
			return Preview{}, fmt.Errorf("read row %d: %w", rowNum+1, rerr)
		}
		if !ok {
			break
		}
		rowNum++
		p.TotalRecords++

		if len(p.Rows) < previewRowCount {
			// En la muestra validamos el ancho tal cual viene: una fila
			// torcida a la vista del usuario corta el preview entero.
			if len(raw) != len(tbl.Headers) {
				return Preview{}, fmt.Errorf("Row %d has incorrect number of columns (%d). Expected %d.", rowNum, len(raw), len(tbl.Headers))
			}
			p.Rows = append(p.Rows, raw)
		}
	}

	if p.TotalRecords == 0 {
		return Preview{}, ErrNoDataRows
	}
	return p, nil
}
