package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEncoding: el archivo no es UTF-8 válido.
	ErrEncoding = errors.New("file encoding error: expected UTF-8")
	// ErrEmptyFile: no hay ni fila de header.
	ErrEmptyFile = errors.New("csv file is empty")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table es el resultado de parsear un CSV subido: header normalizado
// (trim + lowercase) y filas de datos consumibles en una sola pasada.
type Table struct {
	Headers []string

	rows *csv.Reader
}

// ParseTable decodifica el archivo completo (el archivo vive solo lo
// que dura el request), tolera BOM UTF-8 opcional y valida encoding.
func ParseTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrEncoding
	}

	cr := csv.NewReader(bytes.NewReader(data))
	// Filas con distinto ancho se ajustan después contra el header;
	// acá no queremos que el reader las rechace.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &Table{Headers: headers, rows: cr}, nil
}

// Next devuelve la siguiente fila cruda. ok=false al agotar el archivo.
// No es rebobinable: una pasada por ParseTable.
func (t *Table) Next() (row []string, ok bool, err error) {
	rec, err := t.rows.Read()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Record proyecta una fila cruda sobre el header: celdas de más se
// descartan, celdas faltantes quedan "".
func (t *Table) Record(row []string) map[string]string {
	rec := make(map[string]string, len(t.Headers))
	for i, h := range t.Headers {
		if i < len(row) {
			rec[h] = strings.TrimSpace(row[i])
		} else {
			rec[h] = ""
		}
	}
	return rec
}
