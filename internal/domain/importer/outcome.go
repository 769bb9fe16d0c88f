package importer

import "fmt"

// Result es el agregado visible de una corrida de import.
// Success es false ante CUALQUIER error de fila, aunque parte del lote
// se haya importado: el caller distingue "no pasó nada" de "importé
// algo pero hay filas para corregir".
type Result struct {
	Success bool
	Message string

	Created       int
	OwnersCreated int // solo camino de pacientes
	OwnersUpdated int // solo camino de pacientes
	Skipped       int

	Errors []string
}

// rowOutcome es la variante etiquetada con el destino de una fila.
// La agregación queda como un fold simple sobre la secuencia de
// outcomes, sin throw/catch por campo.
type rowOutcome struct {
	kind outcomeKind
	err  string // solo para outcomeErrored
}

type outcomeKind int

const (
	outcomeCreated outcomeKind = iota
	outcomeSkippedDuplicate
	outcomeErrored
)

func errored(err error) rowOutcome {
	return rowOutcome{kind: outcomeErrored, err: err.Error()}
}

func (r *Result) apply(o rowOutcome) {
	switch o.kind {
	case outcomeCreated:
		r.Created++
	case outcomeSkippedDuplicate:
		r.Skipped++
	case outcomeErrored:
		r.Errors = append(r.Errors, o.err)
	}
}

// CommitError marca la falla del insert masivo: run-level, aborta y
// revierte la corrida completa.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return "bulk import commit failed: " + e.Err.Error()
}

func (e *CommitError) Unwrap() error { return e.Err }

// capErrors recorta la lista a max y deja constancia de cuántos
// errores más quedaron afuera.
func capErrors(errs []string, max int) []string {
	if len(errs) <= max {
		return errs
	}
	out := make([]string, 0, max+1)
	out = append(out, errs[:max]...)
	out = append(out, fmt.Sprintf("...and %d more errors.", len(errs)-max))
	return out
}
