// Package faults define los tres tipos de fallo que usa todo el núcleo
// de autorización, más el de entrada inválida. Los services los envuelven
// con contexto (fmt.Errorf + %w) y los handlers los mapean a HTTP con
// errors.Is, sin inspeccionar el detalle interno.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound: el id no resuelve a ningún registro del tipo esperado
	// (incluye relaciones colgantes, p.ej. animal padre inexistente).
	ErrNotFound = errors.New("not found")

	// ErrForbidden: el recurso existe pero el caller no cumple la regla
	// de acceso (ownership, rol de grupo, sexo en parentesco, etc.).
	ErrForbidden = errors.New("forbidden")

	// ErrConflict: se violaría un invariante de unicidad
	// (membresía duplicada, email ya registrado, ciclo de parentesco).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: entrada mal formada, previa a cualquier regla de acceso.
	ErrInvalidInput = errors.New("invalid input")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// HTTPStatus mapea los tipos de fallo a códigos HTTP.
// Cualquier otro error es un 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
