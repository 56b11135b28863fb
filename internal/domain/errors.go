package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrAccessDenied: el proveedor de identidad aceptó al usuario pero el backend
	// no tiene una invitación para su correo.
	ErrAccessDenied = errors.New("correo no autorizado para el sistema")

	// Validaciones del formulario de cotización (antes de llamar al backend).
	ErrClientRequired   = errors.New("debes seleccionar un cliente")
	ErrEmptyQuotation   = errors.New("la cotización no puede estar vacía")
	ErrTotalsMismatch   = errors.New("los totales no coinciden con las líneas")
	ErrActionInProgress = errors.New("ya hay una operación en curso")
)
