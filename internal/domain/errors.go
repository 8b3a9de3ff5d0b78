package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicate      = errors.New("duplicate resource")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("access denied")
	ErrNotConfigured  = errors.New("collaborator not configured")
	ErrNoMatchingRows = errors.New("no rows match the bill number")
	ErrAmountOverflow = errors.New("amount exceeds the supported range for words")
)
