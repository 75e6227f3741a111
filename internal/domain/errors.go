package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrAPI          = errors.New("la API respondió con error")
	ErrUnavailable  = errors.New("API de stock no disponible")
	// ErrMissingSalePrice se devuelve al crear un producto nuevo desde una producción sin precio.
	ErrMissingSalePrice = errors.New("Debe ingresar un precio de venta válido para el nuevo producto")
)
