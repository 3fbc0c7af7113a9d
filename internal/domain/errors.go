package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrInvalidPeriod = errors.New("período inválido")
	ErrUnauthorized  = errors.New("no autorizado")
	// ErrSuperseded indica que otra solicitud más reciente de la misma sesión reemplazó el cálculo.
	ErrSuperseded = errors.New("cálculo reemplazado por una solicitud más reciente")
)

// AdapterError envuelve un fallo del almacén de registros (inalcanzable o respuesta malformada).
// El cálculo se aborta; nunca se devuelve una liquidación parcial.
type AdapterError struct {
	Op         string // operación del adaptador, ej. "queryByDateRange"
	Collection string
	Err        error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("almacén de registros: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError construye el error; si err ya es un AdapterError lo devuelve tal cual.
func NewAdapterError(op, collection string, err error) error {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return err
	}
	return &AdapterError{Op: op, Collection: collection, Err: err}
}

// ConfigurationError falta o es inválida una tasa, proporción o marcador obligatorio.
// Es un defecto de despliegue: se detecta al inicializar el motor, no por orden de trabajo.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuración inválida %s: %s", e.Key, e.Reason)
}

// IsConfigurationError indica si err (o alguno de sus envueltos) es un ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsAdapterError indica si err (o alguno de sus envueltos) es un AdapterError.
func IsAdapterError(err error) bool {
	var ae *AdapterError
	return errors.As(err, &ae)
}
