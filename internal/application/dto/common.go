package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodRequest parámetros de consulta del período (YYYY-MM-DD). Vacíos: mes en curso.
type PeriodRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// InvalidateCacheRequest cuerpo de POST /api/settlements/cache/invalidate.
// Datasets vacío invalida todos.
type InvalidateCacheRequest struct {
	Datasets []string `json:"datasets"`
	// AllSessions aplica a todas las sesiones (colaborador CRUD tras una mutación).
	AllSessions bool `json:"all_sessions"`
}
