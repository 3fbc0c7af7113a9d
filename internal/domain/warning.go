package domain

import "fmt"

// Tipos de advertencia de integridad de datos.
const (
	WarnUnknownPart        = "UNKNOWN_PART"         // pieza sin precio en la lista
	WarnMalformedPart      = "MALFORMED_PART"       // entrada de declaración descartada
	WarnUnparseableParts   = "UNPARSEABLE_PARTS"    // declaración sin ninguna entrada válida
	WarnUnknownRole        = "UNKNOWN_ROLE"         // rol de empleado no reconocido
	WarnUnknownEmployee    = "UNKNOWN_EMPLOYEE"     // trabajador sin registro en el directorio
	WarnMissingRatio       = "MISSING_RATIO"        // ejecutivo sin proporción de reparto
	WarnDuplicateWorkOrder = "DUPLICATE_WORK_ORDER" // mismo id repetido en el conjunto
	WarnInvalidDate        = "INVALID_DATE"         // fecha de la orden ilegible
	WarnMalformedRecord    = "MALFORMED_RECORD"     // documento del almacén con campos ilegibles
)

// Warning (DataIntegrityWarning) describe un valor ambiguo o reemplazado por su valor por defecto.
// Nunca interrumpe el cálculo; se adjunta a la línea o al reporte afectado.
type Warning struct {
	Kind        string `json:"kind"`
	WorkOrderID string `json:"work_order_id,omitempty"`
	Employee    string `json:"employee,omitempty"`
	Detail      string `json:"detail"`
}

func (w Warning) String() string {
	switch {
	case w.WorkOrderID != "" && w.Employee != "":
		return fmt.Sprintf("%s [%s/%s]: %s", w.Kind, w.WorkOrderID, w.Employee, w.Detail)
	case w.WorkOrderID != "":
		return fmt.Sprintf("%s [%s]: %s", w.Kind, w.WorkOrderID, w.Detail)
	case w.Employee != "":
		return fmt.Sprintf("%s [%s]: %s", w.Kind, w.Employee, w.Detail)
	}
	return w.Kind + ": " + w.Detail
}
