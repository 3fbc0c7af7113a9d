package entity

import "github.com/shopspring/decimal"

// Roles válidos para Employee.
const (
	RoleExecutive      = "executive"
	RoleContractWorker = "contractWorker"
)

// Employee representa un empleado del directorio. Name se compara contra WorkOrder.WorkerNames.
type Employee struct {
	ID                    string
	Name                  string
	Role                  string           // executive, contractWorker
	CommissionRatePercent *decimal.Decimal // solo contractWorker; nil = tasa por defecto
	DistributionShare     *decimal.Decimal // solo executive; respaldo si no está en la tabla de proporciones
}
