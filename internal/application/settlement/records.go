package settlement

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
)

// Campos de los documentos del almacén.
const (
	fieldID = "id"

	// tasks
	FieldDate    = "date"
	FieldClient  = "client"
	FieldAmount  = "amount"
	FieldFee     = "fee"
	FieldWorkers = "workers"
	FieldParts   = "parts"
	FieldDone    = "done"

	// inventory
	FieldWorkOrderID = "workOrderId"
	FieldPartName    = "partName"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unitPrice"
	FieldTotalAmount = "totalAmount"
	FieldKind        = "type"
	FieldReason      = "reason"

	// employees
	FieldName              = "name"
	FieldRole              = "role"
	FieldCommissionRate    = "commissionRate"
	FieldDistributionShare = "distributionShare"

	// parts
	FieldPrice = "price"
)

const isoLayout = "2006-01-02T15:04:05"

// dataset resultado de parsear una colección: entidades válidas y advertencias por los
// documentos descartados. Es lo que se guarda en el caché.
type dataset[T any] struct {
	Items    []T
	Warnings []domain.Warning
}

// parseAll aplica parse a cada documento; un documento ilegible se descarta con advertencia
// y nunca interrumpe la agregación.
func parseAll[T any](collection string, records []repository.Record, parse func(repository.Record) (T, error)) dataset[T] {
	out := dataset[T]{Items: make([]T, 0, len(records))}
	for _, r := range records {
		item, err := parse(r)
		if err != nil {
			w := domain.Warning{
				Kind:   domain.WarnMalformedRecord,
				Detail: fmt.Sprintf("%s/%s descartado: %v", collection, r.ID(), err),
			}
			if collection == repository.CollectionWorkOrders {
				w.WorkOrderID = r.ID()
			}
			out.Warnings = append(out.Warnings, w)
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// ── Parsers por colección ────────────────────────────────────────────────────

func parseWorkOrder(r repository.Record) (entity.WorkOrder, error) {
	var wo entity.WorkOrder
	id, err := requiredString(r, fieldID)
	if err != nil {
		return wo, err
	}
	date, err := dateString(r[FieldDate])
	if err != nil {
		return wo, fieldErr(FieldDate, err)
	}
	amount, ok, err := decimalValue(r[FieldAmount])
	if err != nil {
		return wo, fieldErr(FieldAmount, err)
	}
	if !ok {
		return wo, fieldErr(FieldAmount, errMissing)
	}
	if amount.IsNegative() {
		return wo, fieldErr(FieldAmount, fmt.Errorf("negativo %s", amount))
	}
	fee, ok, err := decimalValue(r[FieldFee])
	if err != nil {
		return wo, fieldErr(FieldFee, err)
	}
	workers, err := stringList(r[FieldWorkers])
	if err != nil {
		return wo, fieldErr(FieldWorkers, err)
	}
	parts, err := declarationString(r[FieldParts])
	if err != nil {
		return wo, fieldErr(FieldParts, err)
	}
	done, err := boolValue(r[FieldDone])
	if err != nil {
		return wo, fieldErr(FieldDone, err)
	}

	wo = entity.WorkOrder{
		ID:               id,
		Date:             date,
		Client:           optionalString(r[FieldClient]),
		GrossAmount:      amount,
		WorkerNames:      workers,
		PartsDeclaration: parts,
		Done:             done,
	}
	if ok {
		wo.DeclaredFee = &fee
	}
	return wo, nil
}

func parseMovement(r repository.Record) (entity.OutboundMovement, error) {
	var m entity.OutboundMovement
	id, err := requiredString(r, fieldID)
	if err != nil {
		return m, err
	}
	qty, ok, err := decimalValue(r[FieldQuantity])
	if err != nil {
		return m, fieldErr(FieldQuantity, err)
	}
	if !ok || !qty.IsInteger() || !qty.IsPositive() || qty.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return m, fieldErr(FieldQuantity, fmt.Errorf("debe ser entero positivo"))
	}
	unit, hasUnit, err := decimalValue(r[FieldUnitPrice])
	if err != nil {
		return m, fieldErr(FieldUnitPrice, err)
	}
	total, hasTotal, err := decimalValue(r[FieldTotalAmount])
	if err != nil {
		return m, fieldErr(FieldTotalAmount, err)
	}
	switch {
	case !hasTotal && !hasUnit:
		return m, fieldErr(FieldTotalAmount, errMissing)
	case !hasTotal:
		total = qty.Mul(unit)
	case !hasUnit:
		unit = total.Div(qty)
	}

	return entity.OutboundMovement{
		ID:          id,
		WorkOrderID: optionalString(r[FieldWorkOrderID]),
		PartName:    optionalString(r[FieldPartName]),
		Quantity:    qty.IntPart(),
		UnitAmount:  unit,
		TotalAmount: total,
		Kind:        strings.ToLower(optionalString(r[FieldKind])),
		ReasonTag:   optionalString(r[FieldReason]),
	}, nil
}

func parseEmployee(r repository.Record) (entity.Employee, error) {
	var e entity.Employee
	name, err := requiredString(r, FieldName)
	if err != nil {
		return e, err
	}
	e = entity.Employee{ID: optionalString(r[fieldID]), Name: name, Role: optionalString(r[FieldRole])}

	rate, ok, err := decimalValue(r[FieldCommissionRate])
	if err != nil {
		return e, fieldErr(FieldCommissionRate, err)
	}
	if ok {
		e.CommissionRatePercent = &rate
	}
	share, ok, err := decimalValue(r[FieldDistributionShare])
	if err != nil {
		return e, fieldErr(FieldDistributionShare, err)
	}
	if ok {
		e.DistributionShare = &share
	}
	return e, nil
}

func parsePartPrice(r repository.Record) (entity.PartPriceEntry, error) {
	var p entity.PartPriceEntry
	name, err := requiredString(r, FieldName)
	if err != nil {
		return p, err
	}
	price, ok, err := decimalValue(r[FieldPrice])
	if err != nil {
		return p, fieldErr(FieldPrice, err)
	}
	if !ok {
		return p, fieldErr(FieldPrice, errMissing)
	}
	return entity.PartPriceEntry{PartName: name, UnitPrice: price}, nil
}

// ── Conversión de valores débilmente tipados ─────────────────────────────────

var errMissing = fmt.Errorf("campo ausente")

func fieldErr(field string, err error) error {
	return fmt.Errorf("%w: campo %s: %v", domain.ErrInvalidInput, field, err)
}

func requiredString(r repository.Record, field string) (string, error) {
	s := optionalString(r[field])
	if s == "" {
		return "", fieldErr(field, errMissing)
	}
	return s, nil
}

// optionalString acepta texto o números (ids numéricos); cualquier otro tipo es "".
func optionalString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	}
	return ""
}

// decimalValue ok=false si el valor es nulo o texto vacío. Los textos admiten separador
// de miles con coma ("25,000").
func decimalValue(v any) (decimal.Decimal, bool, error) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return t, true, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false, fmt.Errorf("número no finito")
		}
		return decimal.NewFromFloat(t), true, nil
	case float32:
		return decimal.NewFromFloat32(t), true, nil
	case int:
		return decimal.NewFromInt(int64(t)), true, nil
	case int32:
		return decimal.NewFromInt32(t), true, nil
	case int64:
		return decimal.NewFromInt(t), true, nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil, err
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("número ilegible %q", t)
		}
		return d, true, nil
	}
	return decimal.Zero, false, fmt.Errorf("tipo no numérico %T", v)
}

func boolValue(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("booleano ilegible %q", t)
		}
		return b, nil
	case float64:
		return t != 0, nil
	case int:
		return t != 0, nil
	case int32:
		return t != 0, nil
	case int64:
		return t != 0, nil
	}
	return false, fmt.Errorf("tipo no booleano %T", v)
}

// stringList acepta una lista JSON o un texto separado por comas.
func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("elemento no textual %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil, nil
		}
		// lista JSON guardada como texto
		if strings.HasPrefix(trimmed, "[") {
			var out []string
			if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
				return out, nil
			}
		}
		return strings.Split(t, ","), nil
	}
	return nil, fmt.Errorf("tipo de lista no soportado %T", v)
}

// declarationString normaliza la declaración de piezas a texto: si llega como lista
// estructurada se serializa a JSON para que el parser de declaraciones la reconozca.
func declarationString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []any, []map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("tipo de declaración no soportado %T", v)
}

// dateString devuelve el timestamp ISO; acepta time.Time de adaptadores que no lo convierten.
func dateString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", errMissing
		}
		return s, nil
	case time.Time:
		return t.UTC().Format(isoLayout), nil
	case nil:
		return "", errMissing
	}
	return "", fmt.Errorf("tipo de fecha no soportado %T", v)
}
