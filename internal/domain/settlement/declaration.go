package settlement

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Formatos reconocidos de la declaración de piezas.
const (
	FormatEmpty       = "empty"
	FormatStructured  = "structured"  // [{"name":..,"quantity":..,"price":..}]
	FormatText        = "text"        // "nombre:cantidad, nombre:cantidad"
	FormatUnparseable = "unparseable" // había contenido pero ninguna entrada válida
)

// DeclaredPart entrada válida de una declaración de piezas.
type DeclaredPart struct {
	Name     string
	Quantity decimal.Decimal
	Price    *decimal.Decimal // nil = buscar en la lista de precios
}

// ParsedDeclaration resultado explícito del parseo: nunca un error a mitad de la agregación.
type ParsedDeclaration struct {
	Format  string
	Parts   []DeclaredPart
	Skipped []string // entradas descartadas por malformadas
}

// ParseDeclaration intenta primero la lista estructurada y, si falla, el formato de texto.
func ParseDeclaration(raw string) ParsedDeclaration {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "[]" {
		return ParsedDeclaration{Format: FormatEmpty}
	}
	if parsed, ok := parseStructured(raw); ok {
		return parsed
	}
	return parseText(raw)
}

func parseStructured(raw string) (ParsedDeclaration, bool) {
	if !strings.HasPrefix(raw, "[") {
		return ParsedDeclaration{}, false
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return ParsedDeclaration{}, false
	}

	out := ParsedDeclaration{Format: FormatStructured}
	for _, e := range entries {
		var fields map[string]any
		if err := json.Unmarshal(e, &fields); err != nil {
			out.Skipped = append(out.Skipped, string(e))
			continue
		}
		name, _ := fields["name"].(string)
		name = normalizeName(name)
		if name == "" {
			out.Skipped = append(out.Skipped, string(e))
			continue
		}

		qty := decimal.NewFromInt(1)
		if v, present := fields["quantity"]; present && v != nil {
			q, ok := looseDecimal(v)
			if !ok || !q.IsPositive() {
				out.Skipped = append(out.Skipped, string(e))
				continue
			}
			qty = q
		}

		part := DeclaredPart{Name: name, Quantity: qty}
		if v, present := fields["price"]; present && v != nil {
			if p, ok := looseDecimal(v); ok && !p.IsNegative() {
				part.Price = &p
			}
		}
		out.Parts = append(out.Parts, part)
	}
	if len(out.Parts) == 0 && len(out.Skipped) > 0 {
		out.Format = FormatUnparseable
	}
	return out, true
}

func parseText(raw string) ParsedDeclaration {
	out := ParsedDeclaration{Format: FormatText}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, qty := item, int64(1)
		if i := strings.LastIndex(item, ":"); i >= 0 {
			name = item[:i]
			n, err := strconv.ParseInt(strings.TrimSpace(item[i+1:]), 10, 64)
			if err != nil || n <= 0 {
				out.Skipped = append(out.Skipped, item)
				continue
			}
			qty = n
		}
		name = normalizeName(name)
		if name == "" {
			out.Skipped = append(out.Skipped, item)
			continue
		}
		out.Parts = append(out.Parts, DeclaredPart{Name: name, Quantity: decimal.NewFromInt(qty)})
	}
	if len(out.Parts) == 0 {
		out.Format = FormatUnparseable
	}
	return out
}

// looseDecimal acepta números JSON y números en texto ("12,500" incluido).
func looseDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case string:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(t), ",", ""))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}
