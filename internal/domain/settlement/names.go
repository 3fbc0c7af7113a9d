package settlement

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeName recorta espacios y normaliza a NFC. Los nombres en Hangul pueden llegar
// descompuestos (NFD) según el teclado o el sistema operativo del cliente.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// distinctWorkers devuelve los nombres no vacíos en orden de primera aparición.
func distinctWorkers(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = normalizeName(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
