// Package search agrupa las comparaciones de texto usadas en filtros y autocompletado.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold normaliza s para comparaciones sin distinguir mayúsculas (incluye acentuadas: "É" == "é").
func Fold(s string) string {
	// Caser no es seguro entre goroutines; se crea uno por llamada.
	return cases.Fold().String(s)
}

// ContainsFold indica si needle aparece en haystack sin distinguir mayúsculas.
// Un needle vacío siempre coincide.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// ContainsAnyFold indica si needle aparece en alguno de los campos.
func ContainsAnyFold(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	n := Fold(needle)
	for _, f := range fields {
		if strings.Contains(Fold(f), n) {
			return true
		}
	}
	return false
}
