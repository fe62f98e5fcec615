package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Codificaciones aceptadas para el CSV heredado.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "iso-8859-1"
	EncodingWindows1252 = "windows-1252"
)

// columnas reconocidas en la cabecera (en minúsculas, sin tildes).
var columnAliases = map[string]string{
	"empresa":  "name",
	"nombre":   "name",
	"name":     "name",
	"contacto": "contact",
	"contact":  "contact",
	"cliente":  "contact",
	"telefono": "phone",
	"phone":    "phone",
	"tipo":     "type",
	"type":     "type",
}

// ReadClientsCSV lee el listado de clientes exportado por hojas de cálculo.
// La primera fila es la cabecera; acepta "," o ";" como separador.
func ReadClientsCSV(r io.Reader, encoding string) ([]Client, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8:
	case EncodingLatin1:
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case EncodingWindows1252:
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("seed: codificación no soportada %q", encoding)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seed: leer csv: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = detectSeparator(text)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("seed: cabecera csv: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		if field, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("seed: el csv no tiene columna empresa")
	}

	var out []Client
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("seed: línea %d: %w", line, err)
		}
		c := Client{
			Name:    field(rec, index, "name"),
			Contact: field(rec, index, "contact"),
			Phone:   field(rec, index, "phone"),
			Type:    field(rec, index, "type"),
		}
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func field(rec []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func detectSeparator(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

var accents = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")

func normalizeHeader(h string) string {
	return accents.Replace(strings.ToLower(strings.TrimSpace(h)))
}
