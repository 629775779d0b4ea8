package parser

import (
	"strings"

	"goship/internal/headernorm"
)

// Key-field patterns. A header is a required candidate when its normalized
// form contains one of these tokens.
var requiredPatterns = []string{
	"nombre", "destinatario", "name",
	"direccion", "domicilio", "address",
	"telefono", "celular", "phone",
	"ciudad", "localidad", "city",
	"departamento", "depto", "department",
	"codigo postal", "postal", "cp",
}

// Broader patterns for columns worth mapping but not key fields.
var relevantPatterns = []string{
	"agencia", "carrier", "transportista",
	"flete",
	"observacion", "comentario", "nota", "notes",
	"descripcion", "contenido", "description",
	"bulto", "paquete", "cantidad",
	"peso", "weight",
	"costo", "precio", "monto", "importe",
	"email", "correo", "mail",
	"tamano", "size",
}

// classifyCandidates splits headers into required and relevant candidates.
// A header already required is never listed as relevant.
func classifyCandidates(headers []string) (required, relevant []string) {
	required = make([]string, 0, len(headers))
	relevant = make([]string, 0, len(headers))

	for _, header := range headers {
		normalized := headernorm.Normalize(header)
		if normalized == "" {
			continue
		}
		if matchesAny(normalized, requiredPatterns) {
			required = append(required, header)
			continue
		}
		if matchesAny(normalized, relevantPatterns) {
			relevant = append(relevant, header)
		}
	}

	return required, relevant
}

func matchesAny(normalized string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(normalized, pattern) {
			return true
		}
	}
	return false
}
