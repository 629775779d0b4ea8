package mapping

import (
	"context"
	"strings"

	"goship/internal/headernorm"
	"goship/shipment"
)

// heuristicRule classifies a header by keyword match against its normalized
// text. Rules are tried in order; the first hit wins.
type heuristicRule struct {
	field      shipment.TargetField
	keywords   []string
	confidence float64
}

// The battery is ordered from most to least specific so that e.g.
// "costo de flete" resolves to freight amount before plain cost.
var heuristicRules = []heuristicRule{
	{field: shipment.FieldTrackingCode, keywords: []string{"guia", "tracking", "seguimiento"}, confidence: 0.8},
	{field: shipment.FieldFreightAmount, keywords: []string{"costo flete", "costo de flete", "monto flete", "importe flete"}, confidence: 0.8},
	{field: shipment.FieldFreightPaid, keywords: []string{"flete pago", "flete pagado", "flete"}, confidence: 0.7},
	{field: shipment.FieldRecipientEmail, keywords: []string{"email", "correo", "mail"}, confidence: 0.8},
	{field: shipment.FieldRecipientPhone, keywords: []string{"telefono", "celular", "phone", "tel"}, confidence: 0.8},
	{field: shipment.FieldRecipientAddress, keywords: []string{"direccion", "domicilio", "address"}, confidence: 0.8},
	{field: shipment.FieldRecipientName, keywords: []string{"nombre", "destinatario", "cliente", "name"}, confidence: 0.7},
	{field: shipment.FieldDepartment, keywords: []string{"departamento", "depto", "department"}, confidence: 0.8},
	{field: shipment.FieldLocality, keywords: []string{"localidad", "ciudad", "city"}, confidence: 0.7},
	{field: shipment.FieldPostalCode, keywords: []string{"codigo postal", "postal", "cp"}, confidence: 0.7},
	{field: shipment.FieldObservations, keywords: []string{"observacion", "obs", "comentario"}, confidence: 0.7},
	{field: shipment.FieldNotes, keywords: []string{"nota", "notes"}, confidence: 0.6},
	{field: shipment.FieldCost, keywords: []string{"costo", "precio", "monto", "importe"}, confidence: 0.6},
	{field: shipment.FieldPackageSize, keywords: []string{"tamano", "size"}, confidence: 0.7},
	{field: shipment.FieldPackageCount, keywords: []string{"bulto", "paquete", "cantidad"}, confidence: 0.6},
	{field: shipment.FieldWeight, keywords: []string{"peso", "weight", "kg"}, confidence: 0.7},
	{field: shipment.FieldContentDescription, keywords: []string{"contenido", "descripcion", "description"}, confidence: 0.6},
	{field: shipment.FieldAgency, keywords: []string{"agencia", "carrier", "transportista"}, confidence: 0.7},
	{field: shipment.FieldServiceType, keywords: []string{"servicio", "service"}, confidence: 0.6},
}

// unmatchedConfidence is assigned to headers no rule recognizes.
const unmatchedConfidence = 0.1

// HeuristicProvider is the deterministic, offline classifier.
type HeuristicProvider struct{}

func (p *HeuristicProvider) Name() string {
	return "heuristic"
}

func (p *HeuristicProvider) SuggestMapping(_ context.Context, req Request) (*Suggestion, error) {
	suggestion := &Suggestion{Mappings: make([]ColumnMapping, 0, len(req.Headers))}

	assigned := make(map[shipment.TargetField]bool, len(req.Headers))
	for _, header := range req.Headers {
		mapping := classifyHeader(header)
		// A field already claimed by an earlier column goes to ignore so
		// exactly one column feeds each canonical field.
		if mapping.TargetField != shipment.FieldIgnore && assigned[mapping.TargetField] {
			mapping.TargetField = shipment.FieldIgnore
			mapping.Confidence = unmatchedConfidence
		}
		assigned[mapping.TargetField] = true
		suggestion.Mappings = append(suggestion.Mappings, mapping)
	}

	return suggestion, nil
}

func classifyHeader(header string) ColumnMapping {
	normalized := headernorm.Normalize(header)
	for _, rule := range heuristicRules {
		for _, keyword := range rule.keywords {
			if containsToken(normalized, keyword) {
				return ColumnMapping{
					SourceHeader: header,
					TargetField:  rule.field,
					Confidence:   rule.confidence,
				}
			}
		}
	}
	return ColumnMapping{
		SourceHeader: header,
		TargetField:  shipment.FieldIgnore,
		Confidence:   unmatchedConfidence,
	}
}

// containsToken reports whether keyword occurs in text on word boundaries, so
// "cp" does not match "cupo".
func containsToken(text, keyword string) bool {
	if !strings.Contains(text, keyword) {
		return false
	}
	if !strings.Contains(keyword, " ") {
		for _, word := range strings.Fields(text) {
			if word == keyword || strings.HasPrefix(word, keyword+" ") {
				return true
			}
			// Allow prefix matches for longer keywords: "observaciones"
			// matches keyword "observacion".
			if len(keyword) >= 4 && strings.HasPrefix(word, keyword) {
				return true
			}
		}
		return false
	}
	return true
}
