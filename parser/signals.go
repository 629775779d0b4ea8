package parser

import (
	"strings"

	"goship/internal/headernorm"
)

// ServiceAgencyPickup is the service classification suggested when pickup
// signals fire.
const ServiceAgencyPickup = "agency_pickup"

var agencyHeaderPatterns = []string{"agencia", "carrier", "transportista"}
var freightPaidHeaderPatterns = []string{"flete"}
var addressHeaderPatterns = []string{"direccion", "domicilio", "address"}

var pickupKeywords = []string{"agencia", "sucursal", "retiro", "pickup"}

const (
	agencyColumnIncrement  = 0.3
	freightColumnIncrement = 0.2
	pickupAddressIncrement = 0.4
)

// detectSignals inspects headers and sampled content for evidence that the
// upload targets agency pickup rather than home delivery.
func detectSignals(headers []string, sampleRows []map[string]string) Signals {
	signals := Signals{Justifications: make([]string, 0, 3)}

	var addressColumn string
	for _, header := range headers {
		normalized := headernorm.Normalize(header)
		if !signals.HasAgencyColumn && matchesAny(normalized, agencyHeaderPatterns) {
			signals.HasAgencyColumn = true
		}
		if !signals.HasFreightPaidColumn && matchesAny(normalized, freightPaidHeaderPatterns) {
			signals.HasFreightPaidColumn = true
		}
		if addressColumn == "" && matchesAny(normalized, addressHeaderPatterns) {
			addressColumn = header
		}
	}

	if signals.HasAgencyColumn {
		signals.Confidence += agencyColumnIncrement
		signals.SuggestedService = ServiceAgencyPickup
		signals.Justifications = append(signals.Justifications, "an agency column is present")
	}
	if signals.HasFreightPaidColumn {
		signals.Confidence += freightColumnIncrement
		signals.Justifications = append(signals.Justifications, "a freight-paid column is present")
	}

	if addressColumn != "" && addressesMostlyMentionPickup(sampleRows, addressColumn) {
		signals.AddressHasPickup = true
		signals.Confidence += pickupAddressIncrement
		signals.SuggestedService = ServiceAgencyPickup
		signals.Justifications = append(signals.Justifications, "most addresses mention a pickup point")
	}

	if signals.Confidence > 1.0 {
		signals.Confidence = 1.0
	}

	return signals
}

// addressesMostlyMentionPickup reports whether more than half of the non-empty
// values in the address column contain a pickup keyword.
func addressesMostlyMentionPickup(sampleRows []map[string]string, column string) bool {
	nonEmpty, withKeyword := 0, 0
	for _, row := range sampleRows {
		value := headernorm.Normalize(row[column])
		if value == "" {
			continue
		}
		nonEmpty++
		for _, keyword := range pickupKeywords {
			if strings.Contains(value, keyword) {
				withKeyword++
				break
			}
		}
	}
	return nonEmpty > 0 && withKeyword*2 > nonEmpty
}
