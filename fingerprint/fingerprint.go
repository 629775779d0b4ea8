// Package fingerprint derives stable identifiers for a header layout. The
// short djb2 fingerprint is a compact display id; the sha256 signature is the
// identity key used by the template store.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"goship/internal/headernorm"
)

const joinSeparator = "|"

// Fingerprint returns the order-sensitive 8-char hex fingerprint of a header
// layout.
func Fingerprint(headers []string) string {
	return shortHash(joinOrdered(headers))
}

// FingerprintSorted returns the order-insensitive variant: the same columns in
// any order produce the same value.
func FingerprintSorted(headers []string) string {
	return shortHash(joinSorted(headers))
}

// Signature returns the strict (order-sensitive) sha256 hex signature.
func Signature(headers []string) string {
	return longHash(joinOrdered(headers))
}

// SignatureLoose returns the loose (order-insensitive) sha256 hex signature.
func SignatureLoose(headers []string) string {
	return longHash(joinSorted(headers))
}

func joinOrdered(headers []string) string {
	return strings.Join(headernorm.NormalizeAll(headers), joinSeparator)
}

func joinSorted(headers []string) string {
	normalized := headernorm.NormalizeAll(headers)
	sort.Strings(normalized)
	return strings.Join(normalized, joinSeparator)
}

// shortHash is the djb2 rolling hash truncated to 32 bits, rendered as
// zero-padded lowercase hex.
func shortHash(input string) string {
	var hash uint32 = 5381
	for _, r := range input {
		hash = hash*33 + uint32(r)
	}
	return fmt.Sprintf("%08x", hash)
}

func longHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
