package templates

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"goship/fingerprint"
	"goship/internal/headernorm"
	"goship/shipment"
)

// minSuggestionScore filters near-match candidates.
const minSuggestionScore = 0.5

// maxSuggestions caps the suggestion list.
const maxSuggestions = 3

// Suggestion is a near-match template with its set-similarity score.
type Suggestion struct {
	Template Template
	Score    float64
}

// MatchResult is the outcome of matching a header layout against the
// organization's saved templates.
type MatchResult struct {
	// Exact is set when a template matched by strict or loose signature and
	// its mapping can be applied directly.
	Exact *Template
	// LooseMatch marks an exact hit found only by the order-insensitive
	// signature: same columns, different order.
	LooseMatch bool
	// Note carries a human-readable caveat, e.g. on a loose hit.
	Note string
	// Suggestions are similarity-ranked near matches, best first.
	Suggestions []Suggestion
}

// Matcher looks up and ranks templates for incoming header layouts.
type Matcher struct {
	store Store
}

func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store}
}

// Match finds a reusable template for the given headers. Exact lookup by
// strict signature first, then loose (order-insensitive) lookup, then
// Jaccard-ranked suggestions over the organization's templates.
func (m *Matcher) Match(ctx context.Context, orgID string, headers []string) (*MatchResult, error) {
	result := &MatchResult{}

	strict := fingerprint.Signature(headers)
	tpl, err := m.store.GetBySignature(ctx, orgID, strict)
	if err == nil {
		result.Exact = tpl
		return result, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup template by signature: %w", err)
	}

	loose := fingerprint.SignatureLoose(headers)
	tpl, err = m.store.GetByLooseSignature(ctx, orgID, loose)
	if err == nil {
		result.Exact = tpl
		result.LooseMatch = true
		result.Note = "same columns in a different order; the stored mapping may need column reassignment"
		return result, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup template by loose signature: %w", err)
	}

	stored, err := m.store.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	current := headernorm.NormalizeAll(headers)
	for _, candidate := range stored {
		score := Score(candidate.Headers, current)
		if score > minSuggestionScore {
			result.Suggestions = append(result.Suggestions, Suggestion{Template: candidate, Score: score})
		}
	}
	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		return result.Suggestions[i].Score > result.Suggestions[j].Score
	})
	if len(result.Suggestions) > maxSuggestions {
		result.Suggestions = result.Suggestions[:maxSuggestions]
	}

	return result, nil
}

// Score computes the Jaccard index between two header sets. Both sides are
// normalized before comparison; order and duplicates are irrelevant.
func Score(templateHeaders, currentHeaders []string) float64 {
	a := toSet(templateHeaders)
	b := toSet(currentHeaders)
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for header := range a {
		if b[header] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Save recomputes both identifier families from the submitted headers and
// upserts the template. Conflicts resolve to the existing record.
func (m *Matcher) Save(ctx context.Context, orgID, name string, headers []string, fieldMap map[string]shipment.TargetField, defaults map[shipment.TargetField]string) (*Template, error) {
	tpl := Template{
		OrgID:          orgID,
		Name:           name,
		Signature:      fingerprint.Signature(headers),
		SignatureLoose: fingerprint.SignatureLoose(headers),
		Fingerprint:    fingerprint.Fingerprint(headers),
		Headers:        headernorm.NormalizeAll(headers),
		FieldMap:       fieldMap,
		Defaults:       defaults,
	}

	saved, err := m.store.Upsert(ctx, tpl)
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return saved, nil
}

func toSet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, header := range headers {
		normalized := headernorm.Normalize(header)
		if normalized != "" {
			set[normalized] = true
		}
	}
	return set
}
