// Package reconcile runs the full import pipeline: parse, template match,
// column mapping, per-row transforms, location inference, and duplicate
// detection. Canonical records are returned to the caller; committing them is
// the caller's decision.
package reconcile

import (
	"context"
	"fmt"

	"goship/dedup"
	"goship/location"
	"goship/mapping"
	"goship/parser"
	"goship/shipment"
	"goship/templates"
)

// RunInput is one import request. Requests are independent; the service
// shares no mutable state between them.
type RunInput struct {
	Data     []byte
	Filename string
	Sheet    string
	OrgID    string
	OrgName  string
	// ServiceTypeID scopes duplicate detection. When empty, the parser's
	// suggested service classification is used.
	ServiceTypeID string
	MaxFileSize   int64
}

// RowResult pairs a canonical record with its per-row outcomes.
type RowResult struct {
	Record    shipment.Record
	Location  location.Result
	Duplicate dedup.Verdict
}

// Result summarizes one pipeline run.
type Result struct {
	Sheet        *parser.ParsedSheet
	Template     *templates.MatchResult
	ProviderUsed string
	Mappings     []mapping.ColumnMapping
	Warnings     []mapping.Warning
	Rows         []RowResult
	Duplicates   int
}

// Service wires the pipeline stages together.
type Service struct {
	matcher     *templates.Matcher
	engine      *mapping.Engine
	checker     *dedup.Checker
	locationCtx location.Context
}

func NewService(matcher *templates.Matcher, engine *mapping.Engine, checker *dedup.Checker, locationCtx location.Context) *Service {
	return &Service{
		matcher:     matcher,
		engine:      engine,
		checker:     checker,
		locationCtx: locationCtx,
	}
}

// Matcher exposes the template matcher for template maintenance.
func (s *Service) Matcher() *templates.Matcher {
	return s.matcher
}

// Run executes the pipeline on one uploaded file. An exact template hit
// short-circuits the mapping engine; its stored mapping is reused directly.
func (s *Service) Run(ctx context.Context, input RunInput) (*Result, error) {
	maxSize := input.MaxFileSize
	if maxSize == 0 {
		maxSize = parser.DefaultMaxFileSize
	}

	sheet, err := parser.ParseWithLimit(input.Data, input.Filename, input.Sheet, maxSize)
	if err != nil {
		return nil, err
	}

	result := &Result{Sheet: sheet}

	match, err := s.matcher.Match(ctx, input.OrgID, sheet.Headers)
	if err != nil {
		return nil, fmt.Errorf("match template: %w", err)
	}
	result.Template = match

	if match.Exact != nil && !match.LooseMatch {
		result.ProviderUsed = "template"
		result.Mappings = mapping.FromFieldMap(match.Exact.FieldMap, sheet.Headers)
	} else {
		suggestion, err := s.engine.Suggest(ctx, mapping.Request{
			Headers:    sheet.Headers,
			SampleRows: sheet.SampleRows,
			OrgName:    input.OrgName,
		})
		if err != nil {
			return nil, fmt.Errorf("suggest mapping: %w", err)
		}
		result.ProviderUsed = suggestion.ProviderUsed
		result.Mappings = suggestion.Suggestion.Mappings
		result.Warnings = suggestion.Warnings
	}

	serviceTypeID := input.ServiceTypeID
	if serviceTypeID == "" {
		serviceTypeID = sheet.Signals.SuggestedService
	}

	result.Rows = make([]RowResult, 0, len(sheet.SampleRows))
	for _, row := range sheet.SampleRows {
		record := mapping.Apply(result.Mappings, row)
		record.OrgID = input.OrgID
		record.SourceFile = input.Filename
		if record.ServiceTypeID == "" {
			record.ServiceTypeID = serviceTypeID
		}

		inferred := location.Infer(record.RecipientAddress, s.locationCtx)
		if record.Department == "" {
			record.Department = inferred.DepartmentID
		}
		if record.Locality == "" {
			if inferred.LocalityID != "" {
				record.Locality = inferred.LocalityID
			} else {
				record.Locality = inferred.ManualLocality
			}
		}
		if record.DeliveryType == "" && inferred.DeliveryType != "" {
			record.DeliveryType = inferred.DeliveryType
		}

		verdict := s.checker.Check(ctx, input.OrgID, record, record.ServiceTypeID, record.Agency, record.DeliveryType)
		if verdict.IsDuplicate {
			result.Duplicates++
		}

		result.Rows = append(result.Rows, RowResult{
			Record:    record,
			Location:  inferred,
			Duplicate: verdict,
		})
	}

	return result, nil
}
