package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"google.golang.org/genai"

	"goship/shipment"
)

const defaultGeminiModel = "gemini-2.0-flash"

// promptSampleLimit bounds how many rows are sent to the model.
const promptSampleLimit = 5

// GeminiConfig carries the credentials and model selection for the AI
// provider. It is passed in explicitly; the provider never reads the
// environment itself.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiProvider classifies headers with the Gemini API, constrained to the
// closed target-field enum. Output is validated field by field, so schema
// safety never depends on the model behaving.
type GeminiProvider struct {
	cfg GeminiConfig
}

func NewGeminiProvider(cfg GeminiConfig) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	return &GeminiProvider{cfg: cfg}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

type geminiColumn struct {
	Header     string  `json:"header"`
	Field      string  `json:"field"`
	Confidence float64 `json:"confidence"`
}

type geminiResponse struct {
	Columns   []geminiColumn    `json:"columns"`
	Defaults  map[string]string `json:"defaults"`
	Questions []string          `json:"questions"`
	Notes     []string          `json:"notes"`
}

func (p *GeminiProvider) SuggestMapping(ctx context.Context, req Request) (*Suggestion, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction()}},
		},
	}

	result, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(buildPrompt(req)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	return parseGeminiResponse(result.Text(), req.Headers)
}

// parseGeminiResponse repairs and decodes the model output, coercing every
// field to the closed enum and guaranteeing one mapping per source header.
func parseGeminiResponse(text string, headers []string) (*Suggestion, error) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return nil, fmt.Errorf("repair classifier json: %w", err)
	}

	var response geminiResponse
	if err := json.Unmarshal([]byte(repaired), &response); err != nil {
		return nil, fmt.Errorf("decode classifier json: %w", err)
	}

	byHeader := make(map[string]geminiColumn, len(response.Columns))
	for _, column := range response.Columns {
		byHeader[column.Header] = column
	}

	suggestion := &Suggestion{
		Mappings:  make([]ColumnMapping, 0, len(headers)),
		Questions: response.Questions,
		Notes:     response.Notes,
	}

	for _, header := range headers {
		column, ok := byHeader[header]
		if !ok {
			suggestion.Mappings = append(suggestion.Mappings, ColumnMapping{
				SourceHeader: header,
				TargetField:  shipment.FieldIgnore,
				Confidence:   unmatchedConfidence,
			})
			continue
		}
		suggestion.Mappings = append(suggestion.Mappings, ColumnMapping{
			SourceHeader: header,
			TargetField:  shipment.ParseTargetField(column.Field),
			Confidence:   clampConfidence(column.Confidence),
		})
	}

	if len(response.Defaults) > 0 {
		suggestion.Defaults = make(map[shipment.TargetField]string, len(response.Defaults))
		for raw, value := range response.Defaults {
			field := shipment.ParseTargetField(raw)
			if field == shipment.FieldIgnore {
				continue
			}
			suggestion.Defaults[field] = value
		}
	}

	return suggestion, nil
}

func systemInstruction() string {
	fields := shipment.TargetFields()
	names := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		names = append(names, string(field))
	}
	names = append(names, string(shipment.FieldIgnore))

	return "You map spreadsheet columns of shipment exports to canonical fields. " +
		"Answer with JSON only: {\"columns\":[{\"header\",\"field\",\"confidence\"}]," +
		"\"defaults\":{},\"questions\":[],\"notes\":[]}. " +
		"The field value MUST be one of: " + strings.Join(names, ", ") + ". " +
		"Use \"ignore\" for columns that map to nothing."
}

func buildPrompt(req Request) string {
	var b strings.Builder

	if req.OrgName != "" {
		fmt.Fprintf(&b, "Organization: %s\n", req.OrgName)
	}
	if len(req.RequiredFields) > 0 {
		names := make([]string, len(req.RequiredFields))
		for i, field := range req.RequiredFields {
			names[i] = string(field)
		}
		fmt.Fprintf(&b, "Fields the caller expects to be present: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(req.Headers, " | "))

	sampleCount := len(req.SampleRows)
	if sampleCount > promptSampleLimit {
		sampleCount = promptSampleLimit
	}
	if sampleCount > 0 {
		b.WriteString("Sample rows:\n")
		for _, row := range req.SampleRows[:sampleCount] {
			cells := make([]string, len(req.Headers))
			for i, header := range req.Headers {
				cells[i] = row[header]
			}
			fmt.Fprintf(&b, "%s\n", strings.Join(cells, " | "))
		}
	}

	return b.String()
}
