package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/asha-billing/internal/application/ports"
)

const systemPrompt = `You are a careful data engineer working on the billing register of an Indian fan manufacturer.
Rows are GST line items with the columns Bill Number, Date, Time, Vehicle No, Dealer Name, Location, GST Number, Item Name, HSN, Quantity and Price.
Answer with ONE JSON object and nothing else: no markdown, no code fences.`

func transformPrompt(instruction string, rows []ports.Row) (string, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("AI: encode rows: %w", err)
	}
	return fmt.Sprintf(`Instruction: %s

Current data:
%s

Task:
1. Apply the instruction to the data.
2. If it asks for new columns, add them.
3. If it asks to correct or format existing columns, do so.
4. If it asks to fill missing values, infer them logically.

Return {"updatedData": [<every row, as an object of column -> string>], "explanation": "<what changed, briefly>"}.`,
		instruction, data), nil
}

func analyzePrompt(rows []ports.Row) (string, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("AI: encode rows: %w", err)
	}
	return fmt.Sprintf(`Analyse this billing data and give a high-level summary and insights.
Data (up to the first %d rows):
%s

Return {"summary": "<one paragraph>", "insights": ["<insight>", ...]}.`, len(rows), data), nil
}

type transformPayload struct {
	UpdatedData []map[string]any `json:"updatedData"`
	Explanation string           `json:"explanation"`
}

type analysisPayload struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}

func parseTransform(text string) (*ports.TransformResult, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("AI: no JSON in model response (response: %s)", text)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var p transformPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("AI: model response is not valid JSON: %w", err)
	}
	if p.UpdatedData == nil {
		return nil, fmt.Errorf("AI: model response has no updatedData")
	}
	rows := make([]ports.Row, 0, len(p.UpdatedData))
	for _, r := range p.UpdatedData {
		row := make(ports.Row, len(r))
		for k, v := range r {
			row[k] = stringify(v)
		}
		rows = append(rows, row)
	}
	return &ports.TransformResult{Rows: rows, Explanation: p.Explanation}, nil
}

func parseAnalysis(text string) (*ports.AnalysisResult, error) {
	raw := extractJSON(text)
	if raw == "" {
		return nil, fmt.Errorf("AI: no JSON in model response (response: %s)", text)
	}
	var p analysisPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("AI: model response is not valid JSON: %w", err)
	}
	if p.Insights == nil {
		p.Insights = []string{}
	}
	return &ports.AnalysisResult{Summary: p.Summary, Insights: p.Insights}, nil
}

// stringify conserva los números tal como los escribió el modelo (sin redondeo float).
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// jsonBlockRe captura desde la primera '{' hasta la última '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el objeto JSON de un texto libre, quitando los bloques markdown.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
