package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

// AnalysisOutcome is the validated model reply. When Valid is false Payload
// is the error descriptor {"error": ..., "raw_output": ...}.
type AnalysisOutcome struct {
	Payload map[string]any
	Valid   bool
}

// ValidateAnalysis repairs and parses the model output and checks that all
// required analysis fields are present.
func ValidateAnalysis(raw string) AnalysisOutcome {
	var payload map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return invalidAnalysis(fmt.Sprintf("Failed to parse model JSON output: %v", err), raw)
	}
	if payload == nil {
		return invalidAnalysis("Failed to parse model JSON output: not a JSON object", raw)
	}

	var missing []string
	for _, field := range models.RequiredAnalysisFields {
		if _, ok := payload[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return invalidAnalysis(
			fmt.Sprintf("Validation failed: response missing required keys: %s", strings.Join(missing, ", ")),
			raw,
		)
	}

	return AnalysisOutcome{Payload: payload, Valid: true}
}

func invalidAnalysis(diagnostic, raw string) AnalysisOutcome {
	return AnalysisOutcome{
		Payload: map[string]any{
			"error":      diagnostic,
			"raw_output": raw,
		},
	}
}

// CompletedUpdate builds the completed write for an outcome, valid or not.
// Canonical fields are copied out only when they carry the expected type.
func CompletedUpdate(outcome AnalysisOutcome, now time.Time) (*repositories.AnalysisUpdate, error) {
	encoded, err := json.Marshal(outcome.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis results: %w", err)
	}
	results := string(encoded)

	update := &repositories.AnalysisUpdate{
		Status:            models.StatusCompleted,
		AnalysisResults:   &results,
		AnalysisTimestamp: now.UnixMilli(),
	}

	if score, ok := outcome.Payload[models.FieldCompatibilityScore].(float64); ok {
		update.CompatibilityScore = &score
	}
	if skills, ok := outcome.Payload[models.FieldTopTechnicalSkillsFound].([]any); ok {
		update.TopTechnicalSkillsFound = onlyStrings(skills)
	}
	if explanation, ok := outcome.Payload[models.FieldCompatibilityExplanation].(string); ok {
		update.CompatibilityExplanation = &explanation
	}
	if keywords, ok := outcome.Payload[models.FieldSuggestedKeywords].([]any); ok {
		update.SuggestedKeywords = onlyStrings(keywords)
	}

	return update, nil
}

// FailedUpdate builds the failed write for a processing error.
func FailedUpdate(cause error, now time.Time) *repositories.AnalysisUpdate {
	msg := cause.Error()
	if msg == "" {
		msg = "unknown error"
	}
	return &repositories.AnalysisUpdate{
		Status:            models.StatusFailed,
		ErrorMessage:      &msg,
		AnalysisTimestamp: now.UnixMilli(),
	}
}

func onlyStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
