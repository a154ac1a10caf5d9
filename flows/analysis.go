package flows

import (
	"context"
	"fmt"
)

// MentalState is the analysis of a user's questionnaire responses. All
// values are free-text categories, not a fixed enumeration.
type MentalState struct {
	OverallSentiment string `json:"overallSentiment"`
	StressLevel      string `json:"stressLevel"`
	AnxietyLevel     string `json:"anxietyLevel"`
	DepressionLevel  string `json:"depressionLevel"`
	Summary          string `json:"summary"`
}

// analysisOutput is the declared response envelope for the analysis prompt
type analysisOutput struct {
	MentalState *MentalState `json:"mentalState"`
}

var analysisTemplate = mustTemplate("analysis", `Analyze the following questionnaire responses to understand the user's mental state. Provide an overall sentiment, stress level, anxiety level, depression level, and a brief summary.

Responses:
{{range .Responses}}- {{.}}
{{end}}
Respond with a single JSON object of exactly this form, every value a string:
{"mentalState": {"overallSentiment": "...", "stressLevel": "...", "anxietyLevel": "...", "depressionLevel": "...", "summary": "..."}}`)

type analysisInput struct {
	Responses []string
}

// AnalyzeInitialResponses analyzes the user's questionnaire responses to
// establish a baseline understanding of their mental state. Every failure,
// including a malformed model response, wraps ErrAnalysis.
func (f *Flows) AnalyzeInitialResponses(ctx context.Context, responses []string) (*MentalState, error) {
	var out analysisOutput
	if err := f.completeJSON(ctx, "", analysisTemplate, analysisInput{Responses: responses}, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	if err := validateMentalState(out.MentalState); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	return out.MentalState, nil
}

func validateMentalState(state *MentalState) error {
	if state == nil {
		return fmt.Errorf("missing mentalState object")
	}
	fields := map[string]string{
		"overallSentiment": state.OverallSentiment,
		"stressLevel":      state.StressLevel,
		"anxietyLevel":     state.AnxietyLevel,
		"depressionLevel":  state.DepressionLevel,
		"summary":          state.Summary,
	}
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("missing field %q", name)
		}
	}
	return nil
}
