package flows

import (
	"context"
	"fmt"
)

// MetricScore is one bar of the visualization: a mental state metric and
// its score on a 0-10 scale.
type MetricScore struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
}

// Visualization is the structured bar-chart form of the mental state
// visualization.
type Visualization struct {
	BarChartData    []MetricScore `json:"barChartData"`
	AnalysisSummary string        `json:"analysisSummary"`
}

const visualizeSystemPrompt = `You are an AI assistant specialized in analyzing mental states.`

var visualizeTemplate = mustTemplate("visualize", `Analyze the user's questionnaire responses and chat history.
Based on this analysis, provide a score (0-10) for each of the following mental state metrics: happy, sad, anxiety, anger, depressed.
Also provide a textual summary of your analysis.

User ID: {{.UserID}}
Questionnaire Responses: {{.QuestionnaireResponses}}
Chat History: {{.ChatHistory}}

The output should be a single JSON object adhering to the following schema:
- barChartData: An array of objects, each with 'metric' (string) and 'score' (number 0-10). Include metrics: happy, sad, anxiety, anger, depressed.
- analysisSummary: A textual summary of your analysis.

Consider using soft lavender (#E6E6FA) as primary color to evoke a sense of calm and introspection, and Muted teal (#708090) as a subtle highlight that complements the lavender, conveying stability and trust.
These colors are for context and don't need to be in the JSON output directly, but guide your analysis if relevant.`)

// VisualizeInput is the typed input of the visualization flow
type VisualizeInput struct {
	UserID                 string
	QuestionnaireResponses string
	ChatHistory            string
}

// VisualizeMentalState produces bar-chart scores and a summary from the
// user's questionnaire and chat transcripts. Every failure wraps
// ErrVisualization.
func (f *Flows) VisualizeMentalState(ctx context.Context, input VisualizeInput) (*Visualization, error) {
	var out Visualization
	if err := f.completeJSON(ctx, visualizeSystemPrompt, visualizeTemplate, input, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVisualization, err)
	}

	if err := validateVisualization(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVisualization, err)
	}
	return &out, nil
}

func validateVisualization(v *Visualization) error {
	if len(v.BarChartData) == 0 {
		return fmt.Errorf("missing field %q", "barChartData")
	}
	for _, m := range v.BarChartData {
		if m.Metric == "" {
			return fmt.Errorf("bar chart entry missing metric")
		}
		if m.Score < 0 || m.Score > 10 {
			return fmt.Errorf("score %v for metric %q out of range 0-10", m.Score, m.Metric)
		}
	}
	if v.AnalysisSummary == "" {
		return fmt.Errorf("missing field %q", "analysisSummary")
	}
	return nil
}
