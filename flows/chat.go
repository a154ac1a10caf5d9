package flows

import (
	"context"
	"fmt"
)

const chatSystemPrompt = `You are an AI assistant designed to provide personalized conversational interactions. Your responses should be tailored to the user's specific needs, interests and tone as described by their questionnaire responses and chat history.`

var chatTemplate = mustTemplate("chat", `Here are the user's responses to the initial questionnaire: {{.QuestionnaireResponses}}

Here is the user's past chat history: {{.ChatHistory}}

Now, respond to the following user input, in a way that is consistent with the above information:

{{.UserInput}}

Respond with a single JSON object of exactly this form:
{"aiResponse": "your reply to the user"}`)

// ChatInput is the typed input of the personalized chat flow. The
// questionnaire and history fields carry the store's rendered transcripts.
type ChatInput struct {
	QuestionnaireResponses string
	ChatHistory            string
	UserInput              string
}

type chatOutput struct {
	AIResponse string `json:"aiResponse"`
}

// PersonalizedChat handles one personalized chat turn: a single request,
// a single response, no streaming and no retry. Every failure wraps
// ErrChat.
func (f *Flows) PersonalizedChat(ctx context.Context, input ChatInput) (string, error) {
	var out chatOutput
	if err := f.completeJSON(ctx, chatSystemPrompt, chatTemplate, input, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChat, err)
	}

	if out.AIResponse == "" {
		return "", fmt.Errorf("%w: missing field %q", ErrChat, "aiResponse")
	}
	return out.AIResponse, nil
}
