// Package actions implements the application operations behind the web
// layer. Every operation returns a result with Success and a user-facing
// Message; flow and storage failures are recovered here, logged, and never
// propagate as errors.
package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"therapie-companion/flows"
	"therapie-companion/store"
	"therapie-companion/utils"
)

// User-facing messages
const (
	MsgRegistered          = "Registration successful!"
	MsgInvalidUsername     = "Username must be between 3 and 20 characters."
	MsgAllQuestions        = "All questions must be answered."
	MsgAnalysisFailed      = "Failed to analyze questionnaire."
	MsgQuestionnaireOK     = "Questionnaire submitted and analyzed!"
	MsgSaveFailed          = "Failed to save questionnaire answers."
	MsgChatFailed          = "AI chat interaction failed."
	MsgVisualizationFailed = "Failed to generate visualization."
	MsgLoginFailed         = "Login failed."
)

// Service glues the session store and the prompt flows together
type Service struct {
	store *store.Store
	flows *flows.Flows
	log   *utils.Logger
}

// NewService creates the actions service
func NewService(st *store.Store, fl *flows.Flows, log *utils.Logger) *Service {
	return &Service{
		store: st,
		flows: fl,
		log:   log.With("component", "actions"),
	}
}

// RegisterResult is the outcome of RegisterUser. Username carries the
// normalized form the caller must persist, so that a later login matches
// the stored session.
type RegisterResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
}

// RegisterUser validates the username and mints an opaque user id. The
// caller persists the resulting session; registration itself writes
// nothing.
func (s *Service) RegisterUser(username string) RegisterResult {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 20 {
		return RegisterResult{Success: false, Message: MsgInvalidUsername}
	}

	return RegisterResult{
		Success:  true,
		Message:  MsgRegistered,
		UserID:   uuid.NewString(),
		Username: username,
	}
}

// LoginResult is the outcome of LoginUser
type LoginResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    *store.User `json:"user,omitempty"`
}

// LoginUser performs the mock login: any valid username is accepted. A
// case-insensitive match against the stored session keeps that session's
// id and questionnaire flag; otherwise a fresh session is fabricated and
// the flag is derived from any questionnaire already stored under the new
// id. There is no credential check.
func (s *Service) LoginUser(username string) LoginResult {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 20 {
		return LoginResult{Success: false, Message: MsgInvalidUsername}
	}

	userID := uuid.NewString()
	questionnaireCompleted := false

	if existing, ok := s.store.GetSession(); ok && strings.EqualFold(existing.Username, username) {
		userID = existing.ID
		questionnaireCompleted = existing.QuestionnaireCompleted
	} else {
		_, questionnaireCompleted = s.store.GetQuestionnaire(userID)
	}

	user := store.User{
		ID:                     userID,
		Username:               username,
		QuestionnaireCompleted: questionnaireCompleted,
	}
	if err := s.store.SetSession(user); err != nil {
		s.log.Error("failed to persist session on login", "error", err, "username", username)
		return LoginResult{Success: false, Message: MsgLoginFailed}
	}

	return LoginResult{
		Success: true,
		Message: fmt.Sprintf("Welcome back, %s!", username),
		User:    &user,
	}
}

// Logout clears the active session together with its questionnaire and
// chat records
func (s *Service) Logout() error {
	return s.store.ClearSession()
}

// QuestionnaireResult is the outcome of SubmitQuestionnaire
type QuestionnaireResult struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Analysis *flows.MentalState `json:"analysis,omitempty"`
}

// SubmitQuestionnaire validates that every catalog question has a
// non-blank answer, runs the analysis flow, and persists the answers only
// after the analysis succeeds. A failed analysis leaves the store
// untouched.
func (s *Service) SubmitQuestionnaire(ctx context.Context, userID string, answers store.QuestionnaireAnswers) QuestionnaireResult {
	for _, q := range store.Questions {
		if strings.TrimSpace(answers[q.ID]) == "" {
			return QuestionnaireResult{Success: false, Message: MsgAllQuestions}
		}
	}

	responses := make([]string, 0, len(store.Questions))
	for _, q := range store.Questions {
		responses = append(responses, q.ID+": "+answers[q.ID])
	}

	analysis, err := s.flows.AnalyzeInitialResponses(ctx, responses)
	if err != nil {
		s.log.Error("questionnaire analysis failed", "error", err, "user_id", userID)
		return QuestionnaireResult{Success: false, Message: MsgAnalysisFailed}
	}

	if err := s.store.SaveQuestionnaire(userID, answers); err != nil {
		s.log.Error("failed to save questionnaire", "error", err, "user_id", userID)
		return QuestionnaireResult{Success: false, Message: MsgSaveFailed}
	}

	return QuestionnaireResult{
		Success:  true,
		Message:  MsgQuestionnaireOK,
		Analysis: analysis,
	}
}

// ChatResult is the outcome of ChatInteraction
type ChatResult struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	AIResponse  string             `json:"aiResponse,omitempty"`
	UserMessage *store.ChatMessage `json:"userMessage,omitempty"`
	AIMessage   *store.ChatMessage `json:"aiMessage,omitempty"`
}

// ChatInteraction runs one personalized chat turn: the stored transcripts
// are rendered, the chat flow is called, and on success both the user and
// AI messages are appended to the persisted history. On failure the
// history is left untouched.
func (s *Service) ChatInteraction(ctx context.Context, userID, userInput string) ChatResult {
	input := flows.ChatInput{
		QuestionnaireResponses: s.store.QuestionnaireText(userID),
		ChatHistory:            s.store.ChatHistoryText(userID),
		UserInput:              userInput,
	}

	reply, err := s.flows.PersonalizedChat(ctx, input)
	if err != nil {
		s.log.Error("chat interaction failed", "error", err, "user_id", userID)
		return ChatResult{Success: false, Message: MsgChatFailed}
	}

	userMsg := store.ChatMessage{
		ID:        uuid.NewString(),
		Text:      userInput,
		Sender:    store.SenderUser,
		Timestamp: time.Now().UnixMilli(),
	}
	aiMsg := store.ChatMessage{
		ID:        uuid.NewString(),
		Text:      reply,
		Sender:    store.SenderAI,
		Timestamp: time.Now().UnixMilli(),
	}

	history := append(s.store.GetChatHistory(userID), userMsg, aiMsg)
	if err := s.store.SaveChatHistory(userID, history); err != nil {
		s.log.Error("failed to save chat history", "error", err, "user_id", userID)
		return ChatResult{Success: false, Message: MsgChatFailed}
	}

	return ChatResult{
		Success:     true,
		AIResponse:  reply,
		UserMessage: &userMsg,
		AIMessage:   &aiMsg,
	}
}

// VisualizationResult is the outcome of GenerateVisualization
type VisualizationResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    *flows.Visualization `json:"data,omitempty"`
}

// GenerateVisualization renders the stored transcripts and runs the
// visualization flow. Nothing is persisted; the result is derived data.
func (s *Service) GenerateVisualization(ctx context.Context, userID string) VisualizationResult {
	input := flows.VisualizeInput{
		UserID:                 userID,
		QuestionnaireResponses: s.store.QuestionnaireText(userID),
		ChatHistory:            s.store.ChatHistoryText(userID),
	}

	data, err := s.flows.VisualizeMentalState(ctx, input)
	if err != nil {
		s.log.Error("visualization failed", "error", err, "user_id", userID)
		return VisualizationResult{Success: false, Message: MsgVisualizationFailed}
	}

	return VisualizationResult{Success: true, Data: data}
}
