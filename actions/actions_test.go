package actions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapie-companion/actions"
	"therapie-companion/flows"
	"therapie-companion/llm"
	"therapie-companion/store"
	"therapie-companion/utils"
)

const analysisReply = `{"mentalState":{"overallSentiment":"positive","stressLevel":"low","anxietyLevel":"low","depressionLevel":"low","summary":"Doing well overall."}}`

const visualizationReply = `{"barChartData":[{"metric":"happy","score":7},{"metric":"sad","score":2},{"metric":"anxiety","score":3},{"metric":"anger","score":1},{"metric":"depressed","score":2}],"analysisSummary":"Generally positive outlook."}`

func newService(mock *llm.MockProvider) (*actions.Service, *store.Store) {
	st := store.New(store.NewMemoryKV())
	svc := actions.NewService(st, flows.New(mock), utils.NewNopLogger())
	return svc, st
}

func allAnswered() store.QuestionnaireAnswers {
	answers := make(store.QuestionnaireAnswers, len(store.Questions))
	for _, q := range store.Questions {
		answers[q.ID] = "ok"
	}
	return answers
}

func TestRegisterUser(t *testing.T) {
	svc, _ := newService(llm.NewMockProvider())

	res := svc.RegisterUser("alice")
	require.True(t, res.Success)
	assert.Equal(t, actions.MsgRegistered, res.Message)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, "alice", res.Username)

	// Two registrations never share an id
	other := svc.RegisterUser("alice")
	assert.NotEqual(t, res.UserID, other.UserID)
}

func TestRegisterUserNormalizesUsername(t *testing.T) {
	svc, _ := newService(llm.NewMockProvider())

	// The trimmed form is what gets validated, so it is also what the
	// caller must persist
	res := svc.RegisterUser("  alice  ")
	require.True(t, res.Success)
	assert.Equal(t, "alice", res.Username)
}

func TestRegisterUserInvalidUsername(t *testing.T) {
	svc, _ := newService(llm.NewMockProvider())

	for _, username := range []string{"", "ab", "  a  ", "this-username-is-way-too-long"} {
		res := svc.RegisterUser(username)
		assert.False(t, res.Success, "username %q", username)
		assert.Equal(t, actions.MsgInvalidUsername, res.Message)
		assert.Empty(t, res.UserID)
	}
}

func TestLoginMatchesStoredSession(t *testing.T) {
	svc, st := newService(llm.NewMockProvider())

	require.NoError(t, st.SetSession(store.User{
		ID:                     "u1",
		Username:               "Alice",
		QuestionnaireCompleted: true,
	}))

	res := svc.LoginUser("alice")
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Equal(t, "u1", res.User.ID)
	assert.True(t, res.User.QuestionnaireCompleted)

	user, ok := st.GetSession()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
}

func TestLoginNewUsernameReplacesSession(t *testing.T) {
	svc, st := newService(llm.NewMockProvider())

	require.NoError(t, st.SetSession(store.User{
		ID:                     "u1",
		Username:               "alice",
		QuestionnaireCompleted: true,
	}))

	res := svc.LoginUser("bob")
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.NotEqual(t, "u1", res.User.ID)
	assert.False(t, res.User.QuestionnaireCompleted)
}

func TestLogoutClearsEverything(t *testing.T) {
	svc, st := newService(llm.NewMockProvider())

	require.NoError(t, st.SetSession(store.User{ID: "u1", Username: "alice"}))
	require.NoError(t, st.SaveChatHistory("u1", []store.ChatMessage{
		{ID: "m1", Text: "hi", Sender: store.SenderUser, Timestamp: 1},
	}))

	require.NoError(t, svc.Logout())

	_, ok := st.GetSession()
	assert.False(t, ok)
	assert.Empty(t, st.GetChatHistory("u1"))
}

func TestSubmitQuestionnaire(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Replies = []string{analysisReply}
	svc, st := newService(mock)

	require.NoError(t, st.SetSession(store.User{ID: "u1", Username: "alice"}))

	res := svc.SubmitQuestionnaire(context.Background(), "u1", allAnswered())
	require.True(t, res.Success)
	assert.Equal(t, actions.MsgQuestionnaireOK, res.Message)
	require.NotNil(t, res.Analysis)
	assert.NotEmpty(t, res.Analysis.OverallSentiment)
	assert.NotEmpty(t, res.Analysis.StressLevel)
	assert.NotEmpty(t, res.Analysis.AnxietyLevel)
	assert.NotEmpty(t, res.Analysis.DepressionLevel)
	assert.NotEmpty(t, res.Analysis.Summary)

	// Answers persisted, session flag flipped
	_, ok := st.GetQuestionnaire("u1")
	assert.True(t, ok)
	user, ok := st.GetSession()
	require.True(t, ok)
	assert.True(t, user.QuestionnaireCompleted)
}

func TestSubmitQuestionnaireBlankAnswer(t *testing.T) {
	svc, st := newService(llm.NewMockProvider())

	answers := allAnswered()
	answers["question3"] = ""

	res := svc.SubmitQuestionnaire(context.Background(), "u1", answers)
	assert.False(t, res.Success)
	assert.Equal(t, actions.MsgAllQuestions, res.Message)
	assert.Nil(t, res.Analysis)

	_, ok := st.GetQuestionnaire("u1")
	assert.False(t, ok)
}

func TestSubmitQuestionnaireAnalysisFailure(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Err = errors.New("model unavailable")
	svc, st := newService(mock)

	res := svc.SubmitQuestionnaire(context.Background(), "u1", allAnswered())
	assert.False(t, res.Success)
	assert.Equal(t, actions.MsgAnalysisFailed, res.Message)
	assert.Nil(t, res.Analysis)

	// No partial writes on failure
	_, ok := st.GetQuestionnaire("u1")
	assert.False(t, ok)
}

func TestChatInteraction(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Replies = []string{`{"aiResponse":"Hello! How are you feeling today?"}`}
	svc, st := newService(mock)

	res := svc.ChatInteraction(context.Background(), "u1", "Hello")
	require.True(t, res.Success)
	assert.NotEmpty(t, res.AIResponse)

	history := st.GetChatHistory("u1")
	require.Len(t, history, 2)
	assert.Equal(t, store.SenderUser, history[0].Sender)
	assert.Equal(t, "Hello", history[0].Text)
	assert.Equal(t, store.SenderAI, history[1].Sender)
	assert.Equal(t, res.AIResponse, history[1].Text)
	assert.LessOrEqual(t, history[0].Timestamp, history[1].Timestamp)
}

func TestChatInteractionFailureLeavesHistory(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Err = errors.New("model unavailable")
	svc, st := newService(mock)

	existing := []store.ChatMessage{
		{ID: "m1", Text: "earlier", Sender: store.SenderUser, Timestamp: 1},
	}
	require.NoError(t, st.SaveChatHistory("u1", existing))

	res := svc.ChatInteraction(context.Background(), "u1", "Hello")
	assert.False(t, res.Success)
	assert.Equal(t, actions.MsgChatFailed, res.Message)
	assert.Equal(t, existing, st.GetChatHistory("u1"))
}

func TestGenerateVisualization(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Replies = []string{visualizationReply}
	svc, _ := newService(mock)

	res := svc.GenerateVisualization(context.Background(), "u1")
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.Len(t, res.Data.BarChartData, 5)
	assert.NotEmpty(t, res.Data.AnalysisSummary)
}

func TestGenerateVisualizationFailure(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Err = errors.New("model unavailable")
	svc, _ := newService(mock)

	res := svc.GenerateVisualization(context.Background(), "u1")
	assert.False(t, res.Success)
	assert.Equal(t, actions.MsgVisualizationFailed, res.Message)
	assert.Nil(t, res.Data)
}
