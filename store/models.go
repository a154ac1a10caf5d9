package store

// Sender values for chat messages
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// User represents the single active session record
type User struct {
	ID                     string `json:"id"`
	Username               string `json:"username"`
	QuestionnaireCompleted bool   `json:"questionnaireCompleted"`
}

// QuestionnaireAnswers maps question ids to free-text answers
type QuestionnaireAnswers map[string]string

// ChatMessage represents a single message in the chat transcript
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`    // "user" or "ai"
	Timestamp int64  `json:"timestamp"` // epoch millis
}
