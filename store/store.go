package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Storage keys. The session record is a singleton; questionnaire and chat
// records are scoped by user id.
const (
	userKey                = "therapie-user"
	questionnaireKeyPrefix = "therapie-questionnaire-"
	chatHistoryKeyPrefix   = "therapie-chat-"
)

// Placeholder strings returned by the transcript renderers when no data exists
const (
	NoQuestionnaireText = "No questionnaire data found."
	NoChatHistoryText   = "No chat history."
)

// Store persists the session, questionnaire, and chat transcript records
// over a KV medium. Reads never fail: a missing, unreadable, or malformed
// record is reported as absent.
type Store struct {
	kv KV
}

// New creates a Store over the given KV medium
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// SetSession overwrites the singleton session record
func (s *Store) SetSession(user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(userKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the active session, reporting whether one exists
func (s *Store) GetSession() (User, bool) {
	value, ok, err := s.kv.Get(userKey)
	if err != nil || !ok {
		return User{}, false
	}

	var user User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		// Corrupt record reads as absent
		return User{}, false
	}
	return user, true
}

// ClearSession deletes the active session together with its questionnaire
// and chat records. Calling it with no active session is a no-op.
func (s *Store) ClearSession() error {
	if user, ok := s.GetSession(); ok {
		if err := s.kv.Delete(questionnaireKeyPrefix + user.ID); err != nil {
			return fmt.Errorf("failed to clear questionnaire: %w", err)
		}
		if err := s.kv.Delete(chatHistoryKeyPrefix + user.ID); err != nil {
			return fmt.Errorf("failed to clear chat history: %w", err)
		}
	}
	if err := s.kv.Delete(userKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveQuestionnaire persists the answer map for userID and, when userID is
// the active session, marks that session questionnaire-complete.
func (s *Store) SaveQuestionnaire(userID string, answers QuestionnaireAnswers) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode questionnaire: %w", err)
	}
	if err := s.kv.Set(questionnaireKeyPrefix+userID, string(data)); err != nil {
		return fmt.Errorf("failed to save questionnaire: %w", err)
	}

	if user, ok := s.GetSession(); ok && user.ID == userID {
		user.QuestionnaireCompleted = true
		if err := s.SetSession(user); err != nil {
			return err
		}
	}
	return nil
}

// GetQuestionnaire returns the stored answer map for userID, reporting
// whether one exists
func (s *Store) GetQuestionnaire(userID string) (QuestionnaireAnswers, bool) {
	value, ok, err := s.kv.Get(questionnaireKeyPrefix + userID)
	if err != nil || !ok {
		return nil, false
	}

	var answers QuestionnaireAnswers
	if err := json.Unmarshal([]byte(value), &answers); err != nil {
		return nil, false
	}
	return answers, true
}

// QuestionnaireText renders the stored answers as one "Q<n>: <answer>" line
// per question, catalog order first and any unrecognized ids after in sorted
// order, so the same stored data always yields the same string.
func (s *Store) QuestionnaireText(userID string) string {
	answers, ok := s.GetQuestionnaire(userID)
	if !ok || len(answers) == 0 {
		return NoQuestionnaireText
	}

	seen := make(map[string]bool, len(answers))
	var lines []string
	for _, q := range Questions {
		if answer, ok := answers[q.ID]; ok {
			lines = append(lines, questionLabel(q.ID)+": "+answer)
			seen[q.ID] = true
		}
	}

	var extra []string
	for id := range answers {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		lines = append(lines, questionLabel(id)+": "+answers[id])
	}

	return strings.Join(lines, "\n")
}

// questionLabel shortens a question id for transcripts, e.g. "question3" -> "Q3"
func questionLabel(id string) string {
	return strings.Replace(id, "question", "Q", 1)
}

// SaveChatHistory overwrites the full message sequence for userID. Callers
// must pass the complete updated sequence, not just new messages.
func (s *Store) SaveChatHistory(userID string, messages []ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode chat history: %w", err)
	}
	if err := s.kv.Set(chatHistoryKeyPrefix+userID, string(data)); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}

// GetChatHistory returns the stored message sequence for userID in
// chronological order, or an empty sequence if none exists
func (s *Store) GetChatHistory(userID string) []ChatMessage {
	value, ok, err := s.kv.Get(chatHistoryKeyPrefix + userID)
	if err != nil || !ok {
		return nil
	}

	var messages []ChatMessage
	if err := json.Unmarshal([]byte(value), &messages); err != nil {
		return nil
	}
	return messages
}

// ChatHistoryText renders the stored transcript as one "sender: text" line
// per message in chronological order
func (s *Store) ChatHistoryText(userID string) string {
	messages := s.GetChatHistory(userID)
	if len(messages) == 0 {
		return NoChatHistoryText
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, msg.Sender+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}
