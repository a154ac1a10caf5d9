package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"therapie-companion/store"
)

type registerRequest struct {
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
}

type questionnaireRequest struct {
	Answers store.QuestionnaireAnswers `json:"answers"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// activeSession resolves the single active session, or writes a 401 and
// reports false when none exists.
func (s *Server) activeSession(c *gin.Context) (store.User, bool) {
	user, ok := s.store.GetSession()
	if !ok {
		respondError(c, http.StatusUnauthorized, "no active session")
		return store.User{}, false
	}
	return user, true
}

// GET /healthz
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /api/register
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res := s.actions.RegisterUser(req.Username)
	if !res.Success {
		c.JSON(http.StatusOK, res)
		return
	}

	// Registration replaces any previous session; the questionnaire comes next
	user := store.User{
		ID:                     res.UserID,
		Username:               res.Username,
		QuestionnaireCompleted: false,
	}
	if err := s.store.SetSession(user); err != nil {
		s.log.Error("failed to persist session on register", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": res.Message,
		"user":    user,
	})
}

// POST /api/login
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	c.JSON(http.StatusOK, s.actions.LoginUser(req.Username))
}

// POST /api/logout
func (s *Server) Logout(c *gin.Context) {
	if err := s.actions.Logout(); err != nil {
		s.log.Error("logout failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to clear session")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/session
func (s *Server) GetSession(c *gin.Context) {
	user, ok := s.store.GetSession()
	if !ok {
		respondError(c, http.StatusNotFound, "no active session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GET /api/questions
func (s *Server) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": store.Questions})
}

// POST /api/questionnaire
func (s *Server) SubmitQuestionnaire(c *gin.Context) {
	user, ok := s.activeSession(c)
	if !ok {
		return
	}

	var req questionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	c.JSON(http.StatusOK, s.actions.SubmitQuestionnaire(c.Request.Context(), user.ID, req.Answers))
}

// GET /api/chat
func (s *Server) GetChatHistory(c *gin.Context) {
	user, ok := s.activeSession(c)
	if !ok {
		return
	}

	messages := s.store.GetChatHistory(user.ID)
	if messages == nil {
		messages = []store.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// POST /api/chat
func (s *Server) Chat(c *gin.Context) {
	user, ok := s.activeSession(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		respondError(c, http.StatusBadRequest, "message must not be empty")
		return
	}

	c.JSON(http.StatusOK, s.actions.ChatInteraction(c.Request.Context(), user.ID, req.Message))
}

// POST /api/visualization
func (s *Server) Visualize(c *gin.Context) {
	user, ok := s.activeSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.actions.GenerateVisualization(c.Request.Context(), user.ID))
}
