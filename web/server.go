// Package web exposes the application over a JSON HTTP API. It is a thin
// collaborator: handlers read the session store, call the actions layer,
// and return its results unchanged.
package web

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"therapie-companion/actions"
	"therapie-companion/store"
	"therapie-companion/utils"
)

// Server holds the handler dependencies
type Server struct {
	log     *utils.Logger
	store   *store.Store
	actions *actions.Service
}

// NewServer creates the web server
func NewServer(log *utils.Logger, st *store.Store, svc *actions.Service) *Server {
	return &Server{
		log:     log.With("component", "web"),
		store:   st,
		actions: svc,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	router.GET("/healthz", s.Health)

	api := router.Group("/api")
	{
		api.POST("/register", s.Register)
		api.POST("/login", s.Login)
		api.POST("/logout", s.Logout)
		api.GET("/session", s.GetSession)
		api.GET("/questions", s.GetQuestions)
		api.POST("/questionnaire", s.SubmitQuestionnaire)
		api.GET("/chat", s.GetChatHistory)
		api.POST("/chat", s.Chat)
		api.POST("/visualization", s.Visualize)
	}

	return router
}
