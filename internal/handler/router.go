package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexkit/lexdoc/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Documents *DocumentHandler
	Uploads   *UploadHandler
	NLP       *NLPHandler
	Files     *FileHandler
	Health    *HealthHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/health", deps.Health.Check)
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.GET("/files/:key", deps.Files.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/documents", deps.Documents.Create)
	authGroup.GET("/documents", deps.Documents.List)
	authGroup.GET("/documents/:id", deps.Documents.Get)
	authGroup.PUT("/documents/:id", deps.Documents.Update)
	authGroup.DELETE("/documents/:id", deps.Documents.Delete)
	authGroup.PATCH("/documents/:id/summary", deps.Documents.SetSummary)
	authGroup.POST("/documents/:id/summarize", deps.Documents.Summarize)
	authGroup.POST("/documents/:id/chat", deps.Documents.Chat)

	authGroup.POST("/uploads", deps.Uploads.Upload)
	authGroup.GET("/uploads", deps.Uploads.List)
	authGroup.GET("/uploads/:id/text", deps.Uploads.Text)
	authGroup.DELETE("/uploads/:id", deps.Uploads.Delete)

	nlpGroup := authGroup.Group("/nlp")
	nlpGroup.Use(middleware.RateLimit(time.Second))
	nlpGroup.POST("/summarize", deps.NLP.Summarize)
	nlpGroup.POST("/ask", deps.NLP.Ask)
}
