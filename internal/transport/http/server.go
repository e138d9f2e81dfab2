package http

import (
	"github.com/gin-gonic/gin"

	"sitedocs/internal/ai"
	appsvc "sitedocs/internal/app"
	"sitedocs/internal/bootstrap"
	"sitedocs/internal/platform/rabbitmq"
	"sitedocs/internal/repository"
	"sitedocs/internal/transport/http/handler"
	"sitedocs/internal/transport/http/middleware"
)

// NewRouter wires repositories, services and handlers onto one engine.
// Optional dependencies stay nil when unconfigured; the services treat a
// nil analyzer or publisher as "feature off".
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	userRepo := repository.NewUserRepository(app.DB)
	projectRepo := repository.NewProjectRepository(app.DB)
	documentRepo := repository.NewDocumentRepository(app.DB)
	noteRepo := repository.NewNoteRepository(app.DB)

	var events appsvc.EventPublisher
	if app.MQConn != nil {
		events = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.EventQueue)
	}
	var analyzer appsvc.DocumentAnalyzer
	if app.Gemini != nil {
		analyzer = ai.NewGeminiAnalyzer(app.Gemini, app.Config.Gemini.Model)
	}

	authService := appsvc.NewAuthService(userRepo)
	projectService := appsvc.NewProjectService(projectRepo, documentRepo, userRepo, app.Blobs, events)
	noteService := appsvc.NewNoteService(noteRepo, projectRepo)
	documentService := appsvc.NewDocumentService(documentRepo, projectRepo, app.Blobs, analyzer, events)

	authHandler := handler.NewAuthHandler(authService, app.Sessions, app.Config.Auth)
	projectHandler := handler.NewProjectHandler(projectService)
	noteHandler := handler.NewNoteHandler(noteService)
	documentHandler := handler.NewDocumentHandler(documentService)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)

	authRequired := middleware.SessionAuth(app.Sessions, app.Config.Auth.CookieName)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.POST("/signout", authHandler.SignOut)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		v1.GET("/users", authRequired, authHandler.Users)

		projects := v1.Group("/projects", authRequired)
		{
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.GET("/:id", projectHandler.Get)
			projects.PATCH("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)

			projects.POST("/:id/notes", noteHandler.Add)
			projects.PUT("/:id/notes", noteHandler.Update)
			projects.DELETE("/:id/notes", noteHandler.Delete)
		}

		documents := v1.Group("/documents", authRequired)
		{
			documents.GET("", documentHandler.List)
			documents.POST("/upload", documentHandler.Upload)
			documents.GET("/:id", documentHandler.Download)
			documents.GET("/:id/metadata", documentHandler.Metadata)
			documents.DELETE("/:id", documentHandler.Delete)
			documents.POST("/:id/analyze", documentHandler.Analyze)
			documents.POST("/:id/annotations", documentHandler.Annotate)
		}
	}

	return router
}
