package api

import (
	"github.com/gin-gonic/gin"

	"github.com/undergroundpost/touchbase/internal/api/handler"
	"github.com/undergroundpost/touchbase/internal/api/middleware"
	"github.com/undergroundpost/touchbase/internal/config"
	"github.com/undergroundpost/touchbase/internal/logger"
	"github.com/undergroundpost/touchbase/internal/repository"
	"github.com/undergroundpost/touchbase/internal/service"
	"github.com/undergroundpost/touchbase/internal/storage"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Contacts *service.ContactService
	Leadgen  *service.LeadgenService
	AISearch *service.AISearchService

	Tags        *repository.TagRepository
	Activities  *repository.ActivityRepository
	Dashboard   *repository.DashboardRepository
	ContactRepo *repository.ContactRepository
	LeadgenRepo *repository.LeadgenRepository
	Scraper     *repository.ScraperRepository
	Files       *repository.FileRepository

	Storage storage.ObjectStorage
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(svc *Services, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))
	r.Use(middleware.SecurityHeaders())

	healthHandler := handler.NewHealthHandler()
	contactHandler := handler.NewContactHandler(svc.Contacts)
	tagHandler := handler.NewTagHandler(svc.Tags)
	activityHandler := handler.NewActivityHandler(svc.Activities)
	commHandler := handler.NewCommunicationHandler(svc.Contacts)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard, svc.ContactRepo)
	uploadHandler := handler.NewUploadHandler(svc.Storage, svc.Files)
	fileHandler := handler.NewFileHandler(svc.Storage, svc.Files)
	aiSearchHandler := handler.NewAISearchHandler(svc.AISearch)
	leadgenHandler := handler.NewLeadgenHandler(svc.Leadgen, svc.LeadgenRepo)
	scraperHandler := handler.NewScraperHandler(svc.Scraper)

	r.GET("/health", healthHandler.Health)

	apiGroup := r.Group("/api")
	{
		contacts := apiGroup.Group("/contacts")
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.POST("/bulk-delete", contactHandler.BulkDelete)
			contacts.POST("/bulk-contact", contactHandler.BulkContact)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
			contacts.POST("/:id/contact", contactHandler.MarkContacted)
			contacts.GET("/:id/tags", contactHandler.ListContactTags)
			contacts.POST("/:id/tags", contactHandler.AddContactTag)
			contacts.DELETE("/:id/tags/:tagId", contactHandler.RemoveContactTag)
		}

		tags := apiGroup.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.POST("", tagHandler.CreateTag)
			tags.PUT("/:id", tagHandler.UpdateTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)
		}

		apiGroup.GET("/activities", activityHandler.ListActivities)
		apiGroup.POST("/activities", activityHandler.CreateActivity)

		apiGroup.PUT("/communications/:id", commHandler.UpdateCommunication)
		apiGroup.DELETE("/communications/:id", commHandler.DeleteCommunication)

		apiGroup.GET("/dashboard", dashboardHandler.GetDashboard)
		apiGroup.GET("/export", dashboardHandler.ExportContacts)
		apiGroup.GET("/metadata", dashboardHandler.GetMetadata)
		apiGroup.POST("/upload", uploadHandler.Upload)
		apiGroup.GET("/files/:id", fileHandler.Download)
		apiGroup.DELETE("/files/:id", fileHandler.Delete)

		apiGroup.POST("/ai/search", aiSearchHandler.Search)

		leadgen := apiGroup.Group("/leadgen")
		{
			leadgen.GET("/config", leadgenHandler.GetConfig)
			leadgen.POST("/config", leadgenHandler.UpdateConfig)
			leadgen.POST("/run", leadgenHandler.Run)
			leadgen.POST("/cancel", leadgenHandler.Cancel)
			leadgen.GET("/progress", leadgenHandler.Progress)
			leadgen.GET("/sessions", leadgenHandler.Sessions)
		}

		scraper := apiGroup.Group("/scraper")
		{
			scraper.GET("/config", scraperHandler.GetConfig)
			scraper.POST("/config", scraperHandler.UpdateConfig)
			scraper.GET("/customers/count", scraperHandler.CustomerCount)
		}
	}

	return r
}
