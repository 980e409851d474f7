package handlers

import (
	"smoking_chamber/internal/logger"
	"smoking_chamber/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints; reads are open, writes need a token
	h.registerAPIRoutes(router)

	// State stream over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/state", h.getState)
		h.registerProgramRoutes(api)
		h.registerPanelRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerProgramRoutes(api *gin.RouterGroup) {
	programs := api.Group("/programs")
	{
		programs.GET("", h.listPrograms)
		programs.GET("/:name", h.getProgram)
		programs.POST("", h.requireOperator, h.createProgram)
		programs.PUT("/:name", h.requireOperator, h.updateProgram)
		programs.DELETE("/:name", h.requireOperator, h.deleteProgram)
	}
}

func (h *Handler) registerPanelRoutes(api *gin.RouterGroup) {
	panel := api.Group("/panel")
	{
		// Body example: {"button":"OK"}
		panel.POST("/press", h.requireOperator, h.pressButton)
		panel.GET("/frame", h.getFrame)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
	api.GET("/runs/:run_id/events", h.getRunEvents)
}
