package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shrinker/internal/domain/repositories"
	usecases "shrinker/internal/usecase"
)

// Config настройки HTTP слоя
type Config struct {
	Port        string
	MaxFileSize int64
	TempDir     string
}

// Services сценарии, доступные через HTTP
type Services struct {
	Target   *usecases.CompressToTargetUseCase
	Compress *usecases.CompressPDFUseCase
	Optimize *usecases.OptimizePDFUseCase
	Logger   repositories.Logger
}

// Handler обработчики запросов
type Handler struct {
	config   Config
	services Services
}

// NewHandler создает обработчики
func NewHandler(config Config, services Services) *Handler {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	if config.TempDir == "" {
		config.TempDir = DefaultTempDir
	}
	return &Handler{config: config, services: services}
}

// NewRouter собирает gin.Engine со всеми маршрутами
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Запас на поля формы сверх самого файла
	r.MaxMultipartMemory = h.config.MaxFileSize + 1<<20
	SetupRoutes(r, h)
	return r
}

// SetupRoutes регистрирует маршруты
func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "shrinker",
		})
	})

	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/target", h.HandleTarget)
		apiGroup.POST("/compress", h.HandleCompress)
		apiGroup.POST("/optimize", h.HandleOptimize)
	}
}
