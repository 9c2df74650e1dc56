package handler

import (
	"net/http"

	"urlshortener/internal/middleware"
	"urlshortener/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(
	urlService service.URLService,
	userService service.UserService,
	tokens *middleware.TokenManager,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware для логгирования
	router.Use(func(c *gin.Context) {
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
	})

	urlHandler := NewURLHandler(urlService, logger)
	authHandler := NewAuthHandler(userService, tokens, logger)

	// Публичные эндпоинты аутентификации, с rate limiting от перебора
	public := router.Group("/api/auth/public")
	public.Use(rateLimiter.Middleware())
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	// Операции с ссылками — только для аутентифицированных пользователей
	urls := router.Group("/api/urls")
	urls.Use(middleware.Authenticate(tokens, userService))
	{
		urls.POST("/shorten", urlHandler.CreateShortURL)
		urls.GET("/myurls", urlHandler.GetUserURLs)
		urls.GET("/analytics/:shortUrl", urlHandler.GetAnalytics)
		urls.GET("/totalclicks", urlHandler.GetTotalClicks)
	}

	router.GET("/api/v1/health", HealthCheck)

	// Редирект (корневой путь) — без аутентификации
	router.GET("/:shortUrl", urlHandler.Redirect)

	return router
}

// HealthCheck для liveness-проверок
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "url-shortener",
	})
}
