package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/config"
	"github.com/codapos/pos-agent/internal/presentation/http/handler"
	"github.com/codapos/pos-agent/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Printer  *handler.PrinterHandler
	Delivery *handler.DeliveryHandler
	Chat     *handler.ChatHandler
	Session  *handler.SessionHandler
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AgentAuthMiddleware(cfg.App.Token))

	window := time.Duration(cfg.RateLimit.Duration) * time.Second
	rateLimiter := middleware.NewClientRateLimiter(cfg.RateLimit.Requests, window)
	v1.Use(rateLimiter.Middleware())

	registerSessionRoutes(v1, h)
	registerPrinterRoutes(v1, h)
	registerDeliveryRoutes(v1, h)
	registerChatRoutes(v1, h)

	return router
}

func registerSessionRoutes(rg *gin.RouterGroup, h *Handlers) {
	session := rg.Group("/session")
	{
		session.POST("", h.Session.Set)
		session.GET("", h.Session.Status)
		session.DELETE("", h.Session.Clear)
	}
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printer := rg.Group("/printer")
	{
		printer.GET("/devices", h.Printer.Discover)
		printer.GET("/saved", h.Printer.Saved)
		printer.DELETE("/saved/:id", h.Printer.Forget)
		printer.POST("/connect", h.Printer.Connect)
		printer.POST("/disconnect", h.Printer.Disconnect)
		printer.GET("/status", h.Printer.Status)
		printer.POST("/print", h.Printer.Print)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/render", h.Printer.Render)
		printer.GET("/settings", h.Printer.Settings)
		printer.PUT("/settings", h.Printer.UpdateSettings)
	}
}

func registerDeliveryRoutes(rg *gin.RouterGroup, h *Handlers) {
	delivery := rg.Group("/delivery")
	{
		delivery.GET("/orders", h.Delivery.List)
		delivery.GET("/orders/:id", h.Delivery.Get)
		delivery.POST("/orders/:id/advance", h.Delivery.Advance)
		delivery.PUT("/orders/:id/courier", h.Delivery.AssignCourier)
		delivery.GET("/summary", h.Delivery.Summary)
		delivery.POST("/refresh", h.Delivery.Refresh)
	}
}

func registerChatRoutes(rg *gin.RouterGroup, h *Handlers) {
	chat := rg.Group("/chat")
	{
		chat.GET("/rooms", h.Chat.Rooms)
		chat.GET("/unread", h.Chat.Unread)
		chat.POST("/rooms/:id/open", h.Chat.Open)
		chat.GET("/rooms/:id/messages", h.Chat.Messages)
		chat.POST("/rooms/:id/messages", h.Chat.Send)
		chat.POST("/rooms/:id/close", h.Chat.Close)
	}
}
