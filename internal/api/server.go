package api

import (
	"log/slog"
	"net/http"
	"time"

	"burgerstock/internal/feed"
	"burgerstock/internal/fulfillment"
	"burgerstock/internal/ledger"
	"burgerstock/internal/metrics"
	"burgerstock/internal/monitoring"
	"burgerstock/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Deps are the collaborators the HTTP layer drives. Hub, Monitor and Metrics are optional.
type Deps struct {
	Ledger   *ledger.Ledger
	Composer *order.Composer
	Engine   *fulfillment.Engine
	Hub      *feed.Hub
	Monitor  *monitoring.Monitor
	Metrics  *metrics.Collector
	Log      *slog.Logger
}

// Server represents the cashier-facing HTTP API
type Server struct {
	Router *gin.Engine

	ledger   *ledger.Ledger
	composer *order.Composer
	engine   *fulfillment.Engine
	hub      *feed.Hub
	monitor  *monitoring.Monitor
	metrics  *metrics.Collector
	log      *slog.Logger
}

// NewServer creates the router and registers every route.
func NewServer(d Deps) *Server {
	router := gin.New()

	s := &Server{
		Router:   router,
		ledger:   d.Ledger,
		composer: d.Composer,
		engine:   d.Engine,
		hub:      d.Hub,
		monitor:  d.Monitor,
		metrics:  d.Metrics,
		log:      d.Log,
	}

	router.Use(RequestID(), RequestLogger(d.Log), gin.Recovery())
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "burgerstock API is running"})
	})

	v1 := s.Router.Group("/api/v1")
	{
		// Inventory
		v1.GET("/inventory", s.ListInventory)
		v1.GET("/inventory/:name", s.GetItem)
		v1.POST("/inventory/restock", s.Restock)

		// Order forms
		v1.GET("/menu", s.GetMenu)

		// Orders
		v1.POST("/orders/burger", s.PlaceBurger)
		v1.POST("/orders/fries", s.PlaceFries)
		v1.POST("/orders/drink", s.PlaceDrink)
		v1.POST("/orders/meal", s.PlaceMeal)
		v1.GET("/orders", s.ListOrders)

		if s.monitor != nil {
			v1.GET("/stats", s.GetStats)
		}
	}

	if s.hub != nil {
		s.Router.GET("/ws/stock", s.hub.ServeWS)
	}
}

// RequestID tags every request with an id, reusing the caller's when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
