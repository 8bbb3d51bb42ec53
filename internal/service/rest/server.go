package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

// Server — HTTP-граница магазина поверх gin.
type Server struct {
	engine   *gin.Engine
	catalog  *catalog.Service
	checkout *checkout.Engine
	auth     *auth.Service
	logger   *log.Entry
}

// NewServer собирает маршруты поверх переданных сервисов.
func NewServer(catalogService *catalog.Service, checkoutEngine *checkout.Engine, authService *auth.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		engine:   engine,
		catalog:  catalogService,
		checkout: checkoutEngine,
		auth:     authService,
		logger:   log.WithField("component", "rest_server"),
	}

	engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes()
	return s
}

// Handler возвращает http.Handler для запуска сервера.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", s.listProducts)
			products.POST("", s.createProduct)
			products.GET("/all", s.listAllProducts)
			products.GET("/search", s.searchProducts)
			products.GET("/in-stock", s.listInStockProducts)
			products.GET("/:id", s.getProduct)
			products.PUT("/:id", s.updateProduct)
			products.DELETE("/:id", s.deleteProduct)
		}
		api.GET("/orders/user/:userId", s.listOrdersByUser)
	}

	cart := s.engine.Group("/cart")
	{
		cart.POST("/checkout", s.checkoutCart)
		cart.GET("/orders", s.listOrders)
		cart.GET("/orders/:id", s.getOrder)
		cart.GET("/orders/status/:status", s.listOrdersByStatus)
		cart.GET("/orders/created", s.listOrdersCreatedBetween)
		cart.POST("/orders/:id/cancel", s.cancelOrder)
	}

	authGroup := s.engine.Group("/auth")
	{
		authGroup.POST("/login", s.login)
		authGroup.POST("/register", s.register)
	}
}

// requestLogger пишет одну строку лога на запрос.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("HTTP запрос обработан")
	}
}

// parsePageQuery читает параметры пагинации из query string.
func parsePageQuery(c *gin.Context) (catalog.PageQuery, error) {
	query := catalog.PageQuery{Sort: c.Query("sort")}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.PageQuery{}, invalidQueryValue("page", raw)
		}
		query.Page = page
	}
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.PageQuery{}, invalidQueryValue("size", raw)
		}
		query.Size = size
	}
	return query, nil
}
