package api

import (
	_ "embed"
	"net/http"
	"ongkir-service/internal/api/dto"
	"ongkir-service/internal/api/handlers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/index.html
var indexHTML []byte

type RouterDeps struct {
	Workspaces *handlers.Workspaces
	Config     dto.ConfigResponse
	Logger     *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies.
// Handlers only see workspaces; concrete adapters are chosen in cmd/server.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(recovery(logger), requestID(), requestLogger(logger))

	quotes := &handlers.QuoteHandler{Workspaces: deps.Workspaces, Config: deps.Config}

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/health", handlers.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/config", quotes.GetConfig)
	v1.GET("/state", quotes.GetState)
	v1.POST("/search", quotes.Search)
	v1.POST("/select", quotes.Select)
	v1.POST("/map-click", quotes.MapClick)
	v1.POST("/geolocation", quotes.Geolocation)

	return r
}
