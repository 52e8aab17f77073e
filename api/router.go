package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warriorguo/pipeline/api/handler"
	"github.com/warriorguo/pipeline/api/middleware"
	"github.com/warriorguo/pipeline/events"
	"github.com/warriorguo/pipeline/metrics"
	"github.com/warriorguo/pipeline/types"
)

// RouterConfig carries the collaborators of the router. Bus and Metrics are
// optional; their routes are left out when nil.
type RouterConfig struct {
	Version        string
	CatalogLatency time.Duration
	// context of background runs, cancelled on shutdown
	RunCtx  context.Context
	Bus     *events.Bus
	Metrics *metrics.Collector
}

func SetupRouter(editor types.Editor, cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.RunCtx == nil {
		cfg.RunCtx = context.Background()
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	healthHandler := handler.NewHealthHandler(cfg.Version)
	catalogHandler := handler.NewCatalogHandler(cfg.CatalogLatency)
	pipelineHandler := handler.NewPipelineHandler(editor, cfg.RunCtx)

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/nodes", catalogHandler.List)

		p := apiGroup.Group("/pipeline")
		{
			p.GET("", pipelineHandler.Get)
			p.GET("/order", pipelineHandler.Order)
			p.GET("/logs", pipelineHandler.Logs)
			p.GET("/dot", pipelineHandler.DOT)
			p.POST("/nodes", pipelineHandler.AddNode)
			p.PATCH("/nodes", pipelineHandler.NodeChanges)
			p.DELETE("/nodes/:id", pipelineHandler.RemoveNode)
			p.PATCH("/edges", pipelineHandler.EdgeChanges)
			p.DELETE("/edges/:id", pipelineHandler.RemoveEdge)
			p.POST("/connections", pipelineHandler.Connect)
			p.POST("/execute", pipelineHandler.Execute)
			p.POST("/reset", pipelineHandler.Reset)
			if cfg.Bus != nil {
				p.GET("/stream", handler.NewStreamHandler(editor, cfg.Bus).Stream)
			}
		}
	}
	return router
}
