// Package api serves the task store over HTTP as JSON.
//
// The API is a rendering adapter: it holds no state of its own and drives
// the store through taskstore.Actions. Unknown ids are not errors, matching
// the store, so toggle, update and delete answer 204 either way.
package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/neobrutal/internal/taskstore"
)

type Handler interface {
	HandleListTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleClearCompleted(c *gin.Context)
	HandleStats(c *gin.Context)
}

type handlerImpl struct {
	tasks taskstore.Actions
}

func New(tasks taskstore.Actions) Handler {
	return &handlerImpl{tasks: tasks}
}

// NewRouter builds the gin engine with every route registered under /api/v1.
func NewRouter(tasks taskstore.Actions) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	registerRoutes(router, New(tasks))
	return router
}

func registerRoutes(router gin.IRouter, h Handler) {
	v1 := router.Group("/api/v1")

	tasks := v1.Group("/tasks")
	tasks.GET("", h.HandleListTasks)
	tasks.POST("", h.HandleCreateTask)
	tasks.PATCH("/:id", h.HandleUpdateTask)
	tasks.POST("/:id/toggle", h.HandleToggleTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	v1.POST("/clear-completed", h.HandleClearCompleted)
	v1.GET("/stats", h.HandleStats)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
