// Package api implements the workflow HTTP endpoints: graph registration,
// batch execution, run inspection, and streaming execution over SSE.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowforge/graphrun/engine"
	"github.com/flowforge/graphrun/logger"
	"github.com/flowforge/graphrun/observability"
	"github.com/flowforge/graphrun/store"
)

// Deps bundles the handler's collaborators.
type Deps struct {
	Engine   *engine.Engine
	Registry *engine.Registry
	Graphs   *store.Graphs
	Runs     *store.Runs
	Metrics  *observability.RunMetrics
	Log      *logger.Logger

	// StreamPace spaces outbound stream events. Zero disables pacing.
	StreamPace time.Duration
}

// Handler serves the workflow API.
type Handler struct {
	engine   *engine.Engine
	registry *engine.Registry
	graphs   *store.Graphs
	runs     *store.Runs
	metrics  *observability.RunMetrics
	log      *logger.Logger
	pace     time.Duration
}

// New creates a Handler from its dependencies.
func New(d Deps) *Handler {
	return &Handler{
		engine:   d.Engine,
		registry: d.Registry,
		graphs:   d.Graphs,
		runs:     d.Runs,
		metrics:  d.Metrics,
		log:      d.Log.WithComponent("api"),
		pace:     d.StreamPace,
	}
}

// Register mounts all workflow routes on the router.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/graph/create", h.CreateGraph)
	r.POST("/graph/run", h.RunGraph)
	r.POST("/graph/run/stream", h.StreamRun)
	r.GET("/graph/state/:run_id", h.RunState)
	r.GET("/steps", h.Steps)
}
