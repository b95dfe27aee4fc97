package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/flowforge/graphrun/engine"
	apperrors "github.com/flowforge/graphrun/errors"
	"github.com/flowforge/graphrun/server"
	"github.com/flowforge/graphrun/validation"
)

// CreateGraphRequest is a graph definition submitted for registration.
type CreateGraphRequest struct {
	StartNode string                 `json:"start_node" validate:"required"`
	Edges     map[string]engine.Edge `json:"edges"`
}

// CreateGraph validates and stores a graph definition under a fresh id.
func (h *Handler) CreateGraph(c *gin.Context) {
	var req CreateGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	id := h.graphs.Create(&engine.Graph{StartNode: req.StartNode, Edges: req.Edges})
	h.log.Info("graph registered", map[string]interface{}{
		"graph_id":   id,
		"start_node": req.StartNode,
		"edges":      len(req.Edges),
	})
	server.RespondCreated(c, gin.H{"graph_id": id})
}

// RunGraphRequest names a stored graph and optionally seeds the run state.
type RunGraphRequest struct {
	GraphID      string          `json:"graph_id" validate:"required"`
	InitialState json.RawMessage `json:"initial_state"`
}

// state builds the run's starting state, overlaying any caller-provided
// fields on the zero state.
func (r *RunGraphRequest) state() (*engine.State, error) {
	state := engine.NewState()
	if len(r.InitialState) > 0 {
		if err := json.Unmarshal(r.InitialState, state); err != nil {
			return nil, apperrors.InvalidInput("initial_state", err.Error())
		}
	}
	return state, nil
}

// RunGraph executes a stored graph in batch mode and persists the run record.
func (h *Handler) RunGraph(c *gin.Context) {
	var req RunGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	g, ok := h.graphs.Get(req.GraphID)
	if !ok {
		server.RespondWithError(c, apperrors.NotFound("graph", req.GraphID))
		return
	}

	state, err := req.state()
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	runID := h.runs.Create(state)

	final, log, err := h.engine.Run(ctx, g, h.registry, state)
	if err != nil {
		h.runs.Fail(runID, err)
		h.metrics.RecordRun(ctx, "failed")
		h.log.Error("run failed", map[string]interface{}{
			"run_id":   runID,
			"graph_id": req.GraphID,
			"error":    err.Error(),
		})
		server.RespondWithError(c, apperrors.RunFailed(err))
		return
	}
	if log == nil {
		log = []engine.LogEntry{}
	}

	h.runs.Finish(runID, final, log)
	h.metrics.RecordRun(ctx, "finished")
	for _, entry := range log {
		h.metrics.RecordStep(ctx, entry.Node, entry.End.Sub(entry.Start))
	}
	server.RespondOK(c, gin.H{
		"run_id":      runID,
		"final_state": final,
		"log":         log,
	})
}

// RunState returns a stored run record by id.
func (h *Handler) RunState(c *gin.Context) {
	id := c.Param("run_id")
	run, ok := h.runs.Get(id)
	if !ok {
		server.RespondWithError(c, apperrors.NotFound("run", id))
		return
	}
	if run.Log == nil {
		run.Log = []engine.LogEntry{}
	}
	server.RespondOK(c, run)
}

// Steps lists the registered step names.
func (h *Handler) Steps(c *gin.Context) {
	server.RespondOK(c, gin.H{"steps": h.registry.List()})
}
